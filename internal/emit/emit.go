// Package emit writes analysis results to disk as JSON, CSV, or Markdown.
// All three writers are pure projections of an already-computed aggregate;
// nothing here recomputes or mutates.
package emit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// WriteJSON serializes v with two-space indentation. HTML escaping is
// disabled so product titles and issue summaries keep their literal runes.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json output: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json output: %w", err)
	}
	return nil
}

// WriteCSV writes a fixed header row followed by the given rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteMarkdown joins the report lines and writes them as one document.
func WriteMarkdown(path string, lines []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}

// Truncate limits free-text table cells to a fixed character budget so long
// titles don't break table layout.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
