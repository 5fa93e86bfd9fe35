// Package csvio reads header-driven CSV exports into named records.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one data row keyed by header name. Exports repeat some headers
// (JIRA emits one "Comment" column per comment), so a record keeps the
// header list alongside the cells instead of collapsing into a map.
type Record struct {
	headers []string
	cells   []string
	index   map[string]int
}

// Get returns the first cell under the named header with surrounding
// whitespace stripped, or "" when the header is absent.
func (r Record) Get(name string) string {
	i, ok := r.index[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Values returns every non-empty cell under the named header in column
// order. Used for repeated columns like "Comment".
func (r Record) Values(name string) []string {
	var out []string
	for i, h := range r.headers {
		if h != name {
			continue
		}
		if v := strings.TrimSpace(r.cells[i]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ReadFile loads a CSV export into records in file order. A UTF-8 byte
// order mark on the first header cell is stripped. A missing file is
// returned as an error for the caller to report; malformed rows shorter
// than the header are padded with empty cells rather than rejected.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv export: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV from r using the first row as the header.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	// First occurrence wins for duplicated headers; Values exposes the rest.
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		records = append(records, Record{
			headers: headers,
			cells:   row,
			index:   index,
		})
	}

	return records, nil
}
