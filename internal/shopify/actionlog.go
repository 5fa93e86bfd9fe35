package shopify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// actionLogCap bounds the on-disk history for scheduled runs.
const actionLogCap = 1000

// ActionEntry is one publish/unpublish outcome in the scheduled-run log.
type ActionEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
	Details   string `json:"details,omitempty"`
}

// NewActionEntry stamps an entry with the current time.
func NewActionEntry(action, productID, status, details string) ActionEntry {
	return ActionEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Action:    action,
		ProductID: productID,
		Status:    status,
		Details:   details,
	}
}

// AppendActionLog appends an entry to the JSON log at path, keeping only the
// most recent entries. A missing or unreadable log starts fresh rather than
// failing the run.
func AppendActionLog(path string, entry ActionEntry) error {
	var entries []ActionEntry
	if data, err := os.ReadFile(path); err == nil {
		// Corrupt history is discarded, not fatal.
		_ = json.Unmarshal(data, &entries)
	}

	entries = append(entries, entry)
	if len(entries) > actionLogCap {
		entries = entries[len(entries)-actionLogCap:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding action log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing action log: %w", err)
	}
	return nil
}
