// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Variant represents a single purchasable configuration of a product,
// parsed from one row of a Shopify products export.
type Variant struct {
	// ID is the Shopify variant identifier
	ID string `json:"variant_id"`

	// SKU is the merchant-assigned stock keeping unit
	SKU string `json:"variant_sku"`

	// Title is the joined option values (e.g. "Royal / Small"),
	// or "Default Title" for single-variant products
	Title string `json:"variant_title,omitempty"`

	// Option name/value pairs as exported (up to three)
	Option1Name  string `json:"option1_name,omitempty"`
	Option1Value string `json:"option1_value,omitempty"`
	Option2Name  string `json:"option2_name,omitempty"`
	Option2Value string `json:"option2_value,omitempty"`
	Option3Name  string `json:"option3_name,omitempty"`
	Option3Value string `json:"option3_value,omitempty"`

	// InventoryQty is the coerced on-hand quantity, never negative
	InventoryQty int `json:"inventory_qty"`

	// InStock is true when InventoryQty > 0
	InStock bool `json:"is_in_stock"`
}

// Product groups the variants that share a product ID in the export.
type Product struct {
	ID        string    `json:"product_id"`
	Handle    string    `json:"handle"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	Published string    `json:"published"`
	Variants  []Variant `json:"variants"`
}

// Comment is one parsed JIRA comment cell. The export packs comments as
// "timestamp;author;text"; cells that don't match that shape keep only Text.
type Comment struct {
	Timestamp string `json:"timestamp,omitempty"`
	Author    string `json:"user_id,omitempty"`
	Text      string `json:"text"`
}

// Issue represents one row of a JIRA CSV export with its fields coerced.
// Nil pointer fields mean the export cell was blank or unparseable; that
// absence is deliberately distinct from a zero value so averages over
// estimates stay meaningful.
type Issue struct {
	// Key is the full issue identifier (e.g. "RUD-123")
	Key string

	// Summary is the issue's title line
	Summary string

	// Description is the full body text, possibly empty
	Description string

	// Type is the JIRA issue type (e.g. "Story", "Bug", "Epic")
	Type string

	// Status is the current workflow status
	Status string

	// Priority defaults to the literal "None" when the export cell is blank
	Priority string

	// Custom fields carried through from the export
	RequestType string
	Team        string
	Category    string
	EpicName    string

	Assignee string
	Reporter string

	Created  *time.Time
	Updated  *time.Time
	Resolved *time.Time

	// StoryPoints is nil when no estimate was recorded
	StoryPoints *float64

	// Time tracking fields, in seconds
	OriginalEstimate  *float64
	RemainingEstimate *float64
	TimeSpent         *float64
	BaselineEstimate  *float64

	Comments []Comment
}

// ResolutionDays returns the whole days between creation and resolution,
// or nil when either timestamp is missing.
func (i Issue) ResolutionDays() *int {
	if i.Created == nil || i.Resolved == nil {
		return nil
	}
	days := int(i.Resolved.Sub(*i.Created).Hours() / 24)
	return &days
}

// IsResolved reports whether the issue has reached a terminal status.
func (i Issue) IsResolved() bool {
	switch i.Status {
	case "Done", "Closed":
		return true
	}
	return false
}

// IsStuck reports whether the issue sits in a status that needs outside
// input before work can continue.
func (i Issue) IsStuck() bool {
	switch i.Status {
	case "Hold", "Update Requirements", "Needs Estimate", "Waiting for Approval":
		return true
	}
	return false
}
