package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/petebuzzell-ad/rudis-documentation/internal/emit"
)

const tableCap = 50

// WriteAnalysisJSON writes the full analysis for downstream tooling.
func WriteAnalysisJSON(path string, analysis Analysis) error {
	return emit.WriteJSON(path, analysis)
}

// analysisCSVHeader is the fixed column list for the health report CSV.
var analysisCSVHeader = []string{
	"Product ID",
	"Handle",
	"Title",
	"URL",
	"Status",
	"Published",
	"Total Variants",
	"In Stock Variants",
	"Out of Stock Variants",
	"Inventory %",
	"Option 1 Name",
	"Option 2 Name",
	"Option 1 Values",
	"Option 2 Values",
}

// WriteAnalysisCSV writes one row per product with out-of-stock variants.
// Option value sets become a single comma-delimited cell.
func WriteAnalysisCSV(path string, analysis Analysis) error {
	rows := make([][]string, 0, len(analysis.ProductsWithOOS))
	for _, p := range analysis.ProductsWithOOS {
		rows = append(rows, []string{
			p.ProductID,
			p.Handle,
			p.Title,
			p.URL,
			p.Status,
			p.Published,
			fmt.Sprintf("%d", p.TotalVariants),
			fmt.Sprintf("%d", p.InStockVariants),
			fmt.Sprintf("%d", p.OutOfStockVariants),
			fmt.Sprintf("%.1f", p.InventoryPercentage),
			p.Option1Name,
			p.Option2Name,
			strings.Join(p.Option1Values, ", "),
			strings.Join(p.Option2Values, ", "),
		})
	}
	return emit.WriteCSV(path, analysisCSVHeader, rows)
}

// WriteAnalysisReport renders the Markdown inventory health report.
func WriteAnalysisReport(path string, analysis Analysis, now time.Time) error {
	stats := analysis.Stats
	products := analysis.ProductsWithOOS

	partialOOS := 0
	mostlyOOS := 0
	for _, p := range products {
		if p.OutOfStockVariants > 0 && p.InStockVariants > 0 {
			partialOOS++
		}
		if p.InventoryPercentage < 50 {
			mostlyOOS++
		}
	}

	lines := []string{
		"# Inventory Analysis Report - Active Products Only",
		"",
		fmt.Sprintf("**Generated:** %s", now.Format("2006-01-02 15:04:05")),
		"",
		"## Overall Statistics",
		"",
		fmt.Sprintf("- **Total Products in Catalog:** %d", stats.TotalProducts),
		fmt.Sprintf("- **Active Products Analyzed:** %d", stats.ProductsActive),
		fmt.Sprintf("- **Inactive Products Skipped:** %d", stats.ProductsInactive),
		fmt.Sprintf("- **Total Variants Analyzed:** %d", stats.TotalVariants),
		fmt.Sprintf("- **Total In-Stock Variants:** %d", stats.TotalInStock),
		fmt.Sprintf("- **Total Out-of-Stock Variants:** %d", stats.TotalOutOfStock),
		"",
		"## Product Inventory Health (Active Products)",
		"",
		fmt.Sprintf("- **Products Fully In Stock:** %d (%.1f%%)", stats.ProductsFullyInStock, Percentage(stats.ProductsFullyInStock, stats.ProductsActive)),
		fmt.Sprintf("- **Products Fully Out of Stock:** %d (%.1f%%)", stats.ProductsFullyOOS, Percentage(stats.ProductsFullyOOS, stats.ProductsActive)),
		fmt.Sprintf("- **Products with Mixed Inventory:** %d (%.1f%%)", stats.ProductsWithOOS, Percentage(stats.ProductsWithOOS, stats.ProductsActive)),
		"",
		"## Products with Out-of-Stock Variants",
		"",
		fmt.Sprintf("**Total Active Products with OOS Variants:** %d", len(products)),
		fmt.Sprintf("- **Products with Partial Inventory:** %d (have both in-stock and out-of-stock variants)", partialOOS),
		fmt.Sprintf("- **Products Mostly Out of Stock (<50%% inventory):** %d", mostlyOOS),
		"",
		"## Top Products by Out-of-Stock Count",
		"",
		"| Product ID | Handle | Title | Total | In Stock | OOS | Inventory % |",
		"|------------|--------|-------|-------|----------|-----|-------------|",
	}

	shown := products
	if len(shown) > tableCap {
		shown = shown[:tableCap]
	}
	for _, p := range shown {
		lines = append(lines, fmt.Sprintf("| %s | `%s` | %s | %d | %d | %d | %.1f%% |",
			p.ProductID, p.Handle, emit.Truncate(p.Title, 40),
			p.TotalVariants, p.InStockVariants, p.OutOfStockVariants, p.InventoryPercentage))
	}
	if len(products) > tableCap {
		lines = append(lines, "", fmt.Sprintf("*... and %d more products*", len(products)-tableCap))
	}

	lines = append(lines,
		"",
		"## Analysis Notes",
		"",
		"- This analysis identifies products with broken inventory patterns across styles and sizes",
		"- Products with mixed inventory (some variants in stock, some out) may indicate inventory management issues",
		"- Review the CSV file for detailed breakdown by style/size options",
	)

	return emit.WriteMarkdown(path, lines)
}

// flagCSVHeader is the fixed column list for the unpublish candidate CSV.
var flagCSVHeader = []string{
	"Product ID",
	"Handle",
	"Title",
	"URL",
	"Status",
	"Published",
	"Total Variants",
	"In Stock Variants",
	"Out of Stock Variants",
}

// WriteFlagJSON writes the unpublish candidates; the publish unpublish
// command reads this file back.
func WriteFlagJSON(path string, analysis FlagAnalysis) error {
	return emit.WriteJSON(path, analysis)
}

// WriteFlagCSV writes one row per flagged product.
func WriteFlagCSV(path string, analysis FlagAnalysis) error {
	rows := make([][]string, 0, len(analysis.Products))
	for _, p := range analysis.Products {
		rows = append(rows, []string{
			p.ProductID,
			p.Handle,
			p.Title,
			p.URL,
			p.Status,
			p.Published,
			fmt.Sprintf("%d", p.TotalVariants),
			fmt.Sprintf("%d", p.InStockVariants),
			fmt.Sprintf("%d", p.OutOfStockVariants),
		})
	}
	return emit.WriteCSV(path, flagCSVHeader, rows)
}

// WriteFlagReport renders the Markdown unpublish analysis.
func WriteFlagReport(path string, analysis FlagAnalysis, now time.Time) error {
	stats := analysis.Stats
	lines := []string{
		"# Google & YouTube Unpublish Analysis",
		"",
		fmt.Sprintf("**Generated:** %s", now.Format("2006-01-02 15:04:05")),
		"",
		"## Summary",
		"",
		fmt.Sprintf("- **Total Products Analyzed:** %d", stats.ProductsAnalyzed),
		fmt.Sprintf("- **Total Variants Analyzed:** %d", stats.TotalVariants),
		fmt.Sprintf("- **Total In-Stock Variants:** %d", stats.TotalInStock),
		fmt.Sprintf("- **Total Out-of-Stock Variants:** %d", stats.TotalOutOfStock),
		fmt.Sprintf("- **Products with ≤%d In-Stock Variants:** %d", stats.Threshold, stats.ProductsFlagged),
		"",
		"## Criteria",
		"",
		fmt.Sprintf("Products are flagged for unpublishing from the Google & YouTube sales channel if they have **%d or fewer in-stock variants** (inventory quantity > 0).", stats.Threshold),
		"",
		"This keeps products with limited size availability out of Google Shopping.",
		"",
		"## Products to Unpublish",
		"",
		fmt.Sprintf("**Total Products:** %d", len(analysis.Products)),
		"",
		"| Product ID | Handle | Title | Total Variants | In Stock | Out of Stock | URL |",
		"|------------|--------|-------|----------------|----------|---------------|-----|",
	}

	for _, p := range analysis.Products {
		lines = append(lines, fmt.Sprintf("| %s | `%s` | %s | %d | %d | %d | [View](%s) |",
			p.ProductID, p.Handle, emit.Truncate(p.Title, 50),
			p.TotalVariants, p.InStockVariants, p.OutOfStockVariants, p.URL))
	}

	lines = append(lines,
		"",
		"## Next Steps",
		"",
		"1. Review the products listed above",
		"2. Run `rudis publish unpublish` to remove them from the Google & YouTube sales channel (requires API credentials)",
	)

	return emit.WriteMarkdown(path, lines)
}
