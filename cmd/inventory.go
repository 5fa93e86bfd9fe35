package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/petebuzzell-ad/rudis-documentation/internal/csvio"
	"github.com/petebuzzell-ad/rudis-documentation/internal/inventory"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Analyze product inventory from a Shopify CSV export",
}

// inventoryAnalyzeCmd builds the inventory health report for active
// products: per-product stock coverage, option-level out-of-stock
// breakdowns, and catalog-wide statistics.
var inventoryAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report inventory health for active products",
	Long: `Analyze a Shopify product CSV export and report inventory health for
active products: which products have out-of-stock variants, how stock
breaks down across style and size options, and catalog-wide statistics.

Writes JSON, CSV, and Markdown outputs into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		outputDir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			return err
		}

		records, err := csvio.ReadFile(input)
		if err != nil {
			return err
		}
		products := inventory.GroupProducts(records)
		analysis := inventory.Analyze(products)

		logging.Info("inventory analysis complete",
			"total_products", analysis.Stats.TotalProducts,
			"active", analysis.Stats.ProductsActive,
			"with_oos_variants", analysis.Stats.ProductsWithOOS)

		jsonPath := filepath.Join(outputDir, "inventory-analysis.json")
		csvPath := filepath.Join(outputDir, "inventory-analysis.csv")
		reportPath := filepath.Join(outputDir, "inventory-analysis.md")

		if err := inventory.WriteAnalysisJSON(jsonPath, analysis); err != nil {
			return err
		}
		if err := inventory.WriteAnalysisCSV(csvPath, analysis); err != nil {
			return err
		}
		if err := inventory.WriteAnalysisReport(reportPath, analysis, time.Now()); err != nil {
			return err
		}

		fmt.Printf("Analyzed %d products (%d active)\n", analysis.Stats.TotalProducts, analysis.Stats.ProductsActive)
		fmt.Printf("Reports written:\n  %s\n  %s\n  %s\n", jsonPath, csvPath, reportPath)
		return nil
	},
}

// inventoryFlagCmd identifies products whose in-stock variant count is at
// or below the threshold. Its JSON output feeds `rudis publish unpublish`.
var inventoryFlagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Flag low-stock products for sales channel removal",
	Long: `Flag products with few in-stock variants as candidates for removal from
the Google & YouTube sales channel. Products at or below the threshold of
in-stock variants are flagged regardless of status.

The JSON output is the input for 'rudis publish unpublish'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		outputDir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			return err
		}
		threshold, err := cmd.Flags().GetInt("threshold")
		if err != nil {
			return err
		}

		records, err := csvio.ReadFile(input)
		if err != nil {
			return err
		}
		products := inventory.GroupProducts(records)
		analysis := inventory.FlagLowStock(products, threshold)

		logging.Info("flag analysis complete",
			"products_analyzed", analysis.Stats.ProductsAnalyzed,
			"flagged", analysis.Stats.ProductsFlagged,
			"threshold", threshold)

		jsonPath := filepath.Join(outputDir, "products_to_unpublish.json")
		csvPath := filepath.Join(outputDir, "products_to_unpublish.csv")
		reportPath := filepath.Join(outputDir, "unpublish-analysis.md")

		if err := inventory.WriteFlagJSON(jsonPath, analysis); err != nil {
			return err
		}
		if err := inventory.WriteFlagCSV(csvPath, analysis); err != nil {
			return err
		}
		if err := inventory.WriteFlagReport(reportPath, analysis, time.Now()); err != nil {
			return err
		}

		fmt.Printf("Flagged %d of %d products (≤%d in-stock variants)\n",
			analysis.Stats.ProductsFlagged, analysis.Stats.ProductsAnalyzed, threshold)
		fmt.Printf("Reports written:\n  %s\n  %s\n  %s\n", jsonPath, csvPath, reportPath)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{inventoryAnalyzeCmd, inventoryFlagCmd} {
		c.Flags().StringP("input", "i", "", "Shopify product CSV export")
		c.Flags().StringP("output-dir", "o", ".", "directory for generated reports")
		c.MarkFlagRequired("input")
	}
	inventoryFlagCmd.Flags().IntP("threshold", "t", inventory.DefaultThreshold,
		"flag products with this many or fewer in-stock variants")

	inventoryCmd.AddCommand(inventoryAnalyzeCmd)
	inventoryCmd.AddCommand(inventoryFlagCmd)
}
