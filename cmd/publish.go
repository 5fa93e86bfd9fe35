package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petebuzzell-ad/rudis-documentation/internal/config"
	"github.com/petebuzzell-ad/rudis-documentation/internal/inventory"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
	"github.com/petebuzzell-ad/rudis-documentation/internal/shopify"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Manage the Google & YouTube sales channel",
}

// batchResult tallies a batch unpublish run.
type batchResult struct {
	Total        int
	Success      int
	Failed       int
	NotPublished int
	Errors       []batchError
}

type batchError struct {
	ProductID string
	Err       error
}

func printBatchSummary(results batchResult) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Println("Summary:")
	fmt.Printf("  Total: %d\n", results.Total)
	fmt.Printf("  Success: %d\n", results.Success)
	fmt.Printf("  Failed: %d\n", results.Failed)
	fmt.Printf("  Not Published: %d\n", results.NotPublished)

	if len(results.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(results.Errors))
		shown := results.Errors
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, e := range shown {
			fmt.Printf("  - Product %s: %v\n", e.ProductID, e.Err)
		}
		if len(results.Errors) > 10 {
			fmt.Printf("  ... and %d more\n", len(results.Errors)-10)
		}
	}
}

// confirm prompts on stdin and accepts only the literal answer "yes".
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "yes"
}

func newShopifyClient() (*shopify.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateShopifyConfig(cfg); err != nil {
		return nil, err
	}
	logging.Debug("shopify configuration",
		"store", cfg.Shopify.Store,
		"api_version", cfg.Shopify.APIVersion,
		"token", logging.MaskSensitive(cfg.Shopify.AccessToken))
	return shopify.NewClient(cfg.Shopify), nil
}

// publishUnpublishCmd removes flagged products from the Google & YouTube
// sales channel, reading the candidate list produced by `inventory flag`.
var publishUnpublishCmd = &cobra.Command{
	Use:   "unpublish",
	Short: "Unpublish flagged products from Google & YouTube",
	Long: `Unpublish products from the Google & YouTube sales channel. Reads the
candidate list written by 'rudis inventory flag'.

Products already absent from the channel are counted separately, not as
failures. One product failing does not stop the batch.

Requires SHOPIFY_STORE and SHOPIFY_ACCESS_TOKEN. The publication is found
by name unless GOOGLE_YOUTUBE_PUBLICATION_ID is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading candidate list: %w", err)
		}
		var analysis inventory.FlagAnalysis
		if err := json.Unmarshal(data, &analysis); err != nil {
			return fmt.Errorf("parsing candidate list: %w", err)
		}

		if len(analysis.Products) == 0 {
			fmt.Println("No products to unpublish.")
			return nil
		}
		fmt.Printf("Found %d products to unpublish\n", len(analysis.Products))

		client, err := newShopifyClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		publicationID, err := client.ResolvePublication(ctx)
		if err != nil {
			return err
		}
		logging.Info("resolved publication", "publication_id", publicationID)

		fmt.Printf("\nAbout to unpublish %d products from Google & YouTube\n", len(analysis.Products))
		fmt.Println("This action cannot be easily undone.")
		if !dryRun && !yes {
			if !confirm("\nContinue? (yes/no): ") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if dryRun {
			fmt.Printf("\nDRY RUN MODE - No changes will be made\n")
			fmt.Printf("Would unpublish %d products\n\n", len(analysis.Products))
		} else {
			fmt.Println("\nUnpublishing products...")
			fmt.Println()
		}

		results := batchResult{Total: len(analysis.Products)}
		for i, product := range analysis.Products {
			fmt.Printf("[%d/%d] Processing product %s... ", i+1, results.Total, product.ProductID)

			if dryRun {
				fmt.Println("OK (dry run)")
				results.Success++
				continue
			}

			removed, err := client.Unpublish(ctx, publicationID, product.ProductID)
			switch {
			case err != nil:
				fmt.Printf("Error: %v\n", err)
				results.Failed++
				results.Errors = append(results.Errors, batchError{product.ProductID, err})
			case removed:
				fmt.Println("Unpublished")
				results.Success++
			default:
				fmt.Println("Not published")
				results.NotPublished++
			}
		}

		printBatchSummary(results)
		return nil
	},
}

// publishSyncCmd reconciles channel membership with the metafield flag set
// by Shopify Flow: flagged products come off the channel, unflagged ones go
// back on.
var publishSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync channel membership with the exclusion metafield",
	Long: `Reconcile Google & YouTube channel membership with the ` + shopify.MetafieldNamespace + `.` + shopify.MetafieldKey + `
metafield set by Shopify Flow. Products flagged true are unpublished;
products flagged false are republished. Products already in the desired
state are left alone.

Every action is appended to a JSON log so scheduled runs leave an audit
trail. Designed to run as a scheduled job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, err := cmd.Flags().GetString("log")
		if err != nil {
			return err
		}
		record := func(action, productID, status, details string) {
			if err := shopify.AppendActionLog(logPath, shopify.NewActionEntry(action, productID, status, details)); err != nil {
				logging.Warn("failed to write action log", "error", err)
			}
		}

		client, err := newShopifyClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		publicationID, err := client.ResolvePublication(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Publication ID: %s\n", publicationID)

		fmt.Println("\nFinding products to unpublish (google_ads_exclude = true)...")
		toUnpublish, err := client.ProductsWithMetafield(ctx, true)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d products to unpublish\n", len(toUnpublish))

		fmt.Println("\nFinding products to republish (google_ads_exclude = false)...")
		toRepublish, err := client.ProductsWithMetafield(ctx, false)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d products to republish\n", len(toRepublish))

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("Unpublishing products...")
		unpublished := 0
		for _, product := range toUnpublish {
			id := fmt.Sprintf("%d", product.ID)
			removed, err := client.Unpublish(ctx, publicationID, id)
			switch {
			case err != nil:
				fmt.Printf("Error unpublishing %s: %v\n", product.Handle, err)
				logging.Error("unpublish failed", "product_id", id, "handle", product.Handle, "error", err)
				record("unpublish", id, "error", err.Error())
			case removed:
				fmt.Printf("Unpublished: %s (%s)\n", product.Handle, id)
				logging.Info("unpublished", "product_id", id, "handle", product.Handle)
				record("unpublish", id, "success", product.Handle)
				unpublished++
			default:
				fmt.Printf("Already unpublished: %s\n", product.Handle)
			}
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("Republishing products...")
		republished := 0
		for _, product := range toRepublish {
			id := fmt.Sprintf("%d", product.ID)
			published, err := client.IsPublished(ctx, publicationID, id)
			if err != nil {
				fmt.Printf("Error checking %s: %v\n", product.Handle, err)
				logging.Error("publication check failed", "product_id", id, "handle", product.Handle, "error", err)
				continue
			}
			if published {
				fmt.Printf("Already published: %s\n", product.Handle)
				continue
			}
			if err := client.Publish(ctx, publicationID, id); err != nil {
				fmt.Printf("Error republishing %s: %v\n", product.Handle, err)
				logging.Error("republish failed", "product_id", id, "handle", product.Handle, "error", err)
				record("republish", id, "error", err.Error())
				continue
			}
			fmt.Printf("Republished: %s (%s)\n", product.Handle, id)
			logging.Info("republished", "product_id", id, "handle", product.Handle)
			record("republish", id, "success", product.Handle)
			republished++
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("Summary:")
		fmt.Printf("  Unpublished: %d\n", unpublished)
		fmt.Printf("  Republished: %d\n", republished)
		fmt.Printf("  Log file: %s\n", logPath)
		return nil
	},
}

func init() {
	publishUnpublishCmd.Flags().StringP("input", "i", "products_to_unpublish.json",
		"candidate list from 'rudis inventory flag'")
	publishUnpublishCmd.Flags().Bool("dry-run", false, "show what would happen without making changes")
	publishUnpublishCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	publishSyncCmd.Flags().String("log", "unpublish_log.json", "JSON action log path")

	publishCmd.AddCommand(publishUnpublishCmd)
	publishCmd.AddCommand(publishSyncCmd)
}
