// Package cmd provides the command-line interface for the rudis tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rudis",
	Short: "RUDIS storefront analysis and sales channel management",
	Long: `rudis analyzes Shopify product exports and JIRA issue exports for the
RUDIS storefront, and manages the Google & YouTube sales channel.

Analysis commands work offline from CSV exports. Publication commands talk
to the Shopify Admin API and require credentials.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(jiraCmd)
	rootCmd.AddCommand(publishCmd)
}
