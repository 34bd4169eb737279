// Package cmd defines the CLI commands for the courtcrawler executable.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courtcrawler",
		Short: "Crawls a judicial records portal and archives judgement PDFs",
		Long: `courtcrawler walks every configured (category, year) combination of a
judicial records portal, paginates through the search results, and uploads
each discovered judgement PDF to the configured blob sink.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute runs the CLI and returns its exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
