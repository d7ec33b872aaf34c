package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shoefinder/backend/config"
	"github.com/shoefinder/backend/internal/app"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "shoesearch",
		Short: "Search the shoe catalog from the command line",
		Long: `shoesearch runs the same search as the HTTP API against the configured
storefront, or serves it as an MCP tool over stdio.

Configuration is read from config.yaml, .env and SHOEFINDER_* variables.

Example usage:
  shoesearch search wool runner 42         # EU 42 is searched as US 9
  shoesearch search dasher --gender women  # women's products only
  shoesearch mcp-stdio                     # serve the search_shoes tool`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries results (and the MCP stream), so logs go to stderr or nowhere
			log.SetFlags(log.Ldate | log.Ltime)
			if verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newMCPStdioCmd())

	return rootCmd
}

// loadApp loads configuration and assembles the components
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}
