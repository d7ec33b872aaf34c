package main

import (
	"github.com/spf13/cobra"
)

func newMCPStdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-stdio",
		Short: "Serve the search_shoes tool over stdio",
		Long: `Serve the search as an MCP tool on stdin/stdout, for assistants that
launch tools as subprocesses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return a.MCP.ServeStdio()
		},
	}
}
