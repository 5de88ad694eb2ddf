// Package cmd implements the uiforge command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uiforge",
	Short: "uiforge - AI-assisted UI generation service",
	Long: `uiforge turns natural-language requests into working UI code through
a multi-agent pipeline: a planner interprets the request, a generator
produces component code, contract checks auto-fix and validate the
result, and an explainer describes what was built. Every result is kept
in per-session version history with rollback.

Run 'uiforge serve' to start the HTTP API.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
