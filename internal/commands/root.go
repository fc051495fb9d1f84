// Package commands implements the recon_cli offline diagnostics.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recon_cli",
		Short: "Offline bank statement parsing and matching diagnostics",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
