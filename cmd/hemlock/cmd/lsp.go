package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	lspStdio bool
	lspTCP   int
)

// lspCmd is an explicit stub: the Language Server Protocol front-end
// is a separate subsystem (spec §1's Non-goals), not part of the
// language core this module implements.
var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the Hemlock language server (not implemented)",
	Long: `The Hemlock LSP front-end is a separate subsystem from the
language core implemented here and is not included in this module.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return fmt.Errorf("hemlock lsp: not implemented in this module")
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
	lspCmd.Flags().BoolVar(&lspStdio, "stdio", false, "serve over stdio")
	lspCmd.Flags().IntVar(&lspTCP, "tcp", 0, "serve over TCP on the given port")
}
