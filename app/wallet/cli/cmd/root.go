// Package cmd contains the ledger wallet app.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Your simple ledger wallet",
	SilenceUsage: true,
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
