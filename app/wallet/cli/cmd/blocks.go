package cmd

import (
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks of the chain.",
	RunE:  blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVarP(&accountName, "account", "a", "", "Only blocks with a transaction for the account.")
}

func blocksRun(cmd *cobra.Command, args []string) error {
	path := "/v1/blocks/list"
	if accountName != "" {
		path += "/" + accountName
	}

	var blocks []database.Block
	if err := call(http.MethodGet, path, nil, &blocks); err != nil {
		return err
	}

	for _, block := range blocks {
		printBlock(block)
	}

	return nil
}
