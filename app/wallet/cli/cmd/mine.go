package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var miner string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&miner, "miner", "m", "", "Account credited with the block, the node's miner when empty.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	req := struct {
		Miner string `json:"miner"`
	}{
		Miner: miner,
	}

	var resp struct {
		Block    database.Block     `json:"block"`
		Rejected []state.RejectedTx `json:"rejected"`
	}
	if err := call(http.MethodPost, "/v1/mining/mine", req, &resp); err != nil {
		return err
	}

	printBlock(resp.Block)
	for _, rej := range resp.Rejected {
		fmt.Printf("  rejected %s: %s\n", rej.Tx, rej.Reason)
	}

	return nil
}

func printBlock(block database.Block) {
	fmt.Printf("block %d: hash[%s] prev[%s] nonce[%d] miner[%s]\n", block.Number, block.Hash, block.PrevBlockHash, block.Nonce, block.BeneficiaryID)
	for _, tx := range block.Trans {
		fmt.Printf("  tx %s: %s\n", tx, tx.Hash)
	}
}
