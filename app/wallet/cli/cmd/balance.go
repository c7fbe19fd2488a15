package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

type accounts struct {
	LatestBlock string             `json:"latest_block"`
	Uncommitted int                `json:"uncommitted"`
	Accounts    []database.Account `json:"accounts"`
}

var accountName string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance of an account, or of every account.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&accountName, "account", "a", "", "Account to print, every account when empty.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	path := "/v1/accounts/list"
	if accountName != "" {
		path += "/" + accountName
	}

	var resp accounts
	if err := call(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	fmt.Println("latest block:", resp.LatestBlock)
	fmt.Println("uncommitted: ", resp.Uncommitted)
	for _, account := range resp.Accounts {
		fmt.Printf("%-10s balance[%d] nonce[%d]\n", account.AccountID, account.Balance, account.Nonce)
	}

	return nil
}
