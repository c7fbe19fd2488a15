package cmd

import (
	"context"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/logger"
	"github.com/spf13/cobra"
)

var verbose bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a ledger in process: seed, transfer, mine and validate.",
	RunE:  demoRun,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().BoolVar(&verbose, "verbose", false, "Log the ledger events.")
}

func demoRun(cmd *cobra.Command, args []string) error {
	log, err := logger.New("DEMO")
	if err != nil {
		return err
	}
	defer log.Sync()

	ev := func(v string, args ...any) {
		if verbose {
			log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
		}
	}

	st, err := state.New(state.Config{
		Genesis:       genesis.Default(),
		Storage:       memory.New(),
		MiningWorkers: 4,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	fmt.Println("initial balances")
	printAccounts(st.RetrieveAccounts())

	transfers := []struct {
		from  database.AccountID
		to    database.AccountID
		value uint64
	}{
		{"Alice", "Bob", 100},
		{"Bob", "Charlie", 50},
	}

	for _, tr := range transfers {
		hash, err := st.AddTransaction(tr.from, tr.to, tr.value)
		if err != nil {
			return err
		}
		fmt.Printf("submitted %s->%s:%d %s\n", tr.from, tr.to, tr.value, hash)
	}

	result, err := st.MineNewBlock(context.Background(), "Miner1")
	if err != nil {
		return err
	}
	fmt.Println("mined")
	printBlock(result.Block)

	fmt.Println("final balances")
	printAccounts(st.RetrieveAccounts())

	fmt.Printf("blocks[%d] valid[%t]\n", st.QueryChainLength(), st.ValidateChain() == nil)

	return nil
}

func printAccounts(accounts []database.Account) {
	for _, account := range accounts {
		fmt.Printf("  %-10s balance[%d] nonce[%d]\n", account.AccountID, account.Balance, account.Nonce)
	}
}
