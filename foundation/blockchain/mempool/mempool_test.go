package mempool_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				database.NewTx("Alice", "Bob", 100, 0),
				database.NewTx("Bob", "Charlie", 50, 0),
				database.NewTx("Alice", "Bob", 100, 0),
				database.NewTx("Charlie", "Alice", 1, 0),
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add transaction %d, size %d.", failed, testID, i, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add transactions, duplicates included.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.Hash != tst.txs[i].Hash {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in FIFO order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back transactions in FIFO order.", success, testID)

					snapshot := mp.Drain()
					if len(snapshot) != len(tst.txs) || mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould drain the whole queue.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould drain the whole queue.", success, testID)

					late := database.NewTx("Dave", "Erin", 7, 0)
					mp.Add(late)
					mp.Restore(snapshot)

					cpy := mp.Copy()
					if len(cpy) != len(tst.txs)+1 || cpy[0].Hash != tst.txs[0].Hash || cpy[len(cpy)-1].Hash != late.Hash {
						t.Fatalf("\t%s\tTest %d:\tShould restore the snapshot ahead of new arrivals.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould restore the snapshot ahead of new arrivals.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
