package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestMemory(t *testing.T) {
	t.Log("Given the need to hold the chain in memory.")
	{
		t.Logf("\tTest 0:\tWhen writing and reading blocks.")
		{
			m := memory.New()

			blocks := []database.Block{
				{Number: 0, PrevBlockHash: database.GenesisPrevHash, Hash: "a"},
				{Number: 1, PrevBlockHash: "a", Hash: "b", Trans: []database.Tx{database.NewTx("Alice", "Bob", 1, 0)}},
			}

			for _, block := range blocks {
				if err := m.Write(block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, block.Number, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write blocks in order.", success)

			if err := m.Write(database.Block{Number: 5}); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a block out of order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a block out of order.", success)

			if m.Count() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have two blocks, got %d.", failed, m.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould have two blocks.", success)

			block, err := m.GetBlock(1)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to get block 1: %v", failed, err)
			}
			block.Trans[0].Value = 99

			again, _ := m.GetBlock(1)
			if again.Trans[0].Value != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not be able to change a stored block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not be able to change a stored block.", success)

			if _, err := m.GetBlock(2); !errors.Is(err, database.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould get not found for a missing block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get not found for a missing block.", success)
		}

		t.Logf("\tTest 1:\tWhen iterating over the chain.")
		{
			m := memory.New()
			m.Write(database.Block{Number: 0, Hash: "a"})
			m.Write(database.Block{Number: 1, Hash: "b"})
			m.Write(database.Block{Number: 2, Hash: "c"})

			var hashes string
			iter := m.ForEach()
			for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to iterate: %v", failed, err)
				}
				hashes += block.Hash
			}

			if hashes != "abc" {
				t.Fatalf("\t%s\tTest 1:\tShould see every block in order, got %q.", failed, hashes)
			}
			t.Logf("\t%s\tTest 1:\tShould see every block in order.", success)

			m.Reset()
			if m.Count() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould be empty after reset.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould be empty after reset.", success)
		}
	}
}
