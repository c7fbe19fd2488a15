package database_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

func TestTransactionHash(t *testing.T) {
	t.Log("Given the need to identify transactions by content.")
	{
		t.Logf("\tTest 0:\tWhen constructing a transaction.")
		{
			tx := database.NewTx("Alice", "Bob", 100, 7)

			sum := sha256.Sum256([]byte("AliceBob1007"))
			exp := hex.EncodeToString(sum[:])
			if tx.Hash != exp {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, tx.Hash)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, exp)
				t.Fatalf("\t%s\tTest 0:\tShould hash the concatenated fields.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash the concatenated fields.", success)

			if tx.Hash != tx.CalculateHash() || !tx.IsHashValid() {
				t.Fatalf("\t%s\tTest 0:\tShould reproduce the hash from the fields.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reproduce the hash from the fields.", success)

			if tx.Hash != strings.ToLower(tx.Hash) || len(tx.Hash) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould be 64 lowercase hex characters.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be 64 lowercase hex characters.", success)

			other := database.NewTx("Alice", "Bob", 100, 8)
			if other.Hash == tx.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould change the hash when the nonce changes.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould change the hash when the nonce changes.", success)

			tx.Value = 101
			if tx.IsHashValid() {
				t.Fatalf("\t%s\tTest 0:\tShould detect a changed value.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould detect a changed value.", success)
		}
	}
}

func TestPOW(t *testing.T) {
	type table struct {
		name       string
		difficulty uint32
		workers    int
		trans      []database.Tx
	}

	tt := []table{
		{name: "genesis", difficulty: 2, workers: 1},
		{name: "single", difficulty: 2, workers: 1, trans: []database.Tx{database.NewTx("Alice", "Bob", 100, 0)}},
		{name: "parallel", difficulty: 3, workers: 4, trans: []database.Tx{database.NewTx("Alice", "Bob", 100, 0), database.NewTx("Bob", "Charlie", 50, 0)}},
		{name: "zero", difficulty: 0, workers: 2},
	}

	t.Log("Given the need to mine blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					block, err := database.POW(context.Background(), database.POWArgs{
						Number:        1,
						PrevBlockHash: "previous_hash",
						Difficulty:    tst.difficulty,
						BeneficiaryID: "miner",
						Trans:         tst.trans,
						Workers:       tst.workers,
					})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

					if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, block.Hash)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

					if err := block.Validate(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould validate: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould validate.", success, testID)

					tampered := block.Clone()
					tampered.Nonce++
					if tampered.IsValid() {
						t.Fatalf("\t%s\tTest %d:\tShould not validate with a stale hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not validate with a stale hash.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestPOWCancel(t *testing.T) {
	t.Log("Given the need to stop an unbounded search.")
	{
		t.Logf("\tTest 0:\tWhen the deadline passes before a solution.")
		{
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := database.POW(ctx, database.POWArgs{
				Number:        1,
				PrevBlockHash: "previous_hash",
				Difficulty:    64,
				Workers:       2,
			})
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest 0:\tShould get a deadline error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get a deadline error.", success)
		}

		t.Logf("\tTest 1:\tWhen the context is already cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := database.POW(ctx, database.POWArgs{Difficulty: 0})
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 1:\tShould not start mining: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould not start mining.", success)
		}
	}
}

func TestValidateChain(t *testing.T) {
	mine := func(t *testing.T, number uint64, prev string, trans []database.Tx) database.Block {
		block, err := database.POW(context.Background(), database.POWArgs{
			Number:        number,
			PrevBlockHash: prev,
			Difficulty:    1,
			BeneficiaryID: "miner",
			Trans:         trans,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine block %d: %v", failed, number, err)
		}
		return block
	}

	t.Log("Given the need to check the integrity of a chain.")
	{
		genesis := mine(t, 0, database.GenesisPrevHash, nil)
		b1 := mine(t, 1, genesis.Hash, []database.Tx{database.NewTx("Alice", "Bob", 100, 0)})
		b2 := mine(t, 2, b1.Hash, []database.Tx{database.NewTx("Bob", "Charlie", 50, 0)})

		t.Logf("\tTest 0:\tWhen the chain is untouched.")
		{
			if err := database.ValidateChain([]database.Block{genesis, b1, b2}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be valid: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be valid.", success)
		}

		t.Logf("\tTest 1:\tWhen a previous hash is changed.")
		{
			bad := b2.Clone()
			bad.PrevBlockHash = genesis.Hash

			if err := database.ValidateChain([]database.Block{genesis, b1, bad}); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould be invalid.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould be invalid.", success)
		}

		t.Logf("\tTest 2:\tWhen a previous hash is changed and the block is re-mined.")
		{
			bad := mine(t, 2, genesis.Hash, b2.Trans)

			err := database.ValidateChain([]database.Block{genesis, b1, bad})
			if !errors.Is(err, database.ErrChainBroken) {
				t.Fatalf("\t%s\tTest 2:\tShould report a broken link: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould report a broken link.", success)
		}

		t.Logf("\tTest 3:\tWhen a transaction amount is changed.")
		{
			bad := b1.Clone()
			bad.Trans[0].Value = 1

			if err := database.ValidateChain([]database.Block{genesis, bad, b2}); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould be invalid.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould be invalid.", success)

			if b1.Trans[0].Value != 100 {
				t.Fatalf("\t%s\tTest 3:\tShould not change the original through a clone.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould not change the original through a clone.", success)
		}
	}
}
