package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// ErrAccountNotFound is returned when an account has never transacted.
var ErrAccountNotFound = errors.New("account not found")

// =============================================================================

// QueryBalance returns the committed balance for the account, 0 when the
// account is unknown.
func (s *State) QueryBalance(accountID database.AccountID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Balance(accountID)
}

// QueryNonce returns the committed nonce for the account, 0 when the
// account is unknown.
func (s *State) QueryNonce(accountID database.AccountID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Nonce(accountID)
}

// QueryAccount returns a copy of the account from the database.
func (s *State) QueryAccount(accountID database.AccountID) (database.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.db.Account(accountID)
	if !exists {
		return database.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}

	return account, nil
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain, genesis
// included.
func (s *State) QueryChainLength() uint64 {
	return s.storage.Count()
}

// QueryBlock returns a copy of the block at the specified position.
func (s *State) QueryBlock(number uint64) (database.Block, error) {
	return s.storage.GetBlock(number)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
// QueryLatest can be used for either bound.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	latest := s.RetrieveLatestBlock().Number

	if from == QueryLatest {
		from = latest
		to = from
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.storage.GetBlock(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByNumber: ERROR: %s", err)
			return nil
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByAccount returns the set of blocks with a transaction sent or
// received by the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) ([]database.Block, error) {
	var out []database.Block

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if accountID == "" {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Trans {
			if tx.From == accountID || tx.To == accountID {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}
