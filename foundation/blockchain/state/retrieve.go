package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock.Clone()
}

// RetrieveMempool returns a copy of the mempool in submission order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveAccounts returns a copy of every account sorted by account id.
func (s *State) RetrieveAccounts() []database.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.CopyAccounts()
}

// RetrieveDifficulty returns the number of leading zeros every block hash
// needs.
func (s *State) RetrieveDifficulty() uint32 {
	return s.genesis.Difficulty
}

// RetrievePolicy returns the admission policy in use.
func (s *State) RetrievePolicy() AdmissionPolicy {
	return s.policy
}
