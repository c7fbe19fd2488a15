package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// AddTransaction accepts a transfer for inclusion in the next block and
// returns the transaction hash. The sender's balance is checked according
// to the configured admission policy; the nonce is taken from the same view.
func (s *State) AddTransaction(from database.AccountID, to database.AccountID, value uint64) (string, error) {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	view := s.db
	if s.policy == PolicyProjected {
		view = s.projectedState()
	}

	if balance := view.Balance(from); balance < value {
		return "", fmt.Errorf("%w: %s has %d, needs %d", database.ErrInsufficientBalance, from, balance, value)
	}

	tx := database.NewTx(from, to, value, view.Nonce(from))
	n := s.mempool.Add(tx)

	s.evHandler("state: AddTransaction: tx[%s]: hash[%s]: mempool[%d]", tx, tx.Hash, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return tx.Hash, nil
}

// =============================================================================

// projectedState returns a copy of the accounts with every transaction that
// is waiting to be mined applied in order, including a batch that is being
// mined right now. Transfers that would fail are skipped, as mining would.
func (s *State) projectedState() *database.Database {
	s.mu.RLock()
	base := s.miningState
	s.mu.RUnlock()

	if base == nil {
		base = s.db
	}

	projected := base.Clone()
	for _, tx := range s.mempool.Copy() {
		projected.Transfer(tx.From, tx.To, tx.Value)
	}

	return projected
}
