package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Set of errors returned when a block can't be mined.
var (
	ErrNoTransactions         = errors.New("no transactions in mempool")
	ErrAllTransactionsInvalid = errors.New("all pending transactions failed validation")
)

// RejectedTx is a pending transaction that was dropped at mining time.
type RejectedTx struct {
	Tx     database.Tx `json:"tx"`
	Reason string      `json:"reason"`
}

// MineResult is the outcome of a successful call to MineNewBlock.
type MineResult struct {
	Block    database.Block `json:"block"`
	Rejected []RejectedTx   `json:"rejected"`
}

// MineNewBlock drains the mempool and attempts to create a new block with
// the transactions that still apply against the accounts. Transactions that
// don't apply are dropped and reported. Nothing is committed until the proof
// of work is solved; if mining is cancelled the transactions that applied go
// back to the front of the mempool in their original order and the rejected
// ones are still dropped and reported.
func (s *State) MineNewBlock(ctx context.Context, minerID database.AccountID) (MineResult, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	trans, accepted, rejected, pending := s.prepareBatch()
	if len(trans) == 0 {
		return MineResult{}, ErrNoTransactions
	}

	if len(accepted) == 0 {
		return MineResult{Rejected: rejected}, ErrAllTransactionsInvalid
	}

	latestBlock := s.RetrieveLatestBlock()

	block, err := database.POW(ctx, database.POWArgs{
		Number:        s.storage.Count(),
		PrevBlockHash: latestBlock.Hash,
		Difficulty:    s.genesis.Difficulty,
		BeneficiaryID: minerID,
		Trans:         accepted,
		Workers:       s.miningWorkers,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		s.evHandler("state: MineNewBlock: MINING: restoring txs[%d]: %s", len(accepted), err)
		s.restoreBatch(accepted)
		return MineResult{Rejected: rejected}, err
	}

	if err := s.commitBlock(block, pending); err != nil {
		s.evHandler("state: MineNewBlock: MINING: restoring txs[%d]: %s", len(accepted), err)
		s.restoreBatch(accepted)
		return MineResult{Rejected: rejected}, fmt.Errorf("commit block: %w", err)
	}

	s.evHandler("state: MineNewBlock: MINING: committed: blk[%d]: hash[%s]: txs[%d]: rejected[%d]", block.Number, block.Hash, len(block.Trans), len(rejected))

	return MineResult{Block: block.Clone(), Rejected: rejected}, nil
}

// =============================================================================

// prepareBatch drains the mempool and applies the transactions in order to
// a copy of the accounts. While the batch is mined, projected admission
// sees the accounts as they will be once the block is committed.
func (s *State) prepareBatch() (trans []database.Tx, accepted []database.Tx, rejected []RejectedTx, pending *database.Database) {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	trans = s.mempool.Drain()
	if len(trans) == 0 {
		return nil, nil, nil, nil
	}

	s.evHandler("state: MineNewBlock: MINING: apply transactions: txs[%d]", len(trans))

	pending = s.db.Clone()
	accepted = make([]database.Tx, 0, len(trans))

	for _, tx := range trans {
		if err := pending.Transfer(tx.From, tx.To, tx.Value); err != nil {
			s.evHandler("state: MineNewBlock: MINING: WARNING: tx[%s] rejected: %s", tx, err)
			rejected = append(rejected, RejectedTx{Tx: tx, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, tx)
	}

	if len(accepted) > 0 {
		s.mu.Lock()
		s.miningState = pending.Clone()
		s.mu.Unlock()
	}

	return trans, accepted, rejected, pending
}

// restoreBatch puts the transactions that applied back at the front of the
// mempool after a block could not be mined. Applying them again to the same
// accounts gives the same result, so the rejected ones are not restored.
func (s *State) restoreBatch(trans []database.Tx) {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	s.mu.Lock()
	s.miningState = nil
	s.mu.Unlock()

	s.mempool.Restore(trans)
}

// commitBlock writes the block to storage and swaps in the accounts the
// block's transactions were applied to.
func (s *State) commitBlock(block database.Block, accounts *database.Database) error {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Write(block); err != nil {
		return err
	}

	s.db.Replace(accounts)
	s.latestBlock = block
	s.miningState = nil

	return nil
}
