// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// AdmissionPolicy decides which balance a new transaction is checked
// against when it is submitted.
type AdmissionPolicy string

// Set of admission policies.
const (
	// PolicyCommitted checks the sender's balance as of the last mined block
	// and ignores other pending transactions. Overspending from the queue is
	// caught at mining time, first confirmed wins.
	PolicyCommitted AdmissionPolicy = "committed"

	// PolicyProjected checks the sender's balance after every pending
	// transaction has been applied.
	PolicyProjected AdmissionPolicy = "projected"
)

// ParsePolicy converts the string into an admission policy.
func ParsePolicy(policy string) (AdmissionPolicy, error) {
	switch AdmissionPolicy(policy) {
	case "", PolicyCommitted:
		return PolicyCommitted, nil
	case PolicyProjected:
		return PolicyProjected, nil
	}

	return "", fmt.Errorf("unknown admission policy %q", policy)
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis       genesis.Genesis
	Storage       database.Storage
	Policy        AdmissionPolicy
	MiningWorkers int
	EvHandler     EventHandler
}

// State manages the blockchain: the world state of accounts, the queue of
// pending transactions and the chain of blocks.
type State struct {
	mu       sync.RWMutex
	miningMu sync.Mutex
	admitMu  sync.Mutex

	genesis       genesis.Genesis
	policy        AdmissionPolicy
	miningWorkers int
	evHandler     EventHandler
	latestBlock   database.Block
	miningState   *database.Database

	db      *database.Database
	mempool *mempool.Mempool
	storage database.Storage

	Worker Worker
}

// New constructs a new blockchain. An empty storage gets a freshly mined
// genesis block. The blocks of a storage that already holds a chain are
// validated and replayed on top of the genesis balances.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}

	workers := cfg.MiningWorkers
	if workers < 1 {
		workers = 1
	}

	gen := cfg.Genesis
	if gen.Miner == "" {
		gen.Miner = genesis.Miner
	}

	if err := gen.Validate(); err != nil {
		return nil, err
	}

	// Seed the accounts of the founders of the blockchain.
	balances := make(map[database.AccountID]uint64, len(gen.Balances))
	for account, balance := range gen.Balances {
		balances[database.AccountID(account)] = balance
	}

	state := State{
		genesis:       gen,
		policy:        policy,
		miningWorkers: workers,
		evHandler:     ev,

		db:      database.New(balances),
		mempool: mempool.New(),
		storage: cfg.Storage,
	}

	switch cfg.Storage.Count() {
	case 0:
		if err := state.writeGenesisBlock(); err != nil {
			return nil, err
		}

	default:
		if err := state.replay(); err != nil {
			return nil, err
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start mining in the background.

	return &state, nil
}

// Shutdown cleanly brings the blockchain down.
func (s *State) Shutdown() error {

	// Make sure the storage is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// writeGenesisBlock mines the genesis block and writes it to storage.
func (s *State) writeGenesisBlock() error {
	s.evHandler("state: writeGenesisBlock: mining genesis: difficulty[%d]", s.genesis.Difficulty)

	block, err := database.POW(context.Background(), database.POWArgs{
		Number:        0,
		PrevBlockHash: database.GenesisPrevHash,
		Difficulty:    s.genesis.Difficulty,
		BeneficiaryID: database.AccountID(s.genesis.Miner),
		Workers:       s.miningWorkers,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return fmt.Errorf("mining genesis block: %w", err)
	}

	if err := s.storage.Write(block); err != nil {
		return fmt.Errorf("writing genesis block: %w", err)
	}
	s.latestBlock = block

	return nil
}

// replay walks the blocks held by storage, validates each against its
// parent and applies the transfers to the accounts.
func (s *State) replay() error {
	var latestBlock database.Block

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		s.evHandler("state: replay: blk[%d]: txs[%d]", block.Number, len(block.Trans))

		if block.Number == 0 {
			if err := block.Validate(); err != nil {
				return fmt.Errorf("replaying genesis block: %w", err)
			}
			latestBlock = block
			continue
		}

		if err := block.ValidateBlock(latestBlock); err != nil {
			return fmt.Errorf("replaying block %d: %w", block.Number, err)
		}

		for _, tx := range block.Trans {
			if err := s.db.Transfer(tx.From, tx.To, tx.Value); err != nil {
				return fmt.Errorf("replaying block %d: tx[%s]: %w", block.Number, tx, err)
			}
		}

		latestBlock = block
	}

	s.latestBlock = latestBlock

	return nil
}
