// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Mempool represents the queue of transactions waiting to be mined. The
// queue is FIFO: transactions leave in the order they arrived.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the queue and returns the new
// size of the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a copy of the queue in FIFO order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Drain removes every transaction from the queue in one step and returns
// them in FIFO order. Transactions added after the call stay for the next
// drain.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	return trans
}

// Restore puts previously drained transactions back at the head of the
// queue, ahead of anything that arrived in the meantime.
func (mp *Mempool) Restore(trans []database.Tx) {
	if len(trans) == 0 {
		return
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.Tx, 0, len(trans)+len(mp.pool))
	pool = append(pool, trans...)
	pool = append(pool, mp.pool...)

	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
