package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// GenesisPrevHash is the previous hash recorded in the genesis block.
const GenesisPrevHash = "0"

// cancelCheckInterval is the number of attempts a POW worker makes between
// checks of the cancellation signal.
const cancelCheckInterval = 1 << 10

// reportInterval is the number of attempts between progress events.
const reportInterval = 1_000_000

// =============================================================================

// Block represents a group of transactions batched together and sealed
// with a proof of work.
type Block struct {
	Number        uint64    `json:"number"`        // Ethereum: Block number in the chain, genesis is 0.
	TimeStamp     uint64    `json:"timestamp"`     // Bitcoin: Time the block was mined, unix seconds.
	Trans         []Tx      `json:"transactions"`  // Ordered transactions, the order is part of the hash.
	PrevBlockHash string    `json:"previous_hash"` // Bitcoin: Hash of the previous block in the chain.
	Hash          string    `json:"hash"`          // Hash that solves the POW puzzle.
	Nonce         uint64    `json:"nonce"`         // Bitcoin: Value identified to solve the hash solution.
	Difficulty    uint32    `json:"difficulty"`    // Ethereum: Number of 0's needed to solve the hash solution.
	BeneficiaryID AccountID `json:"miner"`         // Ethereum: The account who produced the block.
}

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Number        uint64
	PrevBlockHash string
	Difficulty    uint32
	BeneficiaryID AccountID
	Trans         []Tx
	Workers       int
	EvHandler     func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The call blocks until a solution is
// found or the context is cancelled.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	trans := make([]Tx, len(args.Trans))
	copy(trans, args.Trans)

	nb := Block{
		Number:        args.Number,
		TimeStamp:     uint64(time.Now().UTC().Unix()),
		Trans:         trans,
		PrevBlockHash: args.PrevBlockHash,
		Nonce:         0, // Will be identified by the POW algorithm.
		Difficulty:    args.Difficulty,
		BeneficiaryID: args.BeneficiaryID,
	}

	if err := nb.performPOW(ctx, args.Workers, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Worker g tries the nonces g, g+workers, g+2*workers and so on, so the
// workers never try the same nonce. Pointer semantics are being used since
// a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, workers int, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]: difficulty[%d]: workers[%d]", b.Number, b.Difficulty, workers)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Number)

	for _, tx := range b.Trans {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	if ctx.Err() != nil {
		ev("database: PerformPOW: MINING: CANCELLED")
		return ctx.Err()
	}

	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type solution struct {
		nonce uint64
		hash  string
	}

	// Every worker sends at most once, so the buffer keeps them from blocking.
	solved := make(chan solution, workers)

	prefix := b.hashPrefix()
	stride := uint64(workers)

	var attempts atomic.Uint64
	var wg sync.WaitGroup
	wg.Add(workers)

	for g := range workers {
		go func(nonce uint64) {
			defer wg.Done()

			var local uint64
			for {
				local++
				if local%cancelCheckInterval == 0 {
					total := attempts.Add(cancelCheckInterval)
					if total%reportInterval < cancelCheckInterval {
						ev("database: PerformPOW: MINING: attempts[%d]", total)
					}

					if ctx.Err() != nil {
						return
					}
				}

				hash := hashWithNonce(prefix, nonce)
				if isHashSolved(b.Difficulty, hash) {
					solved <- solution{nonce: nonce, hash: hash}
					cancel()
					return
				}

				nonce += stride
			}
		}(uint64(g))
	}

	wg.Wait()

	select {
	case s := <-solved:
		b.Nonce = s.nonce
		b.Hash = s.hash
		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Hash, b.Nonce)
		return nil

	default:
		ev("database: PerformPOW: MINING: CANCELLED")
		return ctx.Err()
	}
}

// CalculateHash recomputes the hash for the block from its current fields.
func (b Block) CalculateHash() string {
	return hashWithNonce(b.hashPrefix(), b.Nonce)
}

// Validate checks the stored hash is the hash of the block's current fields,
// that it satisfies the difficulty, and that every transaction still hashes
// to its recorded hash.
func (b Block) Validate() error {
	for i, tx := range b.Trans {
		if !tx.IsHashValid() {
			return fmt.Errorf("transaction %d hash does not match its content, got %s, exp %s", i, tx.Hash, tx.CalculateHash())
		}
	}

	hash := b.CalculateHash()
	if b.Hash != hash {
		return fmt.Errorf("block hash does not match its content, got %s, exp %s", b.Hash, hash)
	}

	if !isHashSolved(b.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash for difficulty %d", hash, b.Difficulty)
	}

	return nil
}

// IsValid reports whether the block passes Validate.
func (b Block) IsValid() bool {
	return b.Validate() == nil
}

// ValidateBlock takes a block and validates it to be the next block
// after the specified previous block.
func (b Block) ValidateBlock(previousBlock Block) error {
	if err := b.Validate(); err != nil {
		return err
	}

	nextNumber := previousBlock.Number + 1
	if b.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Number, nextNumber)
	}

	if b.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.PrevBlockHash, previousBlock.Hash)
	}

	return nil
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	trans := make([]Tx, len(b.Trans))
	copy(trans, b.Trans)
	b.Trans = trans

	return b
}

// =============================================================================

// ValidateChain walks the blocks in order and checks every block after the
// first is valid and linked to its parent. It stops at the first violation.
// The first block is not checked against a predecessor.
func ValidateChain(blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		current := blocks[i]
		previous := blocks[i-1]

		if err := current.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", current.Number, err)
		}

		if current.PrevBlockHash != previous.Hash {
			return fmt.Errorf("block %d: %w", current.Number, ErrChainBroken)
		}
	}

	return nil
}

// ErrChainBroken is returned when a block does not reference the hash of
// the block before it.
var ErrChainBroken = errors.New("previous hash does not match parent block")

// =============================================================================

// hashPrefix returns every field that goes into the block hash except the
// nonce: number, timestamp, the transaction hashes in order, and the
// previous hash.
func (b Block) hashPrefix() []byte {
	size := 40 + len(b.Trans)*64 + len(b.PrevBlockHash)

	data := make([]byte, 0, size)
	data = strconv.AppendUint(data, b.Number, 10)
	data = strconv.AppendUint(data, b.TimeStamp, 10)
	for _, tx := range b.Trans {
		data = append(data, tx.Hash...)
	}
	data = append(data, b.PrevBlockHash...)

	return data
}

// hashWithNonce hashes the prefix with the decimal nonce appended.
func hashWithNonce(prefix []byte, nonce uint64) string {
	data := make([]byte, len(prefix), len(prefix)+20)
	copy(data, prefix)
	data = strconv.AppendUint(data, nonce, 10)

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint32, hash string) bool {
	if len(hash) != 64 || difficulty > 64 {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}
