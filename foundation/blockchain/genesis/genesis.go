// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Miner is the account recorded as the producer of the genesis block.
const Miner = "genesis"

// MaxDifficulty is the number of hex characters in a block hash. A larger
// difficulty can never be solved.
const MaxDifficulty = 64

// ErrInvalidDifficulty is returned for a difficulty no block hash can meet.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time         `json:"date"`
	Difficulty uint32            `json:"difficulty"` // How difficult it needs to be to solve the work problem.
	Miner      string            `json:"miner"`      // Account recorded on the genesis block.
	Balances   map[string]uint64 `json:"balances"`   // Accounts seeded before the first block.
}

// Default returns the genesis used when no file is provided: three funded
// accounts and a difficulty of two leading zeros.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: 2,
		Miner:      Miner,
		Balances: map[string]uint64{
			"Alice":   1000,
			"Bob":     1000,
			"Charlie": 1000,
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if genesis.Miner == "" {
		genesis.Miner = Miner
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("%s: %w", path, err)
	}

	return genesis, nil
}

// Validate checks the genesis values can start a chain.
func (g Genesis) Validate() error {
	if g.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: %d, max %d", ErrInvalidDifficulty, g.Difficulty, MaxDifficulty)
	}

	return nil
}
