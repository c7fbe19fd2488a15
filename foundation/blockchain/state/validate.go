package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ValidateChain reads the whole chain from storage and checks every block
// is valid and linked to its parent. A nil error means the chain is valid.
func (s *State) ValidateChain() error {
	blocks := make([]database.Block, 0, s.storage.Count())

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return fmt.Errorf("reading chain: %w", err)
		}
		blocks = append(blocks, block)
	}

	if err := database.ValidateChain(blocks); err != nil {
		s.evHandler("state: ValidateChain: INVALID: %s", err)
		return err
	}

	s.evHandler("state: ValidateChain: valid: blocks[%d]", len(blocks))

	return nil
}
