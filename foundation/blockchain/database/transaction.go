package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Tx is the value transfer between two accounts. The hash is computed once
// at construction and identifies the transaction from then on.
type Tx struct {
	From  AccountID `json:"from"`  // Account sending the value.
	To    AccountID `json:"to"`    // Account receiving the value.
	Value uint64    `json:"value"` // Amount being moved.
	Nonce uint64    `json:"nonce"` // Sender's account nonce when the transaction was created.
	Hash  string    `json:"hash"`  // SHA-256 of the fields above.
}

// NewTx constructs a new transaction and computes its hash. No checks are
// performed on the accounts or the value, that is the job of the caller.
func NewTx(from AccountID, to AccountID, value uint64, nonce uint64) Tx {
	tx := Tx{
		From:  from,
		To:    to,
		Value: value,
		Nonce: nonce,
	}
	tx.Hash = tx.CalculateHash()

	return tx
}

// CalculateHash returns the hex encoded SHA-256 digest of the transaction
// content. The digest is taken over from, to, value and nonce concatenated
// with no separators, integers in canonical decimal form.
func (tx Tx) CalculateHash() string {
	data := make([]byte, 0, len(tx.From)+len(tx.To)+40)
	data = append(data, tx.From...)
	data = append(data, tx.To...)
	data = strconv.AppendUint(data, tx.Value, 10)
	data = strconv.AppendUint(data, tx.Nonce, 10)

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IsHashValid reports whether the stored hash still matches the content.
func (tx Tx) IsHashValid() bool {
	return tx.Hash == tx.CalculateHash()
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d:%d", tx.From, tx.To, tx.Value, tx.Nonce)
}
