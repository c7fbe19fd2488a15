// Package database handles all the lower level support for maintaining the
// blockchain: accounts, transactions, blocks and the proof of work, plus the
// in memory world state of account balances.
package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
)

// Database is the world state: it manages the accounts who have transacted
// on the blockchain. Every change to an account happens under the write
// lock, so readers never observe part of a transfer.
type Database struct {
	mu       sync.RWMutex
	accounts map[AccountID]Account
}

// New constructs a new database and applies the specified starting balances.
func New(balances map[AccountID]uint64) *Database {
	db := Database{
		accounts: make(map[AccountID]Account),
	}

	for accountID, balance := range balances {
		db.accounts[accountID] = newAccount(accountID, balance)
	}

	return &db
}

// CreateAccount inserts the account with the specified balance and a zero
// nonce. An existing account is replaced, not credited.
func (db *Database) CreateAccount(accountID AccountID, balance uint64) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.accounts[accountID] = newAccount(accountID, balance)
}

// Transfer moves value from one account to another. The sender's nonce is
// incremented and the receiver is created with a zero balance when it does
// not exist yet. Nothing is changed when an error is returned.
func (db *Database) Transfer(from AccountID, to AccountID, value uint64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	sender, exists := db.accounts[from]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSenderNotFound, from)
	}

	if sender.Balance < value {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from, sender.Balance, value)
	}

	// A transfer to self gives the value straight back, so only a credit to
	// a different account can overflow.
	if from != to {
		if _, overflow := math.SafeAdd(db.accounts[to].Balance, value); overflow {
			return fmt.Errorf("%w: crediting %d to %s", ErrBalanceOverflow, value, to)
		}
	}

	sender.Balance -= value
	sender.Nonce++
	db.accounts[from] = sender

	receiver, exists := db.accounts[to]
	if !exists {
		receiver = newAccount(to, 0)
	}
	receiver.Balance += value
	db.accounts[to] = receiver

	return nil
}

// Balance returns the balance for the account, 0 when the account is unknown.
func (db *Database) Balance(accountID AccountID) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.accounts[accountID].Balance
}

// Nonce returns the nonce for the account, 0 when the account is unknown.
func (db *Database) Nonce(accountID AccountID) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.accounts[accountID].Nonce
}

// Account returns a copy of the specified account.
func (db *Database) Account(accountID AccountID) (Account, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	account, exists := db.accounts[accountID]
	return account, exists
}

// CopyAccounts makes a copy of the current accounts sorted by account id.
func (db *Database) CopyAccounts() []Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	accounts := make([]Account, 0, len(db.accounts))
	for _, account := range db.accounts {
		accounts = append(accounts, account)
	}
	sort.Sort(byAccount(accounts))

	return accounts
}

// TotalBalance returns the sum of every account balance. The sum saturates
// at the maximum uint64 value.
func (db *Database) TotalBalance() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var total uint64
	for _, account := range db.accounts {
		sum, overflow := math.SafeAdd(total, account.Balance)
		if overflow {
			return ^uint64(0)
		}
		total = sum
	}

	return total
}

// Clone makes an independent copy of the database.
func (db *Database) Clone() *Database {
	db.mu.RLock()
	defer db.mu.RUnlock()

	clone := Database{
		accounts: make(map[AccountID]Account, len(db.accounts)),
	}
	for accountID, account := range db.accounts {
		clone.accounts[accountID] = account
	}

	return &clone
}

// Replace swaps in the accounts from the specified database in one step.
// The specified database must not be used afterwards.
func (db *Database) Replace(other *Database) {
	other.mu.Lock()
	accounts := other.accounts
	other.accounts = nil
	other.mu.Unlock()

	db.mu.Lock()
	defer db.mu.Unlock()

	db.accounts = accounts
}
