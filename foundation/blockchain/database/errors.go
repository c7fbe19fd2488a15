package database

import "errors"

// Set of error variables for account and chain processing.
var (
	ErrSenderNotFound      = errors.New("sender account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrBlockNotFound       = errors.New("block does not exist")
)
