package database

// Account represents information stored in the database for an individual account.
type Account struct {
	AccountID AccountID `json:"address"`
	Balance   uint64    `json:"balance"`
	Nonce     uint64    `json:"nonce"`
}

// newAccount constructs a new account value for use.
func newAccount(accountID AccountID, balance uint64) Account {
	return Account{
		AccountID: accountID,
		Balance:   balance,
	}
}

// =============================================================================

// AccountID represents the address of an account. The value is opaque to the
// ledger, any string identifies an account.
type AccountID string

// String implements the fmt.Stringer interface.
func (a AccountID) String() string {
	return string(a)
}

// =============================================================================

// byAccount provides sorting support by the account id value.
type byAccount []Account

// Len returns the number of accounts in the list.
func (ba byAccount) Len() int {
	return len(ba)
}

// Less helps to sort the list by account id in ascending order so listings
// are stable between calls.
func (ba byAccount) Less(i, j int) bool {
	return ba[i].AccountID < ba[j].AccountID
}

// Swap moves accounts in the order of the account id value.
func (ba byAccount) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
