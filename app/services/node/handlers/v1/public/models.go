package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

type submitTx struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value"`
}

type submitted struct {
	Status string `json:"status"`
	Hash   string `json:"hash"`
}

type mineRequest struct {
	Miner string `json:"miner"`
}

type mined struct {
	Block    database.Block     `json:"block"`
	Rejected []state.RejectedTx `json:"rejected"`
}

type actInfo struct {
	LatestBlock string             `json:"latest_block"`
	Uncommitted int                `json:"uncommitted"`
	Accounts    []database.Account `json:"accounts"`
}

type chainInfo struct {
	Valid  bool   `json:"valid"`
	Length uint64 `json:"length"`
	Error  string `json:"error,omitempty"`
}
