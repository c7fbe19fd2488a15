// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	Miner database.AccountID
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "subscription", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the one account
// named in the path.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accounts []database.Account

	switch accountID := web.Param(r, "account"); accountID {
	case "":
		accounts = h.State.RetrieveAccounts()

	default:
		account, err := h.State.QueryAccount(database.AccountID(accountID))
		if err != nil {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		accounts = []database.Account{account}
	}

	ai := actInfo{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Uncommitted: h.State.QueryMempoolLength(),
		Accounts:    accounts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// SubmitTransaction adds a new transfer to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var tx submitTx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "from", tx.From, "to", tx.To, "value", tx.Value)

	hash, err := h.State.AddTransaction(database.AccountID(tx.From), database.AccountID(tx.To), tx.Value)
	if err != nil {
		if errors.Is(err, database.ErrInsufficientBalance) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := submitted{
		Status: "transaction added to mempool",
		Hash:   hash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := database.AccountID(web.Param(r, "account"))

	mempool := h.State.RetrieveMempool()

	trans := make([]database.Tx, 0, len(mempool))
	for _, tx := range mempool {
		if acct != "" && acct != tx.From && acct != tx.To {
			continue
		}
		trans = append(trans, tx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Mine drains the mempool into a new block. The block is credited to the
// miner in the request or the node's miner when none is given.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req mineRequest
	if r.ContentLength > 0 {
		if err := web.Decode(r, &req); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	miner := h.Miner
	if req.Miner != "" {
		miner = database.AccountID(req.Miner)
	}

	result, err := h.State.MineNewBlock(ctx, miner)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, state.ErrAllTransactionsInvalid):
			return errs.NewTrustedWithDetails(err, http.StatusBadRequest, result.Rejected)
		}
		return err
	}

	resp := mined{
		Block:    result.Block,
		Rejected: result.Rejected,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns all the blocks with a transaction for the account,
// or every block when no account is given.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID := database.AccountID(web.Param(r, "account"))

	blocks, err := h.State.QueryBlocksByAccount(accountID)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByNumber returns the block at the position in the path.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, err := h.State.QueryBlock(number)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// ValidateChain walks the chain and reports whether it is intact.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	info := chainInfo{
		Valid:  true,
		Length: h.State.QueryChainLength(),
	}

	if err := h.State.ValidateChain(); err != nil {
		info.Valid = false
		info.Error = err.Error()
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}
