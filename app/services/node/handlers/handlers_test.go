package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newMux(t *testing.T) http.Handler {
	st, err := state.New(state.Config{
		Genesis:       genesis.Default(),
		Storage:       memory.New(),
		MiningWorkers: 2,
	})
	if err != nil {
		t.Fatalf("unable to construct state: %v", err)
	}

	return handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Miner:    "miner1",
		Evts:     events.New(),
	})
}

func do(mux http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	return w
}

func TestPublicRoutes(t *testing.T) {
	t.Log("Given the need to drive the ledger over http.")
	{
		mux := newMux(t)

		t.Logf("\tTest 0:\tWhen submitting and mining a transaction.")
		{
			w := do(mux, http.MethodPost, "/v1/tx/submit", `{"from":"Alice","to":"Bob","value":100}`)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200 for submit, got %d: %s", failed, w.Code, w.Body)
			}

			var sub struct {
				Hash string `json:"hash"`
			}
			json.NewDecoder(w.Body).Decode(&sub)
			if len(sub.Hash) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould receive the transaction hash, got %q.", failed, sub.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transaction.", success)

			w = do(mux, http.MethodPost, "/v1/mining/mine", `{"miner":"Miner1"}`)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200 for mine, got %d: %s", failed, w.Code, w.Body)
			}

			var result struct {
				Block database.Block `json:"block"`
			}
			json.NewDecoder(w.Body).Decode(&result)
			if result.Block.Number != 1 || result.Block.BeneficiaryID != "Miner1" || len(result.Block.Trans) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould receive block 1, got %+v.", failed, result.Block)
			}
			t.Logf("\t%s\tTest 0:\tShould mine block 1.", success)

			w = do(mux, http.MethodGet, "/v1/accounts/list/Bob", "")
			var info struct {
				Accounts []database.Account `json:"accounts"`
			}
			json.NewDecoder(w.Body).Decode(&info)
			if w.Code != http.StatusOK || len(info.Accounts) != 1 || info.Accounts[0].Balance != 1100 {
				t.Fatalf("\t%s\tTest 0:\tShould see Bob's new balance, got %d %+v.", failed, w.Code, info.Accounts)
			}
			t.Logf("\t%s\tTest 0:\tShould see Bob's new balance.", success)

			w = do(mux, http.MethodGet, "/v1/chain/validate", "")
			var chain struct {
				Valid  bool   `json:"valid"`
				Length uint64 `json:"length"`
			}
			json.NewDecoder(w.Body).Decode(&chain)
			if !chain.Valid || chain.Length != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould report a valid chain of two, got %+v.", failed, chain)
			}
			t.Logf("\t%s\tTest 0:\tShould report a valid chain.", success)

			w = do(mux, http.MethodGet, "/v1/block/1", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould get block 1, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould get block 1.", success)
		}

		t.Logf("\tTest 1:\tWhen requests fail.")
		{
			tt := []struct {
				name   string
				method string
				path   string
				body   string
				status int
			}{
				{"overspend", http.MethodPost, "/v1/tx/submit", `{"from":"Alice","to":"Bob","value":2000}`, http.StatusBadRequest},
				{"missing-to", http.MethodPost, "/v1/tx/submit", `{"from":"Alice","value":1}`, http.StatusBadRequest},
				{"unknown-field", http.MethodPost, "/v1/tx/submit", `{"from":"Alice","to":"Bob","tip":1}`, http.StatusBadRequest},
				{"empty-mempool", http.MethodPost, "/v1/mining/mine", "", http.StatusBadRequest},
				{"missing-block", http.MethodGet, "/v1/block/99", "", http.StatusNotFound},
				{"bad-number", http.MethodGet, "/v1/block/abc", "", http.StatusBadRequest},
				{"unknown-account", http.MethodGet, "/v1/accounts/list/Dave", "", http.StatusNotFound},
			}

			for _, tst := range tt {
				f := func(t *testing.T) {
					w := do(mux, tst.method, tst.path, tst.body)
					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest 1:\tShould receive a %d, got %d: %s", failed, tst.status, w.Code, w.Body)
					}

					var resp errs.Response
					if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp); err != nil || resp.Error == "" {
						t.Fatalf("\t%s\tTest 1:\tShould receive an error document: %s", failed, w.Body)
					}
					t.Logf("\t%s\tTest 1:\tShould receive a %d with an error document.", success, tst.status)
				}

				t.Run(tst.name, f)
			}
		}

		t.Logf("\tTest 2:\tWhen every pending transaction fails at mining.")
		{
			w := do(mux, http.MethodPost, "/v1/tx/submit", `{"from":"Nobody","to":"Bob","value":0}`)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould accept the zero value transaction, got %d: %s", failed, w.Code, w.Body)
			}

			w = do(mux, http.MethodPost, "/v1/mining/mine", "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 2:\tShould receive a 400, got %d: %s", failed, w.Code, w.Body)
			}

			var resp struct {
				Error   string             `json:"error"`
				Details []state.RejectedTx `json:"details"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould receive an error document: %v", failed, err)
			}
			if len(resp.Details) != 1 || resp.Details[0].Tx.From != "Nobody" || resp.Details[0].Reason == "" {
				t.Fatalf("\t%s\tTest 2:\tShould list the rejected transaction, got %+v.", failed, resp.Details)
			}
			t.Logf("\t%s\tTest 2:\tShould list the rejected transaction.", success)

			if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
				t.Fatalf("\t%s\tTest 2:\tShould set the cors origin, got %q.", failed, origin)
			}
			t.Logf("\t%s\tTest 2:\tShould set the cors origin.", success)
		}
	}
}
