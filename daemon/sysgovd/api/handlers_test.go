// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-sysgov
//
// go-sysgov is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-sysgov is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-sysgov.  If not, see <https://www.gnu.org/licenses/>.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/ledger/store"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/test/partitiontest"
	"github.com/sysgov/go-sysgov/util/metrics"
)

const testToken = "s3cr3t"

func n(s string) basics.Name { return basics.MustParseName(s) }

type fixture struct {
	e       *echo.Echo
	ledger  *ledger.Ledger
	journal *journal.Recorder
	reg     *metrics.Registry
}

func newFixture(t *testing.T) *fixture {
	log := logging.TestingLog(t)

	st, err := store.Open("goleveldb", filepath.Join(t.TempDir(), "ledger"), true)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	j, err := journal.Open("sqlite3", ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	g := bookkeeping.DefaultGenesis("apitest", 1_700_000_000)
	g.Allocation = []bookkeeping.GenesisAllocation{
		{Name: n("alice"), Balance: 200_000_000_0000},
		{Name: n("bob"), Balance: 10_0000},
	}
	reg := metrics.MakeRegistry()
	l, err := ledger.Open(st, g, config.DefaultSystemParams, log, ledger.WithJournal(j), ledger.WithMetrics(reg))
	require.NoError(t, err)
	t.Cleanup(l.Close)

	e := NewRouter(l, Config{Log: log, Journal: j, AdminAPIToken: testToken, Registry: reg})
	return &fixture{e: e, ledger: l, journal: j, reg: reg}
}

func (f *fixture) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) nextBlock(acts ...actions.Action) string {
	last := f.ledger.LastBlock()
	blk := bookkeeping.Block{
		Round:     last.Round + 1,
		Timestamp: last.Timestamp + 1,
		Producer:  n("sys"),
		Actions:   acts,
	}
	return string(protocol.EncodeJSON(blk))
}

func TestStatusAndGlobal(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)

	rec := f.do(http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status NodeStatus
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &status))
	require.Equal(t, "apitest", status.Network)
	require.Zero(t, status.LastRound)

	rec = f.do(http.MethodGet, "/v1/global", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var g basics.GlobalState
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &g))
	require.Equal(t, uint64(1_000_000), g.MaxAccounts)

	rec = f.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitBlockRequiresToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	body := f.nextBlock()

	rec := f.do(http.MethodPost, "/v1/blocks", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/v1/blocks", body, "Authorization", "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, f.ledger.LastBlock().Round)

	rec = f.do(http.MethodPost, "/v1/blocks", body, TokenHeader, testToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint64(1), f.ledger.LastBlock().Round)
}

func TestSubmitBlockDisabledWithoutToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	e := NewRouter(f.ledger, Config{Log: logging.TestingLog(t)})
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", strings.NewReader(f.nextBlock()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitBlockAndQuery(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	body := f.nextBlock(
		actions.RegProducer(n("bob"), "PUB_bob", "https://bob.example", 1),
		actions.VoteProducer(n("alice"), 0, n("bob")),
		actions.VoteProducer(n("alice"), 0, n("erin")),
	)
	rec := f.do(http.MethodPost, "/v1/blocks", body, "Authorization", "Bearer "+testToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BlockResponse
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(1), resp.Round)
	require.Len(t, resp.Receipts, 3)
	require.True(t, resp.Receipts[0].Applied)
	require.True(t, resp.Receipts[1].Applied)
	require.False(t, resp.Receipts[2].Applied)
	require.Equal(t, "producer is not registered", resp.Receipts[2].Error)
	require.Equal(t, "not_found", resp.Receipts[2].Kind)

	rec = f.do(http.MethodGet, "/v1/producers?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var producers []basics.Producer
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &producers))
	require.Len(t, producers, 1)
	require.Equal(t, n("bob"), producers[0].Owner)
	require.Positive(t, producers[0].TotalVotes)

	rec = f.do(http.MethodGet, "/v1/producers/bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/v1/voters/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var voter basics.Voter
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &voter))
	require.Equal(t, []basics.Name{n("bob")}, voter.Producers)

	rec = f.do(http.MethodGet, "/v1/balances/SYS/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bal BalanceResponse
	require.NoError(t, protocol.DecodeJSON(rec.Body.Bytes(), &bal))
	require.Equal(t, int64(200_000_000_0000), bal.Amount)

	rec = f.do(http.MethodGet, "/v1/journal/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []journal.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	require.Equal(t, "voteproducer", entries[2].Action)
	require.False(t, entries[2].Applied)
}

func TestSubmitBlockOutOfOrder(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	blk := bookkeeping.Block{Round: 7, Timestamp: f.ledger.LastBlock().Timestamp + 1}
	rec := f.do(http.MethodPost, "/v1/blocks", string(protocol.EncodeJSON(blk)), TokenHeader, testToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "invariant", resp.Kind)

	rec = f.do(http.MethodPost, "/v1/blocks", "", TokenHeader, testToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/blocks", "{not json", TokenHeader, testToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundAndBadRequests(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	for path, code := range map[string]int{
		"/v1/producers/nobody":     http.StatusNotFound,
		"/v1/voters/nobody":        http.StatusNotFound,
		"/v1/bids/nobody":          http.StatusNotFound,
		"/v1/resources/nobody":     http.StatusNotFound,
		"/v1/balances/XYZ/alice":   http.StatusNotFound,
		"/v1/producers/NOT_A_NAME": http.StatusBadRequest,
		"/v1/producers?limit=0":    http.StatusBadRequest,
		"/v1/producers?limit=abc":  http.StatusBadRequest,
		"/v1/journal/abc":          http.StatusBadRequest,
		"/v1/resources/alice":      http.StatusOK,
		"/v1/bids":                 http.StatusOK,
		"/v1/schedule":             http.StatusOK,
		"/v1/journal?limit=10":     http.StatusOK,
	} {
		rec := f.do(http.MethodGet, path, "")
		require.Equal(t, code, rec.Code, path)
	}
}

func TestJournalDisabled(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	e := NewRouter(f.ledger, Config{Log: logging.TestingLog(t)})
	req := httptest.NewRequest(http.MethodGet, "/v1/journal", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.do(http.MethodGet, "/v1/status", "")
	f.do(http.MethodGet, "/v1/producers/nobody", "")

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	require.Contains(t, out, `sysgov_api_requests_total{code="200",route="/v1/status"} 1`)
	require.Contains(t, out, `sysgov_api_requests_total{code="404",route="/v1/producers/:name"} 1`)
	require.Contains(t, out, "sysgov_ledger_round")
}

func TestRequestContextCancel(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", strings.NewReader(f.nextBlock(actions.ClaimRewards(n("bob")))))
	req = req.WithContext(ctx)
	req.Header.Set(TokenHeader, testToken)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Zero(t, f.ledger.LastBlock().Round)
}
