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

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/daemon/sysgovd/api"
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/ledger/store"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/test/partitiontest"
)

const token = "t0k3n"

func n(s string) basics.Name { return basics.MustParseName(s) }

func startDaemon(t *testing.T) (*ledger.Ledger, *url.URL) {
	log := logging.TestingLog(t)

	st, err := store.Open("goleveldb", filepath.Join(t.TempDir(), "ledger"), true)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	j, err := journal.Open("sqlite3", ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	g := bookkeeping.DefaultGenesis("clienttest", 1_700_000_000)
	g.Allocation = []bookkeeping.GenesisAllocation{
		{Name: n("alice"), Balance: 200_000_000_0000},
		{Name: n("bob"), Balance: 10_0000},
	}
	l, err := ledger.Open(st, g, config.DefaultSystemParams, log, ledger.WithJournal(j))
	require.NoError(t, err)
	t.Cleanup(l.Close)

	srv := httptest.NewServer(api.NewRouter(l, api.Config{Log: log, Journal: j, AdminAPIToken: token}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return l, u
}

func nextBlock(l *ledger.Ledger, acts ...actions.Action) bookkeeping.Block {
	last := l.LastBlock()
	return bookkeeping.Block{
		Round:     last.Round + 1,
		Timestamp: last.Timestamp + 1,
		Producer:  n("sys"),
		Actions:   acts,
	}
}

func TestClientRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	l, u := startDaemon(t)
	c := MakeRestClient(*u, token)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	status, err := c.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "clienttest", status.Network)

	resp, err := c.SubmitBlock(ctx, nextBlock(l,
		actions.RegProducer(n("bob"), "PUB_bob", "https://bob.example", 1),
		actions.VoteProducer(n("alice"), 0, n("bob")),
	))
	require.NoError(t, err)
	require.Equal(t, uint64(1), resp.Round)
	require.Len(t, resp.Receipts, 2)
	for _, r := range resp.Receipts {
		require.True(t, r.Applied, r.Error)
	}

	producers, err := c.Producers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, producers, 1)
	require.Equal(t, n("bob"), producers[0].Owner)

	p, err := c.Producer(ctx, n("bob"))
	require.NoError(t, err)
	require.Equal(t, "https://bob.example", p.URL)

	v, err := c.Voter(ctx, n("alice"))
	require.NoError(t, err)
	require.Equal(t, []basics.Name{n("bob")}, v.Producers)

	bal, err := c.Balance(ctx, "SYS", n("alice"))
	require.NoError(t, err)
	require.Equal(t, int64(200_000_000_0000), bal.Amount)

	g, err := c.GlobalState(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), g.MaxAccounts)

	entries, err := c.Journal(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestClientErrors(t *testing.T) {
	partitiontest.PartitionTest(t)

	l, u := startDaemon(t)
	ctx := context.Background()

	_, err := MakeRestClient(*u, "wrong").SubmitBlock(ctx, nextBlock(l))
	var unauthorized unauthorizedRequestError
	require.ErrorAs(t, err, &unauthorized)

	c := MakeRestClient(*u, token)
	_, err = c.Producer(ctx, n("nobody"))
	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	_, err = c.SubmitBlock(ctx, bookkeeping.Block{Round: 9, Timestamp: l.LastBlock().Timestamp + 1})
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	require.Equal(t, "invariant", httpErr.Kind)
}

func TestFilterASCII(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, "abc", filterASCII("a\x00b\ncé"))
}
