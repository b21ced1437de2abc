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

package apply

import (
	"sort"

	"github.com/stretchr/testify/require"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/token"
)

type balanceKey struct {
	code  string
	owner basics.Name
}

// mockState is an in-memory State that also backs the token ledger.
type mockState struct {
	global    basics.GlobalState
	voters    map[basics.Name]basics.Voter
	producers map[basics.Name]basics.Producer
	userres   map[basics.Name]basics.UserResources
	bids      map[basics.Name]basics.NameBid
	accounts  map[basics.Name]basics.Account
	balances  map[balanceKey]int64
	stats     map[string]basics.TokenStats
}

func makeMockState() *mockState {
	return &mockState{
		voters:    make(map[basics.Name]basics.Voter),
		producers: make(map[basics.Name]basics.Producer),
		userres:   make(map[basics.Name]basics.UserResources),
		bids:      make(map[basics.Name]basics.NameBid),
		accounts:  make(map[basics.Name]basics.Account),
		balances:  make(map[balanceKey]int64),
		stats:     make(map[string]basics.TokenStats),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func (ms *mockState) clone() *mockState {
	return &mockState{
		global:    ms.global,
		voters:    cloneMap(ms.voters),
		producers: cloneMap(ms.producers),
		userres:   cloneMap(ms.userres),
		bids:      cloneMap(ms.bids),
		accounts:  cloneMap(ms.accounts),
		balances:  cloneMap(ms.balances),
		stats:     cloneMap(ms.stats),
	}
}

// atomic runs fn and discards its writes if it fails.
func (ms *mockState) atomic(fn func() error) error {
	snap := ms.clone()
	err := fn()
	if err != nil {
		*ms = *snap
	}
	return err
}

func (ms *mockState) Global() (basics.GlobalState, error) { return ms.global, nil }
func (ms *mockState) PutGlobal(g basics.GlobalState) error {
	ms.global = g
	return nil
}

func (ms *mockState) Voter(owner basics.Name) (basics.Voter, bool, error) {
	v, ok := ms.voters[owner]
	return v, ok, nil
}
func (ms *mockState) PutVoter(v basics.Voter) error {
	ms.voters[v.Owner] = v
	return nil
}

func (ms *mockState) Producer(owner basics.Name) (basics.Producer, bool, error) {
	p, ok := ms.producers[owner]
	return p, ok, nil
}
func (ms *mockState) PutProducer(p basics.Producer) error {
	ms.producers[p.Owner] = p
	return nil
}

func (ms *mockState) ProducersByVotes(fn func(basics.Producer) bool) error {
	all := make([]basics.Producer, 0, len(ms.producers))
	for _, p := range ms.producers {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalVotes != all[j].TotalVotes {
			return all[i].TotalVotes > all[j].TotalVotes
		}
		return all[i].Owner < all[j].Owner
	})
	for _, p := range all {
		if !fn(p) {
			break
		}
	}
	return nil
}

func (ms *mockState) UserResources(owner basics.Name) (basics.UserResources, bool, error) {
	r, ok := ms.userres[owner]
	return r, ok, nil
}
func (ms *mockState) PutUserResources(r basics.UserResources) error {
	ms.userres[r.Owner] = r
	return nil
}

func (ms *mockState) NameBid(name basics.Name) (basics.NameBid, bool, error) {
	b, ok := ms.bids[name]
	return b, ok, nil
}
func (ms *mockState) PutNameBid(b basics.NameBid) error {
	ms.bids[b.NewName] = b
	return nil
}
func (ms *mockState) DeleteNameBid(name basics.Name) error {
	delete(ms.bids, name)
	return nil
}

func (ms *mockState) BidsByHighBid(fn func(basics.NameBid) bool) error {
	all := make([]basics.NameBid, 0, len(ms.bids))
	for _, b := range ms.bids {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].HighBid != all[j].HighBid {
			return all[i].HighBid > all[j].HighBid
		}
		return all[i].NewName < all[j].NewName
	})
	for _, b := range all {
		if !fn(b) {
			break
		}
	}
	return nil
}

func (ms *mockState) Account(name basics.Name) (basics.Account, bool, error) {
	a, ok := ms.accounts[name]
	return a, ok, nil
}
func (ms *mockState) PutAccount(a basics.Account) error {
	ms.accounts[a.Name] = a
	return nil
}

// token.Store

func (ms *mockState) Balance(sym basics.Symbol, owner basics.Name) (int64, error) {
	return ms.balances[balanceKey{sym.Code, owner}], nil
}
func (ms *mockState) PutBalance(sym basics.Symbol, owner basics.Name, amount int64) error {
	ms.balances[balanceKey{sym.Code, owner}] = amount
	return nil
}
func (ms *mockState) TokenStats(sym basics.Symbol) (basics.TokenStats, bool, error) {
	st, ok := ms.stats[sym.Code]
	return st, ok, nil
}
func (ms *mockState) PutTokenStats(st basics.TokenStats) error {
	ms.stats[st.Supply.Symbol.Code] = st
	return nil
}
func (ms *mockState) AccountExists(name basics.Name) (bool, error) {
	_, ok := ms.accounts[name]
	return ok, nil
}

type mockHost struct {
	limits   map[basics.Name]basics.ResourceLimits
	proposed [][]basics.ProducerKey
	params   *basics.BlockchainParameters
	priv     map[basics.Name]bool
}

func makeMockHost() *mockHost {
	return &mockHost{
		limits: make(map[basics.Name]basics.ResourceLimits),
		priv:   make(map[basics.Name]bool),
	}
}

func (h *mockHost) SetResourceLimits(l basics.ResourceLimits) error {
	h.limits[l.Account] = l
	return nil
}
func (h *mockHost) SetProposedProducers(keys []basics.ProducerKey) error {
	h.proposed = append(h.proposed, keys)
	return nil
}
func (h *mockHost) SetBlockchainParameters(p basics.BlockchainParameters) error {
	h.params = &p
	return nil
}
func (h *mockHost) SetPrivileged(acct basics.Name, priv bool) error {
	h.priv[acct] = priv
	return nil
}

var (
	coreSym   = basics.Symbol{Code: "SYS", Precision: 4}
	rewardSym = basics.Symbol{Code: "SPT", Precision: 4}
	sysAccts  = bookkeeping.DefaultSystemAccounts
	sysName   = sysAccts.System
)

const startSlot basics.BlockTimestamp = 300_000_000

func n(s string) basics.Name { return basics.MustParseName(s) }

func core(amount int64) basics.Asset { return basics.NewAsset(amount, coreSym) }

type fixture struct {
	t     require.TestingT
	env   *Env
	state *mockState
	host  *mockHost
}

// newFixture returns a chain with the system accounts and both tokens but
// no users.
func newFixture(t require.TestingT) *fixture {
	ms := makeMockState()
	host := makeMockHost()
	env := &Env{
		State:        ms,
		Host:         host,
		Params:       config.DefaultSystemParams,
		Accounts:     sysAccts,
		CoreSymbol:   coreSym,
		RewardSymbol: rewardSym,
		Now:          startSlot.TimePoint(),
	}
	env.Tokens = token.New(ms, coreSym, func(owner basics.Name, delta int64) error {
		return ChangeStake(env, owner, delta)
	})

	ms.global = basics.GlobalState{
		Params:                basics.DefaultBlockchainParameters,
		MaxRAMSize:            64 << 30,
		AccountRAMSize:        4096,
		MaxAccounts:           1000,
		MaxRAMSizeForAccounts: 1000 * 4096,
		PaymentBucketPerYear:  50_000_000_0000,
	}
	for _, a := range sysAccts.All() {
		ms.accounts[a] = basics.Account{Name: a, Creator: sysName, Privileged: true}
	}
	require.NoError(t, env.Tokens.Create(sysName, core(10_000_000_000_0000)))
	require.NoError(t, env.Tokens.Create(sysName, basics.NewAsset(10_000_000_000_0000, rewardSym)))
	return &fixture{t: t, env: env, state: ms, host: host}
}

func (f *fixture) run(act actions.Action) error {
	return f.state.atomic(func() error { return Dispatch(act, f.env) })
}

func (f *fixture) mustRun(act actions.Action) {
	require.NoError(f.t, f.run(act), "%s", act.Type)
}

// addUsers creates accounts as the system account.
func (f *fixture) addUsers(names ...string) {
	for _, name := range names {
		f.mustRun(actions.NewAccount(sysName, n(name)))
	}
}

// fund issues core tokens, which become the account's stake.
func (f *fixture) fund(name string, amount int64) {
	f.mustRun(actions.Issue(sysName, n(name), core(amount), "fund"))
}

func (f *fixture) regProducer(name string) {
	f.mustRun(actions.RegProducer(n(name), basics.PublicKey("PUB_"+name), "https://"+name+".example", 0))
}

func (f *fixture) vote(voter string, producers ...string) error {
	names := make([]basics.Name, len(producers))
	for i, p := range producers {
		names[i] = n(p)
	}
	return f.run(actions.VoteProducer(n(voter), 0, names...))
}

func (f *fixture) voteProxy(voter, proxy string) error {
	return f.run(actions.VoteProducer(n(voter), n(proxy)))
}

func (f *fixture) votes(producer string) float64 {
	return f.state.producers[n(producer)].TotalVotes
}

func (f *fixture) voter(name string) basics.Voter {
	return f.state.voters[n(name)]
}

func (f *fixture) balance(name string, sym basics.Symbol) int64 {
	return f.state.balances[balanceKey{sym.Code, n(name)}]
}

// setSlot moves the chain clock to the start of ts.
func (f *fixture) setSlot(ts basics.BlockTimestamp) {
	f.env.Now = ts.TimePoint()
}

func (f *fixture) onBlock(ts basics.BlockTimestamp, producer string) {
	f.setSlot(ts)
	f.mustRun(actions.OnBlock(sysName, ts, n(producer)))
}

// requireConserved checks that producer totals equal the weights voters
// last pushed to them, and that proxies hold exactly what their delegators
// pushed.
func (f *fixture) requireConserved() {
	expect := make(map[basics.Name]float64)
	proxied := make(map[basics.Name]float64)
	for _, v := range f.state.voters {
		require.False(f.t, !v.Proxy.IsEmpty() && len(v.Producers) > 0, "voter %s has proxy and producers", v.Owner)
		if !v.Proxy.IsEmpty() {
			proxied[v.Proxy] += v.LastVoteWeight
			continue
		}
		for _, p := range v.Producers {
			expect[p] += v.LastVoteWeight
		}
	}
	var total float64
	for name, p := range f.state.producers {
		require.InDelta(f.t, expect[name], p.TotalVotes, 1e-3, "producer %s", name)
		total += p.TotalVotes
	}
	require.InDelta(f.t, total, f.state.global.TotalProducerVoteWeight, 1e-3)
	for _, v := range f.state.voters {
		if v.IsProxy || v.ProxiedVoteWeight != 0 {
			require.InDelta(f.t, proxied[v.Owner], v.ProxiedVoteWeight, 1e-3, "proxy %s", v.Owner)
		}
	}
}
