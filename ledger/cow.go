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

package ledger

import (
	"sort"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/serr"
)

//   ___________________
// < cow = Copy On Write >
//   -------------------
//          \   ^__^
//           \  (oo)\_______
//              (__)\       )\/\
//                  ||----w |
//                  ||     ||

type roCowParent interface {
	Global() (basics.GlobalState, error)
	Voter(basics.Name) (basics.Voter, bool, error)
	Producer(basics.Name) (basics.Producer, bool, error)
	ProducersByVotes(func(basics.Producer) bool) error
	UserResources(basics.Name) (basics.UserResources, bool, error)
	NameBid(basics.Name) (basics.NameBid, bool, error)
	BidsByHighBid(func(basics.NameBid) bool) error
	Account(basics.Name) (basics.Account, bool, error)
	Balance(basics.Symbol, basics.Name) (int64, error)
	TokenStats(basics.Symbol) (basics.TokenStats, bool, error)
	ResourceLimits(basics.Name) (basics.ResourceLimits, bool, error)
	Schedule() (basics.ProducerSchedule, error)
	ChainParams() (basics.BlockchainParameters, bool, error)
}

// stateCow overlays the writes of a block, or of one action, on its parent.
// It serves as apply.State, apply.Host and token.Store at once.
type stateCow struct {
	lookupParent roCowParent
	commitParent *stateCow
	hdr          bookkeeping.BlockHeader
	mods         ledgercore.StateDelta
}

func makeStateCow(parent roCowParent, hdr bookkeeping.BlockHeader) *stateCow {
	return &stateCow{
		lookupParent: parent,
		hdr:          hdr,
		mods:         ledgercore.MakeStateDelta(),
	}
}

func (cb *stateCow) child() *stateCow {
	return &stateCow{
		lookupParent: cb,
		commitParent: cb,
		hdr:          cb.hdr,
		mods:         ledgercore.MakeStateDelta(),
	}
}

func (cb *stateCow) commitToParent() {
	cb.commitParent.mods.Merge(cb.mods)
}

func (cb *stateCow) deltas() ledgercore.StateDelta {
	return cb.mods
}

func (cb *stateCow) Global() (basics.GlobalState, error) {
	if cb.mods.Global != nil {
		return *cb.mods.Global, nil
	}
	return cb.lookupParent.Global()
}

func (cb *stateCow) PutGlobal(g basics.GlobalState) error {
	cb.mods.Global = &g
	return nil
}

func (cb *stateCow) Voter(owner basics.Name) (basics.Voter, bool, error) {
	if v, ok := cb.mods.Voters[owner]; ok {
		return v, true, nil
	}
	return cb.lookupParent.Voter(owner)
}

func (cb *stateCow) PutVoter(v basics.Voter) error {
	v.Producers = append([]basics.Name(nil), v.Producers...)
	cb.mods.Voters[v.Owner] = v
	return nil
}

func (cb *stateCow) Producer(owner basics.Name) (basics.Producer, bool, error) {
	if p, ok := cb.mods.Producers[owner]; ok {
		return p, true, nil
	}
	return cb.lookupParent.Producer(owner)
}

func (cb *stateCow) PutProducer(p basics.Producer) error {
	cb.mods.Producers[p.Owner] = p
	return nil
}

func (cb *stateCow) ProducersByVotes(fn func(basics.Producer) bool) error {
	local := make([]basics.Producer, 0, len(cb.mods.Producers))
	for _, p := range cb.mods.Producers {
		local = append(local, p)
	}
	shadowed := func(p basics.Producer) bool {
		_, ok := cb.mods.Producers[p.Owner]
		return ok
	}
	return mergeOrdered(local, shadowed, ledgercore.ProducerLess, cb.lookupParent.ProducersByVotes, fn)
}

func (cb *stateCow) UserResources(owner basics.Name) (basics.UserResources, bool, error) {
	if r, ok := cb.mods.Resources[owner]; ok {
		return r, true, nil
	}
	return cb.lookupParent.UserResources(owner)
}

func (cb *stateCow) PutUserResources(r basics.UserResources) error {
	cb.mods.Resources[r.Owner] = r
	return nil
}

func (cb *stateCow) NameBid(name basics.Name) (basics.NameBid, bool, error) {
	if mb, ok := cb.mods.Bids[name]; ok {
		return mb.Bid, !mb.Deleted, nil
	}
	return cb.lookupParent.NameBid(name)
}

func (cb *stateCow) PutNameBid(b basics.NameBid) error {
	cb.mods.Bids[b.NewName] = ledgercore.ModifiedBid{Bid: b}
	return nil
}

func (cb *stateCow) DeleteNameBid(name basics.Name) error {
	cb.mods.Bids[name] = ledgercore.ModifiedBid{Bid: basics.NameBid{NewName: name}, Deleted: true}
	return nil
}

func (cb *stateCow) BidsByHighBid(fn func(basics.NameBid) bool) error {
	local := make([]basics.NameBid, 0, len(cb.mods.Bids))
	for _, mb := range cb.mods.Bids {
		if !mb.Deleted {
			local = append(local, mb.Bid)
		}
	}
	shadowed := func(b basics.NameBid) bool {
		_, ok := cb.mods.Bids[b.NewName]
		return ok
	}
	return mergeOrdered(local, shadowed, ledgercore.BidLess, cb.lookupParent.BidsByHighBid, fn)
}

func (cb *stateCow) Account(name basics.Name) (basics.Account, bool, error) {
	if a, ok := cb.mods.Accounts[name]; ok {
		return a, true, nil
	}
	return cb.lookupParent.Account(name)
}

func (cb *stateCow) PutAccount(a basics.Account) error {
	cb.mods.Accounts[a.Name] = a
	return nil
}

func (cb *stateCow) AccountExists(name basics.Name) (bool, error) {
	_, found, err := cb.Account(name)
	return found, err
}

func (cb *stateCow) Balance(sym basics.Symbol, owner basics.Name) (int64, error) {
	if amount, ok := cb.mods.Balances[ledgercore.BalanceKey{Code: sym.Code, Owner: owner}]; ok {
		return amount, nil
	}
	return cb.lookupParent.Balance(sym, owner)
}

func (cb *stateCow) PutBalance(sym basics.Symbol, owner basics.Name, amount int64) error {
	cb.mods.Balances[ledgercore.BalanceKey{Code: sym.Code, Owner: owner}] = amount
	return nil
}

func (cb *stateCow) TokenStats(sym basics.Symbol) (basics.TokenStats, bool, error) {
	if st, ok := cb.mods.Stats[sym.Code]; ok {
		return st, true, nil
	}
	return cb.lookupParent.TokenStats(sym)
}

func (cb *stateCow) PutTokenStats(st basics.TokenStats) error {
	cb.mods.Stats[st.Supply.Symbol.Code] = st
	return nil
}

func (cb *stateCow) ResourceLimits(account basics.Name) (basics.ResourceLimits, bool, error) {
	if l, ok := cb.mods.Limits[account]; ok {
		return l, true, nil
	}
	return cb.lookupParent.ResourceLimits(account)
}

func (cb *stateCow) Schedule() (basics.ProducerSchedule, error) {
	if cb.mods.Schedule != nil {
		return *cb.mods.Schedule, nil
	}
	return cb.lookupParent.Schedule()
}

func (cb *stateCow) ChainParams() (basics.BlockchainParameters, bool, error) {
	if cb.mods.ChainParams != nil {
		return *cb.mods.ChainParams, true, nil
	}
	return cb.lookupParent.ChainParams()
}

// host effects

func (cb *stateCow) SetResourceLimits(l basics.ResourceLimits) error {
	cb.mods.Limits[l.Account] = l
	return nil
}

func (cb *stateCow) SetProposedProducers(keys []basics.ProducerKey) error {
	prev, err := cb.Schedule()
	if err != nil {
		return err
	}
	cb.mods.Schedule = &basics.ProducerSchedule{
		Version:   prev.Version + 1,
		Producers: append([]basics.ProducerKey(nil), keys...),
		Proposed:  cb.hdr.Timestamp,
	}
	return nil
}

func (cb *stateCow) SetBlockchainParameters(p basics.BlockchainParameters) error {
	cb.mods.ChainParams = &p
	return nil
}

func (cb *stateCow) SetPrivileged(account basics.Name, privileged bool) error {
	acct, found, err := cb.Account(account)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "account does not exist", "account", account)
	}
	acct.Privileged = privileged
	return cb.PutAccount(acct)
}

// mergeOrdered visits the union of the parent's ordered rows and the local
// ones. Parent rows that were written locally are replaced by their local
// version at its own position.
func mergeOrdered[T any](local []T, shadowed func(T) bool, less func(a, b T) bool, parent func(func(T) bool) error, fn func(T) bool) error {
	sort.Slice(local, func(i, j int) bool { return less(local[i], local[j]) })
	i := 0
	stopped := false
	err := parent(func(row T) bool {
		if shadowed(row) {
			return true
		}
		for ; i < len(local) && less(local[i], row); i++ {
			if !fn(local[i]) {
				stopped = true
				return false
			}
		}
		if !fn(row) {
			stopped = true
			return false
		}
		return true
	})
	if err != nil || stopped {
		return err
	}
	for ; i < len(local); i++ {
		if !fn(local[i]) {
			break
		}
	}
	return nil
}
