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

// Package token is the native token ledger the system contract calls into.
// It keeps supply statistics and balances per symbol, and reports every
// change to the core token's balances through a stake hook, since core
// balances are vote weight.
package token

import (
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// Store is the state the token ledger reads and writes.
type Store interface {
	// Balance returns zero for owners that never held the token.
	Balance(sym basics.Symbol, owner basics.Name) (int64, error)
	PutBalance(sym basics.Symbol, owner basics.Name, amount int64) error

	TokenStats(sym basics.Symbol) (basics.TokenStats, bool, error)
	PutTokenStats(stats basics.TokenStats) error

	AccountExists(name basics.Name) (bool, error)
}

// StakeHook receives every signed change of a core token balance.
type StakeHook func(owner basics.Name, delta int64) error

// MaxMemoLen bounds the memo of issue and transfer.
const MaxMemoLen = 256

// Ledger is the token ledger over a Store.
type Ledger struct {
	store Store
	core  basics.Symbol
	hook  StakeHook
}

// New returns a ledger whose core token changes are reported to hook. A nil
// hook is allowed.
func New(store Store, core basics.Symbol, hook StakeHook) *Ledger {
	return &Ledger{store: store, core: core, hook: hook}
}

// Create registers a new token with its maximum supply.
func (l *Ledger) Create(issuer basics.Name, maxSupply basics.Asset) error {
	if !maxSupply.Symbol.Valid() {
		return serr.New(serr.Invariant, "invalid symbol name", "symbol", maxSupply.Symbol.Code)
	}
	if maxSupply.Amount <= 0 {
		return serr.New(serr.Invariant, "max-supply must be positive", "symbol", maxSupply.Symbol.Code)
	}
	_, found, err := l.store.TokenStats(maxSupply.Symbol)
	if err != nil {
		return err
	}
	if found {
		return serr.New(serr.StateConflict, "token with symbol already exists", "symbol", maxSupply.Symbol.Code)
	}
	return l.store.PutTokenStats(basics.TokenStats{
		Supply:    basics.NewAsset(0, maxSupply.Symbol),
		MaxSupply: maxSupply,
		Issuer:    issuer,
	})
}

// Issue mints qty into to's balance.
func (l *Ledger) Issue(to basics.Name, qty basics.Asset, memo string) error {
	if !qty.Symbol.Valid() {
		return serr.New(serr.Invariant, "invalid symbol name", "symbol", qty.Symbol.Code)
	}
	if len(memo) > MaxMemoLen {
		return serr.New(serr.Invariant, "memo has more than 256 bytes")
	}
	stats, found, err := l.store.TokenStats(qty.Symbol)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "token with symbol does not exist, create token before issue", "symbol", qty.Symbol.Code)
	}
	if qty.Amount <= 0 {
		return serr.New(serr.Invariant, "must issue positive quantity", "quantity", qty.String())
	}
	if qty.Symbol != stats.Supply.Symbol {
		return serr.New(serr.Invariant, "symbol precision mismatch", "symbol", qty.Symbol.String())
	}
	if qty.Amount > stats.MaxSupply.Amount-stats.Supply.Amount {
		return serr.New(serr.Invariant, "quantity exceeds available supply", "quantity", qty.String())
	}
	stats.Supply.Amount += qty.Amount
	if err := l.store.PutTokenStats(stats); err != nil {
		return err
	}
	return l.addBalance(to, qty)
}

// Transfer moves qty from one account to another.
func (l *Ledger) Transfer(from, to basics.Name, qty basics.Asset, memo string) error {
	if from == to {
		return serr.New(serr.Invariant, "cannot transfer to self", "account", from)
	}
	exists, err := l.store.AccountExists(to)
	if err != nil {
		return err
	}
	if !exists {
		return serr.New(serr.NotFound, "to account does not exist", "to", to)
	}
	stats, found, err := l.store.TokenStats(qty.Symbol)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "unable to find key", "symbol", qty.Symbol.Code)
	}
	if qty.Amount <= 0 {
		return serr.New(serr.Invariant, "must transfer positive quantity", "quantity", qty.String())
	}
	if qty.Symbol != stats.Supply.Symbol {
		return serr.New(serr.Invariant, "symbol precision mismatch", "symbol", qty.Symbol.String())
	}
	if len(memo) > MaxMemoLen {
		return serr.New(serr.Invariant, "memo has more than 256 bytes")
	}
	if err := l.subBalance(from, qty); err != nil {
		return err
	}
	return l.addBalance(to, qty)
}

// Balance returns owner's balance of sym.
func (l *Ledger) Balance(owner basics.Name, sym basics.Symbol) (int64, error) {
	return l.store.Balance(sym, owner)
}

// Stats returns the supply statistics of sym.
func (l *Ledger) Stats(sym basics.Symbol) (basics.TokenStats, bool, error) {
	return l.store.TokenStats(sym)
}

func (l *Ledger) subBalance(owner basics.Name, qty basics.Asset) error {
	bal, err := l.store.Balance(qty.Symbol, owner)
	if err != nil {
		return err
	}
	if bal < qty.Amount {
		return serr.New(serr.Invariant, "overdrawn balance", "owner", owner, "balance", bal, "quantity", qty.Amount)
	}
	if err := l.store.PutBalance(qty.Symbol, owner, bal-qty.Amount); err != nil {
		return err
	}
	return l.notify(owner, qty.Symbol, -qty.Amount)
}

func (l *Ledger) addBalance(owner basics.Name, qty basics.Asset) error {
	bal, err := l.store.Balance(qty.Symbol, owner)
	if err != nil {
		return err
	}
	sum, overflowed := basics.OAddS(bal, qty.Amount)
	if overflowed {
		return serr.New(serr.Invariant, "balance overflow", "owner", owner)
	}
	if err := l.store.PutBalance(qty.Symbol, owner, sum); err != nil {
		return err
	}
	return l.notify(owner, qty.Symbol, qty.Amount)
}

func (l *Ledger) notify(owner basics.Name, sym basics.Symbol, delta int64) error {
	if l.hook == nil || sym != l.core {
		return nil
	}
	return l.hook(owner, delta)
}
