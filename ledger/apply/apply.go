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
	"fmt"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/serr"
)

// State gives the apply functions access to the contract tables.
// After a call to PutX, future calls to X observe the new record.
type State interface {
	// Global returns the singleton record. A fresh state returns the zero value.
	Global() (basics.GlobalState, error)
	PutGlobal(basics.GlobalState) error

	// Lookups report found=false with a nil error when the record is absent.
	// A non-nil error means the lookup itself failed.

	Voter(owner basics.Name) (basics.Voter, bool, error)
	PutVoter(basics.Voter) error

	Producer(owner basics.Name) (basics.Producer, bool, error)
	PutProducer(basics.Producer) error
	// ProducersByVotes visits producers by total votes descending, ties by
	// name ascending, until fn returns false.
	ProducersByVotes(fn func(basics.Producer) bool) error

	UserResources(owner basics.Name) (basics.UserResources, bool, error)
	PutUserResources(basics.UserResources) error

	NameBid(name basics.Name) (basics.NameBid, bool, error)
	PutNameBid(basics.NameBid) error
	DeleteNameBid(name basics.Name) error
	// BidsByHighBid visits bids by high bid descending, so closed auctions
	// come last, until fn returns false.
	BidsByHighBid(fn func(basics.NameBid) bool) error

	Account(name basics.Name) (basics.Account, bool, error)
	PutAccount(basics.Account) error
}

// Host receives the effects the contract has outside its own tables.
type Host interface {
	SetResourceLimits(basics.ResourceLimits) error
	SetProposedProducers([]basics.ProducerKey) error
	SetBlockchainParameters(basics.BlockchainParameters) error
	SetPrivileged(account basics.Name, privileged bool) error
}

// TokenLedger is the token collaborator. Calls into it may come back into
// the contract through ChangeStake, so callers store their pending changes
// to GlobalState before calling and reload it afterwards.
type TokenLedger interface {
	Create(issuer basics.Name, maxSupply basics.Asset) error
	Issue(to basics.Name, qty basics.Asset, memo string) error
	Transfer(from, to basics.Name, qty basics.Asset, memo string) error
	Balance(owner basics.Name, sym basics.Symbol) (int64, error)
	Stats(sym basics.Symbol) (basics.TokenStats, bool, error)
}

// Env is everything an action sees while it runs.
type Env struct {
	State  State
	Host   Host
	Tokens TokenLedger

	Params   config.SystemParams
	Accounts bookkeeping.SystemAccounts

	// CoreSymbol is the staked token; RewardSymbol pays producers.
	CoreSymbol   basics.Symbol
	RewardSymbol basics.Symbol

	// Now is the time of the block being applied.
	Now basics.TimePoint
}

func requireAuth(header actions.Header, acct basics.Name) error {
	for _, auth := range header.Authorization {
		if auth == acct {
			return nil
		}
	}
	return serr.New(serr.Authorization, fmt.Sprintf("missing authority of %s", acct), "account", acct)
}

// requireStakeholder checks that acct holds some of the core token.
func (env *Env) requireStakeholder(acct basics.Name) error {
	bal, err := env.Tokens.Balance(acct, env.CoreSymbol)
	if err != nil {
		return err
	}
	if bal <= 0 {
		return serr.New(serr.Authorization, "you must be stakeholder", "account", acct)
	}
	return nil
}

func (env *Env) activated(g basics.GlobalState) bool {
	return g.TotalActivatedStake >= env.Params.MinActivatedStake
}
