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

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// NewAccount creates fields.NewAccount on behalf of header.Account.
//
// Names containing a dot, and names shorter than twelve characters, are
// reserved: a name whose suffix is itself can only be created by the winner
// of its closed auction, and any other such name only by the account named
// by its suffix. The system account is exempt.
func NewAccount(fields actions.NewAccountFields, header actions.Header, env *Env) error {
	creator := header.Account
	newact := fields.NewAccount
	if err := requireAuth(header, creator); err != nil {
		return err
	}
	_, exists, err := env.State.Account(newact)
	if err != nil {
		return err
	}
	if exists {
		return serr.New(serr.StateConflict, fmt.Sprintf("Cannot create account named %s, as that name is already taken", newact), "name", newact)
	}

	if creator != env.Accounts.System && newact.HasDot() {
		suffix := newact.Suffix()
		if suffix == newact {
			bid, found, err := env.State.NameBid(newact)
			if err != nil {
				return err
			}
			if !found {
				return serr.New(serr.NotFound, "no active bid for name", "name", newact)
			}
			if bid.HighBidder != creator {
				return serr.New(serr.Authorization, "only highest bidder can claim", "name", newact, "bidder", bid.HighBidder)
			}
			if bid.HighBid >= 0 {
				return serr.New(serr.RateLimit, "auction for name is not closed yet", "name", newact)
			}
			if err := env.State.DeleteNameBid(newact); err != nil {
				return err
			}
		} else if creator != suffix {
			return serr.New(serr.Authorization, "only suffix may create this account", "name", newact, "suffix", suffix)
		}
	}

	if err := env.State.PutAccount(basics.Account{Name: newact, Creator: creator, Created: env.Now}); err != nil {
		return err
	}
	if err := env.State.PutUserResources(basics.UserResources{Owner: newact}); err != nil {
		return err
	}
	return InitAccountResources(env, newact)
}

// SetParams replaces the blockchain parameters.
func SetParams(params *basics.BlockchainParameters, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	if params == nil {
		return serr.New(serr.Invariant, "missing blockchain parameters")
	}
	if params.MaxAuthorityDepth < env.Params.MinAuthorityDepth {
		return serr.New(serr.Invariant, "max_authority_depth should be at least 3", "depth", params.MaxAuthorityDepth)
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	g.Params = *params
	if err := env.State.PutGlobal(g); err != nil {
		return err
	}
	return env.Host.SetBlockchainParameters(*params)
}

// SetPriv grants or revokes the privileged flag of header.Account.
func SetPriv(fields actions.FlagFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	acct, found, err := env.State.Account(header.Account)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "account does not exist", "account", header.Account)
	}
	acct.Privileged = fields.IsPriv
	if err := env.State.PutAccount(acct); err != nil {
		return err
	}
	return env.Host.SetPrivileged(acct.Name, fields.IsPriv)
}

// RmvProducer force-deactivates header.Account.
func RmvProducer(header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	return deactivateProducer(env, header.Account)
}
