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
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// BidName places header.Account's bid on a premium name. The bid is escrowed
// in the names account and the previous high bidder is refunded in full.
func BidName(fields actions.BidFields, header actions.Header, env *Env) error {
	bidder := header.Account
	newName := fields.NewName
	if err := requireAuth(header, bidder); err != nil {
		return err
	}
	if newName.Suffix() != newName {
		return serr.New(serr.Invariant, "you can only bid on top-level suffix", "name", newName)
	}
	if newName.IsEmpty() {
		return serr.New(serr.Invariant, "the empty name is not a valid account name to bid on")
	}
	if uint64(newName)&0xf != 0 {
		return serr.New(serr.Invariant, "13 character names are not valid account names to bid on", "name", newName)
	}
	if uint64(newName)&0x1f0 != 0 {
		return serr.New(serr.Invariant, "accounts with 12 character names and no dots can be created without bidding required", "name", newName)
	}
	_, exists, err := env.State.Account(newName)
	if err != nil {
		return err
	}
	if exists {
		return serr.New(serr.StateConflict, "account already exists", "name", newName)
	}
	if fields.Bid.Symbol != env.CoreSymbol {
		return serr.New(serr.Invariant, "asset must be system token", "symbol", fields.Bid.Symbol.String())
	}
	if fields.Bid.Amount <= 0 {
		return serr.New(serr.Invariant, "insufficient bid", "bid", fields.Bid.String())
	}

	if err := env.Tokens.Transfer(bidder, env.Accounts.Names, fields.Bid, "bid name "+newName.String()); err != nil {
		return err
	}

	current, found, err := env.State.NameBid(newName)
	if err != nil {
		return err
	}
	if found {
		if current.Closed() {
			return serr.New(serr.StateConflict, "this auction has already closed", "name", newName)
		}
		if fields.Bid.Amount-current.HighBid <= current.HighBid/env.Params.BidIncrementDivide {
			return serr.New(serr.Invariant, "must increase bid by 10%", "name", newName, "high", current.HighBid, "bid", fields.Bid.Amount)
		}
		if current.HighBidder == bidder {
			return serr.New(serr.StateConflict, "account is already highest bidder", "name", newName)
		}
		refund := basics.NewAsset(current.HighBid, env.CoreSymbol)
		if err := env.Tokens.Transfer(env.Accounts.Names, current.HighBidder, refund, "refund bid on name "+newName.String()); err != nil {
			return err
		}
	}

	return env.State.PutNameBid(basics.NameBid{
		NewName:     newName,
		HighBidder:  bidder,
		HighBid:     fields.Bid.Amount,
		LastBidTime: env.Now,
	})
}
