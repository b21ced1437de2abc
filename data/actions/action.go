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

package actions

import (
	"fmt"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/protocol"
)

// Header captures the fields common to every action.
type Header struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Authorization lists the accounts whose authority the action carries.
	// Signatures are checked before an action reaches the ledger.
	Authorization []basics.Name `codec:"auth"`

	// Account is the account the action is about: the producer for
	// regproducer, unregprod, rmvproducer, claimrewards and onblock; the
	// voter for voteproducer; the proxy for regproxy; the target account for
	// setaccntram, setaccntbw and setpriv; the bidder for bidname; the
	// creator for newaccount; the issuer for create; the sender for transfer.
	Account basics.Name `codec:"acct"`
}

// ProducerFields are used by regproducer.
type ProducerFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ProducerKey basics.PublicKey `codec:"pkey"`
	URL         string           `codec:"url"`
	Location    uint16           `codec:"loc"`
}

// VoteFields are used by voteproducer.
type VoteFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Proxy     basics.Name   `codec:"proxy"`
	Producers []basics.Name `codec:"prods"`
}

// FlagFields carry the boolean of regproxy and setpriv.
type FlagFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	IsProxy bool `codec:"isproxy"`
	IsPriv  bool `codec:"ispriv"`
}

// ResourceFields are used by setaccntram, setaccntbw, setmaxram and setmaxaccnts.
type ResourceFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	RAM         int64  `codec:"ram"`
	Net         int64  `codec:"net"`
	CPU         int64  `codec:"cpu"`
	MaxRAMSize  uint64 `codec:"maxram"`
	MaxAccounts uint64 `codec:"maxaccts"`
}

// BidFields are used by bidname.
type BidFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NewName basics.Name  `codec:"newname"`
	Bid     basics.Asset `codec:"bid"`
}

// NewAccountFields are used by newaccount.
type NewAccountFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NewAccount basics.Name `codec:"newact"`
}

// OnBlockFields are used by onblock.
type OnBlockFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Timestamp basics.BlockTimestamp `codec:"ts"`
}

// TokenFields are used by create, issue and transfer.
type TokenFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	To        basics.Name  `codec:"to"`
	Quantity  basics.Asset `codec:"qty"`
	MaxSupply basics.Asset `codec:"maxsupply"`
	Memo      string       `codec:"memo"`
}

// Action is a single call into the system contract or the token ledger.
type Action struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type protocol.ActionType `codec:"type"`

	Header

	ProducerFields
	VoteFields
	FlagFields
	ResourceFields
	BidFields
	NewAccountFields
	OnBlockFields
	TokenFields

	// Params is set only by setparams.
	Params *basics.BlockchainParameters `codec:"params"`
}

// WellFormed checks that the action carries the fields its type needs.
// Semantic checks belong to the handlers, which report them with the
// contract's own messages.
func (a Action) WellFormed() error {
	if !a.Type.Known() {
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	switch a.Type {
	case protocol.SetMaxRAMAction, protocol.SetMaxAccntsAction, protocol.SetParamsAction, protocol.IssueAction:
	default:
		if a.Account.IsEmpty() {
			return fmt.Errorf("%s: missing account", a.Type)
		}
	}
	switch a.Type {
	case protocol.SetParamsAction:
		if a.Params == nil {
			return fmt.Errorf("%s: missing parameters", a.Type)
		}
	case protocol.BidNameAction:
		if !a.Bid.Symbol.Valid() {
			return fmt.Errorf("%s: invalid bid symbol %q", a.Type, a.Bid.Symbol.Code)
		}
	case protocol.NewAccountAction:
		if a.NewAccount.IsEmpty() {
			return fmt.Errorf("%s: missing new account name", a.Type)
		}
	case protocol.CreateTokenAction:
		if !a.MaxSupply.Symbol.Valid() {
			return fmt.Errorf("%s: invalid symbol %q", a.Type, a.MaxSupply.Symbol.Code)
		}
	case protocol.IssueAction, protocol.TransferAction:
		if a.To.IsEmpty() {
			return fmt.Errorf("%s: missing recipient", a.Type)
		}
		if !a.Quantity.Symbol.Valid() {
			return fmt.Errorf("%s: invalid symbol %q", a.Type, a.Quantity.Symbol.Code)
		}
	}
	return nil
}

// Authorizes reports whether the action carries the authority of acct.
func (a Action) Authorizes(acct basics.Name) bool {
	for _, auth := range a.Authorization {
		if auth == acct {
			return true
		}
	}
	return false
}
