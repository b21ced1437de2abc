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
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/protocol"
)

// The helpers below build actions authorized by the account they are about.
// Privileged actions take the authorizing account explicitly.

// RegProducer builds a regproducer action.
func RegProducer(producer basics.Name, key basics.PublicKey, url string, location uint16) Action {
	return Action{
		Type:           protocol.RegProducerAction,
		Header:         self(producer),
		ProducerFields: ProducerFields{ProducerKey: key, URL: url, Location: location},
	}
}

// UnregProd builds an unregprod action.
func UnregProd(producer basics.Name) Action {
	return Action{Type: protocol.UnregProdAction, Header: self(producer)}
}

// VoteProducer builds a voteproducer action.
func VoteProducer(voter, proxy basics.Name, producers ...basics.Name) Action {
	return Action{
		Type:       protocol.VoteProducerAction,
		Header:     self(voter),
		VoteFields: VoteFields{Proxy: proxy, Producers: producers},
	}
}

// RegProxy builds a regproxy action.
func RegProxy(proxy basics.Name, isProxy bool) Action {
	return Action{
		Type:       protocol.RegProxyAction,
		Header:     self(proxy),
		FlagFields: FlagFields{IsProxy: isProxy},
	}
}

// ClaimRewards builds a claimrewards action.
func ClaimRewards(owner basics.Name) Action {
	return Action{Type: protocol.ClaimRewardsAction, Header: self(owner)}
}

// BidName builds a bidname action.
func BidName(bidder, newName basics.Name, bid basics.Asset) Action {
	return Action{
		Type:      protocol.BidNameAction,
		Header:    self(bidder),
		BidFields: BidFields{NewName: newName, Bid: bid},
	}
}

// NewAccount builds a newaccount action.
func NewAccount(creator, newAccount basics.Name) Action {
	return Action{
		Type:             protocol.NewAccountAction,
		Header:           self(creator),
		NewAccountFields: NewAccountFields{NewAccount: newAccount},
	}
}

// OnBlock builds the onblock action the ledger runs at the start of every block.
func OnBlock(auth basics.Name, ts basics.BlockTimestamp, producer basics.Name) Action {
	return Action{
		Type:          protocol.OnBlockAction,
		Header:        Header{Authorization: []basics.Name{auth}, Account: producer},
		OnBlockFields: OnBlockFields{Timestamp: ts},
	}
}

// RmvProducer builds a rmvproducer action.
func RmvProducer(auth, producer basics.Name) Action {
	return Action{
		Type:   protocol.RmvProducerAction,
		Header: Header{Authorization: []basics.Name{auth}, Account: producer},
	}
}

// SetAccountRAM builds a setaccntram action.
func SetAccountRAM(auth, account basics.Name, ram int64) Action {
	return Action{
		Type:           protocol.SetAccountRAMAction,
		Header:         Header{Authorization: []basics.Name{auth}, Account: account},
		ResourceFields: ResourceFields{RAM: ram},
	}
}

// SetAccountBW builds a setaccntbw action.
func SetAccountBW(auth, account basics.Name, net, cpu int64) Action {
	return Action{
		Type:           protocol.SetAccountBWAction,
		Header:         Header{Authorization: []basics.Name{auth}, Account: account},
		ResourceFields: ResourceFields{Net: net, CPU: cpu},
	}
}

// SetMaxRAM builds a setmaxram action.
func SetMaxRAM(auth basics.Name, size uint64) Action {
	return Action{
		Type:           protocol.SetMaxRAMAction,
		Header:         Header{Authorization: []basics.Name{auth}},
		ResourceFields: ResourceFields{MaxRAMSize: size},
	}
}

// SetMaxAccounts builds a setmaxaccnts action.
func SetMaxAccounts(auth basics.Name, count uint64) Action {
	return Action{
		Type:           protocol.SetMaxAccntsAction,
		Header:         Header{Authorization: []basics.Name{auth}},
		ResourceFields: ResourceFields{MaxAccounts: count},
	}
}

// SetParams builds a setparams action.
func SetParams(auth basics.Name, params basics.BlockchainParameters) Action {
	return Action{
		Type:   protocol.SetParamsAction,
		Header: Header{Authorization: []basics.Name{auth}},
		Params: &params,
	}
}

// SetPriv builds a setpriv action.
func SetPriv(auth, account basics.Name, isPriv bool) Action {
	return Action{
		Type:       protocol.SetPrivAction,
		Header:     Header{Authorization: []basics.Name{auth}, Account: account},
		FlagFields: FlagFields{IsPriv: isPriv},
	}
}

// CreateToken builds a token create action.
func CreateToken(auth, issuer basics.Name, maxSupply basics.Asset) Action {
	return Action{
		Type:        protocol.CreateTokenAction,
		Header:      Header{Authorization: []basics.Name{auth}, Account: issuer},
		TokenFields: TokenFields{MaxSupply: maxSupply},
	}
}

// Issue builds a token issue action authorized by the issuer.
func Issue(issuer, to basics.Name, qty basics.Asset, memo string) Action {
	return Action{
		Type:        protocol.IssueAction,
		Header:      Header{Authorization: []basics.Name{issuer}},
		TokenFields: TokenFields{To: to, Quantity: qty, Memo: memo},
	}
}

// Transfer builds a token transfer action.
func Transfer(from, to basics.Name, qty basics.Asset, memo string) Action {
	return Action{
		Type:        protocol.TransferAction,
		Header:      self(from),
		TokenFields: TokenFields{To: to, Quantity: qty, Memo: memo},
	}
}

func self(acct basics.Name) Header {
	return Header{Authorization: []basics.Name{acct}, Account: acct}
}
