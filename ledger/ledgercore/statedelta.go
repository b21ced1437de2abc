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

package ledgercore

import (
	"github.com/sysgov/go-sysgov/data/basics"
)

// BalanceKey identifies one token balance. Tokens are keyed by symbol code
// alone so that a precision mismatch can be told apart from a missing token.
type BalanceKey struct {
	Code  string
	Owner basics.Name
}

// ModifiedBid is a name bid written or erased by a block.
type ModifiedBid struct {
	Bid     basics.NameBid
	Deleted bool
}

// StateDelta describes the changes a block, or a single action within it,
// makes to the contract tables. Rows not mentioned are unchanged.
type StateDelta struct {
	// Global is nil when the singleton was not written.
	Global *basics.GlobalState

	Voters    map[basics.Name]basics.Voter
	Producers map[basics.Name]basics.Producer
	Resources map[basics.Name]basics.UserResources
	Bids      map[basics.Name]ModifiedBid
	Accounts  map[basics.Name]basics.Account

	Balances map[BalanceKey]int64
	Stats    map[string]basics.TokenStats

	// host effects
	Limits      map[basics.Name]basics.ResourceLimits
	Schedule    *basics.ProducerSchedule
	ChainParams *basics.BlockchainParameters
}

// MakeStateDelta returns an empty delta ready for writes.
func MakeStateDelta() StateDelta {
	return StateDelta{
		Voters:    make(map[basics.Name]basics.Voter),
		Producers: make(map[basics.Name]basics.Producer),
		Resources: make(map[basics.Name]basics.UserResources),
		Bids:      make(map[basics.Name]ModifiedBid),
		Accounts:  make(map[basics.Name]basics.Account),
		Balances:  make(map[BalanceKey]int64),
		Stats:     make(map[string]basics.TokenStats),
		Limits:    make(map[basics.Name]basics.ResourceLimits),
	}
}

// Merge applies a later delta on top of sd.
func (sd *StateDelta) Merge(child StateDelta) {
	if child.Global != nil {
		g := *child.Global
		sd.Global = &g
	}
	for k, v := range child.Voters {
		sd.Voters[k] = v
	}
	for k, v := range child.Producers {
		sd.Producers[k] = v
	}
	for k, v := range child.Resources {
		sd.Resources[k] = v
	}
	for k, v := range child.Bids {
		sd.Bids[k] = v
	}
	for k, v := range child.Accounts {
		sd.Accounts[k] = v
	}
	for k, v := range child.Balances {
		sd.Balances[k] = v
	}
	for k, v := range child.Stats {
		sd.Stats[k] = v
	}
	for k, v := range child.Limits {
		sd.Limits[k] = v
	}
	if child.Schedule != nil {
		s := *child.Schedule
		sd.Schedule = &s
	}
	if child.ChainParams != nil {
		p := *child.ChainParams
		sd.ChainParams = &p
	}
}

// Len counts the rows the delta touches.
func (sd StateDelta) Len() int {
	n := len(sd.Voters) + len(sd.Producers) + len(sd.Resources) + len(sd.Bids) +
		len(sd.Accounts) + len(sd.Balances) + len(sd.Stats) + len(sd.Limits)
	if sd.Global != nil {
		n++
	}
	if sd.Schedule != nil {
		n++
	}
	if sd.ChainParams != nil {
		n++
	}
	return n
}
