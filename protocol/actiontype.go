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

package protocol

// ActionType names a system contract action. The values are the names used on
// the wire, in journals and in block files.
type ActionType string

// Action types, grouped by the component that handles them.
const (
	UnknownAction ActionType = ""

	// producer and voter registry
	RegProducerAction   ActionType = "regproducer"
	UnregProdAction     ActionType = "unregprod"
	VoteProducerAction  ActionType = "voteproducer"
	RegProxyAction      ActionType = "regproxy"
	RmvProducerAction   ActionType = "rmvproducer"
	ClaimRewardsAction  ActionType = "claimrewards"
	OnBlockAction       ActionType = "onblock"
	BidNameAction       ActionType = "bidname"
	NewAccountAction    ActionType = "newaccount"
	SetAccountRAMAction ActionType = "setaccntram"
	SetAccountBWAction  ActionType = "setaccntbw"
	SetMaxRAMAction     ActionType = "setmaxram"
	SetMaxAccntsAction  ActionType = "setmaxaccnts"
	SetParamsAction     ActionType = "setparams"
	SetPrivAction       ActionType = "setpriv"

	// token ledger
	CreateTokenAction ActionType = "create"
	IssueAction       ActionType = "issue"
	TransferAction    ActionType = "transfer"
)

// ActionTypes lists every known action type.
var ActionTypes = []ActionType{
	RegProducerAction, UnregProdAction, VoteProducerAction, RegProxyAction,
	RmvProducerAction, ClaimRewardsAction, OnBlockAction, BidNameAction,
	NewAccountAction, SetAccountRAMAction, SetAccountBWAction, SetMaxRAMAction,
	SetMaxAccntsAction, SetParamsAction, SetPrivAction,
	CreateTokenAction, IssueAction, TransferAction,
}

// Known reports whether t is one of the action types above.
func (t ActionType) Known() bool {
	for _, at := range ActionTypes {
		if at == t && t != UnknownAction {
			return true
		}
	}
	return false
}
