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
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/serr"
)

// Dispatch applies a single action. A non-nil error means the action must be
// rolled back; Dispatch itself does not undo partial writes.
func Dispatch(act actions.Action, env *Env) error {
	if err := act.WellFormed(); err != nil {
		return serr.Wrap(serr.Invariant, err, "type", string(act.Type))
	}

	switch act.Type {
	case protocol.RegProducerAction:
		return RegProducer(act.ProducerFields, act.Header, env)
	case protocol.UnregProdAction:
		return UnregProducer(act.Header, env)
	case protocol.VoteProducerAction:
		return VoteProducer(act.VoteFields, act.Header, env)
	case protocol.RegProxyAction:
		return RegProxy(act.FlagFields, act.Header, env)
	case protocol.RmvProducerAction:
		return RmvProducer(act.Header, env)
	case protocol.ClaimRewardsAction:
		return ClaimRewards(act.Header, env)
	case protocol.OnBlockAction:
		return OnBlock(act.OnBlockFields, act.Header, env)
	case protocol.BidNameAction:
		return BidName(act.BidFields, act.Header, env)
	case protocol.NewAccountAction:
		return NewAccount(act.NewAccountFields, act.Header, env)
	case protocol.SetAccountRAMAction:
		return SetAccountRAM(act.ResourceFields, act.Header, env)
	case protocol.SetAccountBWAction:
		return SetAccountBandwidth(act.ResourceFields, act.Header, env)
	case protocol.SetMaxRAMAction:
		return SetMaxRAM(act.ResourceFields, act.Header, env)
	case protocol.SetMaxAccntsAction:
		return SetMaxAccounts(act.ResourceFields, act.Header, env)
	case protocol.SetParamsAction:
		return SetParams(act.Params, act.Header, env)
	case protocol.SetPrivAction:
		return SetPriv(act.FlagFields, act.Header, env)
	case protocol.CreateTokenAction:
		return CreateToken(act.TokenFields, act.Header, env)
	case protocol.IssueAction:
		return Issue(act.TokenFields, act.Header, env)
	case protocol.TransferAction:
		return Transfer(act.TokenFields, act.Header, env)
	default:
		return serr.New(serr.Invariant, fmt.Sprintf("unknown action type %q", act.Type))
	}
}
