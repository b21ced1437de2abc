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
	"fmt"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/apply"
)

// genesisHeader is the header of the implicit block 0 that installs the
// genesis state.
func genesisHeader(genesis bookkeeping.Genesis) bookkeeping.BlockHeader {
	return bookkeeping.BlockHeader{
		Round:     0,
		Timestamp: basics.BlockTimestampFromTimePoint(genesis.TimePoint()),
		Producer:  genesis.Accounts.System,
	}
}

// bootstrap writes the genesis state into cow. The system accounts are
// installed directly and take no RAM from the account pool; everything else
// goes through the regular actions so that it obeys the same rules as later
// blocks.
func (l *Ledger) bootstrap(cow *stateCow) error {
	genesis := l.genesis
	env := l.env(cow)
	sys := genesis.Accounts.System

	g := basics.GlobalState{
		Params:                basics.DefaultBlockchainParameters,
		MaxRAMSize:            genesis.MaxRAMSize,
		AccountRAMSize:        genesis.AccountRAMSize,
		MaxAccounts:           genesis.MaxAccounts,
		MaxRAMSizeForAccounts: int64(genesis.MaxAccounts) * genesis.AccountRAMSize,
		PaymentBucketPerYear:  genesis.PaymentBucketPerYear,
	}
	if err := cow.PutGlobal(g); err != nil {
		return err
	}
	if err := cow.SetBlockchainParameters(g.Params); err != nil {
		return err
	}
	for _, acct := range genesis.Accounts.All() {
		err := cow.PutAccount(basics.Account{Name: acct, Creator: sys, Privileged: acct == sys, Created: env.Now})
		if err != nil {
			return err
		}
		if err := cow.PutUserResources(basics.UserResources{Owner: acct}); err != nil {
			return err
		}
	}

	acts := []actions.Action{
		actions.CreateToken(genesis.Accounts.Token, sys, basics.NewAsset(genesis.CoreMaxSupply, genesis.CoreSymbol)),
		actions.CreateToken(genesis.Accounts.Token, sys, basics.NewAsset(genesis.RewardMaxSupply, genesis.RewardSymbol)),
	}
	for _, alloc := range genesis.Allocation {
		acts = append(acts, actions.NewAccount(sys, alloc.Name))
		if alloc.Balance > 0 {
			acts = append(acts, actions.Issue(sys, alloc.Name, basics.NewAsset(alloc.Balance, genesis.CoreSymbol), "genesis"))
		}
		if alloc.Privileged {
			acts = append(acts, actions.SetPriv(sys, alloc.Name, true))
		}
	}
	for i, act := range acts {
		if err := apply.Dispatch(act, env); err != nil {
			return fmt.Errorf("genesis action %d (%s): %w", i, act.Type, err)
		}
	}
	return nil
}
