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
	"math"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// SetAccountResourceLimits updates the quotas of account, creating its
// record if needed. A nil argument leaves that quota unchanged. RAM changes
// are charged to GlobalState.TotalRAMBytesReserved.
func SetAccountResourceLimits(env *Env, account basics.Name, ram, net, cpu *int64) error {
	res, found, err := env.State.UserResources(account)
	if err != nil {
		return err
	}
	if !found {
		res = basics.UserResources{Owner: account}
	}

	if ram != nil {
		g, err := env.State.Global()
		if err != nil {
			return err
		}
		delta := *ram - res.RAMBytes
		reserved, overflowed := basics.OAddS(g.TotalRAMBytesReserved, delta)
		if overflowed || reserved < 0 {
			return serr.New(serr.Invariant, "ram reservation out of range", "account", account, "ram", *ram)
		}
		g.TotalRAMBytesReserved = reserved
		if err := env.State.PutGlobal(g); err != nil {
			return err
		}
		res.RAMBytes = *ram
	}
	if net != nil {
		res.NetWeight = *net
	}
	if cpu != nil {
		res.CPUWeight = *cpu
	}

	if err := env.State.PutUserResources(res); err != nil {
		return err
	}
	return env.Host.SetResourceLimits(basics.ResourceLimits{
		Account:   account,
		RAMBytes:  res.RAMBytes,
		NetWeight: res.NetWeight,
		CPUWeight: res.CPUWeight,
	})
}

// InitAccountResources hands a new account its share of the account
// creation pool and a minimal bandwidth allotment.
func InitAccountResources(env *Env, account basics.Name) error {
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	if g.AccountRAMSize > g.FreeAccountsRAM() {
		return serr.New(serr.Invariant, "system have no ram for new account", "account", account)
	}
	g.TotalRAMBytesReservedForAccounts += g.AccountRAMSize
	if err := env.State.PutGlobal(g); err != nil {
		return err
	}

	ram := g.AccountRAMSize
	if err := SetAccountResourceLimits(env, account, &ram, nil, nil); err != nil {
		return err
	}
	one := int64(1)
	return SetAccountResourceLimits(env, account, nil, &one, &one)
}

// SetAccountBandwidth sets the net and cpu weights of header.Account.
func SetAccountBandwidth(fields actions.ResourceFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	if fields.Net < 0 || fields.CPU < 0 {
		return serr.New(serr.Invariant, "bandwidth weights must not be negative", "account", header.Account)
	}
	return SetAccountResourceLimits(env, header.Account, nil, &fields.Net, &fields.CPU)
}

// SetAccountRAM sets the RAM quota of header.Account. The increase must fit
// the RAM neither reserved nor held back for account creation.
func SetAccountRAM(fields actions.ResourceFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	res, _, err := env.State.UserResources(header.Account)
	if err != nil {
		return err
	}

	if fields.RAM < 0 {
		return serr.New(serr.Invariant, "ram quota cannot be negative", "account", header.Account, "ram", fields.RAM)
	}
	free := g.MaxRAMSize - g.TotalRAMBytesReserved - g.FreeAccountsRAM()
	if fields.RAM > g.MaxRAMSize || fields.RAM-res.RAMBytes >= free {
		return serr.New(serr.Invariant, "system have no such ram", "account", header.Account, "ram", fields.RAM, "free", free)
	}
	if fields.RAM < g.AccountRAMSize {
		return serr.New(serr.Invariant, "memory be must more than minimal account ram size", "account", header.Account, "ram", fields.RAM)
	}
	return SetAccountResourceLimits(env, header.Account, &fields.RAM, nil, nil)
}

// SetMaxRAM changes the chain-wide RAM budget.
func SetMaxRAM(fields actions.ResourceFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	if fields.MaxRAMSize >= env.Params.MaxRAMSizeLimit {
		return serr.New(serr.Invariant, "ram size is unrealistic", "size", fields.MaxRAMSize)
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	if fields.MaxRAMSize <= uint64(g.TotalRAMBytesReserved+g.FreeAccountsRAM()) {
		return serr.New(serr.Invariant, "attempt to set max below reserved", "size", fields.MaxRAMSize)
	}
	g.MaxRAMSize = int64(fields.MaxRAMSize)
	return env.State.PutGlobal(g)
}

// SetMaxAccounts resizes the account creation pool to hold count accounts.
func SetMaxAccounts(fields actions.ResourceFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}

	if fields.MaxAccounts > math.MaxInt64 {
		return serr.New(serr.Invariant, "have no enough ram for this accounts' count", "count", fields.MaxAccounts)
	}
	var ot basics.OverflowTracker
	pool := ot.MulS(int64(fields.MaxAccounts), g.AccountRAMSize)
	if ot.Overflowed {
		return serr.New(serr.Invariant, "have no enough ram for this accounts' count", "count", fields.MaxAccounts)
	}
	if pool < g.TotalRAMBytesReservedForAccounts {
		return serr.New(serr.Invariant, "attempt to set max accounts below reserved", "count", fields.MaxAccounts)
	}
	// The unused part of the pool is counted as reserved.
	needed := ot.AddS(g.TotalRAMBytesReserved, pool-g.TotalRAMBytesReservedForAccounts)
	if ot.Overflowed || needed > g.MaxRAMSize {
		return serr.New(serr.Invariant, "have no enough ram for this accounts' count", "count", fields.MaxAccounts)
	}

	g.MaxAccounts = fields.MaxAccounts
	g.MaxRAMSizeForAccounts = pool
	return env.State.PutGlobal(g)
}
