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

package bookkeeping

import (
	"fmt"
	"os"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/protocol"
)

// SystemAccounts names the accounts the system contract treats specially.
type SystemAccounts struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// System holds privileged authority and receives newly issued reward tokens.
	System basics.Name `codec:"system"`
	// Token runs the token ledger.
	Token basics.Name `codec:"token"`
	// Names escrows name auction bids.
	Names basics.Name `codec:"names"`
	// BlockPay holds the per-block reward pool.
	BlockPay basics.Name `codec:"bpay"`
	// VotePay holds the per-vote reward pool.
	VotePay basics.Name `codec:"vpay"`
}

// All returns the system accounts in creation order.
func (s SystemAccounts) All() []basics.Name {
	return []basics.Name{s.System, s.Token, s.Names, s.BlockPay, s.VotePay}
}

// DefaultSystemAccounts are used when a genesis does not name its own.
var DefaultSystemAccounts = SystemAccounts{
	System:   basics.MustParseName("sys"),
	Token:    basics.MustParseName("sys.token"),
	Names:    basics.MustParseName("sys.names"),
	BlockPay: basics.MustParseName("sys.bpay"),
	VotePay:  basics.MustParseName("sys.vpay"),
}

// A Genesis object defines a network: the system accounts and tokens, the
// initial storage budget and reward rate, and the initial account
// allocations.
type Genesis struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Network identifies the network for which the ledger is valid.
	Network string `codec:"network"`

	// Timestamp of the genesis, in unix seconds.
	Timestamp int64 `codec:"timestamp"`

	// Arbitrary genesis comment string - will be excluded from file if empty
	Comment string `codec:"comment"`

	Accounts SystemAccounts `codec:"accounts"`

	// CoreSymbol is the stake token. Balances of it are vote weight.
	CoreSymbol    basics.Symbol `codec:"core"`
	CoreMaxSupply int64         `codec:"coremax"`

	// RewardSymbol is the token producers are paid in.
	RewardSymbol    basics.Symbol `codec:"reward"`
	RewardMaxSupply int64         `codec:"rewardmax"`

	PaymentBucketPerYear int64  `codec:"payyear"`
	MaxRAMSize           int64  `codec:"maxram"`
	AccountRAMSize       int64  `codec:"acctram"`
	MaxAccounts          uint64 `codec:"maxaccts"`

	Allocation []GenesisAllocation `codec:"alloc"`
}

// A GenesisAllocation creates an account at genesis, funds it with core
// tokens and optionally marks it privileged.
type GenesisAllocation struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Name       basics.Name `codec:"name"`
	Comment    string      `codec:"comment"`
	Balance    int64       `codec:"balance"`
	Privileged bool        `codec:"priv"`
}

// DefaultGenesis returns a genesis with the stock system accounts, a
// 1,000,000,000.0000 SYS core supply, a separate SPT reward token and a
// 64 GiB storage budget.
func DefaultGenesis(network string, timestamp int64) Genesis {
	return Genesis{
		Network:              network,
		Timestamp:            timestamp,
		Accounts:             DefaultSystemAccounts,
		CoreSymbol:           basics.Symbol{Code: "SYS", Precision: 4},
		CoreMaxSupply:        1_000_000_000_0000,
		RewardSymbol:         basics.Symbol{Code: "SPT", Precision: 4},
		RewardMaxSupply:      10_000_000_000_0000,
		PaymentBucketPerYear: 50_000_000_0000,
		MaxRAMSize:           64 * 1024 * 1024 * 1024,
		AccountRAMSize:       4096,
		MaxAccounts:          1_000_000,
	}
}

// LoadGenesisFromFile attempts to load a Genesis structure from a (presumably) genesis.json file.
func LoadGenesisFromFile(genesisFile string) (genesis Genesis, err error) {
	genesisText, err := os.ReadFile(genesisFile)
	if err != nil {
		return
	}

	err = protocol.DecodeJSON(genesisText, &genesis)
	if err != nil {
		return
	}
	err = genesis.Validate()
	return
}

// SaveToFile writes the genesis as JSON.
func (genesis Genesis) SaveToFile(genesisFile string) error {
	return os.WriteFile(genesisFile, protocol.EncodeJSON(&genesis), 0644)
}

// Validate checks the genesis for internal consistency.
func (genesis Genesis) Validate() error {
	if genesis.Network == "" {
		return fmt.Errorf("genesis has no network name")
	}
	seen := make(map[basics.Name]bool)
	for _, acct := range genesis.Accounts.All() {
		if acct.IsEmpty() {
			return fmt.Errorf("genesis system account missing")
		}
		if seen[acct] {
			return fmt.Errorf("genesis system account %s listed twice", acct)
		}
		seen[acct] = true
	}
	if !genesis.CoreSymbol.Valid() || !genesis.RewardSymbol.Valid() {
		return fmt.Errorf("genesis token symbols are invalid")
	}
	if genesis.CoreSymbol == genesis.RewardSymbol {
		return fmt.Errorf("core and reward token must differ")
	}
	if genesis.CoreMaxSupply <= 0 || genesis.RewardMaxSupply <= 0 {
		return fmt.Errorf("genesis token supplies must be positive")
	}
	if genesis.AccountRAMSize <= 0 || genesis.PaymentBucketPerYear < 0 {
		return fmt.Errorf("genesis account ram size must be positive and pay rate non-negative")
	}
	accountsRAM := int64(genesis.MaxAccounts) * genesis.AccountRAMSize
	if genesis.MaxAccounts > 0 && accountsRAM/int64(genesis.MaxAccounts) != genesis.AccountRAMSize {
		return fmt.Errorf("genesis account ram budget overflows")
	}
	if accountsRAM > genesis.MaxRAMSize {
		return fmt.Errorf("genesis account ram budget %d exceeds max ram %d", accountsRAM, genesis.MaxRAMSize)
	}
	var total int64
	for _, alloc := range genesis.Allocation {
		if alloc.Name.IsEmpty() || seen[alloc.Name] {
			return fmt.Errorf("genesis allocation %q is empty or duplicated", alloc.Name)
		}
		seen[alloc.Name] = true
		if alloc.Balance < 0 {
			return fmt.Errorf("genesis allocation %s has negative balance", alloc.Name)
		}
		total += alloc.Balance
		if total > genesis.CoreMaxSupply || total < 0 {
			return fmt.Errorf("genesis allocations exceed core supply")
		}
	}
	return nil
}

// TimePoint returns the genesis time.
func (genesis Genesis) TimePoint() basics.TimePoint {
	return basics.TimePoint(genesis.Timestamp) * basics.MicrosecondsPerSecond
}
