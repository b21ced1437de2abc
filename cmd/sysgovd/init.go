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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
)

var (
	initNetwork    string
	initTimestamp  int64
	initBackend    string
	initAllocs     []string
	initPrivileged []string
	initAPIToken   string
)

func init() {
	initCmd.Flags().StringVarP(&initNetwork, "network", "n", "devnet", "Network name")
	initCmd.Flags().Int64Var(&initTimestamp, "timestamp", 0, "Genesis unix time (default now)")
	initCmd.Flags().StringVar(&initBackend, "backend", config.GetDefaultLocal().StoreBackend, "Store backend: pebble, badger or goleveldb")
	initCmd.Flags().StringArrayVarP(&initAllocs, "alloc", "a", nil, "Genesis allocation <name>=<amount>, e.g. alice=1000.0000 (repeatable)")
	initCmd.Flags().StringArrayVar(&initPrivileged, "priv", nil, "Mark an allocated account privileged (repeatable)")
	initCmd.Flags().StringVar(&initAPIToken, "api-token", "", "Admin API token allowing block submission")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and a genesis into the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		genesisFile := filepath.Join(dir, config.GenesisJSONFile)
		if _, err := os.Stat(genesisFile); err == nil {
			return fmt.Errorf(errorDataDirNotEmpty, dir)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}

		ts := initTimestamp
		if ts == 0 {
			ts = time.Now().Unix()
		}
		genesis := bookkeeping.DefaultGenesis(initNetwork, ts)
		genesis.Allocation, err = parseAllocations(genesis.CoreSymbol, initAllocs, initPrivileged)
		if err != nil {
			return err
		}
		if err := genesis.Validate(); err != nil {
			return err
		}

		cfg := config.GetDefaultLocal()
		cfg.StoreBackend = initBackend
		cfg.AdminAPIToken = initAPIToken
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.SaveToDisk(dir); err != nil {
			return err
		}
		if err := genesis.SaveToFile(genesisFile); err != nil {
			return err
		}
		fmt.Printf(infoInitialized+"\n", cfg.StoreBackend, genesis.Network, dir)
		return nil
	},
}

func parseAllocations(core basics.Symbol, allocs, privileged []string) ([]bookkeeping.GenesisAllocation, error) {
	priv := make(map[basics.Name]bool)
	for _, p := range privileged {
		name, err := basics.ParseName(p)
		if err != nil {
			return nil, err
		}
		priv[name] = true
	}

	out := make([]bookkeeping.GenesisAllocation, 0, len(allocs))
	for _, a := range allocs {
		nameStr, amountStr, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf(errorParseAlloc, a)
		}
		name, err := basics.ParseName(nameStr)
		if err != nil {
			return nil, fmt.Errorf(errorParseAlloc+": %w", a, err)
		}
		qty, err := basics.ParseAsset(amountStr + " " + core.Code)
		if err != nil {
			return nil, fmt.Errorf(errorParseAlloc+": %w", a, err)
		}
		if qty.Symbol.Precision != core.Precision {
			return nil, fmt.Errorf(errorParseAlloc+": amount needs %d decimals", a, core.Precision)
		}
		out = append(out, bookkeeping.GenesisAllocation{Name: name, Balance: qty.Amount, Privileged: priv[name]})
	}
	return out, nil
}
