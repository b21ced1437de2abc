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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/protocol"
)

var (
	applyInMemory bool
	applyQuiet    bool
)

var (
	applied  = color.New(color.FgGreen)
	rejected = color.New(color.FgRed)
)

func init() {
	applyCmd.Flags().BoolVar(&applyInMemory, "in-memory", false, "Replay from genesis in memory, leaving the data directory untouched")
	applyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "Print only the per-block summary")
	submitCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "Print only the per-block summary")
}

var applyCmd = &cobra.Command{
	Use:   "apply <blocks.json>",
	Short: "Apply a JSON array of blocks and print their receipts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		blocks, err := readBlocks(args[0])
		if err != nil {
			return err
		}

		l, err := openOfflineLedger(dir, applyInMemory, true)
		if err != nil {
			return err
		}
		defer l.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		for _, blk := range blocks {
			receipts, err := l.ApplyBlock(ctx, blk)
			if err != nil {
				return fmt.Errorf("round %d: %w", blk.Round, err)
			}
			printReceipts(cmd.OutOrStdout(), blk, receipts, applyQuiet)
		}
		return nil
	},
}

func readBlocks(path string) ([]bookkeeping.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(errorReadingBlocks, path, err)
	}
	var blocks []bookkeeping.Block
	if err := protocol.DecodeJSON(data, &blocks); err != nil {
		return nil, fmt.Errorf(errorReadingBlocks, path, err)
	}
	return blocks, nil
}

func printReceipts(out io.Writer, blk bookkeeping.Block, receipts []ledgercore.Receipt, quiet bool) {
	var ok, failed int
	for _, r := range receipts {
		if r.Applied {
			ok++
		} else {
			failed++
		}
		if quiet {
			continue
		}
		if r.Applied {
			applied.Fprintf(out, "  #%d %s %s applied\n", r.Index, r.Type, r.Account)
		} else {
			rejected.Fprintf(out, "  #%d %s %s rejected (%s): %s\n", r.Index, r.Type, r.Account, r.Kind, r.Error)
		}
	}
	fmt.Fprintf(out, infoBlockApplied+"\n", blk.Round, ok, failed)
}
