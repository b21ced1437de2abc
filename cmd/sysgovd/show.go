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
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/data/basics"
)

var showLimit int

func init() {
	showCmd.AddCommand(showGlobalCmd)
	showCmd.AddCommand(showProducersCmd)
	showCmd.AddCommand(showVoterCmd)
	showCmd.AddCommand(showBidCmd)
	showCmd.AddCommand(showScheduleCmd)

	showProducersCmd.Flags().IntVarP(&showLimit, "limit", "l", 21, "Number of producers to list")
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print contract tables from the data directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

// withLedger opens the ledger of the data directory for reading.
func withLedger(fn func(l *offlineLedger, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		l, err := openOfflineLedger(dir, false, false)
		if err != nil {
			return err
		}
		defer l.Close()
		return fn(l, cmd.OutOrStdout())
	}
}

func formatCore(l *offlineLedger, amount int64) string {
	sym := l.Genesis().CoreSymbol
	return basics.NewAsset(amount, sym).String()
}

var showGlobalCmd = &cobra.Command{
	Use:   "global",
	Short: "Print the global state",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(l *offlineLedger, out io.Writer) error {
		g, err := l.Global()
		if err != nil {
			return err
		}
		hdr := l.LastBlock()
		fmt.Fprintf(out, "Last round:              %d (%s)\n", hdr.Round, hdr.Timestamp.TimePoint())
		fmt.Fprintf(out, "Activated stake:         %s\n", formatCore(l, g.TotalActivatedStake))
		fmt.Fprintf(out, "Activated at:            %s\n", g.ThreshActivatedStakeTime)
		fmt.Fprintf(out, "Producer vote weight:    %s\n", humanize.Commaf(g.TotalProducerVoteWeight))
		fmt.Fprintf(out, "RAM reserved:            %s of %s\n",
			humanize.IBytes(uint64(g.TotalRAMBytesReserved)), humanize.IBytes(uint64(g.MaxRAMSize)))
		fmt.Fprintf(out, "Account RAM reserved:    %s of %s\n",
			humanize.IBytes(uint64(g.TotalRAMBytesReservedForAccounts)), humanize.IBytes(uint64(g.MaxRAMSizeForAccounts)))
		fmt.Fprintf(out, "Max accounts:            %s\n", humanize.Comma(int64(g.MaxAccounts)))
		fmt.Fprintf(out, "Per-vote bucket:         %s\n", humanize.Comma(g.PervoteBucket))
		fmt.Fprintf(out, "Per-block bucket:        %s\n", humanize.Comma(g.PerblockBucket))
		fmt.Fprintf(out, "Unpaid blocks:           %d\n", g.TotalUnpaidBlocks)
		fmt.Fprintf(out, "Last schedule update:    %s\n", g.LastProducerScheduleUpdate.TimePoint())
		return nil
	}),
}

var showProducersCmd = &cobra.Command{
	Use:   "producers",
	Short: "List producers by total votes",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(l *offlineLedger, out io.Writer) error {
		producers, err := l.TopProducers(showLimit)
		if err != nil {
			return err
		}
		for i, p := range producers {
			state := "active"
			if !p.Active() {
				state = "inactive"
			}
			fmt.Fprintf(out, "%3d. %-13s %24s  %-8s unpaid=%d %s\n",
				i+1, p.Owner, humanize.Commaf(p.TotalVotes), state, p.UnpaidBlocks, p.URL)
		}
		return nil
	}),
}

var showVoterCmd = &cobra.Command{
	Use:   "voter <name>",
	Short: "Print one voter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := basics.ParseName(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *offlineLedger, out io.Writer) error {
			v, found, err := l.Voter(name)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf(errorNotFound, "voter", name)
			}
			fmt.Fprintf(out, "Owner:      %s\n", v.Owner)
			fmt.Fprintf(out, "Staked:     %s\n", formatCore(l, v.Staked))
			fmt.Fprintf(out, "Weight:     %s\n", humanize.Commaf(v.LastVoteWeight))
			fmt.Fprintf(out, "Proxied:    %s\n", humanize.Commaf(v.ProxiedVoteWeight))
			fmt.Fprintf(out, "Is proxy:   %s\n", strconv.FormatBool(v.IsProxy))
			if !v.Proxy.IsEmpty() {
				fmt.Fprintf(out, "Proxy:      %s\n", v.Proxy)
			}
			for _, p := range v.Producers {
				fmt.Fprintf(out, "Votes for:  %s\n", p)
			}
			return nil
		})(cmd, args)
	},
}

var showBidCmd = &cobra.Command{
	Use:   "bid <name>",
	Short: "Print the auction for a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := basics.ParseName(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *offlineLedger, out io.Writer) error {
			b, found, err := l.NameBid(name)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf(errorNotFound, "bid", name)
			}
			amount := b.HighBid
			state := "open"
			if b.Closed() {
				amount, state = -amount, "closed"
			}
			fmt.Fprintf(out, "Name:        %s (%s)\n", b.NewName, state)
			fmt.Fprintf(out, "High bidder: %s\n", b.HighBidder)
			fmt.Fprintf(out, "High bid:    %s\n", formatCore(l, amount))
			fmt.Fprintf(out, "Last bid:    %s\n", b.LastBidTime)
			return nil
		})(cmd, args)
	},
}

var showScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the last proposed producer schedule",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(l *offlineLedger, out io.Writer) error {
		s, err := l.Schedule()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Version %d proposed at %s\n", s.Version, s.Proposed.TimePoint())
		for i, p := range s.Producers {
			fmt.Fprintf(out, "%3d. %-13s %s\n", i+1, p.ProducerName, p.BlockSigningKey)
		}
		return nil
	}),
}
