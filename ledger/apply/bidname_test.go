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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/test/partitiontest"
)

func TestBidNameValidation(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob")
	f.fund("alice", 100_0000)

	bid := func(name basics.Name, amount basics.Asset) error {
		return f.run(actions.BidName(n("alice"), name, amount))
	}
	require.EqualError(t, bid(n("a.b"), core(1)), "you can only bid on top-level suffix")
	require.EqualError(t, bid(0, core(1)), "the empty name is not a valid account name to bid on")
	require.EqualError(t, bid(n("abcdefghijkla"), core(1)), "13 character names are not valid account names to bid on")
	require.EqualError(t, bid(n("abcdefghijkl"), core(1)), "accounts with 12 character names and no dots can be created without bidding required")
	require.EqualError(t, bid(n("bob"), core(1)), "account already exists")
	require.EqualError(t, bid(n("abc"), basics.NewAsset(1, rewardSym)), "asset must be system token")
	require.EqualError(t, bid(n("abc"), core(0)), "insufficient bid")
	require.EqualError(t, bid(n("abc"), core(200_0000)), "overdrawn balance")
	require.Empty(t, f.state.bids)
	require.Equal(t, int64(100_0000), f.balance("alice", coreSym))
}

func TestBidNameOutbidRefund(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob")
	f.fund("alice", 100_0000)
	f.fund("bob", 100_0000)

	f.mustRun(actions.BidName(n("alice"), n("abc"), core(10_0000)))
	require.Equal(t, int64(90_0000), f.balance("alice", coreSym))
	require.Equal(t, int64(10_0000), f.balance("sys.names", coreSym))

	err := f.run(actions.BidName(n("bob"), n("abc"), core(11_0000)))
	require.EqualError(t, err, "must increase bid by 10%")
	err = f.run(actions.BidName(n("alice"), n("abc"), core(20_0000)))
	require.EqualError(t, err, "account is already highest bidder")

	f.setSlot(startSlot + 20)
	f.mustRun(actions.BidName(n("bob"), n("abc"), core(11_0001)))
	require.Equal(t, int64(100_0000), f.balance("alice", coreSym))
	require.Equal(t, int64(88_9999), f.balance("bob", coreSym))
	require.Equal(t, int64(11_0001), f.balance("sys.names", coreSym))
	require.Equal(t, basics.NameBid{
		NewName:     n("abc"),
		HighBidder:  n("bob"),
		HighBid:     11_0001,
		LastBidTime: (startSlot + 20).TimePoint(),
	}, f.state.bids[n("abc")])

	// Escrowed stake follows the balances.
	require.Equal(t, int64(100_0000), f.voter("alice").Staked)
	require.Equal(t, int64(11_0001), f.voter("sys.names").Staked)
}

func TestOutbidDelegatorOfUnregisteredProxy(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "proxy1")
	f.fund("proxy1", 1_0000)
	f.fund("alice", 100_0000)
	f.fund("bob", 100_0000)
	f.mustRun(actions.RegProxy(n("proxy1"), true))
	require.NoError(t, f.voteProxy("alice", "proxy1"))

	f.mustRun(actions.BidName(n("alice"), n("abc"), core(10_0000)))
	f.mustRun(actions.RegProxy(n("proxy1"), false))

	f.setSlot(startSlot + 20)
	f.mustRun(actions.BidName(n("bob"), n("abc"), core(20_0000)))
	require.Equal(t, int64(100_0000), f.balance("alice", coreSym))
	require.Equal(t, n("bob"), f.state.bids[n("abc")].HighBidder)
	require.Equal(t, float64(100_0000), f.voter("proxy1").ProxiedVoteWeight)
	f.requireConserved()
}

func TestNameAuctionCloseAndClaim(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	activate(f, "p1")
	f.addUsers("bob", "carol")
	f.fund("bob", 100_0000)
	f.fund("carol", 100_0000)

	f.mustRun(actions.BidName(n("bob"), n("abc"), core(12_0000)))
	f.mustRun(actions.BidName(n("carol"), n("xyz"), core(5_0000)))
	require.EqualError(t, f.run(actions.NewAccount(n("bob"), n("abc"))), "auction for name is not closed yet")

	// Too soon after activation.
	f.onBlock(startSlot+10*basics.SlotsPerDay, "p1")
	require.Equal(t, int64(12_0000), f.state.bids[n("abc")].HighBid)

	closeAt := startSlot + 15*basics.SlotsPerDay
	f.onBlock(closeAt, "p1")
	require.Equal(t, int64(-12_0000), f.state.bids[n("abc")].HighBid)
	require.Equal(t, int64(5_0000), f.state.bids[n("xyz")].HighBid)
	require.Equal(t, closeAt, f.state.global.LastNameClose)

	// One close per day.
	f.onBlock(closeAt+200, "p1")
	require.Equal(t, int64(5_0000), f.state.bids[n("xyz")].HighBid)
	f.onBlock(closeAt+basics.SlotsPerDay+1, "p1")
	require.Equal(t, int64(-5_0000), f.state.bids[n("xyz")].HighBid)

	require.EqualError(t, f.run(actions.BidName(n("carol"), n("abc"), core(50_0000))), "this auction has already closed")
	require.EqualError(t, f.run(actions.NewAccount(n("carol"), n("abc"))), "only highest bidder can claim")

	f.mustRun(actions.NewAccount(n("bob"), n("abc")))
	require.NotContains(t, f.state.bids, n("abc"))
	require.Contains(t, f.state.accounts, n("abc"))
	require.Equal(t, n("bob"), f.state.accounts[n("abc")].Creator)

	// The winner's account now owns its suffix.
	require.EqualError(t, f.run(actions.NewAccount(n("carol"), n("x.abc"))), "only suffix may create this account")
	f.mustRun(actions.NewAccount(n("abc"), n("x.abc")))
}

func TestNewAccountNaming(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice")

	require.EqualError(t, f.run(actions.NewAccount(n("alice"), n("abc"))), "no active bid for name")
	require.EqualError(t, f.run(actions.NewAccount(n("alice"), n("alice"))), "Cannot create account named alice, as that name is already taken")
	require.EqualError(t, f.run(actions.NewAccount(n("alice"), n("x.bob"))), "only suffix may create this account")

	f.mustRun(actions.NewAccount(n("alice"), n("abcdefghijkl")))
	f.mustRun(actions.NewAccount(n("alice"), n("x.alice")))
	f.mustRun(actions.NewAccount(sysName, n("sys.extra")))
	f.mustRun(actions.NewAccount(sysName, n("abc")))

	act := actions.NewAccount(n("alice"), n("bobbobbobbob"))
	act.Authorization = nil
	require.EqualError(t, f.run(act), "missing authority of alice")
}
