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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
	"github.com/sysgov/go-sysgov/test/partitiontest"
)

func TestRegProducer(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("p1", "alice")

	err := f.run(actions.RegProducer(n("p1"), "PUB_p1", "", 0))
	require.EqualError(t, err, "you must be stakeholder")

	f.fund("p1", 1_0000)
	act := actions.RegProducer(n("p1"), "PUB_p1", "", 0)
	act.Authorization = []basics.Name{n("alice")}
	err = f.run(act)
	require.EqualError(t, err, "missing authority of p1")
	require.Equal(t, serr.Authorization, serr.KindOf(err))

	err = f.run(actions.RegProducer(n("p1"), "PUB_p1", strings.Repeat("x", 512), 0))
	require.EqualError(t, err, "url too long")
	err = f.run(actions.RegProducer(n("p1"), "", "", 0))
	require.EqualError(t, err, "public key should not be the default value")

	f.mustRun(actions.RegProducer(n("p1"), "PUB_p1", "https://p1.example", 7))
	prod := f.state.producers[n("p1")]
	require.True(t, prod.Active())
	require.Equal(t, uint16(7), prod.Location)
	require.Equal(t, "https://p1.example", prod.URL)
}

func TestReregistrationPreservesVotesAndUnpaid(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("p1", "alice")
	f.fund("p1", 1_0000)
	f.fund("alice", 2000_0000)
	f.regProducer("p1")
	require.NoError(t, f.vote("alice", "p1"))

	prod := f.state.producers[n("p1")]
	prod.UnpaidBlocks = 5
	f.state.producers[n("p1")] = prod

	f.mustRun(actions.UnregProd(n("p1")))
	prod = f.state.producers[n("p1")]
	require.False(t, prod.Active())
	require.Equal(t, float64(2000_0000), prod.TotalVotes)

	f.mustRun(actions.RegProducer(n("p1"), "PUB_new", "https://new.example", 1))
	prod = f.state.producers[n("p1")]
	require.True(t, prod.Active())
	require.Equal(t, basics.PublicKey("PUB_new"), prod.ProducerKey)
	require.Equal(t, float64(2000_0000), prod.TotalVotes)
	require.Equal(t, uint32(5), prod.UnpaidBlocks)

	require.EqualError(t, f.run(actions.UnregProd(n("alice"))), "producer not found")
}

func TestVoteValidation(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "p1", "p2", "p3", "proxy1")
	f.fund("alice", 1000_0000)
	f.fund("p1", 1_0000)
	f.fund("p2", 1_0000)
	f.fund("proxy1", 1_0000)
	f.regProducer("p1")
	f.regProducer("p2")

	require.EqualError(t, f.vote("bob", "p1"), "you must be stakeholder")
	require.EqualError(t, f.vote("alice", "p2", "p1"), "producer votes must be unique and sorted")
	require.EqualError(t, f.vote("alice", "p1", "p1"), "producer votes must be unique and sorted")
	require.EqualError(t, f.vote("alice", "p1", "p3"), "producer is not registered")

	f.mustRun(actions.UnregProd(n("p2")))
	require.EqualError(t, f.vote("alice", "p1", "p2"), "producer is not currently registered")

	err := f.run(actions.VoteProducer(n("alice"), n("proxy1"), n("p1")))
	require.EqualError(t, err, "cannot vote for producers and proxy at same time")
	require.EqualError(t, f.voteProxy("alice", "alice"), "cannot proxy to self")
	require.EqualError(t, f.voteProxy("alice", "proxy1"), "proxy not found")
	require.EqualError(t, f.voteProxy("alice", "carol"), "invalid proxy specified")

	f.mustRun(actions.RegProxy(n("proxy1"), true))
	f.fund("p3", 1_0000)
	f.mustRun(actions.RegProxy(n("p3"), true))
	require.EqualError(t, f.voteProxy("proxy1", "p3"), "account registered as a proxy is not allowed to use a proxy")

	// Failed votes leave no trace.
	require.Empty(t, f.voter("alice").Producers)
	require.Zero(t, f.voter("alice").LastVoteWeight)
	require.Zero(t, f.state.global.TotalActivatedStake)
}

func TestVoteTooManyProducers(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice")
	f.fund("alice", 1_0000)

	var prods []string
	for i := 0; i < 31; i++ {
		prods = append(prods, "prod"+string(rune('a'+i/5))+string(rune('1'+i%5)))
	}
	err := f.vote("alice", prods...)
	require.EqualError(t, err, "attempt to vote for too many producers")
	require.Equal(t, serr.Invariant, serr.KindOf(err))
}

func TestVoteMovesWeight(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "p1", "p2", "p3")
	for _, p := range []string{"p1", "p2", "p3"} {
		f.fund(p, 1_0000)
		f.regProducer(p)
	}
	f.fund("alice", 2000_0000)
	f.fund("bob", 5000_0000)

	require.NoError(t, f.vote("alice", "p1", "p2"))
	require.Equal(t, float64(2000_0000), f.votes("p1"))
	require.Equal(t, float64(2000_0000), f.votes("p2"))

	require.NoError(t, f.vote("bob", "p2", "p3"))
	require.Equal(t, float64(7000_0000), f.votes("p2"))
	require.Equal(t, float64(5000_0000), f.votes("p3"))

	require.NoError(t, f.vote("alice", "p3"))
	require.Zero(t, f.votes("p1"))
	require.Equal(t, float64(5000_0000), f.votes("p2"))
	require.Equal(t, float64(7000_0000), f.votes("p3"))
	require.Equal(t, float64(12000_0000), f.state.global.TotalProducerVoteWeight)

	require.NoError(t, f.vote("alice"))
	require.Zero(t, f.votes("p1"))
	require.Equal(t, float64(5000_0000), f.votes("p3"))
	f.requireConserved()
}

func TestStakeChangeMovesVotes(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "carol", "p1", "p2", "p3")
	for _, p := range []string{"p1", "p2", "p3"} {
		f.fund(p, 1_0000)
		f.regProducer(p)
	}
	f.fund("alice", 3000_0000)
	f.fund("bob", 3000_0000)
	require.NoError(t, f.vote("alice", "p1", "p2"))
	require.NoError(t, f.vote("bob", "p2", "p3"))
	require.Equal(t, float64(6000_0000), f.votes("p2"))

	f.mustRun(actions.Transfer(n("alice"), n("carol"), core(1000_0000), "part"))
	require.Equal(t, float64(2000_0000), f.votes("p1"))
	require.Equal(t, float64(5000_0000), f.votes("p2"))
	require.Equal(t, int64(2000_0000), f.voter("alice").Staked)

	// Withdrawing the rest removes exactly alice's contribution.
	f.mustRun(actions.Transfer(n("alice"), n("carol"), core(2000_0000), "rest"))
	require.Zero(t, f.votes("p1"))
	require.Equal(t, float64(3000_0000), f.votes("p2"))
	require.Equal(t, float64(3000_0000), f.votes("p3"))

	// An unregistered producer keeps receiving stake changes of its voters.
	f.mustRun(actions.UnregProd(n("p3")))
	f.fund("bob", 1000_0000)
	require.Equal(t, float64(4000_0000), f.votes("p3"))

	// carol never voted, so her stake is not counted.
	require.Equal(t, int64(3000_0000), f.voter("carol").Staked)
	require.Equal(t, int64(6000_0000), f.state.global.TotalActivatedStake)
	f.requireConserved()
}

func TestProxyDelegation(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "proxy1", "p1", "p2")
	f.fund("p1", 1_0000)
	f.fund("p2", 1_0000)
	f.regProducer("p1")
	f.regProducer("p2")
	f.fund("proxy1", 1000_0001)
	f.fund("alice", 2000_0000)
	f.fund("bob", 5000_0000)

	require.EqualError(t, f.run(actions.RegProxy(n("proxy1"), false)), "action has no effect")
	f.mustRun(actions.RegProxy(n("proxy1"), true))
	require.EqualError(t, f.run(actions.RegProxy(n("proxy1"), true)), "action has no effect")
	require.EqualError(t, f.run(actions.RegProducer(n("proxy1"), "PUB", "", 0)), "cannot register as producer while acting as a proxy")

	require.NoError(t, f.voteProxy("alice", "proxy1"))
	require.Equal(t, float64(2000_0000), f.voter("proxy1").ProxiedVoteWeight)
	require.Zero(t, f.votes("p1"))

	require.NoError(t, f.vote("proxy1", "p1", "p2"))
	require.Equal(t, float64(3000_0001), f.votes("p1"))
	require.Equal(t, float64(3000_0001), f.votes("p2"))

	require.NoError(t, f.voteProxy("bob", "proxy1"))
	require.Equal(t, float64(8000_0001), f.votes("p1"))

	require.EqualError(t, f.run(actions.RegProxy(n("bob"), true)), "account that uses a proxy is not allowed to become a proxy")

	// Stake moves through the proxy.
	f.mustRun(actions.Transfer(n("bob"), n("alice"), core(1000_0000), ""))
	require.Equal(t, float64(8000_0001), f.votes("p1"))
	require.Equal(t, float64(3000_0000), f.voter("alice").LastVoteWeight)

	// Unregistering keeps the proxied weight but stops voting it.
	f.mustRun(actions.RegProxy(n("proxy1"), false))
	require.Equal(t, float64(7000_0000), f.voter("proxy1").ProxiedVoteWeight)
	require.Equal(t, float64(1000_0001), f.votes("p1"))
	require.EqualError(t, f.voteProxy("bob", "proxy1"), "proxy not found")

	f.mustRun(actions.RegProxy(n("proxy1"), true))
	require.Equal(t, float64(8000_0001), f.votes("p2"))

	// Switching from proxy to direct votes.
	require.NoError(t, f.vote("alice", "p2"))
	require.Equal(t, float64(5000_0001), f.votes("p1"))
	require.Equal(t, float64(8000_0001), f.votes("p2"))
	require.Equal(t, float64(4000_0000), f.voter("proxy1").ProxiedVoteWeight)
	f.requireConserved()
}

func TestUnregisteredProxyDelegatorsKeepMovingStake(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "proxy1", "p1")
	f.fund("p1", 1_0000)
	f.regProducer("p1")
	f.fund("proxy1", 1000_0000)
	f.fund("alice", 2000_0000)
	f.fund("bob", 5000_0000)

	f.mustRun(actions.RegProxy(n("proxy1"), true))
	require.NoError(t, f.voteProxy("alice", "proxy1"))
	require.NoError(t, f.vote("proxy1", "p1"))
	require.Equal(t, float64(3000_0000), f.votes("p1"))

	f.mustRun(actions.RegProxy(n("proxy1"), false))
	require.Equal(t, float64(1000_0000), f.votes("p1"))

	// Stake still moves in and out of alice while her proxy is unregistered.
	f.mustRun(actions.Transfer(n("bob"), n("alice"), core(500_0000), ""))
	f.mustRun(actions.Transfer(n("alice"), n("bob"), core(1500_0000), ""))
	require.Equal(t, int64(1000_0000), f.voter("alice").Staked)
	require.Equal(t, float64(1000_0000), f.voter("alice").LastVoteWeight)
	require.Equal(t, float64(1000_0000), f.voter("proxy1").ProxiedVoteWeight)
	require.Equal(t, float64(1000_0000), f.votes("p1"))
	f.requireConserved()

	// Re-registering votes what was delegated in the meantime.
	f.mustRun(actions.RegProxy(n("proxy1"), true))
	require.Equal(t, float64(2000_0000), f.votes("p1"))
	f.requireConserved()
}

func TestRegProxyWithoutVoterRecord(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("carol")
	// A balance written without the stake hook leaves carol without a voter row.
	f.state.balances[balanceKey{coreSym.Code, n("carol")}] = 1_0000

	require.EqualError(t, f.run(actions.RegProxy(n("carol"), false)), "action has no effect")
	require.NotContains(t, f.state.voters, n("carol"))

	f.mustRun(actions.RegProxy(n("carol"), true))
	require.True(t, f.voter("carol").IsProxy)
}

func TestActivation(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.addUsers("alice", "bob", "p1")
	f.fund("p1", 1_0000)
	f.regProducer("p1")
	f.fund("alice", 100_000_000_0000)
	f.fund("bob", 50_000_000_0000)

	require.NoError(t, f.vote("alice", "p1"))
	require.Equal(t, int64(100_000_000_0000), f.state.global.TotalActivatedStake)
	require.Zero(t, f.state.global.ThreshActivatedStakeTime)

	// Revoting does not count the stake twice.
	require.NoError(t, f.vote("alice", "p1"))
	require.Equal(t, int64(100_000_000_0000), f.state.global.TotalActivatedStake)

	f.setSlot(startSlot + 10)
	require.NoError(t, f.vote("bob"))
	require.Equal(t, int64(150_000_000_0000), f.state.global.TotalActivatedStake)
	require.Equal(t, (startSlot + 10).TimePoint(), f.state.global.ThreshActivatedStakeTime)

	// Activation is sticky.
	f.mustRun(actions.Transfer(n("alice"), n("bob"), core(50_000_000_0000), ""))
	require.Equal(t, int64(150_000_000_0000), f.state.global.TotalActivatedStake)
}

func TestVoteWeightDecay(t *testing.T) {
	partitiontest.PartitionTest(t)

	f := newFixture(t)
	f.env.Params.VoteWeightDecay = true
	// 52 weeks after the block timestamp epoch the weight doubles.
	f.setSlot(basics.BlockTimestamp(52 * 7 * 24 * 3600 * 2))
	require.Equal(t, float64(2000), f.env.stake2vote(1000))

	f.setSlot(0)
	require.Equal(t, float64(1000), f.env.stake2vote(1000))
}

func TestVoteConservation(t *testing.T) {
	partitiontest.PartitionTest(t)

	voters := []string{"alice", "bob", "carol", "dave"}
	prods := []string{"p1", "p2", "p3", "p4"}

	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(rt)
		f.addUsers(append(append([]string{"proxy1"}, voters...), prods...)...)
		for _, p := range prods {
			f.fund(p, 1_0000)
			f.regProducer(p)
		}
		f.fund("proxy1", 1_0000)
		f.mustRun(actions.RegProxy(n("proxy1"), true))
		for _, v := range voters {
			f.fund(v, rapid.Int64Range(1, 10_000_0000).Draw(rt, "stake"))
		}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			who := rapid.SampledFrom(voters).Draw(rt, "who")
			staked := f.balance(who, coreSym) > 0
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				var picked []string
				for _, p := range prods {
					if rapid.Bool().Draw(rt, "pick") {
						picked = append(picked, p)
					}
				}
				err := f.vote(who, picked...)
				if staked {
					require.NoError(rt, err)
				} else {
					require.EqualError(rt, err, "you must be stakeholder")
				}
			case 1:
				err := f.voteProxy(who, "proxy1")
				switch {
				case !staked:
					require.EqualError(rt, err, "you must be stakeholder")
				case !f.voter("proxy1").IsProxy:
					require.EqualError(rt, err, "proxy not found")
				default:
					require.NoError(rt, err)
				}
			case 2:
				to := rapid.SampledFrom(voters).Draw(rt, "to")
				amt := rapid.Int64Range(1, 5_000_0000).Draw(rt, "amt")
				have := f.balance(who, coreSym)
				err := f.run(actions.Transfer(n(who), n(to), core(amt), ""))
				switch {
				case who == to:
					require.EqualError(rt, err, "cannot transfer to self")
				case amt > have:
					require.EqualError(rt, err, "overdrawn balance")
				default:
					require.NoError(rt, err)
				}
			case 3:
				require.NoError(rt, f.vote("proxy1", rapid.SampledFrom(prods).Draw(rt, "pp")))
			case 4:
				isProxy := rapid.Bool().Draw(rt, "isproxy")
				unchanged := f.voter("proxy1").IsProxy == isProxy
				err := f.run(actions.RegProxy(n("proxy1"), isProxy))
				if unchanged {
					require.EqualError(rt, err, "action has no effect")
				} else {
					require.NoError(rt, err)
				}
			}
			f.requireConserved()
		}
	})
}
