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

package ledgercore

import (
	"bytes"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/test/partitiontest"
)

func TestProducerOrderKeyMatchesLess(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(rt *rapid.T) {
		a := basics.Producer{
			Owner:      basics.Name(rapid.Uint64Range(1, 8).Draw(rt, "a")),
			TotalVotes: rapid.Float64Range(-1e18, 1e18).Draw(rt, "av"),
		}
		b := basics.Producer{
			Owner:      basics.Name(rapid.Uint64Range(1, 8).Draw(rt, "b")),
			TotalVotes: rapid.SampledFrom([]float64{0, a.TotalVotes, -a.TotalVotes, 1.5}).Draw(rt, "bv"),
		}
		cmp := bytes.Compare(ProducerOrderKey(a), ProducerOrderKey(b))
		require.Equal(rt, ProducerLess(a, b), cmp < 0)
		require.Equal(rt, ProducerLess(b, a), cmp > 0)
	})
}

func TestBidOrderKeyMatchesLess(t *testing.T) {
	partitiontest.PartitionTest(t)

	bids := []basics.NameBid{
		{NewName: 5, HighBid: 10},
		{NewName: 1, HighBid: -10},
		{NewName: 2, HighBid: 10},
		{NewName: 3, HighBid: math.MaxInt64},
		{NewName: 4, HighBid: math.MinInt64 + 1},
		{NewName: 6, HighBid: 0},
	}
	byLess := append([]basics.NameBid(nil), bids...)
	sort.Slice(byLess, func(i, j int) bool { return BidLess(byLess[i], byLess[j]) })
	byKey := append([]basics.NameBid(nil), bids...)
	sort.Slice(byKey, func(i, j int) bool { return bytes.Compare(BidOrderKey(byKey[i]), BidOrderKey(byKey[j])) < 0 })

	require.Equal(t, byLess, byKey)
	require.Equal(t, basics.Name(3), byKey[0].NewName)
	require.Equal(t, basics.Name(4), byKey[len(byKey)-1].NewName)
}

func TestNegativeZeroVotes(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := basics.Producer{Owner: 1, TotalVotes: math.Copysign(0, -1)}
	b := basics.Producer{Owner: 2}
	require.True(t, bytes.Compare(ProducerOrderKey(a), ProducerOrderKey(b)) < 0)
}

func TestMerge(t *testing.T) {
	partitiontest.PartitionTest(t)

	parent := MakeStateDelta()
	parent.Producers[1] = basics.Producer{Owner: 1, URL: "a"}
	parent.Bids[2] = ModifiedBid{Bid: basics.NameBid{NewName: 2, HighBid: 5}}

	child := MakeStateDelta()
	g := basics.GlobalState{PervoteBucket: 7}
	child.Global = &g
	child.Producers[1] = basics.Producer{Owner: 1, URL: "b"}
	child.Bids[2] = ModifiedBid{Deleted: true}
	child.Balances[BalanceKey{Code: "SYS", Owner: 1}] = 3

	parent.Merge(child)
	g.PervoteBucket = 8
	require.Equal(t, int64(7), parent.Global.PervoteBucket)
	require.Equal(t, "b", parent.Producers[1].URL)
	require.True(t, parent.Bids[2].Deleted)
	require.Equal(t, 4, parent.Len())
}
