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

package actions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/test/partitiontest"
)

var (
	alice = basics.MustParseName("alice")
	bob   = basics.MustParseName("bob")
	sys   = basics.MustParseName("sys")
	core  = basics.Symbol{Code: "SYS", Precision: 4}
)

func TestWellFormed(t *testing.T) {
	partitiontest.PartitionTest(t)

	good := []Action{
		RegProducer(alice, "KEY", "http://a", 1),
		VoteProducer(alice, 0, bob),
		RegProxy(alice, true),
		BidName(alice, bob, basics.NewAsset(1, core)),
		NewAccount(sys, bob),
		SetMaxRAM(sys, 1<<30),
		SetParams(sys, basics.DefaultBlockchainParameters),
		Issue(sys, alice, basics.NewAsset(1, core), ""),
		Transfer(alice, bob, basics.NewAsset(1, core), "hi"),
		CreateToken(sys, sys, basics.NewAsset(1, core)),
	}
	for _, a := range good {
		require.NoError(t, a.WellFormed(), a.Type)
	}

	bad := []Action{
		{Type: "delegatebw", Header: self(alice)},
		{Type: protocol.RegProducerAction},
		{Type: protocol.SetParamsAction},
		BidName(alice, bob, basics.NewAsset(1, basics.Symbol{Code: "sys"})),
		{Type: protocol.NewAccountAction, Header: self(sys)},
		Issue(sys, 0, basics.NewAsset(1, core), ""),
		Transfer(alice, bob, basics.Asset{}, ""),
	}
	for _, a := range bad {
		require.Error(t, a.WellFormed(), a.Type)
	}
}

func TestAuthorizes(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := VoteProducer(alice, bob)
	require.True(t, a.Authorizes(alice))
	require.False(t, a.Authorizes(bob))
	require.Equal(t, bob, a.Proxy)

	r := RmvProducer(sys, alice)
	require.True(t, r.Authorizes(sys))
	require.Equal(t, alice, r.Account)
}

func TestActionEncodingRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := VoteProducer(alice, 0, bob, sys)
	var out Action
	require.NoError(t, protocol.DecodeMsgp(protocol.EncodeMsgp(&in), &out))
	require.Equal(t, in, out)

	js := protocol.EncodeJSON(&in)
	require.Contains(t, string(js), `"alice"`)
	var fromJSON Action
	require.NoError(t, protocol.DecodeJSON(js, &fromJSON))
	require.Equal(t, in, fromJSON)
}
