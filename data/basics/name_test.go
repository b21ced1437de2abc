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

package basics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sysgov/go-sysgov/test/partitiontest"
)

func TestNameRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, s := range []string{"", "a", "sys", "sys.token", "alice1111111", "zzzzzzzzzzzzj", "a.b.c", "12345"} {
		n, err := ParseName(s)
		require.NoError(t, err, s)
		require.Equal(t, s, n.String())
	}
}

func TestNameRejectsInvalid(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, s := range []string{"Alice", "a6", "abc.", "aaaaaaaaaaaaaa", "aaaaaaaaaaaaz", "a_b"} {
		_, err := ParseName(s)
		require.Error(t, err, s)
	}
}

func TestNameEncodingMatchesLayout(t *testing.T) {
	partitiontest.PartitionTest(t)

	// "a" is symbol 6 in the top five bits.
	require.Equal(t, Name(uint64(6)<<59), MustParseName("a"))
	// 13th character lives in the low nibble.
	n := MustParseName("............b")
	require.Equal(t, Name(7), n)
}

func TestNameOrderMatchesStringOrder(t *testing.T) {
	partitiontest.PartitionTest(t)

	strs := []string{"bob", "alice", "carol", "a.b", "a", "zed.x"}
	names := make([]Name, len(strs))
	for i, s := range strs {
		names[i] = MustParseName(s)
	}
	sort.Strings(strs)
	sort.Sort(SortNames(names))
	for i := range strs {
		require.Equal(t, strs[i], names[i].String())
	}
}

func TestNameSuffix(t *testing.T) {
	partitiontest.PartitionTest(t)

	cases := map[string]string{
		"prefix":        "prefix",
		"prefix.a":      "a",
		"a.b.c":         "c",
		"sys.token":     "token",
		".abc":          "abc",
		"abcdefghijkl":  "abcdefghijkl",
		"abcdefghijk.a": "a",
		"abcdefghijkla": "abcdefghijkla",
		"":              "",
	}
	for in, want := range cases {
		require.Equal(t, want, MustParseName(in).Suffix().String(), in)
	}
}

func TestNameHasDot(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.True(t, MustParseName("short").HasDot())
	require.True(t, MustParseName("a.bcdefghijk").HasDot())
	require.False(t, MustParseName("alice1111111").HasDot())
	require.False(t, MustParseName("alice1111111a").HasDot())
}

func TestNameRoundTripProperty(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		body := rapid.StringMatching(`[a-z1-5]([a-z1-5.]{0,10}[a-z1-5])?`).Draw(t, "name")
		n, err := ParseName(body)
		if err != nil {
			t.Fatalf("parse %q: %v", body, err)
		}
		if n.String() != body {
			t.Fatalf("round trip %q -> %q", body, n.String())
		}
		if n.Suffix().Suffix() != n.Suffix() {
			t.Fatalf("suffix of %q not idempotent", body)
		}
	})
}

func TestNameText(t *testing.T) {
	partitiontest.PartitionTest(t)

	b, err := MustParseName("sys.bpay").MarshalText()
	require.NoError(t, err)
	require.Equal(t, "sys.bpay", string(b))
	var n Name
	require.NoError(t, n.UnmarshalText([]byte("sys.vpay")))
	require.Equal(t, "sys.vpay", n.String())
	require.Error(t, n.UnmarshalText([]byte("SYS")))
}
