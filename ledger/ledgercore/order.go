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
	"encoding/binary"
	"math"

	"github.com/sysgov/go-sysgov/data/basics"
)

// ProducerLess orders producers by total votes descending, ties by name.
func ProducerLess(a, b basics.Producer) bool {
	if a.TotalVotes != b.TotalVotes {
		return a.TotalVotes > b.TotalVotes
	}
	return a.Owner < b.Owner
}

// BidLess orders bids by high bid descending, ties by name. Closed bids
// carry a negative high bid and sort after every open one.
func BidLess(a, b basics.NameBid) bool {
	if a.HighBid != b.HighBid {
		return a.HighBid > b.HighBid
	}
	return a.NewName < b.NewName
}

// ProducerOrderKey encodes a producer's position so that byte order of keys
// matches ProducerLess.
func ProducerOrderKey(p basics.Producer) []byte {
	return orderKey(^floatBits(p.TotalVotes), p.Owner)
}

// BidOrderKey encodes a bid's position so that byte order of keys matches
// BidLess.
func BidOrderKey(b basics.NameBid) []byte {
	return orderKey(^(uint64(b.HighBid) ^ (1 << 63)), b.NewName)
}

func orderKey(rank uint64, name basics.Name) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, rank)
	binary.BigEndian.PutUint64(key[8:], uint64(name))
	return key
}

// floatBits maps a float64 to a uint64 whose unsigned order is the float's
// numeric order.
func floatBits(f float64) uint64 {
	if f == 0 {
		f = 0 // fold -0
	}
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}
