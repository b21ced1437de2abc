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

package store

import (
	"encoding/binary"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/protocol"
)

// nameKey: table prefix + 8-byte big-endian name, so that row order is
// numeric name order.
func nameKey(table protocol.TableID, name basics.Name) []byte {
	ret := make([]byte, len(table), len(table)+8)
	copy(ret, table)
	return binary.BigEndian.AppendUint64(ret, uint64(name))
}

func singletonKey(table protocol.TableID) []byte {
	return []byte(table)
}

// balanceKey: prefix + symbol code + "/" + 8-byte big-endian owner
func balanceKey(code string, owner basics.Name) []byte {
	ret := []byte(protocol.BalanceTable)
	ret = append(ret, code...)
	ret = append(ret, '/')
	return binary.BigEndian.AppendUint64(ret, uint64(owner))
}

func statsKey(code string) []byte {
	ret := []byte(protocol.TokenStatsTable)
	return append(ret, code...)
}

// producerIndexKey: prefix + 16-byte order key; see ledgercore.ProducerOrderKey
func producerIndexKey(p basics.Producer) []byte {
	return append([]byte(protocol.ProducerIndex), ledgercore.ProducerOrderKey(p)...)
}

func bidIndexKey(b basics.NameBid) []byte {
	return append([]byte(protocol.BidIndex), ledgercore.BidOrderKey(b)...)
}

// indexedName extracts the trailing name of an index key.
func indexedName(key []byte) basics.Name {
	return basics.Name(binary.BigEndian.Uint64(key[len(key)-8:]))
}
