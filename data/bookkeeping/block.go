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

package bookkeeping

import (
	"fmt"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
)

// Block is the unit the ledger applies: onblock for the header first, then
// each action in order, each action atomically.
type Block struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Round     uint64                `codec:"rnd"`
	Timestamp basics.BlockTimestamp `codec:"ts"`
	Producer  basics.Name           `codec:"prod"`
	Actions   []actions.Action      `codec:"acts"`
}

// BlockHeader is the part of a block the ledger remembers after applying it.
type BlockHeader struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Round     uint64                `codec:"rnd"`
	Timestamp basics.BlockTimestamp `codec:"ts"`
	Producer  basics.Name           `codec:"prod"`
}

// Header returns the block header.
func (b Block) Header() BlockHeader {
	return BlockHeader{Round: b.Round, Timestamp: b.Timestamp, Producer: b.Producer}
}

// Follows checks that b may be applied on top of prev.
func (b Block) Follows(prev BlockHeader) error {
	if b.Round != prev.Round+1 {
		return fmt.Errorf("block round %d does not follow %d", b.Round, prev.Round)
	}
	if b.Timestamp <= prev.Timestamp {
		return fmt.Errorf("block timestamp %d is not after %d", b.Timestamp, prev.Timestamp)
	}
	return nil
}
