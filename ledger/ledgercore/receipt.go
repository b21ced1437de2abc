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
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/serr"
)

// Receipt reports the outcome of one action of a block. Index -1 is the
// implicit onblock action.
type Receipt struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Index   int                 `codec:"idx"`
	Type    protocol.ActionType `codec:"type"`
	Account basics.Name         `codec:"acct"`
	Applied bool                `codec:"applied"`

	// Error and Kind are set for rejected actions.
	Error string `codec:"err"`
	Kind  string `codec:"kind"`
}

// Reject marks the receipt with err.
func (r *Receipt) Reject(err error) {
	r.Applied = false
	r.Error = err.Error()
	r.Kind = serr.KindOf(err).String()
}
