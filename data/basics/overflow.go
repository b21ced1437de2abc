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
	"golang.org/x/exp/constraints"
)

// OverflowTracker is used to track when an operation causes an overflow
type OverflowTracker struct {
	Overflowed bool
}

// OAdd adds 2 values with overflow detection
func OAdd[T constraints.Unsigned](a, b T) (res T, overflowed bool) {
	res = a + b
	overflowed = res < a
	return
}

// OSub subtracts b from a with overflow detection
func OSub[T constraints.Unsigned](a, b T) (res T, overflowed bool) {
	res = a - b
	overflowed = res > a
	return
}

// OMul multiplies 2 values with overflow detection
func OMul[T constraints.Unsigned](a, b T) (res T, overflowed bool) {
	if b == 0 {
		return 0, false
	}

	c := a * b
	if c/b != a {
		return 0, true
	}
	return c, false
}

// OAddS adds 2 signed values with overflow detection
func OAddS[T constraints.Signed](a, b T) (res T, overflowed bool) {
	res = a + b
	overflowed = (b > 0 && res < a) || (b < 0 && res > a)
	return
}

// OSubS subtracts b from a with overflow detection
func OSubS[T constraints.Signed](a, b T) (res T, overflowed bool) {
	res = a - b
	overflowed = (b > 0 && res > a) || (b < 0 && res < a)
	return
}

// OMulS multiplies 2 signed values with overflow detection
func OMulS[T constraints.Signed](a, b T) (res T, overflowed bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	c := a * b
	if c/b != a || (a == -1 && b == c) || (b == -1 && a == c) {
		return 0, true
	}
	return c, false
}

// Add adds 2 values with overflow detection
func (t *OverflowTracker) Add(a, b uint64) uint64 {
	res, overflowed := OAdd(a, b)
	if overflowed {
		t.Overflowed = true
	}
	return res
}

// Sub subtracts b from a with overflow detection
func (t *OverflowTracker) Sub(a, b uint64) uint64 {
	res, overflowed := OSub(a, b)
	if overflowed {
		t.Overflowed = true
	}
	return res
}

// AddS adds 2 signed values with overflow detection
func (t *OverflowTracker) AddS(a, b int64) int64 {
	res, overflowed := OAddS(a, b)
	if overflowed {
		t.Overflowed = true
	}
	return res
}

// SubS subtracts b from a with overflow detection
func (t *OverflowTracker) SubS(a, b int64) int64 {
	res, overflowed := OSubS(a, b)
	if overflowed {
		t.Overflowed = true
	}
	return res
}

// MulS multiplies 2 signed values with overflow detection
func (t *OverflowTracker) MulS(a, b int64) int64 {
	res, overflowed := OMulS(a, b)
	if overflowed {
		t.Overflowed = true
	}
	return res
}
