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
	"fmt"
	"strings"
)

// Name is a 64-bit account identifier. Up to 12 characters from
// ".12345abcdefghijklmnopqrstuvwxyz" are packed five bits each from the most
// significant end; an optional 13th character from ".12345abcdefghij" takes
// the low four bits. Numeric order of Names matches lexicographic order of
// their string forms.
type Name uint64

const nameCharmap = ".12345abcdefghijklmnopqrstuvwxyz"

// NameMaxLen is the longest valid string form of a Name.
const NameMaxLen = 13

func charToSymbol(c byte) (uint64, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c == '.':
		return 0, true
	}
	return 0, false
}

// ParseName converts a string to a Name. It rejects characters outside the
// charmap, strings longer than 13 characters, a 13th character beyond 'j',
// and trailing dots, so that ParseName(n.String()) == n for every Name.
func ParseName(s string) (Name, error) {
	if len(s) > NameMaxLen {
		return 0, fmt.Errorf("name %q is longer than %d characters", s, NameMaxLen)
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		sym, ok := charToSymbol(s[i])
		if !ok {
			return 0, fmt.Errorf("name %q contains invalid character %q", s, s[i])
		}
		if i < 12 {
			n |= sym << (64 - 5*uint(i+1))
		} else {
			if sym > 0x0f {
				return 0, fmt.Errorf("name %q has invalid 13th character %q", s, s[i])
			}
			n |= sym
		}
	}
	if Name(n).String() != s {
		return 0, fmt.Errorf("name %q is not in canonical form", s)
	}
	return Name(n), nil
}

// MustParseName is ParseName that panics on error. It is meant for constants
// and tests.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the canonical string form, without trailing dots.
func (n Name) String() string {
	var buf [NameMaxLen]byte
	tmp := uint64(n)
	for i := 0; i <= 12; i++ {
		if i == 0 {
			buf[12-i] = nameCharmap[tmp&0x0f]
			tmp >>= 4
		} else {
			buf[12-i] = nameCharmap[tmp&0x1f]
			tmp >>= 5
		}
	}
	return strings.TrimRight(string(buf[:]), ".")
}

// IsEmpty reports whether n is the zero name.
func (n Name) IsEmpty() bool {
	return n == 0
}

// Suffix returns the part of the name after its last dot that is followed by
// a real character. Names without such a dot are their own suffix.
func (n Name) Suffix() Name {
	v := uint64(n)
	var afterLastDot, tmp uint
	for remaining := 59; remaining >= 4; remaining -= 5 {
		c := (v >> uint(remaining)) & 0x1f
		if c == 0 {
			tmp = uint(remaining)
		} else {
			afterLastDot = tmp
		}
	}
	thirteenth := v & 0x0f
	if thirteenth != 0 {
		afterLastDot = tmp
	}
	if afterLastDot == 0 {
		return n
	}
	mask := (uint64(1) << afterLastDot) - 16
	shift := 64 - afterLastDot
	return Name(((v & mask) << shift) + (thirteenth << (shift - 1)))
}

// HasDot reports whether any of the first twelve character slots is a dot.
// That is true both for dotted names and for names shorter than twelve
// characters.
func (n Name) HasDot() bool {
	tmp := uint64(n) >> 4
	for i := 0; i < 12; i++ {
		if tmp&0x1f == 0 {
			return true
		}
		tmp >>= 5
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := ParseName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// SortNames sorts a slice of names in ascending order.
type SortNames []Name

func (a SortNames) Len() int           { return len(a) }
func (a SortNames) Less(i, j int) bool { return a[i] < a[j] }
func (a SortNames) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
