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
	"strconv"
	"strings"
)

// Symbol is a token symbol code of up to seven upper case letters, with the
// number of decimal places the token carries.
type Symbol struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Code      string `codec:"code"`
	Precision uint8  `codec:"precision"`
}

// MaxSymbolCodeLen bounds the length of Symbol.Code.
const MaxSymbolCodeLen = 7

// Valid reports whether the symbol code is well-formed.
func (s Symbol) Valid() bool {
	if len(s.Code) == 0 || len(s.Code) > MaxSymbolCodeLen || s.Precision > 18 {
		return false
	}
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return false
		}
	}
	return true
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// Asset is an amount of a token in minor units.
type Asset struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Amount int64  `codec:"amount"`
	Symbol Symbol `codec:"symbol"`
}

// NewAsset builds an Asset.
func NewAsset(amount int64, sym Symbol) Asset {
	return Asset{Amount: amount, Symbol: sym}
}

// String formats the asset with its decimal point, e.g. "1000.0000 SYS".
func (a Asset) String() string {
	amount := a.Amount
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if a.Symbol.Precision == 0 {
		return fmt.Sprintf("%s%d %s", sign, amount, a.Symbol.Code)
	}
	p := int64(1)
	for i := uint8(0); i < a.Symbol.Precision; i++ {
		p *= 10
	}
	return fmt.Sprintf("%s%d.%0*d %s", sign, amount/p, int(a.Symbol.Precision), amount%p, a.Symbol.Code)
}

// ParseAsset parses strings like "1000.0000 SYS". The number of fractional
// digits sets the precision.
func ParseAsset(s string) (Asset, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Asset{}, fmt.Errorf("asset %q must be <amount> <symbol>", s)
	}
	num, code := fields[0], fields[1]
	neg := strings.HasPrefix(num, "-")
	num = strings.TrimPrefix(num, "-")
	whole, frac, _ := strings.Cut(num, ".")
	digits := whole + frac
	if digits == "" {
		return Asset{}, fmt.Errorf("asset %q has no amount", s)
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Asset{}, fmt.Errorf("asset %q: %w", s, err)
	}
	if neg {
		amount = -amount
	}
	sym := Symbol{Code: code, Precision: uint8(len(frac))}
	if !sym.Valid() {
		return Asset{}, fmt.Errorf("asset %q has invalid symbol", s)
	}
	return Asset{Amount: amount, Symbol: sym}, nil
}
