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

package apply

import (
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/serr"
)

// CreateToken registers a token issued by header.Account. Only the token
// account may create tokens.
func CreateToken(fields actions.TokenFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.Token); err != nil {
		return err
	}
	return env.Tokens.Create(header.Account, fields.MaxSupply)
}

// Issue mints tokens on the authority of the token's issuer.
func Issue(fields actions.TokenFields, header actions.Header, env *Env) error {
	stats, found, err := env.Tokens.Stats(fields.Quantity.Symbol)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "token with symbol does not exist, create token before issue", "symbol", fields.Quantity.Symbol.Code)
	}
	if err := requireAuth(header, stats.Issuer); err != nil {
		return err
	}
	return env.Tokens.Issue(fields.To, fields.Quantity, fields.Memo)
}

// Transfer moves tokens out of header.Account.
func Transfer(fields actions.TokenFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, header.Account); err != nil {
		return err
	}
	return env.Tokens.Transfer(header.Account, fields.To, fields.Quantity, fields.Memo)
}
