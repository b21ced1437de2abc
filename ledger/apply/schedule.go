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
	"github.com/sysgov/go-sysgov/data/basics"
)

// UpdateElectedProducers recomputes the elected producer set at ts and
// proposes it to the host. The set never shrinks below the size of the last
// proposed one; a smaller set is dropped until more producers are voted in.
func UpdateElectedProducers(env *Env, ts basics.BlockTimestamp) error {
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	g.LastProducerScheduleUpdate = ts

	top := make([]basics.ProducerKey, 0, env.Params.MaxProducers)
	err = env.State.ProducersByVotes(func(p basics.Producer) bool {
		if p.TotalVotes <= 0 {
			return false
		}
		if !p.Active() {
			return true
		}
		top = append(top, basics.ProducerKey{ProducerName: p.Owner, BlockSigningKey: p.ProducerKey})
		return len(top) < env.Params.MaxProducers
	})
	if err != nil {
		return err
	}

	if len(top) == 0 || len(top) < int(g.LastProducerScheduleSize) {
		return env.State.PutGlobal(g)
	}
	if err := env.Host.SetProposedProducers(top); err != nil {
		return err
	}
	g.LastProducerScheduleSize = uint16(len(top))
	return env.State.PutGlobal(g)
}
