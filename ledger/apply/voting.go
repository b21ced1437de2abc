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
	"math"
	"sort"

	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// blockTimestampEpochSeconds is 2000-01-01T00:00:00Z in unix seconds.
const blockTimestampEpochSeconds = basics.BlockTimestampEpochMs / 1000

// stake2vote converts stake into vote weight.
func (env *Env) stake2vote(staked int64) float64 {
	weight := float64(staked)
	if env.Params.VoteWeightDecay {
		secs := int64(env.Now/basics.MicrosecondsPerSecond) - blockTimestampEpochSeconds
		weeks := secs / (7 * 24 * 3600)
		weight *= math.Pow(2, float64(weeks)/52)
	}
	return weight
}

// effectiveWeight is what v contributes to its producers or proxy.
func (env *Env) effectiveWeight(v basics.Voter) float64 {
	w := env.stake2vote(v.Staked)
	if v.IsProxy {
		w += v.ProxiedVoteWeight
	}
	return w
}

// RegProducer registers header.Account as a block producer, or updates its
// key, url and location. Votes and unpaid blocks survive re-registration.
func RegProducer(fields actions.ProducerFields, header actions.Header, env *Env) error {
	owner := header.Account
	if err := requireAuth(header, owner); err != nil {
		return err
	}
	if len(fields.URL) >= env.Params.MaxProducerURLLen {
		return serr.New(serr.Invariant, "url too long", "producer", owner, "len", len(fields.URL))
	}
	if fields.ProducerKey.IsEmpty() {
		return serr.New(serr.Invariant, "public key should not be the default value", "producer", owner)
	}
	if err := env.requireStakeholder(owner); err != nil {
		return err
	}

	voter, found, err := env.State.Voter(owner)
	if err != nil {
		return err
	}
	if found && voter.IsProxy {
		return serr.New(serr.Invariant, "cannot register as producer while acting as a proxy", "producer", owner)
	}

	prod, found, err := env.State.Producer(owner)
	if err != nil {
		return err
	}
	if !found {
		prod = basics.Producer{Owner: owner}
	}
	prod.ProducerKey = fields.ProducerKey
	prod.IsActive = true
	prod.URL = fields.URL
	prod.Location = fields.Location
	return env.State.PutProducer(prod)
}

// UnregProducer deactivates header.Account's producer registration.
func UnregProducer(header actions.Header, env *Env) error {
	owner := header.Account
	if err := requireAuth(header, owner); err != nil {
		return err
	}
	return deactivateProducer(env, owner)
}

func deactivateProducer(env *Env, owner basics.Name) error {
	prod, found, err := env.State.Producer(owner)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "producer not found", "producer", owner)
	}
	prod.Deactivate()
	return env.State.PutProducer(prod)
}

// VoteProducer points header.Account's stake at a proxy or at a sorted list
// of producers.
func VoteProducer(fields actions.VoteFields, header actions.Header, env *Env) error {
	voter := header.Account
	if err := requireAuth(header, voter); err != nil {
		return err
	}
	if err := env.requireStakeholder(voter); err != nil {
		return err
	}
	return updateVotes(env, voter, fields.Proxy, fields.Producers, true)
}

// RegProxy sets or clears header.Account's proxy flag.
func RegProxy(fields actions.FlagFields, header actions.Header, env *Env) error {
	proxy := header.Account
	if err := requireAuth(header, proxy); err != nil {
		return err
	}
	if err := env.requireStakeholder(proxy); err != nil {
		return err
	}

	v, found, err := env.State.Voter(proxy)
	if err != nil {
		return err
	}
	if !found {
		v = basics.Voter{Owner: proxy}
	}
	if v.IsProxy == fields.IsProxy {
		return serr.New(serr.StateConflict, "action has no effect", "proxy", proxy)
	}
	if fields.IsProxy && !v.Proxy.IsEmpty() {
		return serr.New(serr.Invariant, "account that uses a proxy is not allowed to become a proxy", "proxy", proxy)
	}
	v.IsProxy = fields.IsProxy
	if err := env.State.PutVoter(v); err != nil {
		return err
	}
	return propagateWeightChange(env, proxy)
}

// ChangeStake is called by the token ledger for every change of a core
// token balance. It creates the voter record on first receipt and moves the
// voter's existing votes along with its stake.
func ChangeStake(env *Env, owner basics.Name, delta int64) error {
	v, found, err := env.State.Voter(owner)
	if err != nil {
		return err
	}
	if !found {
		v = basics.Voter{Owner: owner}
	}
	staked, overflowed := basics.OAddS(v.Staked, delta)
	if overflowed || staked < 0 {
		return serr.New(serr.Invariant, "stake out of range", "owner", owner, "staked", v.Staked, "delta", delta)
	}
	v.Staked = staked
	if err := env.State.PutVoter(v); err != nil {
		return err
	}
	if len(v.Producers) > 0 || !v.Proxy.IsEmpty() {
		return updateVotes(env, owner, v.Proxy, v.Producers, false)
	}
	return nil
}

type producerDelta struct {
	delta  float64
	newSet bool
}

// updateVotes moves voterName's weight from its previous selection to the
// given proxy or producers. voting is false when the selection is unchanged
// and only the stake moved; then inactive producers keep their votes.
func updateVotes(env *Env, voterName, proxy basics.Name, producers []basics.Name, voting bool) error {
	if !proxy.IsEmpty() {
		if len(producers) > 0 {
			return serr.New(serr.Invariant, "cannot vote for producers and proxy at same time", "voter", voterName)
		}
		if proxy == voterName {
			return serr.New(serr.Invariant, "cannot proxy to self", "voter", voterName)
		}
	} else {
		if len(producers) > env.Params.MaxVoteProducers {
			return serr.New(serr.Invariant, "attempt to vote for too many producers", "voter", voterName, "count", len(producers))
		}
		for i := 1; i < len(producers); i++ {
			if producers[i-1] >= producers[i] {
				return serr.New(serr.Invariant, "producer votes must be unique and sorted", "voter", voterName)
			}
		}
	}

	voter, found, err := env.State.Voter(voterName)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "user must stake before they can vote", "voter", voterName)
	}
	if voter.IsProxy && !proxy.IsEmpty() {
		return serr.New(serr.Invariant, "account registered as a proxy is not allowed to use a proxy", "voter", voterName)
	}

	if !voter.Activated {
		g, err := env.State.Global()
		if err != nil {
			return err
		}
		voter.Activated = true
		g.TotalActivatedStake += voter.Staked
		if env.activated(g) && g.ThreshActivatedStakeTime == 0 {
			g.ThreshActivatedStakeTime = env.Now
		}
		if err := env.State.PutGlobal(g); err != nil {
			return err
		}
	}

	newWeight := env.effectiveWeight(voter)
	deltas := make(map[basics.Name]producerDelta)

	if voter.LastVoteWeight > 0 {
		if !voter.Proxy.IsEmpty() {
			old, found, err := env.State.Voter(voter.Proxy)
			if err != nil {
				return err
			}
			if !found {
				return serr.New(serr.NotFound, "old proxy not found", "proxy", voter.Proxy)
			}
			old.ProxiedVoteWeight -= voter.LastVoteWeight
			if err := env.State.PutVoter(old); err != nil {
				return err
			}
			if err := propagateWeightChange(env, old.Owner); err != nil {
				return err
			}
		} else {
			for _, p := range voter.Producers {
				d := deltas[p]
				d.delta -= voter.LastVoteWeight
				deltas[p] = d
			}
		}
	}

	if !proxy.IsEmpty() {
		np, found, err := env.State.Voter(proxy)
		if err != nil {
			return err
		}
		if !found {
			return serr.New(serr.NotFound, "invalid proxy specified", "proxy", proxy)
		}
		if voting && !np.IsProxy {
			return serr.New(serr.NotFound, "proxy not found", "proxy", proxy)
		}
		if newWeight >= 0 {
			np.ProxiedVoteWeight += newWeight
			if err := env.State.PutVoter(np); err != nil {
				return err
			}
			if err := propagateWeightChange(env, proxy); err != nil {
				return err
			}
		}
	} else if newWeight >= 0 {
		for _, p := range producers {
			d := deltas[p]
			d.delta += newWeight
			d.newSet = true
			deltas[p] = d
		}
	}

	if err := applyProducerDeltas(env, deltas, voting); err != nil {
		return err
	}

	voter.LastVoteWeight = newWeight
	voter.Proxy = proxy
	if proxy.IsEmpty() && len(producers) > 0 {
		voter.Producers = append([]basics.Name(nil), producers...)
	} else {
		voter.Producers = nil
	}
	return env.State.PutVoter(voter)
}

func applyProducerDeltas(env *Env, deltas map[basics.Name]producerDelta, voting bool) error {
	if len(deltas) == 0 {
		return nil
	}
	names := make([]basics.Name, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Sort(basics.SortNames(names))

	g, err := env.State.Global()
	if err != nil {
		return err
	}
	for _, name := range names {
		d := deltas[name]
		prod, found, err := env.State.Producer(name)
		if err != nil {
			return err
		}
		if !found {
			if d.newSet {
				return serr.New(serr.NotFound, "producer is not registered", "producer", name)
			}
			continue
		}
		if voting && d.newSet && !prod.Active() {
			return serr.New(serr.NotFound, "producer is not currently registered", "producer", name)
		}
		addVotes(&prod, &g, d.delta)
		if err := env.State.PutProducer(prod); err != nil {
			return err
		}
	}
	return env.State.PutGlobal(g)
}

func addVotes(prod *basics.Producer, g *basics.GlobalState, delta float64) {
	prod.TotalVotes += delta
	if prod.TotalVotes < 0 {
		prod.TotalVotes = 0
	}
	g.TotalProducerVoteWeight += delta
}

// propagateWeightChange recomputes owner's effective weight and pushes the
// difference from its last vote weight to its proxy or producers.
func propagateWeightChange(env *Env, owner basics.Name) error {
	v, found, err := env.State.Voter(owner)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "voter not found", "voter", owner)
	}
	newWeight := env.effectiveWeight(v)
	delta := newWeight - v.LastVoteWeight

	if !v.Proxy.IsEmpty() {
		proxy, found, err := env.State.Voter(v.Proxy)
		if err != nil {
			return err
		}
		if !found {
			return serr.New(serr.NotFound, "proxy not found", "proxy", v.Proxy)
		}
		proxy.ProxiedVoteWeight += delta
		if err := env.State.PutVoter(proxy); err != nil {
			return err
		}
		if err := propagateWeightChange(env, proxy.Owner); err != nil {
			return err
		}
	} else if len(v.Producers) > 0 {
		g, err := env.State.Global()
		if err != nil {
			return err
		}
		for _, name := range v.Producers {
			prod, found, err := env.State.Producer(name)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			addVotes(&prod, &g, delta)
			if err := env.State.PutProducer(prod); err != nil {
				return err
			}
		}
		if err := env.State.PutGlobal(g); err != nil {
			return err
		}
	}

	v.LastVoteWeight = newWeight
	return env.State.PutVoter(v)
}
