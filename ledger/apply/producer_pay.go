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
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/serr"
)

// OnBlock runs at the start of every block produced by header.Account. Once
// the chain is activated it counts the block for the producer's pay and, at
// most once per ScheduleUpdateSlots, recomputes the schedule and tries to
// close the highest name auction.
func OnBlock(fields actions.OnBlockFields, header actions.Header, env *Env) error {
	if err := requireAuth(header, env.Accounts.System); err != nil {
		return err
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	if !env.activated(g) {
		return nil
	}

	if g.FirstSystemBlockTime == 0 {
		g.FirstSystemBlockTime = env.Now
		g.LastPervoteBucketFill = env.Now
	}

	// The first producers of a chain may never have registered.
	prod, found, err := env.State.Producer(header.Account)
	if err != nil {
		return err
	}
	if found {
		g.TotalUnpaidBlocks++
		prod.UnpaidBlocks++
		if err := env.State.PutProducer(prod); err != nil {
			return err
		}
	}
	if err := env.State.PutGlobal(g); err != nil {
		return err
	}

	ts := fields.Timestamp
	if uint32(ts-g.LastProducerScheduleUpdate) <= env.Params.ScheduleUpdateSlots || ts < g.LastProducerScheduleUpdate {
		return nil
	}
	if err := UpdateElectedProducers(env, ts); err != nil {
		return err
	}
	if ts > g.LastNameClose && uint32(ts-g.LastNameClose) > env.Params.NameCloseSlots {
		return closeHighestBid(env, ts)
	}
	return nil
}

// closeHighestBid closes the leading auction once it has been idle for a
// day, provided the chain has been activated long enough.
func closeHighestBid(env *Env, ts basics.BlockTimestamp) error {
	var highest basics.NameBid
	var found bool
	err := env.State.BidsByHighBid(func(b basics.NameBid) bool {
		highest, found = b, true
		return false
	})
	if err != nil || !found {
		return err
	}

	g, err := env.State.Global()
	if err != nil {
		return err
	}
	if highest.HighBid <= 0 ||
		highest.LastBidTime >= env.Now-env.Params.NameBidIdle ||
		g.ThreshActivatedStakeTime <= 0 ||
		env.Now-g.ThreshActivatedStakeTime <= env.Params.NameCloseActivationDelay {
		return nil
	}

	g.LastNameClose = ts
	if err := env.State.PutGlobal(g); err != nil {
		return err
	}
	highest.HighBid = -highest.HighBid
	return env.State.PutNameBid(highest)
}

// ClaimRewards pays header.Account its share of the per-block and per-vote
// pools, refilling the pools first for the time since the last fill.
func ClaimRewards(header actions.Header, env *Env) error {
	owner := header.Account
	if err := requireAuth(header, owner); err != nil {
		return err
	}
	prod, found, err := env.State.Producer(owner)
	if err != nil {
		return err
	}
	if !found {
		return serr.New(serr.NotFound, "unable to find key", "producer", owner)
	}
	if !prod.Active() {
		return serr.New(serr.Invariant, "producer does not have an active key", "producer", owner)
	}
	g, err := env.State.Global()
	if err != nil {
		return err
	}
	if !env.activated(g) {
		return serr.New(serr.RateLimit, "cannot claim rewards until the chain is activated (at least 15% of all tokens participate in voting)",
			"activated", g.TotalActivatedStake)
	}

	now := env.Now
	since := prod.LastClaimTime
	if since == 0 {
		since = g.FirstSystemBlockTime
	}
	timeSinceLastClaim := now - since
	if prod.LastClaimTime > 0 && timeSinceLastClaim <= env.Params.ClaimCooldown {
		return serr.New(serr.RateLimit, "already claimed rewards within past day", "producer", owner, "last", prod.LastClaimTime)
	}

	year := float64(env.Params.MicrosecondsPerYear)
	sinceFill := now - g.LastPervoteBucketFill
	if sinceFill > 0 && g.LastPervoteBucketFill > 0 {
		newTokens := int64(float64(g.PaymentBucketPerYear) * (float64(sinceFill) / year))
		toPerBlock := newTokens / env.Params.PerBlockShareDivisor
		toPerVote := newTokens - toPerBlock

		g.LastPervoteBucketFill = now
		if err := env.State.PutGlobal(g); err != nil {
			return err
		}
		if err := env.fillBuckets(newTokens, toPerBlock, toPerVote); err != nil {
			return err
		}
		if g, err = env.State.Global(); err != nil {
			return err
		}
		g.PervoteBucket += toPerVote
		g.PerblockBucket += toPerBlock
	}

	var perBlockPay int64
	if g.TotalUnpaidBlocks > 0 {
		perBlockPay = int64(float64(g.PerblockBucket) * (float64(prod.UnpaidBlocks) / float64(g.TotalUnpaidBlocks)))
		if abs(perBlockPay-g.PerblockBucket) <= 1 {
			perBlockPay = g.PerblockBucket
		}
	}
	var perVotePay int64
	if g.TotalProducerVoteWeight > 0 {
		tokensSinceLastClaim := int64(float64(g.PaymentBucketPerYear) * (float64(timeSinceLastClaim) / year))
		fullPervoteBucket := tokensSinceLastClaim - tokensSinceLastClaim/env.Params.PerBlockShareDivisor
		perVotePay = int64(float64(fullPervoteBucket) * (prod.TotalVotes / g.TotalProducerVoteWeight))
		if abs(perVotePay-g.PervoteBucket) <= 1 {
			perVotePay = g.PervoteBucket
		}
	}

	g.PervoteBucket -= perVotePay
	g.PerblockBucket -= perBlockPay
	g.TotalUnpaidBlocks -= prod.UnpaidBlocks
	if err := env.State.PutGlobal(g); err != nil {
		return err
	}
	prod.LastClaimTime = now
	prod.UnpaidBlocks = 0
	if err := env.State.PutProducer(prod); err != nil {
		return err
	}

	if perBlockPay > 0 {
		if err := env.Tokens.Transfer(env.Accounts.BlockPay, owner, basics.NewAsset(perBlockPay, env.RewardSymbol), "producer block pay"); err != nil {
			return err
		}
	}
	if perVotePay > 0 {
		if err := env.Tokens.Transfer(env.Accounts.VotePay, owner, basics.NewAsset(perVotePay, env.RewardSymbol), "producer vote pay"); err != nil {
			return err
		}
	}
	return nil
}

// fillBuckets issues newly accrued reward tokens and moves them into the
// pool accounts.
func (env *Env) fillBuckets(newTokens, toPerBlock, toPerVote int64) error {
	if newTokens <= 0 {
		return nil
	}
	sys := env.Accounts.System
	if err := env.Tokens.Issue(sys, basics.NewAsset(newTokens, env.RewardSymbol), "issue tokens for producer pay"); err != nil {
		return err
	}
	if toPerBlock > 0 {
		if err := env.Tokens.Transfer(sys, env.Accounts.BlockPay, basics.NewAsset(toPerBlock, env.RewardSymbol), "fund per-block bucket"); err != nil {
			return err
		}
	}
	if toPerVote > 0 {
		if err := env.Tokens.Transfer(sys, env.Accounts.VotePay, basics.NewAsset(toPerVote, env.RewardSymbol), "fund per-vote bucket"); err != nil {
			return err
		}
	}
	return nil
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
