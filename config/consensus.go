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

package config

import (
	"github.com/sysgov/go-sysgov/data/basics"
)

// SystemParams holds the economic and scheduling constants of the system
// contract. Every node replaying the same history must use identical values,
// so these are never read from the local node configuration.
type SystemParams struct {
	// MinActivatedStake is the amount of stake that must have voted before
	// rewards accrue and name auctions may close. It is 15% of a
	// 1,000,000,000.0000 supply.
	MinActivatedStake int64

	// ScheduleUpdateSlots is the number of block slots that must pass since
	// the last schedule update before the elected set is recomputed.
	ScheduleUpdateSlots uint32

	// NameCloseSlots is the minimum number of slots between two name auction
	// closes.
	NameCloseSlots uint32

	// NameBidIdle is how long the highest bid must stand unchallenged before
	// its auction can close.
	NameBidIdle basics.TimePoint

	// NameCloseActivationDelay is how long after activation name auctions
	// start to close.
	NameCloseActivationDelay basics.TimePoint

	// ClaimCooldown is the minimum time between two reward claims of one
	// producer.
	ClaimCooldown basics.TimePoint

	// MicrosecondsPerYear is the year length used to convert elapsed time
	// into newly issued reward tokens.
	MicrosecondsPerYear basics.TimePoint

	// PerBlockShareDivisor splits new reward tokens: 1/PerBlockShareDivisor
	// goes to the per-block pool, the rest to the per-vote pool.
	PerBlockShareDivisor int64

	MaxProducers       int
	MaxVoteProducers   int
	MaxProducerURLLen  int
	BidIncrementDivide int64
	MinAuthorityDepth  uint16
	MaxMemoLen         int

	// MaxRAMSizeLimit is the largest value setmaxram accepts.
	MaxRAMSizeLimit uint64

	// VoteWeightDecay makes a vote's weight grow by 2x every 52 weeks since
	// the block timestamp epoch, favoring recent votes. Disabled by default.
	VoteWeightDecay bool
}

// DefaultSystemParams are the parameters every network runs with unless its
// genesis says otherwise.
var DefaultSystemParams = SystemParams{
	MinActivatedStake:        150_000_000_0000,
	ScheduleUpdateSlots:      120,
	NameCloseSlots:           basics.SlotsPerDay,
	NameBidIdle:              basics.MicrosecondsPerDay,
	NameCloseActivationDelay: 14 * basics.MicrosecondsPerDay,
	ClaimCooldown:            basics.MicrosecondsPerDay,
	MicrosecondsPerYear:      52 * 7 * 24 * 3600 * basics.MicrosecondsPerSecond,
	PerBlockShareDivisor:     4,
	MaxProducers:             21,
	MaxVoteProducers:         30,
	MaxProducerURLLen:        512,
	BidIncrementDivide:       10,
	MinAuthorityDepth:        3,
	MaxMemoLen:               256,
	MaxRAMSizeLimit:          1024 * 1024 * 1024 * 1024 * 1024,
	VoteWeightDecay:          false,
}
