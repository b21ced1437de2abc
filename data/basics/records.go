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

// BlockchainParameters are the chain-wide limits the host enforces. The
// system contract stores a copy in its global state and forwards changes to
// the host.
type BlockchainParameters struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	MaxBlockNetUsage               uint64 `codec:"mbnet"`
	TargetBlockNetUsagePct         uint32 `codec:"tbnetpct"`
	MaxTransactionNetUsage         uint32 `codec:"mtxnet"`
	BasePerTransactionNetUsage     uint32 `codec:"basenet"`
	NetUsageLeeway                 uint32 `codec:"netleeway"`
	ContextFreeDiscountNetUsageNum uint32 `codec:"cfnum"`
	ContextFreeDiscountNetUsageDen uint32 `codec:"cfden"`
	MaxBlockCPUUsage               uint32 `codec:"mbcpu"`
	TargetBlockCPUUsagePct         uint32 `codec:"tbcpupct"`
	MaxTransactionCPUUsage         uint32 `codec:"mtxcpu"`
	MinTransactionCPUUsage         uint32 `codec:"mintxcpu"`
	MaxTransactionLifetime         uint32 `codec:"mtxlife"`
	DeferredTrxExpirationWindow    uint32 `codec:"deferwin"`
	MaxTransactionDelay            uint32 `codec:"mtxdelay"`
	MaxInlineActionSize            uint32 `codec:"inlinesz"`
	MaxInlineActionDepth           uint16 `codec:"inlinedepth"`
	MaxAuthorityDepth              uint16 `codec:"authdepth"`
}

// DefaultBlockchainParameters mirror the host defaults of a fresh chain.
var DefaultBlockchainParameters = BlockchainParameters{
	MaxBlockNetUsage:               1024 * 1024,
	TargetBlockNetUsagePct:         1000,
	MaxTransactionNetUsage:         512 * 1024,
	BasePerTransactionNetUsage:     12,
	NetUsageLeeway:                 500,
	ContextFreeDiscountNetUsageNum: 20,
	ContextFreeDiscountNetUsageDen: 100,
	MaxBlockCPUUsage:               200_000,
	TargetBlockCPUUsagePct:         1000,
	MaxTransactionCPUUsage:         150_000,
	MinTransactionCPUUsage:         100,
	MaxTransactionLifetime:         3600,
	DeferredTrxExpirationWindow:    600,
	MaxTransactionDelay:            45 * 24 * 3600,
	MaxInlineActionSize:            4096,
	MaxInlineActionDepth:           4,
	MaxAuthorityDepth:              6,
}

// GlobalState is the singleton record of chain-wide economic and scheduling
// state.
type GlobalState struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Params BlockchainParameters `codec:"params"`

	MaxRAMSize            int64 `codec:"maxram"`
	TotalRAMBytesReserved int64 `codec:"ramrsv"`

	AccountRAMSize                   int64  `codec:"acctram"`
	MaxAccounts                      uint64 `codec:"maxaccts"`
	MaxRAMSizeForAccounts            int64  `codec:"maxacctram"`
	TotalRAMBytesReservedForAccounts int64  `codec:"acctramrsv"`

	TotalActivatedStake      int64     `codec:"actstake"`
	ThreshActivatedStakeTime TimePoint `codec:"threshtime"`

	FirstSystemBlockTime       TimePoint      `codec:"firstblk"`
	LastPervoteBucketFill      TimePoint      `codec:"lastfill"`
	LastProducerScheduleUpdate BlockTimestamp `codec:"lastsched"`
	LastProducerScheduleSize   uint16         `codec:"schedsize"`
	LastNameClose              BlockTimestamp `codec:"lastclose"`

	PervoteBucket        int64 `codec:"vbucket"`
	PerblockBucket       int64 `codec:"bbucket"`
	PaymentBucketPerYear int64 `codec:"payyear"`

	TotalUnpaidBlocks       uint32  `codec:"unpaid"`
	TotalProducerVoteWeight float64 `codec:"voteweight"`
}

// FreeAccountsRAM is the part of the account creation pool not yet handed
// out to created accounts.
func (g GlobalState) FreeAccountsRAM() int64 {
	return g.MaxRAMSizeForAccounts - g.TotalRAMBytesReservedForAccounts
}

// Voter is the voting record of one account. It is created when the account
// first receives stake or registers as a proxy, and is never deleted.
type Voter struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Owner     Name   `codec:"owner"`
	Proxy     Name   `codec:"proxy"`
	Producers []Name `codec:"prods"`
	Staked    int64  `codec:"staked"`

	// LastVoteWeight is the weight this voter last contributed to its proxy
	// or producers. Changes are applied as deltas against it.
	LastVoteWeight float64 `codec:"lastweight"`

	// ProxiedVoteWeight is the total weight delegated to this account by
	// voters using it as proxy.
	ProxiedVoteWeight float64 `codec:"proxied"`
	IsProxy           bool    `codec:"isproxy"`

	// Activated is set on the first vote, when the voter's stake joins the
	// activated total.
	Activated bool `codec:"activated"`
}

// Producer is the registration record of a block producer.
type Producer struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Owner         Name      `codec:"owner"`
	TotalVotes    float64   `codec:"votes"`
	ProducerKey   PublicKey `codec:"key"`
	IsActive      bool      `codec:"active"`
	URL           string    `codec:"url"`
	UnpaidBlocks  uint32    `codec:"unpaid"`
	LastClaimTime TimePoint `codec:"lastclaim"`
	Location      uint16    `codec:"loc"`
}

// Active reports whether the producer may be elected and paid.
func (p Producer) Active() bool {
	return p.IsActive && !p.ProducerKey.IsEmpty()
}

// Deactivate clears the key and the active flag. Votes and unpaid blocks are kept.
func (p *Producer) Deactivate() {
	p.ProducerKey = ""
	p.IsActive = false
}

// UserResources are the resource quotas of one account.
type UserResources struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Owner     Name  `codec:"owner"`
	NetWeight int64 `codec:"net"`
	CPUWeight int64 `codec:"cpu"`
	RAMBytes  int64 `codec:"ram"`
}

// NameBid is the open or closed auction for a premium name. A negative
// HighBid marks a closed auction waiting for the winner to claim the name.
type NameBid struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NewName     Name      `codec:"name"`
	HighBidder  Name      `codec:"bidder"`
	HighBid     int64     `codec:"bid"`
	LastBidTime TimePoint `codec:"lastbid"`
}

// Closed reports whether the auction no longer accepts bids.
func (b NameBid) Closed() bool {
	return b.HighBid <= 0
}

// Account is an existing account, as the host knows it.
type Account struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Name       Name      `codec:"name"`
	Creator    Name      `codec:"creator"`
	Privileged bool      `codec:"priv"`
	Created    TimePoint `codec:"created"`
}

// ResourceLimits are the limits last pushed to the host for an account.
type ResourceLimits struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Account   Name  `codec:"acct"`
	RAMBytes  int64 `codec:"ram"`
	NetWeight int64 `codec:"net"`
	CPUWeight int64 `codec:"cpu"`
}

// ProducerKey is one entry of a producer schedule.
type ProducerKey struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ProducerName    Name      `codec:"name"`
	BlockSigningKey PublicKey `codec:"key"`
}

// ProducerSchedule is the elected producer set proposed to the host.
type ProducerSchedule struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Version   uint32         `codec:"version"`
	Producers []ProducerKey  `codec:"producers"`
	Proposed  BlockTimestamp `codec:"proposed"`
}

// TokenStats are the supply statistics of one token.
type TokenStats struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Supply    Asset `codec:"supply"`
	MaxSupply Asset `codec:"max"`
	Issuer    Name  `codec:"issuer"`
}
