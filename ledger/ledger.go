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

// Package ledger applies blocks of system contract actions to persistent
// state. Each block runs its implicit onblock action and then every action
// in order; an action that fails is rejected and leaves no trace, and the
// surviving changes of a block are committed in one batch.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/actions"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/apply"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/ledger/store"
	"github.com/sysgov/go-sysgov/ledger/token"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/serr"
	"github.com/sysgov/go-sysgov/util/metrics"
)

// Journal records the outcome of every committed block.
type Journal interface {
	RecordBlock(ctx context.Context, blk bookkeeping.Block, receipts []ledgercore.Receipt) error
}

// Ledger is the system contract state machine over a Store.
type Ledger struct {
	store   *store.Store
	genesis bookkeeping.Genesis
	params  config.SystemParams
	log     logging.Logger
	journal Journal
	metrics *metricsTracker

	mu   deadlock.RWMutex
	last bookkeeping.BlockHeader
}

// Option customizes Open.
type Option func(*Ledger)

// WithJournal records every committed block in j.
func WithJournal(j Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

// WithMetrics registers the ledger's collectors in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(l *Ledger) { l.metrics = makeMetricsTracker(reg) }
}

// Open loads the ledger from st, installing the genesis state first if st is
// empty.
func Open(st *store.Store, genesis bookkeeping.Genesis, params config.SystemParams, log logging.Logger, opts ...Option) (*Ledger, error) {
	if err := genesis.Validate(); err != nil {
		return nil, fmt.Errorf("ledger.Open: %w", err)
	}
	l := &Ledger{
		store:   st,
		genesis: genesis,
		params:  params,
		log:     log.With("component", "ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}

	last, found, err := st.LastBlock()
	if err != nil {
		return nil, err
	}
	if !found {
		hdr := genesisHeader(genesis)
		cow := makeStateCow(st, hdr)
		if err := l.bootstrap(cow); err != nil {
			return nil, err
		}
		if err := st.Commit(cow.deltas(), hdr); err != nil {
			return nil, err
		}
		l.log.Infof("installed genesis for network %s with %d allocations", genesis.Network, len(genesis.Allocation))
		last = hdr
	}
	l.last = last
	if l.metrics != nil {
		l.metrics.round.Set(float64(last.Round))
	}
	return l, nil
}

// Close releases the metrics collectors. The store is owned by the caller.
func (l *Ledger) Close() {
	if l.metrics != nil {
		l.metrics.close()
	}
}

func (l *Ledger) env(cow *stateCow) *apply.Env {
	env := &apply.Env{
		State:        cow,
		Host:         cow,
		Params:       l.params,
		Accounts:     l.genesis.Accounts,
		CoreSymbol:   l.genesis.CoreSymbol,
		RewardSymbol: l.genesis.RewardSymbol,
		Now:          cow.hdr.Timestamp.TimePoint(),
	}
	env.Tokens = token.New(cow, l.genesis.CoreSymbol, func(owner basics.Name, delta int64) error {
		return apply.ChangeStake(env, owner, delta)
	})
	return env
}

// ApplyBlock applies blk on top of the last committed block and returns one
// receipt per action. An error means nothing was committed: the block does
// not follow the last one, its onblock action failed, ctx was cancelled or
// storage failed. Rejected actions are reported in the receipts only.
func (l *Ledger) ApplyBlock(ctx context.Context, blk bookkeeping.Block) ([]ledgercore.Receipt, error) {
	start := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := blk.Follows(l.last); err != nil {
		return nil, serr.Wrap(serr.Invariant, err, "round", blk.Round)
	}

	hdr := blk.Header()
	blockCow := makeStateCow(l.store, hdr)

	onblock := actions.OnBlock(l.genesis.Accounts.System, blk.Timestamp, blk.Producer)
	if err := l.applyAction(blockCow, onblock); err != nil {
		return nil, serr.Extend(err, "round", blk.Round, "type", string(protocol.OnBlockAction))
	}

	receipts := make([]ledgercore.Receipt, len(blk.Actions))
	for i, act := range blk.Actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		receipts[i] = ledgercore.Receipt{Index: i, Type: act.Type, Account: act.Account, Applied: true}
		if err := l.applyAction(blockCow, act); err != nil {
			receipts[i].Reject(err)
			l.log.WithError(err).WithFields(logging.Fields{
				"round":  blk.Round,
				"index":  i,
				"action": string(act.Type),
			}).Info("action rejected")
		}
	}

	delta := blockCow.deltas()
	if err := l.store.Commit(delta, hdr); err != nil {
		return nil, err
	}
	l.last = hdr
	l.log.Debugf("committed round %d with %d actions, %d rows changed", blk.Round, len(blk.Actions), delta.Len())

	if l.metrics != nil {
		l.metrics.newBlock(blk, receipts, delta, time.Since(start))
	}
	if l.journal != nil {
		if err := l.journal.RecordBlock(ctx, blk, receipts); err != nil {
			l.log.WithError(err).Warnf("journal failed to record round %d", blk.Round)
		}
	}
	return receipts, nil
}

// applyAction runs act in a child of parent and keeps its writes only if it
// succeeds.
func (l *Ledger) applyAction(parent *stateCow, act actions.Action) error {
	cow := parent.child()
	if err := apply.Dispatch(act, l.env(cow)); err != nil {
		return err
	}
	cow.commitToParent()
	return nil
}

// LastBlock returns the header of the last committed block.
func (l *Ledger) LastBlock() bookkeeping.BlockHeader {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

// Genesis returns the genesis the ledger was opened with.
func (l *Ledger) Genesis() bookkeeping.Genesis {
	return l.genesis
}

// Global returns the committed global state.
func (l *Ledger) Global() (basics.GlobalState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Global()
}

func (l *Ledger) Producer(owner basics.Name) (basics.Producer, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Producer(owner)
}

func (l *Ledger) Voter(owner basics.Name) (basics.Voter, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Voter(owner)
}

func (l *Ledger) NameBid(name basics.Name) (basics.NameBid, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.NameBid(name)
}

func (l *Ledger) UserResources(owner basics.Name) (basics.UserResources, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.UserResources(owner)
}

func (l *Ledger) ResourceLimits(owner basics.Name) (basics.ResourceLimits, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.ResourceLimits(owner)
}

func (l *Ledger) Account(name basics.Name) (basics.Account, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Account(name)
}

func (l *Ledger) Balance(sym basics.Symbol, owner basics.Name) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Balance(sym, owner)
}

func (l *Ledger) TokenStats(sym basics.Symbol) (basics.TokenStats, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.TokenStats(sym)
}

// Schedule returns the last proposed producer schedule.
func (l *Ledger) Schedule() (basics.ProducerSchedule, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Schedule()
}

func (l *Ledger) ChainParams() (basics.BlockchainParameters, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.ChainParams()
}

// TopProducers returns up to n producers by total votes descending. n <= 0
// means all of them.
func (l *Ledger) TopProducers(n int) ([]basics.Producer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var top []basics.Producer
	err := l.store.ProducersByVotes(func(p basics.Producer) bool {
		top = append(top, p)
		return n <= 0 || len(top) < n
	})
	return top, err
}

// OpenBids returns up to n bids by high bid descending.
func (l *Ledger) OpenBids(n int) ([]basics.NameBid, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var bids []basics.NameBid
	err := l.store.BidsByHighBid(func(b basics.NameBid) bool {
		if b.Closed() {
			return false
		}
		bids = append(bids, b)
		return n <= 0 || len(bids) < n
	})
	return bids, err
}
