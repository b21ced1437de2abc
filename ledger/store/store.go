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

// Package store persists the contract tables in a kvstore.KVStore.
//
// Every table row is encoded with the canonical msgpack codec under a key of
// the form <table prefix><8-byte big-endian name>. Producers and name bids
// are additionally indexed by vote weight and high bid, so that ordered
// queries are a prefix scan.
package store

import (
	"errors"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/protocol"
	"github.com/sysgov/go-sysgov/serr"
	"github.com/sysgov/go-sysgov/util/kvstore"
)

// Store reads committed contract state and commits block deltas.
type Store struct {
	kv kvstore.KVStore
}

// New wraps an open key-value store.
func New(kv kvstore.KVStore) *Store {
	return &Store{kv: kv}
}

// Open opens the named backend under dbdir.
func Open(backend, dbdir string, inMem bool) (*Store, error) {
	kv, err := kvstore.NewKVStore(backend, dbdir, inMem)
	if err != nil {
		return nil, err
	}
	return New(kv), nil
}

// Close closes the underlying key-value store.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) get(key []byte, obj interface{}) (bool, error) {
	raw, err := s.kv.Get(key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, serr.Wrap(serr.Internal, err, "key", string(key))
	}
	if err := protocol.DecodeMsgp(raw, obj); err != nil {
		return false, serr.Wrap(serr.Internal, err, "key", string(key))
	}
	return true, nil
}

// scan visits the index entries under prefix in key order until fn returns
// false or an error.
func (s *Store) scan(prefix []byte, fn func(key []byte) (bool, error)) error {
	it := s.kv.NewIterator(prefix, kvstore.PrefixEnd(prefix))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		more, err := fn(it.Key())
		if err != nil || !more {
			return err
		}
	}
	return nil
}

// Global returns the singleton, or the zero value on a fresh store.
func (s *Store) Global() (g basics.GlobalState, err error) {
	_, err = s.get(singletonKey(protocol.GlobalTable), &g)
	return
}

func (s *Store) Voter(owner basics.Name) (v basics.Voter, found bool, err error) {
	found, err = s.get(nameKey(protocol.VoterTable, owner), &v)
	return
}

func (s *Store) Producer(owner basics.Name) (p basics.Producer, found bool, err error) {
	found, err = s.get(nameKey(protocol.ProducerTable, owner), &p)
	return
}

// ProducersByVotes visits producers by total votes descending, ties by name.
func (s *Store) ProducersByVotes(fn func(basics.Producer) bool) error {
	return s.scan([]byte(protocol.ProducerIndex), func(key []byte) (bool, error) {
		p, found, err := s.Producer(indexedName(key))
		if err != nil {
			return false, err
		}
		if !found {
			return false, serr.New(serr.Internal, "producer index refers to a missing row", "owner", indexedName(key))
		}
		return fn(p), nil
	})
}

func (s *Store) UserResources(owner basics.Name) (r basics.UserResources, found bool, err error) {
	found, err = s.get(nameKey(protocol.UserResourcesTable, owner), &r)
	return
}

func (s *Store) NameBid(name basics.Name) (b basics.NameBid, found bool, err error) {
	found, err = s.get(nameKey(protocol.BidTable, name), &b)
	return
}

// BidsByHighBid visits bids by high bid descending, ties by name.
func (s *Store) BidsByHighBid(fn func(basics.NameBid) bool) error {
	return s.scan([]byte(protocol.BidIndex), func(key []byte) (bool, error) {
		b, found, err := s.NameBid(indexedName(key))
		if err != nil {
			return false, err
		}
		if !found {
			return false, serr.New(serr.Internal, "bid index refers to a missing row", "name", indexedName(key))
		}
		return fn(b), nil
	})
}

func (s *Store) Account(name basics.Name) (a basics.Account, found bool, err error) {
	found, err = s.get(nameKey(protocol.AccountTable, name), &a)
	return
}

// Balance returns zero for owners that never held the token.
func (s *Store) Balance(sym basics.Symbol, owner basics.Name) (amount int64, err error) {
	_, err = s.get(balanceKey(sym.Code, owner), &amount)
	return
}

// TokenStats looks a token up by symbol code; the precision is not part of
// the key.
func (s *Store) TokenStats(sym basics.Symbol) (st basics.TokenStats, found bool, err error) {
	found, err = s.get(statsKey(sym.Code), &st)
	return
}

func (s *Store) ResourceLimits(account basics.Name) (l basics.ResourceLimits, found bool, err error) {
	found, err = s.get(nameKey(protocol.LimitsTable, account), &l)
	return
}

// Schedule returns the last proposed producer schedule.
func (s *Store) Schedule() (sched basics.ProducerSchedule, err error) {
	_, err = s.get(singletonKey(protocol.ScheduleTable), &sched)
	return
}

func (s *Store) ChainParams() (p basics.BlockchainParameters, found bool, err error) {
	found, err = s.get(singletonKey(protocol.ChainParamsTable), &p)
	return
}

// LastBlock returns the header of the last committed block.
func (s *Store) LastBlock() (hdr bookkeeping.BlockHeader, found bool, err error) {
	found, err = s.get(singletonKey(protocol.LastBlockTable), &hdr)
	return
}

// Commit writes delta and the block header in one atomic batch.
func (s *Store) Commit(delta ledgercore.StateDelta, hdr bookkeeping.BlockHeader) (err error) {
	batch := s.kv.NewBatch()
	defer func() {
		if err != nil {
			batch.Cancel()
		}
	}()

	w := batchWriter{batch: batch}
	if delta.Global != nil {
		w.put(singletonKey(protocol.GlobalTable), delta.Global)
	}
	for name, v := range delta.Voters {
		w.put(nameKey(protocol.VoterTable, name), &v)
	}
	for name, p := range delta.Producers {
		old, found, err := s.Producer(name)
		if err != nil {
			return err
		}
		w.reindex(found, producerIndexKey(old), producerIndexKey(p))
		w.put(nameKey(protocol.ProducerTable, name), &p)
	}
	for name, r := range delta.Resources {
		w.put(nameKey(protocol.UserResourcesTable, name), &r)
	}
	for name, mb := range delta.Bids {
		old, found, err := s.NameBid(name)
		if err != nil {
			return err
		}
		if mb.Deleted {
			if found {
				w.del(bidIndexKey(old))
			}
			w.del(nameKey(protocol.BidTable, name))
			continue
		}
		w.reindex(found, bidIndexKey(old), bidIndexKey(mb.Bid))
		w.put(nameKey(protocol.BidTable, name), &mb.Bid)
	}
	for name, a := range delta.Accounts {
		w.put(nameKey(protocol.AccountTable, name), &a)
	}
	for key, amount := range delta.Balances {
		w.put(balanceKey(key.Code, key.Owner), amount)
	}
	for code, st := range delta.Stats {
		w.put(statsKey(code), &st)
	}
	for name, l := range delta.Limits {
		w.put(nameKey(protocol.LimitsTable, name), &l)
	}
	if delta.Schedule != nil {
		w.put(singletonKey(protocol.ScheduleTable), delta.Schedule)
	}
	if delta.ChainParams != nil {
		w.put(singletonKey(protocol.ChainParamsTable), delta.ChainParams)
	}
	w.put(singletonKey(protocol.LastBlockTable), &hdr)

	if w.err != nil {
		return serr.Wrap(serr.Internal, w.err, "round", hdr.Round)
	}
	if err = batch.Commit(); err != nil {
		return serr.Wrap(serr.Internal, err, "round", hdr.Round)
	}
	return nil
}

// batchWriter keeps the first error so that Commit can check once.
type batchWriter struct {
	batch kvstore.BatchWriter
	err   error
}

func (w *batchWriter) put(key []byte, obj interface{}) {
	if w.err == nil {
		w.err = w.batch.Set(key, protocol.EncodeMsgp(obj))
	}
}

func (w *batchWriter) del(key []byte) {
	if w.err == nil {
		w.err = w.batch.Delete(key)
	}
}

func (w *batchWriter) reindex(hadOld bool, oldKey, newKey []byte) {
	if hadOld && string(oldKey) == string(newKey) {
		return
	}
	if hadOld {
		w.del(oldKey)
	}
	if w.err == nil {
		w.err = w.batch.Set(newKey, []byte{})
	}
}
