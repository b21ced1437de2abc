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

package kvstore

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

func init() {
	kvImpls["goleveldb"] = levelDBFactory{}
	kvImpls["leveldb"] = levelDBFactory{}
}

type levelDBFactory struct{}

func (levelDBFactory) New(dbdir string, inMem bool) (KVStore, error) { return NewLevelDB(dbdir, inMem) }

// LevelDB implements KVStore on the pure Go goleveldb.
type LevelDB struct {
	Ldb *leveldb.DB
	wo  *opt.WriteOptions
}

// NewLevelDB opens a LevelDB in the specified directory.
func NewLevelDB(dbdir string, inMem bool) (*LevelDB, error) {
	var db *leveldb.DB
	var err error
	if inMem {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(dbdir+".leveldb", &opt.Options{
			BlockCacheCapacity: 8 * opt.MiB,
			WriteBuffer:        16 * opt.MiB,
		})
	}
	if err != nil {
		return nil, err
	}
	return &LevelDB{Ldb: db, wo: &opt.WriteOptions{Sync: true}}, nil
}

// Close closes the database
func (db *LevelDB) Close() error { return db.Ldb.Close() }

// Get a key
func (db *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := db.Ldb.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set a key to value
func (db *LevelDB) Set(key, val []byte) error { return db.Ldb.Put(key, val, db.wo) }

// Delete a key
func (db *LevelDB) Delete(key []byte) error { return db.Ldb.Delete(key, db.wo) }

type levelBatch struct {
	db *LevelDB
	wb *leveldb.Batch
}

// NewBatch creates a batch writer
func (db *LevelDB) NewBatch() BatchWriter { return &levelBatch{db: db, wb: new(leveldb.Batch)} }

func (b *levelBatch) Set(key, value []byte) error {
	b.wb.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.wb.Delete(key)
	return nil
}

func (b *levelBatch) Commit() error { return b.db.Ldb.Write(b.wb, b.db.wo) }
func (b *levelBatch) Cancel()       { b.wb.Reset() }

type levelIterator struct {
	iter iterator.Iterator
}

// NewIterator scans a range: start and end are optional (set to nil/empty otherwise)
func (db *LevelDB) NewIterator(start, end []byte) Iterator {
	iter := db.Ldb.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	iter.First()
	return &levelIterator{iter: iter}
}

func (i *levelIterator) Next()                  { i.iter.Next() }
func (i *levelIterator) Valid() bool            { return i.iter.Valid() }
func (i *levelIterator) Close()                 { i.iter.Release() }
func (i *levelIterator) Key() []byte            { return append([]byte(nil), i.iter.Key()...) }
func (i *levelIterator) Value() ([]byte, error) { return append([]byte(nil), i.iter.Value()...), i.iter.Error() }
