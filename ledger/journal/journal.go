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

// Package journal keeps a SQL history of every action the ledger applied or
// rejected, for operators and the REST API.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/behrang/sqlbatch"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver

	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/protocol"
)

const schema = `
create table if not exists journal (
	run_id  text    not null,
	round   bigint  not null,
	idx     integer not null,
	action  text    not null,
	actor   text    not null,
	applied boolean not null,
	kind    text    not null,
	error   text    not null,
	payload text    not null,
	primary key (run_id, round, idx)
)`

const sqlInsert = `
insert into journal (run_id, round, idx, action, actor, applied, kind, error, payload)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const sqlRecent = `
select run_id, round, idx, action, actor, applied, kind, error, payload
	from journal
	order by round desc, idx asc
	limit ?`

const sqlRound = `
select run_id, round, idx, action, actor, applied, kind, error, payload
	from journal
	where round = ?
	order by idx asc`

// maxRetries bounds the retries of a block whose postgres transaction hit a
// serialization failure.
const maxRetries = 5

// Entry is one journaled action.
type Entry struct {
	RunID   string `db:"run_id" json:"run_id"`
	Round   uint64 `db:"round" json:"round"`
	Index   int    `db:"idx" json:"index"`
	Action  string `db:"action" json:"action"`
	Actor   string `db:"actor" json:"actor"`
	Applied bool   `db:"applied" json:"applied"`
	Kind    string `db:"kind" json:"kind,omitempty"`
	Error   string `db:"error" json:"error,omitempty"`
	Payload string `db:"payload" json:"payload"`
}

// Recorder writes journal entries. It implements ledger.Journal.
type Recorder struct {
	db     *sqlx.DB
	driver string
	runID  string
	log    logging.Logger
}

// Open connects to the database and creates the journal table if needed.
// driver is "sqlite3" or "postgres".
func Open(driver, dsn string, log logging.Logger) (*Recorder, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		// one connection, so that ":memory:" is one database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: creating schema: %w", err)
	}
	return &Recorder{
		db:     db,
		driver: driver,
		runID:  uuid.New().String(),
		log:    log.With("component", "journal"),
	}, nil
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// RunID identifies the entries written by this process.
func (r *Recorder) RunID() string {
	return r.runID
}

// RecordBlock stores one entry per receipt in a single transaction.
func (r *Recorder) RecordBlock(ctx context.Context, blk bookkeeping.Block, receipts []ledgercore.Receipt) error {
	commands := make([]sqlbatch.Command, len(receipts))
	insert := r.db.Rebind(sqlInsert)
	for i, rcpt := range receipts {
		var payload []byte
		if rcpt.Index >= 0 && rcpt.Index < len(blk.Actions) {
			payload = protocol.EncodeJSON(blk.Actions[rcpt.Index])
		}
		commands[i] = sqlbatch.Command{
			Query: insert,
			Args: []interface{}{
				r.runID, int64(blk.Round), rcpt.Index, string(rcpt.Type), rcpt.Account.String(),
				rcpt.Applied, rcpt.Kind, rcpt.Error, string(payload),
			},
			Affect: 1,
		}
	}

	for attempt := 0; ; attempt++ {
		err := r.tryBatch(ctx, commands)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "40001" && attempt < maxRetries {
			r.log.Infof("retryable postgres error on round %d, retrying: %v", blk.Round, err)
			continue
		}
		return err
	}
}

func (r *Recorder) tryBatch(ctx context.Context, commands []sqlbatch.Command) error {
	var opts *sql.TxOptions
	if r.driver == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := sqlbatch.Batch(tx.Tx, commands); err != nil {
		return err
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest rounds first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(sqlRecent), limit)
	return entries, err
}

// Round returns the entries of one round, across runs.
func (r *Recorder) Round(ctx context.Context, round uint64) ([]Entry, error) {
	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(sqlRound), int64(round))
	return entries, err
}
