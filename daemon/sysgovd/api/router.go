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

// Package api is the sysgovd REST API: read access to the contract tables,
// the action journal, and block submission.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/util/metrics"
)

const apiV1Tag = "/v1"

// Node is the ledger the API fronts.
type Node interface {
	LastBlock() bookkeeping.BlockHeader
	Genesis() bookkeeping.Genesis
	Global() (basics.GlobalState, error)
	Producer(owner basics.Name) (basics.Producer, bool, error)
	Voter(owner basics.Name) (basics.Voter, bool, error)
	NameBid(name basics.Name) (basics.NameBid, bool, error)
	UserResources(owner basics.Name) (basics.UserResources, bool, error)
	Balance(sym basics.Symbol, owner basics.Name) (int64, error)
	TokenStats(sym basics.Symbol) (basics.TokenStats, bool, error)
	Schedule() (basics.ProducerSchedule, error)
	TopProducers(n int) ([]basics.Producer, error)
	OpenBids(n int) ([]basics.NameBid, error)
	ApplyBlock(ctx context.Context, blk bookkeeping.Block) ([]ledgercore.Receipt, error)
}

// JournalReader serves the journal routes. It may be nil.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Round(ctx context.Context, round uint64) ([]journal.Entry, error)
}

// Config carries everything NewRouter needs besides the node.
type Config struct {
	Log           logging.Logger
	Journal       JournalReader
	AdminAPIToken string
	// Registry, when set, is served on /metrics and counts requests.
	Registry *metrics.Registry
}

// Handlers holds the state shared by all route handlers.
type Handlers struct {
	node    Node
	journal JournalReader
	log     logging.Logger
}

// NewRouter builds the echo instance serving the API.
func NewRouter(node Node, cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(MakeLogger(cfg.Log))
	if cfg.Registry != nil {
		e.Use(MakeRequestCounter(cfg.Registry))
		e.GET("/metrics", echo.WrapHandler(cfg.Registry.Handler()))
	}

	h := &Handlers{node: node, journal: cfg.Journal, log: cfg.Log}

	e.GET("/health", h.Health)

	v1 := e.Group(apiV1Tag)
	v1.GET("/status", h.Status)
	v1.GET("/global", h.GlobalState)
	v1.GET("/producers", h.Producers)
	v1.GET("/producers/:name", h.ProducerInfo)
	v1.GET("/voters/:name", h.VoterInfo)
	v1.GET("/bids", h.Bids)
	v1.GET("/bids/:name", h.BidInfo)
	v1.GET("/resources/:name", h.Resources)
	v1.GET("/balances/:symbol/:name", h.BalanceInfo)
	v1.GET("/schedule", h.ProducerSchedule)
	v1.GET("/journal", h.Journal)
	v1.GET("/journal/:round", h.JournalRound)
	v1.POST("/blocks", h.SubmitBlock, MakeAdminAuth(cfg.Log, cfg.AdminAPIToken))

	return e
}

// Health answers liveness probes.
func (h *Handlers) Health(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
