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

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/protocol"
)

const (
	defaultProducerLimit = 21
	defaultListLimit     = 100
	maxLimit             = 1000

	// maxBlockBytes bounds the body of a block submission.
	maxBlockBytes = 4 << 20
)

// NodeStatus is the answer to /v1/status.
type NodeStatus struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Network       string                `codec:"network"`
	LastRound     uint64                `codec:"last-round"`
	LastTimestamp basics.BlockTimestamp `codec:"last-timestamp"`
	LastProducer  basics.Name           `codec:"last-producer"`
	LastTime      string                `codec:"last-time"`
}

// BalanceResponse is the answer to /v1/balances/:symbol/:name.
type BalanceResponse struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Owner     basics.Name `codec:"owner"`
	Amount    int64       `codec:"amount"`
	Formatted string      `codec:"formatted"`
}

// BlockResponse is the answer to a block submission.
type BlockResponse struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Round    uint64               `codec:"round"`
	Receipts []ledgercore.Receipt `codec:"receipts"`
}

func returnEncoded(ctx echo.Context, obj interface{}) error {
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, protocol.EncodeJSON(obj))
}

func parseLimit(ctx echo.Context, def int) (int, error) {
	s := ctx.QueryParam("limit")
	if s == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > maxLimit {
		return 0, errors.New("limit out of range")
	}
	return limit, nil
}

func (h *Handlers) nameParam(ctx echo.Context) (basics.Name, error) {
	return basics.ParseName(ctx.Param("name"))
}

// Status returns the last committed block.
// (GET /v1/status)
func (h *Handlers) Status(ctx echo.Context) error {
	hdr := h.node.LastBlock()
	return returnEncoded(ctx, NodeStatus{
		Network:       h.node.Genesis().Network,
		LastRound:     hdr.Round,
		LastTimestamp: hdr.Timestamp,
		LastProducer:  hdr.Producer,
		LastTime:      hdr.Timestamp.TimePoint().String(),
	})
}

// GlobalState returns the global state table.
// (GET /v1/global)
func (h *Handlers) GlobalState(ctx echo.Context) error {
	g, err := h.node.Global()
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	return returnEncoded(ctx, g)
}

// Producers lists producers by total votes.
// (GET /v1/producers?limit=)
func (h *Handlers) Producers(ctx echo.Context) error {
	limit, err := parseLimit(ctx, defaultProducerLimit)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseLimit, h.log)
	}
	producers, err := h.node.TopProducers(limit)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if producers == nil {
		producers = []basics.Producer{}
	}
	return returnEncoded(ctx, producers)
}

// ProducerInfo returns one producer.
// (GET /v1/producers/:name)
func (h *Handlers) ProducerInfo(ctx echo.Context) error {
	name, err := h.nameParam(ctx)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseName, h.log)
	}
	p, found, err := h.node.Producer(name)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if !found {
		return notFound(ctx, errProducerNotFound)
	}
	return returnEncoded(ctx, p)
}

// VoterInfo returns one voter.
// (GET /v1/voters/:name)
func (h *Handlers) VoterInfo(ctx echo.Context) error {
	name, err := h.nameParam(ctx)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseName, h.log)
	}
	v, found, err := h.node.Voter(name)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if !found {
		return notFound(ctx, errVoterNotFound)
	}
	return returnEncoded(ctx, v)
}

// Bids lists open name auctions by high bid.
// (GET /v1/bids?limit=)
func (h *Handlers) Bids(ctx echo.Context) error {
	limit, err := parseLimit(ctx, defaultListLimit)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseLimit, h.log)
	}
	bids, err := h.node.OpenBids(limit)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if bids == nil {
		bids = []basics.NameBid{}
	}
	return returnEncoded(ctx, bids)
}

// BidInfo returns the auction for one name.
// (GET /v1/bids/:name)
func (h *Handlers) BidInfo(ctx echo.Context) error {
	name, err := h.nameParam(ctx)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseName, h.log)
	}
	b, found, err := h.node.NameBid(name)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if !found {
		return notFound(ctx, errBidNotFound)
	}
	return returnEncoded(ctx, b)
}

// Resources returns the resource quotas of an account.
// (GET /v1/resources/:name)
func (h *Handlers) Resources(ctx echo.Context) error {
	name, err := h.nameParam(ctx)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseName, h.log)
	}
	r, found, err := h.node.UserResources(name)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if !found {
		return notFound(ctx, errResourcesNotFound)
	}
	return returnEncoded(ctx, r)
}

// BalanceInfo returns a token balance. The symbol is given by its code.
// (GET /v1/balances/:symbol/:name)
func (h *Handlers) BalanceInfo(ctx echo.Context) error {
	name, err := h.nameParam(ctx)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseName, h.log)
	}
	stats, found, err := h.node.TokenStats(basics.Symbol{Code: ctx.Param("symbol")})
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	if !found {
		return notFound(ctx, errTokenNotFound)
	}
	sym := stats.Supply.Symbol
	amount, err := h.node.Balance(sym, name)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	return returnEncoded(ctx, BalanceResponse{
		Owner:     name,
		Amount:    amount,
		Formatted: basics.NewAsset(amount, sym).String(),
	})
}

// ProducerSchedule returns the last proposed schedule.
// (GET /v1/schedule)
func (h *Handlers) ProducerSchedule(ctx echo.Context) error {
	s, err := h.node.Schedule()
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	return returnEncoded(ctx, s)
}

// Journal lists the latest journal entries.
// (GET /v1/journal?limit=)
func (h *Handlers) Journal(ctx echo.Context) error {
	if h.journal == nil {
		return notFound(ctx, errJournalDisabled)
	}
	limit, err := parseLimit(ctx, defaultListLimit)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseLimit, h.log)
	}
	entries, err := h.journal.Recent(ctx.Request().Context(), limit)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	return returnEncoded(ctx, entries)
}

// JournalRound lists the journal entries of one round.
// (GET /v1/journal/:round)
func (h *Handlers) JournalRound(ctx echo.Context) error {
	if h.journal == nil {
		return notFound(ctx, errJournalDisabled)
	}
	round, err := strconv.ParseUint(ctx.Param("round"), 10, 64)
	if err != nil {
		return badRequest(ctx, err, errFailedToParseRound, h.log)
	}
	entries, err := h.journal.Round(ctx.Request().Context(), round)
	if err != nil {
		return internalError(ctx, err, h.log)
	}
	return returnEncoded(ctx, entries)
}

// SubmitBlock applies a JSON encoded block and returns its receipts.
// (POST /v1/blocks)
func (h *Handlers) SubmitBlock(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxBlockBytes))
	if err != nil {
		return badRequest(ctx, err, errFailedToDecodeBlock, h.log)
	}
	if len(body) == 0 {
		return badRequest(ctx, errors.New(errRESTPayloadZeroLength), errRESTPayloadZeroLength, h.log)
	}
	var blk bookkeeping.Block
	if err := protocol.DecodeJSON(body, &blk); err != nil {
		return badRequest(ctx, err, errFailedToDecodeBlock, h.log)
	}

	receipts, err := h.node.ApplyBlock(ctx.Request().Context(), blk)
	if err != nil {
		return returnError(ctx, statusOf(err), err, "block rejected", h.log)
	}
	return returnEncoded(ctx, BlockResponse{Round: blk.Round, Receipts: receipts})
}
