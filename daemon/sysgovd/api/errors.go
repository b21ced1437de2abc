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
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/serr"
)

var (
	errFailedToParseName     = "failed to parse account name"
	errFailedToParseLimit    = "failed to parse limit"
	errFailedToParseRound    = "failed to parse round"
	errFailedToDecodeBlock   = "failed to decode block"
	errFailedLookingUpLedger = "failed to retrieve information from the ledger"
	errProducerNotFound      = "producer not found"
	errVoterNotFound         = "voter not found"
	errBidNotFound           = "bid not found"
	errResourcesNotFound     = "resources not found"
	errTokenNotFound         = "token not found"
	errJournalDisabled       = "journal is disabled"
	errSubmissionDisabled    = "block submission is disabled"
	errInvalidAPIToken       = "invalid API token"
	errRESTPayloadZeroLength = "payload was of zero length"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// statusOf maps a ledger error to an HTTP status code.
func statusOf(err error) int {
	switch serr.KindOf(err) {
	case serr.NotFound:
		return http.StatusNotFound
	case serr.Authorization:
		return http.StatusForbidden
	case serr.Invariant:
		return http.StatusBadRequest
	case serr.StateConflict:
		return http.StatusConflict
	case serr.RateLimit:
		return http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func returnError(ctx echo.Context, code int, err error, msg string, logger logging.Logger) error {
	if err != nil {
		logger.WithError(err).Info(msg)
	}
	resp := ErrorResponse{Message: msg}
	if err != nil && code != http.StatusInternalServerError {
		resp.Message = err.Error()
		resp.Kind = serr.KindOf(err).String()
	}
	return ctx.JSON(code, resp)
}

func badRequest(ctx echo.Context, err error, msg string, logger logging.Logger) error {
	logger.Debugf("%s: %v", msg, err)
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

func notFound(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusNotFound, ErrorResponse{Message: msg, Kind: serr.NotFound.String()})
}

func internalError(ctx echo.Context, err error, logger logging.Logger) error {
	logger.WithError(err).Error(errFailedLookingUpLedger)
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: errFailedLookingUpLedger})
}
