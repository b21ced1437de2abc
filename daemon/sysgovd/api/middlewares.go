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
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/util/metrics"
)

// TokenHeader is the header carrying the admin API token. A bearer
// Authorization header is accepted too.
const TokenHeader = "X-Sysgov-API-Token"

// LoggerMiddleware logs one line per request.
type LoggerMiddleware struct {
	log logging.Logger
}

// MakeLogger initializes the logger middleware function
func MakeLogger(log logging.Logger) echo.MiddlewareFunc {
	logger := LoggerMiddleware{
		log: log,
	}

	return logger.handler
}

func (logger *LoggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()

		// Propagate the error if the next middleware has a problem
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		req := ctx.Request()
		res := ctx.Response()
		logger.log.WithFields(logging.Fields{
			"remote":  req.RemoteAddr,
			"method":  req.Method,
			"uri":     req.RequestURI,
			"status":  res.Status,
			"bytes":   strconv.FormatInt(res.Size, 10),
			"latency": time.Since(start).String(),
		}).Debug("api request")
		return nil
	}
}

// MakeRequestCounter counts requests by route and status code.
func MakeRequestCounter(reg *metrics.Registry) echo.MiddlewareFunc {
	counter := metrics.MakeCounter(metrics.APIRequestsTotal, reg, "route", "code")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			code := ctx.Response().Status
			if err != nil {
				code = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					code = he.Code
				}
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			counter.Inc(route, strconv.Itoa(code))
			return err
		}
	}
}

// MakeAdminAuth guards a route with the admin API token. An empty token
// disables the route.
func MakeAdminAuth(log logging.Logger, apiToken string) echo.MiddlewareFunc {
	apiTokenBytes := []byte(apiToken)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if len(apiTokenBytes) == 0 {
				return ctx.JSON(http.StatusForbidden, ErrorResponse{Message: errSubmissionDisabled})
			}

			req := ctx.Request()
			providedToken := []byte(req.Header.Get(TokenHeader))
			if len(providedToken) == 0 {
				authentication := strings.SplitN(req.Header.Get("Authorization"), " ", 2)
				if len(authentication) == 2 && strings.EqualFold("Bearer", authentication[0]) {
					providedToken = []byte(authentication[1])
				}
			}

			if subtle.ConstantTimeCompare(providedToken, apiTokenBytes) == 1 {
				return next(ctx)
			}
			log.Infof("rejected %s %s from %s: invalid API token", req.Method, req.RequestURI, req.RemoteAddr)
			return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: errInvalidAPIToken})
		}
	}
}
