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

// Package serr provides structured errors for the system contract. Each error
// carries the exact rejection message returned to the submitter, a Kind from
// the rejection taxonomy, and free-form attributes that end up in log fields.
package serr

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/exp/slog"
)

// Kind classifies why an action was rejected.
type Kind int

const (
	// Unknown is the zero Kind, used for errors built with Extend.
	Unknown Kind = iota
	// Authorization means the caller lacks a required permission.
	Authorization
	// NotFound means a referenced voter, producer, bid or account is absent.
	NotFound
	// Invariant means a bound or structural rule would be broken.
	Invariant
	// RateLimit means a time-based guard has not cleared yet.
	RateLimit
	// StateConflict means the action would have no observable effect.
	StateConflict
	// Internal is a storage or encoding failure below the contract.
	Internal
)

var kindNames = [...]string{"unknown", "authorization", "not_found", "invariant", "rate_limit", "state_conflict", "internal"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error implements error so a Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is a structured error.
type Error struct {
	Kind    Kind
	Msg     string
	Attrs   map[string]any
	Wrapped error
}

// New creates a new structured error object using the supplied kind, message and attributes.
func New(kind Kind, msg string, pairs ...any) *Error {
	attrs := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs[pairs[i].(string)] = pairs[i+1]
	}
	return &Error{Kind: kind, Msg: msg, Attrs: attrs}
}

// Error returns error message. It is either the exact supplied message, or the
// serialized attributes if the supplied message was blank.
func (e *Error) Error() string {
	if e.Msg == "" {
		var buf strings.Builder
		keys := make([]string, 0, len(e.Attrs))
		for key := range e.Attrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		args := make([]any, 0, 2*len(e.Attrs))
		for _, key := range keys {
			args = append(args, key, e.Attrs[key])
		}
		l := slog.New(slog.NewTextHandler(&buf, nil))
		l.Info("", args...)
		return buf.String()
	}
	return e.Msg
}

// Is reports a match against a bare Kind, so callers can write
// errors.Is(err, serr.RateLimit).
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Unwrap returns the inner error, if it exists.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Extend adds additional attributes to an existing error. If the supplied error
// is nil, a new structured error is created with the given attributes and no
// message. If the error is not a structured error, it is wrapped in one using
// its existing message and the new attributes.
func Extend(err error, pairs ...any) error {
	if err == nil {
		return New(Unknown, "", pairs...)
	}
	var serr *Error
	if ok := errors.As(err, &serr); ok {
		for i := 0; i+1 < len(pairs); i += 2 {
			serr.Attrs[pairs[i].(string)] = pairs[i+1]
		}
		return err
	}
	return Wrap(Internal, err, pairs...)
}

// Wrap always creates a new structured error of the given kind around err.
func Wrap(kind Kind, err error, pairs ...any) *Error {
	serr := New(kind, err.Error(), pairs...)
	serr.Wrapped = err
	return serr
}

// KindOf returns the Kind of the first structured error in err's chain.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return Unknown
}

// AttrsOf returns the attributes of the first structured error in err's chain,
// suitable for a logger's WithFields.
func AttrsOf(err error) map[string]any {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Attrs
	}
	return nil
}
