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

package main

const (
	// General
	errorNoDataDirectory = "data directory not specified; use -d or set $SYSGOV_DATA"
	errorLoadingConfig   = "error loading config: %v"
	errorLoadingGenesis  = "error loading genesis: %v"

	// init
	errorDataDirNotEmpty = "%s already holds a genesis; remove it first"
	errorParseAlloc      = "cannot parse allocation %q: want <name>=<amount>"
	infoInitialized      = "Initialized %s network %q in %s"

	// run
	infoNodeRunning = "Node running and accepting API requests on %s. Press Ctrl-C to exit"
	infoExiting     = "Exiting on signal"

	// apply
	errorReadingBlocks = "cannot read blocks from %s: %v"
	infoBlockApplied   = "round %d: %d applied, %d rejected"

	// submit
	errorBadEndpoint = "bad endpoint %q: %v"

	// show
	errorNotFound = "%s %s not found"
)
