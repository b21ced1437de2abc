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

package protocol

// TableID is a domain separation prefix for keys in the state store. Every
// table and secondary index gets its own prefix so that prefix iteration over
// one never yields rows of another.
type TableID string

// Table prefixes, in lexicographic order.
const (
	AccountTable       TableID = "acct/"
	BalanceTable       TableID = "bal/"
	BidIndex           TableID = "bididx/"
	BidTable           TableID = "bid/"
	ChainParamsTable   TableID = "chainparams"
	GlobalTable        TableID = "global"
	LastBlockTable     TableID = "lastblock"
	LimitsTable        TableID = "limits/"
	ProducerIndex      TableID = "prodidx/"
	ProducerTable      TableID = "prod/"
	ScheduleTable      TableID = "sched"
	TokenStatsTable    TableID = "stat/"
	UserResourcesTable TableID = "userres/"
	VoterTable         TableID = "voter/"
)
