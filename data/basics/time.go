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

package basics

import "time"

// TimePoint is a chain time in microseconds since the unix epoch.
type TimePoint int64

// Microseconds per common interval.
const (
	MicrosecondsPerSecond TimePoint = 1_000_000
	MicrosecondsPerDay    TimePoint = 24 * 3600 * MicrosecondsPerSecond
)

// TimePointFromTime converts a wall clock time.
func TimePointFromTime(t time.Time) TimePoint {
	return TimePoint(t.UnixMicro())
}

// Time returns the wall clock time for tp, in UTC.
func (tp TimePoint) Time() time.Time {
	return time.UnixMicro(int64(tp)).UTC()
}

func (tp TimePoint) String() string {
	return tp.Time().Format(time.RFC3339Nano)
}

// BlockTimestamp counts half-second slots since 2000-01-01T00:00:00Z.
type BlockTimestamp uint32

// BlockIntervalMs is the length of one slot.
const BlockIntervalMs = 500

// BlockTimestampEpochMs is the unix time of slot zero, in milliseconds.
const BlockTimestampEpochMs = 946684800000

// SlotsPerDay is the number of block slots in a day.
const SlotsPerDay = 2 * 24 * 3600

// BlockTimestampFromTimePoint rounds tp down to its slot.
func BlockTimestampFromTimePoint(tp TimePoint) BlockTimestamp {
	ms := int64(tp)/1000 - BlockTimestampEpochMs
	if ms < 0 {
		return 0
	}
	return BlockTimestamp(ms / BlockIntervalMs)
}

// TimePoint returns the start of the slot.
func (bt BlockTimestamp) TimePoint() TimePoint {
	return TimePoint((int64(bt)*BlockIntervalMs + BlockTimestampEpochMs) * 1000)
}

// Next returns the following slot.
func (bt BlockTimestamp) Next() BlockTimestamp {
	return bt + 1
}

func (bt BlockTimestamp) String() string {
	return bt.TimePoint().String()
}
