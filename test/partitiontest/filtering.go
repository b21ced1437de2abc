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

// Package partitiontest splits the test suite across CI workers. Every test
// calls PartitionTest first; when PARTITION_TOTAL and PARTITION_ID are set only
// the tests hashed into this worker's partition run.
package partitiontest

import (
	"hash/fnv"
	"os"
	"runtime"
	"strconv"
	"testing"
)

// PartitionTest checks if the current partition should run this test, and skips it if not.
func PartitionTest(t testing.TB) {
	partitions, partitionID, ok := partitionFromEnv()
	if !ok {
		return
	}
	_, file, _, _ := runtime.Caller(1) // get filename of caller to PartitionTest
	idx := stringToUint64(file+":"+t.Name()) % uint64(partitions)
	if idx != uint64(partitionID) {
		t.Skipf("skipping due to partitioning, assigned to partition %d", idx)
	}
}

func partitionFromEnv() (total int, id int, ok bool) {
	pt, found := os.LookupEnv("PARTITION_TOTAL")
	if !found {
		return 0, 0, false
	}
	total, err := strconv.Atoi(pt)
	if err != nil || total <= 0 {
		return 0, 0, false
	}
	id, err = strconv.Atoi(os.Getenv("PARTITION_ID"))
	if err != nil {
		return 0, 0, false
	}
	return total, id, true
}

func stringToUint64(str string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(str))
	return h.Sum64()
}
