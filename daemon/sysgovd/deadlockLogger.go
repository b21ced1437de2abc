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

package sysgovd

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/logging"
)

// deadlockLogger collects go-deadlock reports and forwards them to the log
// once, together with every goroutine stack.
type deadlockLogger struct {
	logging.Logger
	*bytes.Buffer
	bufferSync     chan struct{}
	abort          func()
	reportDeadlock sync.Once
}

// Write implements io.Writer for deadlock.Opts.LogBuf.
func (logger *deadlockLogger) Write(p []byte) (n int, err error) {
	logger.bufferSync <- struct{}{}
	n, err = logger.Buffer.Write(p)
	<-logger.bufferSync
	return
}

func captureCallstack() []byte {
	bufferSize := 256 * 1024
	for {
		buf := make([]byte, bufferSize)
		if n := runtime.Stack(buf, true); n < bufferSize {
			return buf[:n]
		}
		bufferSize *= 2
	}
}

func (logger *deadlockLogger) onPotentialDeadlock() {
	logger.reportDeadlock.Do(func() {
		stacks := captureCallstack()

		logger.bufferSync <- struct{}{}
		report := logger.String()
		<-logger.bufferSync

		fmt.Fprintln(os.Stderr, string(stacks))

		// the log writer takes locks of its own
		go func() {
			logger.Error(report)
			logger.abort()
		}()
	})
}

// setupDeadlockLogger configures the lock checker used by the ledger.
func setupDeadlockLogger(log logging.Logger, cfg config.Local) *deadlockLogger {
	logger := &deadlockLogger{
		Logger:     log.With("component", "deadlock"),
		Buffer:     bytes.NewBuffer(make([]byte, 0)),
		bufferSync: make(chan struct{}, 1),
	}
	logger.abort = func() { panic("potential deadlock detected") }

	switch {
	case cfg.DeadlockDetection > 0:
		deadlock.Opts.Disable = false
	case cfg.DeadlockDetection < 0:
		deadlock.Opts.Disable = true
	}
	if !deadlock.Opts.Disable && cfg.DeadlockDetectionThreshold > 0 {
		deadlock.Opts.DeadlockTimeout = time.Second * time.Duration(cfg.DeadlockDetectionThreshold)
	}
	deadlock.Opts.LogBuf = logger
	deadlock.Opts.OnPotentialDeadlock = logger.onPotentialDeadlock
	return logger
}
