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

// Package sysgovd runs the system contract ledger behind its REST API.
package sysgovd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/daemon/sysgovd/api"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/ledger/store"
	"github.com/sysgov/go-sysgov/logging"
	"github.com/sysgov/go-sysgov/util/metrics"
)

// maxHeaderBytes must have enough room to hold an api token
const maxHeaderBytes = 4096

const shutdownTimeout = 10 * time.Second

// Server owns the ledger, its storage and the REST API.
type Server struct {
	RootPath string
	Genesis  bookkeeping.Genesis
	Params   config.SystemParams

	cfg       config.Local
	log       logging.Logger
	logWriter io.Closer
	store     *store.Store
	journal   *journal.Recorder
	ledger    *ledger.Ledger
	registry  *metrics.Registry

	listener net.Listener
	server   *http.Server
	pidFile  string
	netFile  string
}

// Initialize sets up logging and opens the ledger.
func (s *Server) Initialize(cfg config.Local) error {
	s.cfg = cfg
	s.log = logging.Base()

	if cfg.LogSizeLimit > 0 {
		liveLog, archive := cfg.ResolveLogPaths(s.RootPath)
		writer, err := logging.MakeCyclicFileWriter(liveLog, archive, cfg.LogSizeLimit)
		if err != nil {
			return err
		}
		fmt.Println("Logging to: ", liveLog)
		s.log.SetOutput(writer)
		s.logWriter = writer
	} else {
		s.log.SetOutput(os.Stdout)
	}
	if cfg.LogJSON {
		s.log.SetJSONFormatter()
	}
	s.log.SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))
	setupDeadlockLogger(s.log, cfg)

	if s.Params == (config.SystemParams{}) {
		s.Params = config.DefaultSystemParams
	}

	var err error
	s.store, err = store.Open(cfg.StoreBackend, filepath.Join(s.RootPath, s.Genesis.Network), cfg.StoreInMemory)
	if err != nil {
		return fmt.Errorf("couldn't open %s store: %w", cfg.StoreBackend, err)
	}

	var opts []ledger.Option
	if cfg.EnableJournal {
		dsn := cfg.JournalDSN
		if dsn == "" {
			dsn = filepath.Join(s.RootPath, "journal.sqlite")
		}
		s.journal, err = journal.Open(cfg.JournalDriver, dsn, s.log)
		if err != nil {
			s.closeStorage()
			return fmt.Errorf("couldn't open journal: %w", err)
		}
		opts = append(opts, ledger.WithJournal(s.journal))
	}
	if cfg.EnableMetrics {
		s.registry = metrics.MakeRegistry()
		opts = append(opts, ledger.WithMetrics(s.registry))
	}

	s.ledger, err = ledger.Open(s.store, s.Genesis, s.Params, s.log.With("component", "ledger"), opts...)
	if err != nil {
		s.closeStorage()
		return fmt.Errorf("couldn't initialize the ledger: %w", err)
	}

	hdr := s.ledger.LastBlock()
	s.log.Infof("ledger %s opened at round %d", s.Genesis.Network, hdr.Round)
	logging.RegisterExitHandler(s.Stop)
	return nil
}

// Ledger returns the ledger opened by Initialize.
func (s *Server) Ledger() *ledger.Ledger {
	return s.ledger
}

// Listen binds the API endpoint and returns its address.
func (s *Server) Listen() (net.Addr, error) {
	addr := s.cfg.EndpointAddress
	if addr == "" {
		addr = ":http"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.listener = listener

	apiCfg := api.Config{
		Log:           s.log.With("component", "api"),
		AdminAPIToken: s.cfg.AdminAPIToken,
		Registry:      s.registry,
	}
	if s.journal != nil {
		apiCfg.Journal = s.journal
	}
	s.server = &http.Server{
		Addr:           listener.Addr().String(),
		Handler:        api.NewRouter(s.ledger, apiCfg),
		ReadTimeout:    time.Duration(s.cfg.RestReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(s.cfg.RestWriteTimeoutSeconds) * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
	}

	if s.RootPath != "" && !s.cfg.StoreInMemory {
		s.pidFile = filepath.Join(s.RootPath, "sysgovd.pid")
		s.netFile = filepath.Join(s.RootPath, "sysgovd.net")
		if err := os.WriteFile(s.pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
			return nil, fmt.Errorf("pidfile error: %w", err)
		}
		if err := os.WriteFile(s.netFile, []byte(fmt.Sprintf("%s\n", s.server.Addr)), 0644); err != nil {
			return nil, fmt.Errorf("netfile error: %w", err)
		}
	}
	return listener.Addr(), nil
}

// Serve runs the API until ctx is done or the server fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("sysgovd: serve called before listen")
	}
	s.log.Infof("accepting API requests on %s", s.server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.server.Serve(s.listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Start listens and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Stop closes the ledger and its storage. It is safe to call more than once.
func (s *Server) Stop() {
	if s.ledger != nil {
		s.ledger.Close()
		s.ledger = nil
	}
	s.closeStorage()
	if s.pidFile != "" {
		os.Remove(s.pidFile)
		os.Remove(s.netFile)
		s.pidFile, s.netFile = "", ""
	}
	if s.logWriter != nil {
		s.log.SetOutput(os.Stdout)
		s.logWriter.Close()
		s.logWriter = nil
	}
}

func (s *Server) closeStorage() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.log.Warnf("closing journal: %v", err)
		}
		s.journal = nil
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warnf("closing store: %v", err)
		}
		s.store = nil
	}
}
