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

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/ledger/store"
	"github.com/sysgov/go-sysgov/logging"
)

var log = logging.Base()

var dataDir string

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(submitCmd)

	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "Data directory for the node (defaults to $SYSGOV_DATA)")
}

var rootCmd = &cobra.Command{
	Use:   "sysgovd",
	Short: "System contract ledger daemon",
	Long:  `sysgovd keeps the producer election, resource and name auction state of a chain, applies blocks to it and serves it over a REST API.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveDataDir returns the -d flag or $SYSGOV_DATA, made absolute.
func resolveDataDir() (string, error) {
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("SYSGOV_DATA")
	}
	if dir == "" {
		return "", errors.New(errorNoDataDirectory)
	}
	return filepath.Abs(dir)
}

// loadNode reads the configuration and genesis of dir.
func loadNode(dir string) (config.Local, bookkeeping.Genesis, error) {
	cfg, err := config.LoadConfigFromDisk(dir)
	if err != nil && !os.IsNotExist(err) {
		return cfg, bookkeeping.Genesis{}, fmt.Errorf(errorLoadingConfig, err)
	}
	genesis, err := bookkeeping.LoadGenesisFromFile(filepath.Join(dir, config.GenesisJSONFile))
	if err != nil {
		return cfg, genesis, fmt.Errorf(errorLoadingGenesis, err)
	}
	return cfg, genesis, nil
}

// offlineLedger is a ledger opened outside the daemon.
type offlineLedger struct {
	*ledger.Ledger
	store   *store.Store
	journal *journal.Recorder
}

func (l *offlineLedger) Close() {
	l.Ledger.Close()
	if l.journal != nil {
		l.journal.Close()
	}
	l.store.Close()
}

func openOfflineLedger(dir string, inMemory, withJournal bool) (*offlineLedger, error) {
	cfg, genesis, err := loadNode(dir)
	if err != nil {
		return nil, err
	}
	log.SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))

	st, err := store.Open(cfg.StoreBackend, filepath.Join(dir, genesis.Network), inMemory)
	if err != nil {
		return nil, err
	}
	ol := &offlineLedger{store: st}

	var opts []ledger.Option
	if withJournal && cfg.EnableJournal && !inMemory {
		dsn := cfg.JournalDSN
		if dsn == "" {
			dsn = filepath.Join(dir, "journal.sqlite")
		}
		ol.journal, err = journal.Open(cfg.JournalDriver, dsn, log)
		if err != nil {
			st.Close()
			return nil, err
		}
		opts = append(opts, ledger.WithJournal(ol.journal))
	}

	ol.Ledger, err = ledger.Open(st, genesis, config.DefaultSystemParams, log.With("component", "ledger"), opts...)
	if err != nil {
		if ol.journal != nil {
			ol.journal.Close()
		}
		st.Close()
		return nil, err
	}
	return ol, nil
}
