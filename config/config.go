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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/sysgov/go-sysgov/protocol"
)

// ConfigFilename is the name of the node configuration file inside the data directory.
const ConfigFilename = "config.json"

// GenesisJSONFile is the name of the genesis file inside the data directory.
const GenesisJSONFile = "genesis.json"

// EnvPrefix prefixes environment variables that override configuration
// keys, e.g. SYSGOV_STOREBACKEND=badger.
const EnvPrefix = "SYSGOV"

// Local holds the per-node-instance configuration settings.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new.
	Version uint32

	// StoreBackend selects the key-value engine holding contract state:
	// "pebble", "badger" or "goleveldb".
	StoreBackend string

	// StoreInMemory keeps all state in memory. Nothing survives a restart.
	StoreInMemory bool

	// EndpointAddress is the address the REST API listens on.
	EndpointAddress string

	// AdminAPIToken, when set, must be presented as a bearer token to submit blocks.
	AdminAPIToken string

	// EnableMetrics exposes prometheus metrics on /metrics.
	EnableMetrics bool

	// BaseLoggerDebugLevel ranges from 0 (panic) to 5 (debug). 4 is Info.
	BaseLoggerDebugLevel uint32

	// LogJSON switches the log output to JSON lines.
	LogJSON bool

	// LogSizeLimit is the size at which sysgovd.log is moved to
	// sysgovd.archive.log. Zero logs to stdout.
	LogSizeLimit uint64

	// RestReadTimeoutSeconds and RestWriteTimeoutSeconds bound each API request.
	RestReadTimeoutSeconds  int
	RestWriteTimeoutSeconds int

	// DeadlockDetection: 1 enables lock-order checking, -1 disables it, 0
	// leaves the library default.
	DeadlockDetection int

	// DeadlockDetectionThreshold is the lock wait in seconds reported as a
	// potential deadlock.
	DeadlockDetectionThreshold int

	// EnableJournal records every applied and rejected action in a SQL journal.
	EnableJournal bool

	// JournalDriver is "sqlite3" or "postgres".
	JournalDriver string

	// JournalDSN is the data source name. An empty DSN with the sqlite3
	// driver means journal.sqlite inside the data directory.
	JournalDSN string
}

var defaultLocal = Local{
	Version:                    1,
	StoreBackend:               "pebble",
	StoreInMemory:              false,
	EndpointAddress:            "127.0.0.1:8980",
	EnableMetrics:              true,
	BaseLoggerDebugLevel:       4,
	LogJSON:                    false,
	LogSizeLimit:               1073741824,
	RestReadTimeoutSeconds:     15,
	RestWriteTimeoutSeconds:    120,
	DeadlockDetection:          0,
	DeadlockDetectionThreshold: 30,
	EnableJournal:              true,
	JournalDriver:              "sqlite3",
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk returns a Local config structure based on merging the defaults
// with settings loaded from the config file in the given directory, and then with
// SYSGOV_* environment variables. If the file cannot be loaded, the default config
// overlaid with the environment is returned along with the error.
func LoadConfigFromDisk(dir string) (Local, error) {
	return loadConfigFromFile(filepath.Join(dir, ConfigFilename))
}

func loadConfigFromFile(configFile string) (c Local, err error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v, defaultLocal)

	readErr := v.ReadInConfig()
	c = defaultLocal
	if err = v.Unmarshal(&c); err != nil {
		return defaultLocal, err
	}
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(readErr, &notFound) || errors.Is(readErr, os.ErrNotExist) {
			return c, os.ErrNotExist
		}
		return c, readErr
	}
	return c, c.Validate()
}

// setDefaults registers every field so that environment variables are
// consulted for keys missing from the file.
func setDefaults(v *viper.Viper, l Local) {
	rv := reflect.ValueOf(l)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		v.SetDefault(rt.Field(i).Name, rv.Field(i).Interface())
	}
}

// ResolveLogPaths returns the live and archive log file paths inside rootDir.
func (cfg Local) ResolveLogPaths(rootDir string) (liveLog, archive string) {
	return filepath.Join(rootDir, "sysgovd.log"), filepath.Join(rootDir, "sysgovd.archive.log")
}

// Validate checks the enumerated settings.
func (cfg Local) Validate() error {
	switch cfg.StoreBackend {
	case "pebble", "badger", "goleveldb":
	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	switch cfg.JournalDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unknown journal driver %q", cfg.JournalDriver)
	}
	if cfg.JournalDriver == "postgres" && cfg.EnableJournal && cfg.JournalDSN == "" {
		return errors.New("postgres journal requires JournalDSN")
	}
	return nil
}

// SaveToDisk writes the Local settings into the config file in the given directory.
func (cfg Local) SaveToDisk(dir string) error {
	return cfg.SaveToFile(filepath.Join(dir, ConfigFilename))
}

// SaveToFile saves the config to a specific filename.
func (cfg Local) SaveToFile(filename string) error {
	return os.WriteFile(filename, protocol.EncodeJSON(cfg), 0600)
}
