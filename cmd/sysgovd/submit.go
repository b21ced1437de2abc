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
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/config"
	"github.com/sysgov/go-sysgov/daemon/sysgovd/api/client"
)

var (
	submitEndpoint string
	submitToken    string
)

func init() {
	submitCmd.Flags().StringVar(&submitEndpoint, "endpoint", "", "Daemon URL (defaults to the address in sysgovd.net, then the configured EndpointAddress)")
	submitCmd.Flags().StringVar(&submitToken, "token", "", "Admin API token (defaults to the configured AdminAPIToken)")
}

var submitCmd = &cobra.Command{
	Use:   "submit <blocks.json>",
	Short: "Submit a JSON array of blocks to a running daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		blocks, err := readBlocks(args[0])
		if err != nil {
			return err
		}
		c, err := daemonClient(dir)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		for _, blk := range blocks {
			resp, err := c.SubmitBlock(ctx, blk)
			if err != nil {
				return fmt.Errorf("round %d: %w", blk.Round, err)
			}
			printReceipts(cmd.OutOrStdout(), blk, resp.Receipts, applyQuiet)
		}
		return nil
	},
}

// daemonClient builds a REST client for the daemon serving dir.
func daemonClient(dir string) (client.RestClient, error) {
	cfg, err := config.LoadConfigFromDisk(dir)
	if err != nil && !os.IsNotExist(err) {
		return client.RestClient{}, fmt.Errorf(errorLoadingConfig, err)
	}

	endpoint := submitEndpoint
	if endpoint == "" {
		if data, err := os.ReadFile(filepath.Join(dir, "sysgovd.net")); err == nil {
			endpoint = strings.TrimSpace(string(data))
		} else {
			endpoint = cfg.EndpointAddress
		}
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return client.RestClient{}, fmt.Errorf(errorBadEndpoint, endpoint, err)
	}

	token := submitToken
	if token == "" {
		token = cfg.AdminAPIToken
	}
	return client.MakeRestClient(*u, token), nil
}
