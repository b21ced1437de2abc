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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sysgov/go-sysgov/daemon/sysgovd"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon and serve the REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		cfg, genesis, err := loadNode(dir)
		if err != nil {
			return err
		}

		s := &sysgovd.Server{RootPath: dir, Genesis: genesis}
		if err := s.Initialize(cfg); err != nil {
			return err
		}
		defer s.Stop()

		addr, err := s.Listen()
		if err != nil {
			return err
		}

		signal.Ignore(syscall.SIGHUP)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf(infoNodeRunning+"\n", addr)
		err = s.Serve(ctx)
		if ctx.Err() != nil {
			fmt.Println(infoExiting)
		}
		return err
	},
}
