// Copyright (C) 2025 proof-messenger
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/proof-messenger/relay/config"
	revocationpg "github.com/proof-messenger/relay/revocation/postgres"
)

var sweepConfigDir string

// sweepCmd runs a single CleanupExpired pass and exits, for operators
// who prefer a cron-triggered sweep over the long-running sweeper
// embedded in `serve`.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single revocation-store expiry sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load(config.LoaderOptions{ConfigDir: sweepConfigDir, EnvFile: ".env"})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if cfg.Database.ConnString == "" {
			return fmt.Errorf("sweep requires database.conn_string (or DATABASE_URL): an in-memory revocation store does not outlive this process")
		}

		pool, err := pgxpool.New(ctx, cfg.Database.ConnString)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()

		removed, err := revocationpg.New(pool).CleanupExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d expired entries\n", removed)
		return nil
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigDir, "config-dir", "config", "directory containing environment config files")
	rootCmd.AddCommand(sweepCmd)
}
