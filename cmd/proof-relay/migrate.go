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
	storepg "github.com/proof-messenger/relay/store/postgres"
)

var migrateConfigDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the postgres schema for the message and revocation stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load(config.LoaderOptions{ConfigDir: migrateConfigDir, EnvFile: ".env"})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Database.ConnString == "" {
			return fmt.Errorf("migrate requires database.conn_string (or DATABASE_URL) to be set")
		}

		pool, err := pgxpool.New(ctx, cfg.Database.ConnString)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()

		if err := storepg.Migrate(ctx, pool); err != nil {
			return err
		}
		if err := revocationpg.Migrate(ctx, pool); err != nil {
			return err
		}

		fmt.Println("migration complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateConfigDir, "config-dir", "config", "directory containing environment config files")
	rootCmd.AddCommand(migrateCmd)
}
