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
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/proof-messenger/relay/config"
	"github.com/proof-messenger/relay/internal/logger"
	"github.com/proof-messenger/relay/internal/metrics"
	"github.com/proof-messenger/relay/pkg/health"
	"github.com/proof-messenger/relay/relay"
	"github.com/proof-messenger/relay/revocation"
	revocationmem "github.com/proof-messenger/relay/revocation/memory"
	revocationpg "github.com/proof-messenger/relay/revocation/postgres"
	"github.com/proof-messenger/relay/store"
	storemem "github.com/proof-messenger/relay/store/memory"
	storepg "github.com/proof-messenger/relay/store/postgres"
	transporthttp "github.com/proof-messenger/relay/transport/http"
	transportws "github.com/proof-messenger/relay/transport/websocket"
)

var serveConfigDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay HTTP (and optional WebSocket) server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigDir, "config-dir", "config", "directory containing environment config files")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(config.LoaderOptions{ConfigDir: serveConfigDir, EnvFile: ".env"})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewDefaultLogger()

	pool, revStore, msgStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}
	defer msgStore.Close()

	deps := relay.Deps{
		Revocation: revStore,
		Store:      msgStore,
		Config: relay.Config{
			StrictContextMode: cfg.Relay.StrictContextMode,
			MaxContextBytes:   cfg.Relay.MaxContextBytes,
		},
		Logger: log,
	}

	var auth *transporthttp.Authenticator
	if encoded := os.Getenv(cfg.Server.JWTPublicKeyEnv); encoded != "" {
		pub, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", cfg.Server.JWTPublicKeyEnv, err)
		}
		if len(pub) != ed25519.PublicKeySize {
			return fmt.Errorf("%s must hold a %d-byte Ed25519 public key, got %d", cfg.Server.JWTPublicKeyEnv, ed25519.PublicKeySize, len(pub))
		}
		auth = transporthttp.NewAuthenticator(ed25519.PublicKey(pub))
	} else {
		log.Warn(fmt.Sprintf("%s not set, revocation write endpoints are unauthenticated", cfg.Server.JWTPublicKeyEnv))
	}

	httpSrv := &transporthttp.Server{Deps: deps, Auth: auth, Logger: log}

	mux := httpSrv.Mux()
	if cfg.Server.StreamEnabled {
		wsSrv := transportws.NewServer(deps, log)
		mux.Handle("/relay/stream", wsSrv.Handler())
		defer wsSrv.Close()
	}

	checker := health.NewChecker(revStore, msgStore)
	healthPort := 9091
	if cfg.Health.Enabled {
		_, _ = fmt.Sscanf(cfg.Health.Addr, ":%d", &healthPort)
	}
	healthSrv := health.NewServer(checker, log, healthPort)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Addr); err != nil {
				log.Error("metrics server error: " + err.Error())
			}
		}()
	}
	if cfg.Health.Enabled {
		if err := healthSrv.Start(); err != nil {
			return fmt.Errorf("starting health server: %w", err)
		}
	}

	sweeper := revocation.NewSweeper(revStore, time.Duration(cfg.Revocation.SweepIntervalMins)*time.Minute, func(removed int64, sweepErr error) {
		if sweepErr != nil {
			log.Error("revocation sweep failed: " + sweepErr.Error())
			return
		}
		if removed > 0 {
			log.Info(fmt.Sprintf("revocation sweep removed %d expired entries", removed))
		}
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	sweeper.RunInGroup(gctx, g)

	httpSrv.BaseMux = mux
	g.Go(func() error {
		return httpSrv.ListenAndServe(gctx, cfg.Server.BindAddress)
	})
	g.Go(func() error {
		<-gctx.Done()
		if !cfg.Health.Enabled {
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return healthSrv.Stop(shutdownCtx)
	})

	log.Info(fmt.Sprintf("proof-relay listening on %s", cfg.Server.BindAddress))
	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, revocation.Store, store.MessageStore, error) {
	if cfg.Database.ConnString == "" {
		return nil, revocationmem.New(), storemem.New(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.ConnString)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return pool, revocationpg.New(pool), storepg.New(pool), nil
}
