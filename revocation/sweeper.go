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

package revocation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultSweepInterval is the default period between expiry sweeps.
const DefaultSweepInterval = time.Hour

// Sweeper periodically calls Store.CleanupExpired on a fixed interval
// until its context is cancelled. Whether a sweep blocks foreground
// reads depends on the backend: the memory backend's CleanupExpired
// holds the write lock that IsRevoked also needs for the length of one
// pass over its map, so IsRevoked calls wait for the sweep to finish.
type Sweeper struct {
	store    Store
	interval time.Duration
	onSweep  func(removed int64, err error)
}

// NewSweeper builds a Sweeper over store. interval <= 0 falls back to
// DefaultSweepInterval. onSweep, if non-nil, is called after each sweep
// with the removed count or an error — intended for metrics/logging
// hooks, never for control flow.
func NewSweeper(store Store, interval time.Duration, onSweep func(removed int64, err error)) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: store, interval: interval, onSweep: onSweep}
}

// Run blocks, sweeping on each tick, until ctx is cancelled. It is
// intended to be the sole goroutine launched from an errgroup.Group so
// the caller can wait on it alongside the transport's own serving
// goroutine and propagate the first error (or nil, since a cancelled
// sweeper is not itself a failure).
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.store.CleanupExpired(ctx)
			if s.onSweep != nil {
				s.onSweep(removed, err)
			}
		}
	}
}

// RunInGroup registers the sweeper's Run loop in g, bound to ctx.
// Convenience for callers wiring multiple background loops (sweep,
// HTTP serve) into one errgroup.Group.
func (s *Sweeper) RunInGroup(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		return s.Run(ctx)
	})
}
