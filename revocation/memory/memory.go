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

// Package memory implements revocation.Store in process memory, for
// tests and single-instance deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/proof-messenger/relay/revocation"
)

// Store is an in-memory, mutex-guarded revocation.Store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]revocation.Entry
}

// New returns an empty in-memory revocation store.
func New() *Store {
	return &Store{entries: make(map[string]revocation.Entry)}
}

func (s *Store) Revoke(ctx context.Context, signatureHex, reason, revokedBy string, ttl time.Duration) (revocation.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	entry := revocation.Entry{
		SignatureHex: signatureHex,
		RevokedAt:    now,
		Reason:       reason,
		RevokedBy:    revokedBy,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	// Refresh semantics: preserve the original RevokedAt only if the
	// existing entry is still active; otherwise this is effectively a
	// fresh revocation.
	if existing, ok := s.entries[signatureHex]; ok && existing.Active(now) {
		entry.RevokedAt = existing.RevokedAt
	}

	s.entries[signatureHex] = entry
	return entry, nil
}

func (s *Store) IsRevoked(ctx context.Context, signatureHex string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[signatureHex]
	if !ok {
		return false, nil
	}
	return entry.Active(time.Now().UTC()), nil
}

func (s *Store) ListActive(ctx context.Context) ([]revocation.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	active := make([]revocation.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Active(now) {
			active = append(active, e)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].RevokedAt.After(active[j].RevokedAt)
	})
	return active, nil
}

func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var removed int64
	for sig, e := range s.entries {
		if !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now) {
			delete(s.entries, sig)
			removed++
		}
	}
	return removed, nil
}
