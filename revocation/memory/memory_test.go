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

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRevokeIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Revoke(ctx, "sig1", "fraud", "admin", 0)
	require.NoError(t, err)
	revoked, err := s.IsRevoked(ctx, "sig1")
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = s.Revoke(ctx, "sig1", "fraud-confirmed", "admin", 0)
	require.NoError(t, err)
	revoked, err = s.IsRevoked(ctx, "sig1")
	require.NoError(t, err)
	require.True(t, revoked)

	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "fraud-confirmed", active[0].Reason)
}

func TestTTLMonotonicity(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Revoke(ctx, "sig-ttl", "", "", 20*time.Millisecond)
	require.NoError(t, err)

	revoked, err := s.IsRevoked(ctx, "sig-ttl")
	require.NoError(t, err)
	require.True(t, revoked)

	time.Sleep(40 * time.Millisecond)

	revoked, err = s.IsRevoked(ctx, "sig-ttl")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestCleanupExpiredRemovesOnlyExpired(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Revoke(ctx, "permanent", "", "", 0)
	require.NoError(t, err)
	_, err = s.Revoke(ctx, "expiring", "", "", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	removed, err := s.CleanupExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	revoked, _ := s.IsRevoked(ctx, "permanent")
	require.True(t, revoked)
}

func TestIsRevokedUnknownSignature(t *testing.T) {
	s := New()
	revoked, err := s.IsRevoked(context.Background(), "never-seen")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestListActiveOrderedByRevokedAtDescending(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Revoke(ctx, "first", "", "", 0)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.Revoke(ctx, "second", "", "", 0)
	require.NoError(t, err)

	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "second", active[0].SignatureHex)
	require.Equal(t, "first", active[1].SignatureHex)
}
