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

// Package revocation implements a TTL-bounded deny-list of signatures,
// keyed by the hex-encoded signature, with atomic revoke/check and a
// periodic expiry sweep.
package revocation

import (
	"context"
	"time"
)

// Entry is a single revocation record.
type Entry struct {
	SignatureHex string
	RevokedAt    time.Time
	Reason       string
	RevokedBy    string
	// ExpiresAt is the zero time when the revocation is permanent.
	ExpiresAt time.Time
}

// Active reports whether the entry is active at instant now: an entry
// with a zero ExpiresAt never expires.
func (e Entry) Active(now time.Time) bool {
	return e.ExpiresAt.IsZero() || e.ExpiresAt.After(now)
}

// Store is the Revocation Store contract. Implementations must make
// Revoke idempotent per signature — a second Revoke call while an
// active entry exists updates Reason, RevokedBy and ExpiresAt (refresh
// semantics) rather than creating a duplicate — and IsRevoked must
// answer without a full table scan.
type Store interface {
	// Revoke inserts or refreshes the active entry for signatureHex.
	// ttl of zero means permanent (no expiry).
	Revoke(ctx context.Context, signatureHex, reason, revokedBy string, ttl time.Duration) (Entry, error)

	// IsRevoked reports whether an active entry exists for signatureHex.
	IsRevoked(ctx context.Context, signatureHex string) (bool, error)

	// ListActive returns all entries active as of now, ordered by
	// RevokedAt descending.
	ListActive(ctx context.Context) ([]Entry, error)

	// CleanupExpired deletes entries whose ExpiresAt is in the past
	// and returns the count removed. Safe to run concurrently with
	// reads.
	CleanupExpired(ctx context.Context) (int64, error)
}
