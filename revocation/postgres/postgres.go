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

// Package postgres implements revocation.Store backed by the
// revoked_proofs table via pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proof-messenger/relay/revocation"
)

// Store is a pgxpool-backed revocation.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool. Schema creation is the
// caller's concern (see cmd/proof-relay's migrate subcommand).
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS revoked_proofs (
	proof_signature TEXT PRIMARY KEY,
	revoked_at      TIMESTAMPTZ NOT NULL,
	reason          TEXT,
	revoked_by      TEXT,
	expires_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_revoked_proofs_expires_at ON revoked_proofs (expires_at);
`

// Migrate creates the revoked_proofs table and its index if absent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("postgres: failed to migrate revoked_proofs: %w", err)
	}
	return nil
}

func (s *Store) Revoke(ctx context.Context, signatureHex, reason, revokedBy string, ttl time.Duration) (revocation.Entry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return revocation.Entry{}, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	var expiresAt *time.Time
	if ttl > 0 {
		e := now.Add(ttl)
		expiresAt = &e
	}

	var existingRevokedAt time.Time
	var existingExpiresAt *time.Time
	err = tx.QueryRow(ctx,
		`SELECT revoked_at, expires_at FROM revoked_proofs WHERE proof_signature = $1`,
		signatureHex,
	).Scan(&existingRevokedAt, &existingExpiresAt)

	revokedAt := now
	if err == nil {
		existing := revocation.Entry{RevokedAt: existingRevokedAt}
		if existingExpiresAt != nil {
			existing.ExpiresAt = *existingExpiresAt
		}
		if existing.Active(now) {
			revokedAt = existingRevokedAt
		}
	} else if err != pgx.ErrNoRows {
		return revocation.Entry{}, fmt.Errorf("postgres: failed to check existing revocation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO revoked_proofs (proof_signature, revoked_at, reason, revoked_by, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (proof_signature) DO UPDATE
		SET revoked_at = $2, reason = $3, revoked_by = $4, expires_at = $5
	`, signatureHex, revokedAt, reason, revokedBy, expiresAt)
	if err != nil {
		return revocation.Entry{}, fmt.Errorf("postgres: failed to upsert revocation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return revocation.Entry{}, fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}

	entry := revocation.Entry{
		SignatureHex: signatureHex,
		RevokedAt:    revokedAt,
		Reason:       reason,
		RevokedBy:    revokedBy,
	}
	if expiresAt != nil {
		entry.ExpiresAt = *expiresAt
	}
	return entry, nil
}

func (s *Store) IsRevoked(ctx context.Context, signatureHex string) (bool, error) {
	var revoked bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM revoked_proofs
			WHERE proof_signature = $1 AND (expires_at IS NULL OR expires_at > NOW())
		)
	`, signatureHex).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to check revocation: %w", err)
	}
	return revoked, nil
}

func (s *Store) ListActive(ctx context.Context) ([]revocation.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT proof_signature, revoked_at, reason, revoked_by, expires_at
		FROM revoked_proofs
		WHERE expires_at IS NULL OR expires_at > NOW()
		ORDER BY revoked_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list active revocations: %w", err)
	}
	defer rows.Close()

	var entries []revocation.Entry
	for rows.Next() {
		var e revocation.Entry
		var reason, revokedBy *string
		var expiresAt *time.Time
		if err := rows.Scan(&e.SignatureHex, &e.RevokedAt, &reason, &revokedBy, &expiresAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan revocation row: %w", err)
		}
		if reason != nil {
			e.Reason = *reason
		}
		if revokedBy != nil {
			e.RevokedBy = *revokedBy
		}
		if expiresAt != nil {
			e.ExpiresAt = *expiresAt
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM revoked_proofs WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to delete expired revocations: %w", err)
	}
	return result.RowsAffected(), nil
}
