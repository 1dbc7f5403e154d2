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

// Package postgres implements store.MessageStore backed by the
// messages table via pgx.
package postgres

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proof-messenger/relay/store"
)

// Store is a pgxpool-backed store.MessageStore.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         UUID PRIMARY KEY,
	group_id   TEXT NOT NULL,
	sender     TEXT NOT NULL,
	context    TEXT NOT NULL,
	body       TEXT NOT NULL,
	proof      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	verified   BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_group_created_at ON messages (group_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at);
`

// Migrate creates the messages table and its indexes if absent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate messages: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, msg store.Message) (store.Message, error) {
	if msg.GroupID == "" {
		msg.GroupID = store.DefaultGroupID
	}
	msg.ID = uuid.NewString()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, group_id, sender, context, body, proof, created_at, verified)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7)
	`,
		msg.ID, msg.GroupID,
		hex.EncodeToString(msg.Sender[:]),
		hex.EncodeToString(msg.Context),
		msg.Body,
		hex.EncodeToString(msg.Proof[:]),
		msg.Verified,
	)
	if err != nil {
		return store.Message{}, fmt.Errorf("postgres: failed to insert message: %w", err)
	}

	return s.Get(ctx, msg.ID)
}

func (s *Store) Get(ctx context.Context, id string) (store.Message, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, group_id, sender, context, body, proof, created_at, verified
		FROM messages WHERE id = $1
	`, id)
	return scanMessage(row)
}

func (s *Store) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]store.Message, error) {
	return s.query(ctx, `
		SELECT id, group_id, sender, context, body, proof, created_at, verified
		FROM messages WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, groupID, normalizeLimit(limit), offset)
}

func (s *Store) ListBySender(ctx context.Context, sender [32]byte, limit, offset int) ([]store.Message, error) {
	return s.query(ctx, `
		SELECT id, group_id, sender, context, body, proof, created_at, verified
		FROM messages WHERE sender = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, hex.EncodeToString(sender[:]), normalizeLimit(limit), offset)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]store.Message, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []store.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both pgx.Row (QueryRow) and pgx.Rows (Query).
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (store.Message, error) {
	var (
		msg                          store.Message
		senderHex, contextHex, proofHex string
	)
	err := row.Scan(&msg.ID, &msg.GroupID, &senderHex, &contextHex, &msg.Body, &proofHex, &msg.CreatedAt, &msg.Verified)
	if err == pgx.ErrNoRows {
		return store.Message{}, fmt.Errorf("postgres: message not found")
	}
	if err != nil {
		return store.Message{}, fmt.Errorf("postgres: failed to scan message: %w", err)
	}

	sender, err := hex.DecodeString(senderHex)
	if err != nil || len(sender) != 32 {
		return store.Message{}, fmt.Errorf("postgres: corrupt sender field")
	}
	copy(msg.Sender[:], sender)

	proof, err := hex.DecodeString(proofHex)
	if err != nil || len(proof) != 64 {
		return store.Message{}, fmt.Errorf("postgres: corrupt proof field")
	}
	copy(msg.Proof[:], proof)

	msg.Context, err = hex.DecodeString(contextHex)
	if err != nil {
		return store.Message{}, fmt.Errorf("postgres: corrupt context field")
	}

	return msg, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
