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

// Package memory implements store.MessageStore in process memory.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proof-messenger/relay/store"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("store/memory: message not found")

// Store is an in-memory, mutex-guarded store.MessageStore.
type Store struct {
	mu       sync.RWMutex
	messages map[string]store.Message
}

// New returns an empty in-memory message store.
func New() *Store {
	return &Store{messages: make(map[string]store.Message)}
}

func (s *Store) Append(ctx context.Context, msg store.Message) (store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.GroupID == "" {
		msg.GroupID = store.DefaultGroupID
	}
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	// Deep-copy variable-length fields so later caller mutation of the
	// input doesn't corrupt what's stored.
	msg.Context = append([]byte(nil), msg.Context...)
	s.messages[msg.ID] = msg
	return msg, nil
}

func (s *Store) Get(ctx context.Context, id string) (store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return store.Message{}, ErrNotFound
	}
	return msg, nil
}

func (s *Store) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]store.Message, error) {
	return s.list(offset, limit, func(m store.Message) bool { return m.GroupID == groupID })
}

func (s *Store) ListBySender(ctx context.Context, sender [32]byte, limit, offset int) ([]store.Message, error) {
	return s.list(offset, limit, func(m store.Message) bool { return m.Sender == sender })
}

func (s *Store) list(offset, limit int, match func(store.Message) bool) ([]store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []store.Message
	for _, m := range s.messages {
		if match(m) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }
