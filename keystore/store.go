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

// Package keystore implements a client-side container that owns
// exactly one proof.Keypair and exposes only its derived public key
// and a sign operation. Private material never crosses the package
// boundary except through the explicit Export opt-in, and never
// appears in any serialized form of the store.
package keystore

import (
	"sync"

	"github.com/proof-messenger/relay/proof"
)

// Store owns a single proof.Keypair through an explicit state machine.
// All exported methods are safe for concurrent use; concurrent Generate
// calls serialize through mu and publish one consistent Ready terminal.
type Store struct {
	mu    sync.Mutex
	state State
	kp    *proof.Keypair
	err   error
}

// New returns a Store in the Uninitialized state.
func New() *Store {
	return &Store{state: Uninitialized}
}

// State returns the store's current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generate draws a fresh keypair and transitions the store to Ready. If
// the store already holds a keypair, it returns ErrAlreadyReady without
// disturbing the existing one — callers must Reset first. On RNG
// failure the store transitions to Error and holds no keypair.
func (s *Store) Generate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Ready {
		return ErrAlreadyReady
	}

	s.state = Generating
	kp, err := proof.GenerateKeypair()
	if err != nil {
		s.state = Error
		s.err = err
		return ErrGenerationFailed
	}
	s.kp = kp
	s.state = Ready
	s.err = nil
	return nil
}

// PublicKey returns the 32-byte public key iff the store is Ready.
func (s *Store) PublicKey() ([32]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return [32]byte{}, ErrNotReady
	}
	return s.kp.PublicKey(), nil
}

// Sign delegates to the proof primitive using the store's keypair. Fails
// with ErrNotReady if no keypair is present.
func (s *Store) Sign(context []byte, strict bool) (proof.Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return proof.Signature{}, ErrNotReady
	}
	return proof.Sign(s.kp, context, strict)
}

// Reset drops the keypair, zeroizing its private bytes, and returns the
// store to Uninitialized.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kp != nil {
		s.kp.Zeroize()
	}
	s.kp = nil
	s.err = nil
	s.state = Uninitialized
}

// LastError returns the error that put the store into the Error state,
// if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Export returns the keypair's canonical 64-byte serialization. This is
// the store's one explicit opt-in for private material to leave the
// package; it exists for the persistent-mode vault writer and for
// operator-initiated backup, never for routine signing paths.
func (s *Store) Export() ([64]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return [64]byte{}, ErrNotReady
	}
	return s.kp.Bytes(), nil
}

// Import loads a previously exported 64-byte keypair directly into a
// Ready state, bypassing Generate. Used by the vault's Load path.
func (s *Store) Import(raw []byte) error {
	kp, err := proof.KeypairFromBytes(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kp != nil {
		s.kp.Zeroize()
	}
	s.kp = kp
	s.state = Ready
	s.err = nil
	return nil
}
