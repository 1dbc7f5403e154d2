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

package keystore

import "github.com/proof-messenger/relay/keystore/vault"

// PersistentVault is the minimal surface Store needs from a vault
// implementation, satisfied by *vault.FileVault.
type PersistentVault interface {
	Store(storageKey string, plaintext []byte, passphrase string) error
	Load(storageKey string, passphrase string) ([]byte, error)
}

// Save transitions through Saving and encrypts the current keypair into
// v under storageKey/passphrase. The passphrase is used only for the
// duration of this call and is never retained in store state.
func (s *Store) Save(v PersistentVault, storageKey, passphrase string) error {
	raw, err := s.Export()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Saving
	s.mu.Unlock()

	err = v.Store(storageKey, raw[:], passphrase)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Error
		s.err = err
		return err
	}
	s.state = Ready
	return nil
}

// Load transitions through Loading and decrypts a previously Saved
// keypair from v into Ready state.
func (s *Store) Load(v PersistentVault, storageKey, passphrase string) error {
	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	raw, err := v.Load(storageKey, passphrase)
	if err != nil {
		s.mu.Lock()
		s.state = Error
		s.err = err
		s.mu.Unlock()
		return err
	}

	if importErr := s.Import(raw); importErr != nil {
		s.mu.Lock()
		s.state = Error
		s.err = importErr
		s.mu.Unlock()
		return importErr
	}
	return nil
}

var _ PersistentVault = (*vault.FileVault)(nil)
