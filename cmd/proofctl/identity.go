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
	"fmt"
	"os"

	"github.com/proof-messenger/relay/keystore"
	"github.com/proof-messenger/relay/keystore/vault"
)

const identityStorageKey = "proofctl-identity"

// loadOrCreateIdentity opens the local Secure Key Store, generating and
// persisting a fresh keypair on first use. The passphrase comes from
// the environment variable named by --passphrase-env so it is never
// passed on the command line.
func loadOrCreateIdentity() (*keystore.Store, error) {
	passphrase := os.Getenv(passphraseEnv)
	if passphrase == "" {
		return nil, usageError("%s is not set; export a keystore passphrase before running this command", passphraseEnv)
	}

	fv, err := vault.NewFileVault(keystoreDir)
	if err != nil {
		return nil, ioError("opening keystore directory %q: %w", keystoreDir, err)
	}

	store := keystore.New()

	if fv.Exists(identityStorageKey) {
		if err := store.Load(fv, identityStorageKey, passphrase); err != nil {
			return nil, ioError("loading local identity: %w", err)
		}
		return store, nil
	}

	if err := store.Generate(); err != nil {
		return nil, ioError("generating local identity: %w", err)
	}
	if err := store.Save(fv, identityStorageKey, passphrase); err != nil {
		return nil, ioError("saving local identity: %w", err)
	}
	return store, nil
}

func publicKeyHex(store *keystore.Store) (string, error) {
	pub, err := store.PublicKey()
	if err != nil {
		return "", fmt.Errorf("reading public key: %w", err)
	}
	return fmt.Sprintf("%x", pub[:]), nil
}
