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

package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validPassphrase = "Sup3rSecretPass"

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte("64-byte-keypair-material-goes-here-01234567890123456789012345")
	sealed, err := Seal(plaintext, validPassphrase)
	require.NoError(t, err)

	recovered, err := Open(sealed, validPassphrase)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestOpenWrongPassphraseFailsDecryption(t *testing.T) {
	sealed, err := Seal([]byte("secret material"), validPassphrase)
	require.NoError(t, err)

	_, err = Open(sealed, "WrongPassphrase1")
	require.Error(t, err)
}

func TestOpenMalformedCiphertext(t *testing.T) {
	_, err := Open([]byte("not json at all"), validPassphrase)
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestValidatePassphrasePolicy(t *testing.T) {
	require.ErrorIs(t, ValidatePassphrase("short1A"), ErrWeakPassphrase)
	require.ErrorIs(t, ValidatePassphrase("alllowercase1"), ErrWeakPassphrase)
	require.ErrorIs(t, ValidatePassphrase("ALLUPPERCASE1"), ErrWeakPassphrase)
	require.ErrorIs(t, ValidatePassphrase("NoDigitsHere"), ErrWeakPassphrase)
	require.NoError(t, ValidatePassphrase("GoodPass1"))
}

func TestValidateStorageKeyPolicy(t *testing.T) {
	require.ErrorIs(t, ValidateStorageKey(""), ErrInvalidStorageKey)
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	require.ErrorIs(t, ValidateStorageKey(string(long)), ErrInvalidStorageKey)
	require.NoError(t, ValidateStorageKey("client-42"))
}

func TestFileVaultStoreLoadDelete(t *testing.T) {
	dir := t.TempDir()
	fv, err := NewFileVault(filepath.Join(dir, "keys"))
	require.NoError(t, err)

	plaintext := []byte("keypair bytes")
	require.NoError(t, fv.Store("alice", plaintext, validPassphrase))
	require.True(t, fv.Exists("alice"))

	loaded, err := fv.Load("alice", validPassphrase)
	require.NoError(t, err)
	require.Equal(t, plaintext, loaded)

	_, err = fv.Load("alice", "WrongPassphrase1")
	require.Error(t, err)

	require.NoError(t, fv.Delete("alice"))
	require.False(t, fv.Exists("alice"))
	require.ErrorIs(t, fv.Delete("alice"), ErrKeyNotFound)
}

func TestFileVaultLoadMissingKey(t *testing.T) {
	dir := t.TempDir()
	fv, err := NewFileVault(dir)
	require.NoError(t, err)
	_, err = fv.Load("nonexistent", validPassphrase)
	require.ErrorIs(t, err, ErrKeyNotFound)
}
