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

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/proof-messenger/relay/proof"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	s := New()
	require.Equal(t, Uninitialized, s.State())

	_, err := s.PublicKey()
	require.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, s.Generate())
	require.Equal(t, Ready, s.State())

	pub, err := s.PublicKey()
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, pub)

	sig, err := s.Sign([]byte("ctx"), true)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(pub, []byte("ctx"), sig, true))

	s.Reset()
	require.Equal(t, Uninitialized, s.State())
	_, err = s.PublicKey()
	require.ErrorIs(t, err, ErrNotReady)
}

func TestGenerateTwiceWithoutResetFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Generate())
	err := s.Generate()
	require.ErrorIs(t, err, ErrAlreadyReady)
}

func TestSignBeforeGenerateFails(t *testing.T) {
	s := New()
	_, err := s.Sign([]byte("ctx"), true)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestConcurrentGenerateSerializesToConsistentReady(t *testing.T) {
	s := New()
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = s.Generate() // first succeeds, rest return ErrAlreadyReady
		}()
	}
	wg.Wait()

	require.Equal(t, Ready, s.State())
	pub, err := s.PublicKey()
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, pub)
}

// TestSerializationHasNoSensitiveSubstrings checks that no textual
// representation of the store contains a case-insensitive match for
// private|secret|seed|entropy|password.
func TestSerializationHasNoSensitiveSubstrings(t *testing.T) {
	forbidden := []string{"private", "secret", "seed", "entropy", "password"}

	s := New()
	require.NoError(t, s.Generate())

	renderings := []string{
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", s),
		fmt.Sprintf("%#v", s),
	}
	pub, _ := s.PublicKey()
	renderings = append(renderings, fmt.Sprintf("%v", pub))

	for _, r := range renderings {
		lower := strings.ToLower(r)
		for _, f := range forbidden {
			require.NotContainsf(t, lower, f, "rendering %q leaked sensitive substring %q", r, f)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Generate())
	raw, err := s.Export()
	require.NoError(t, err)

	s2 := New()
	require.NoError(t, s2.Import(raw[:]))
	require.Equal(t, Ready, s2.State())

	pub1, _ := s.PublicKey()
	pub2, _ := s2.PublicKey()
	require.Equal(t, pub1, pub2)
}
