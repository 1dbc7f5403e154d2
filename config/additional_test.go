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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveToFileJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	cfg := newConfigWithDefaults()
	cfg.Environment = "staging"
	setDefaults(cfg)

	require.NoError(t, SaveToFile(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"environment": "staging"`)
}

func TestLoadFromFileRejectsGarbage(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestValidateEnvironReportsAllUnknownSorted(t *testing.T) {
	err := ValidateEnviron([]string{"PROOF_ZEBRA=1", "PROOF_ALPHA=1", "BIND_ADDRESS=:80"})
	require.Error(t, err)

	var unrec *UnrecognizedOptionsError
	require.ErrorAs(t, err, &unrec)
	require.Equal(t, []string{"PROOF_ALPHA", "PROOF_ZEBRA"}, unrec.Keys)
}

func TestApplyEnvironmentOverridesRevocationTTL(t *testing.T) {
	os.Setenv("REVOCATION_DEFAULT_TTL_HOURS", "72")
	os.Setenv("REVOCATION_CHECK_ENABLED", "true")
	os.Setenv("MAX_CONTEXT_BYTES", "4096")
	defer func() {
		os.Unsetenv("REVOCATION_DEFAULT_TTL_HOURS")
		os.Unsetenv("REVOCATION_CHECK_ENABLED")
		os.Unsetenv("MAX_CONTEXT_BYTES")
	}()

	cfg := newConfigWithDefaults()
	setDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	require.Equal(t, uint(72), cfg.Revocation.DefaultTTLHours)
	require.True(t, cfg.Revocation.CheckEnabled)
	require.Equal(t, 4096, cfg.Relay.MaxContextBytes)
}
