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

func TestLoadFromFileYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `environment: staging
revocation:
  check_enabled: true
  default_ttl_hours: 48
relay:
  strict_context_mode: false
  max_context_bytes: 2048
server:
  bind_address: ":9443"
logging:
  level: debug
  format: json
  output: stdout
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	require.Equal(t, "staging", cfg.Environment)
	require.True(t, cfg.Revocation.CheckEnabled)
	require.Equal(t, uint(48), cfg.Revocation.DefaultTTLHours)
	require.False(t, cfg.Relay.StrictContextMode)
	require.Equal(t, 2048, cfg.Relay.MaxContextBytes)
	require.Equal(t, ":9443", cfg.Server.BindAddress)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("environment: test\n"), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Environment)
	require.Equal(t, uint(24), cfg.Revocation.DefaultTTLHours)
	require.Equal(t, 1048576, cfg.Relay.MaxContextBytes)
	require.Equal(t, ":8443", cfg.Server.BindAddress)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileMissingFails(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	require.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "roundtrip.yaml")

	cfg := newConfigWithDefaults()
	cfg.Environment = "production"
	cfg.Server.BindAddress = ":1234"
	setDefaults(cfg)

	require.NoError(t, SaveToFile(cfg, path))

	reloaded, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "production", reloaded.Environment)
	require.Equal(t, ":1234", reloaded.Server.BindAddress)
}

func TestConfigDefaults(t *testing.T) {
	cfg := newConfigWithDefaults()
	setDefaults(cfg)

	require.Equal(t, "development", cfg.Environment)
	require.True(t, cfg.Relay.StrictContextMode)
	require.Equal(t, 1048576, cfg.Relay.MaxContextBytes)
	require.Equal(t, uint(24), cfg.Revocation.DefaultTTLHours)
	require.False(t, cfg.Revocation.CheckEnabled)
	require.Equal(t, ".proof-messenger/keys", cfg.KeyStore.Directory)
}
