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
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := newConfigWithDefaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// newConfigWithDefaults returns a Config pre-populated with the one
// default that can't be expressed by setDefaults's zero-value checks:
// StrictContextMode defaults to true, but bool's zero value is false,
// so the default has to be in place before unmarshal so an explicit
// "false" in the file or env can still override it.
func newConfigWithDefaults() *Config {
	return &Config{
		Relay: RelayConfig{StrictContextMode: true},
	}
}

// SaveToFile saves configuration to a file, choosing format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills in this service's configuration defaults.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Revocation.CheckEnabled default is false (zero value) per spec.
	if cfg.Revocation.DefaultTTLHours == 0 {
		cfg.Revocation.DefaultTTLHours = 24
	}
	if cfg.Revocation.SweepIntervalMins == 0 {
		cfg.Revocation.SweepIntervalMins = 60
	}

	if cfg.Relay.MaxContextBytes == 0 {
		cfg.Relay.MaxContextBytes = 1048576
	}

	if cfg.Server.BindAddress == "" {
		cfg.Server.BindAddress = ":8443"
	}
	if cfg.Server.JWTPublicKeyEnv == "" {
		cfg.Server.JWTPublicKeyEnv = "PROOF_ADMIN_PUBKEY"
	}

	if cfg.KeyStore.Directory == "" {
		cfg.KeyStore.Directory = ".proof-messenger/keys"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Health.Addr == "" {
		cfg.Health.Addr = ":9091"
	}
	if cfg.Health.Path == "" {
		cfg.Health.Path = "/healthz"
	}
}
