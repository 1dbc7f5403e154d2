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

// Package config loads and validates relay configuration from YAML
// files, .env files, and the process environment, with the environment
// always taking precedence over file values.
package config

// Config is the root relay configuration.
type Config struct {
	Environment string            `yaml:"environment" json:"environment"`
	Revocation  RevocationConfig  `yaml:"revocation" json:"revocation"`
	Relay       RelayConfig       `yaml:"relay" json:"relay"`
	Database    DatabaseConfig    `yaml:"database" json:"database"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	KeyStore    KeyStoreConfig    `yaml:"keystore" json:"keystore"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics" json:"metrics"`
	Health      HealthConfig      `yaml:"health" json:"health"`
}

// RevocationConfig holds the revocation settings. CheckEnabled is loaded
// but not read by cmd/proof-relay, which always passes its revocation
// store to the relay, so the revocation check runs whether or not
// CheckEnabled is set.
type RevocationConfig struct {
	CheckEnabled      bool `yaml:"check_enabled" json:"check_enabled"`
	DefaultTTLHours   uint `yaml:"default_ttl_hours" json:"default_ttl_hours"`
	SweepIntervalMins uint `yaml:"sweep_interval_mins" json:"sweep_interval_mins"`
}

// RelayConfig controls ProcessAndVerify's behavior.
type RelayConfig struct {
	StrictContextMode bool `yaml:"strict_context_mode" json:"strict_context_mode"`
	MaxContextBytes   int  `yaml:"max_context_bytes" json:"max_context_bytes"`
}

// DatabaseConfig holds the Postgres connection string used by the
// revocation and message store backends.
type DatabaseConfig struct {
	ConnString string `yaml:"conn_string" json:"conn_string"`
}

// ServerConfig holds the HTTP transport bind address and the name of
// the environment variable carrying the admin identity's base64
// Ed25519 public key, used to verify EdDSA-signed scope JWTs.
type ServerConfig struct {
	BindAddress      string `yaml:"bind_address" json:"bind_address"`
	StreamEnabled    bool   `yaml:"stream_enabled" json:"stream_enabled"`
	JWTPublicKeyEnv  string `yaml:"jwt_public_key_env" json:"jwt_public_key_env"`
}

// KeyStoreConfig controls the client secure key store's persistence.
type KeyStoreConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	PassphraseEnv string `yaml:"passphrase_env" json:"passphrase_env"`
}

// LoggingConfig controls internal/logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// HealthConfig controls the liveness/readiness server.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}
