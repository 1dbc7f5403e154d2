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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoaderOptions configures the configuration loader
type LoaderOptions struct {
	// ConfigDir is the directory containing config files (default: ./config)
	ConfigDir string
	// Environment overrides automatic environment detection
	Environment string
	// EnvFile is an optional .env file loaded before the process
	// environment is read, so real environment variables still win.
	EnvFile string
	// SkipEnvSubstitution disables ${VAR} substitution in file values
	SkipEnvSubstitution bool
}

// DefaultLoaderOptions returns default loader options
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigDir: "config",
		EnvFile:   ".env",
	}
}

// recognizedEnvKeys are this service's supported environment options.
// Load rejects any process environment variable carrying one of the
// prefixes below that isn't in this set.
var recognizedEnvKeys = map[string]bool{
	"REVOCATION_CHECK_ENABLED":     true,
	"REVOCATION_DEFAULT_TTL_HOURS": true,
	"REVOCATION_SWEEP_INTERVAL_MINS": true,
	"STRICT_CONTEXT_MODE":          true,
	"MAX_CONTEXT_BYTES":            true,
	"BIND_ADDRESS":                 true,
	"PROOF_STREAM_ENABLED":         true,
	"PROOF_JWT_PUBLIC_KEY_ENV":     true,
	"DATABASE_URL":                 true,
	"PROOF_ENV":                    true,
	"PROOF_LOG_LEVEL":              true,
	"PROOF_LOG_FORMAT":             true,
	"PROOF_LOG_OUTPUT":             true,
	"PROOF_KEYSTORE_DIR":           true,
	"PROOF_KEYSTORE_PASSPHRASE_ENV": true,
	"PROOF_METRICS_ENABLED":        true,
	"PROOF_METRICS_ADDR":           true,
	"PROOF_HEALTH_ENABLED":         true,
	"PROOF_HEALTH_ADDR":            true,
	"PROOF_ADMIN_PUBKEY":           true,
}

// recognizedPrefixes bounds which environment variables are considered
// this application's configuration surface; variables outside these
// prefixes (PATH, HOME, ...) are never flagged as unrecognized.
var recognizedPrefixes = []string{
	"REVOCATION_", "STRICT_CONTEXT_MODE", "MAX_CONTEXT_BYTES", "BIND_ADDRESS",
	"DATABASE_", "PROOF_",
}

// UnrecognizedOptionsError is returned by Load when the process
// environment carries options this application does not recognize.
type UnrecognizedOptionsError struct {
	Keys []string
}

func (e *UnrecognizedOptionsError) Error() string {
	return fmt.Sprintf("unrecognized configuration options: %s", strings.Join(e.Keys, ", "))
}

// ValidateEnviron scans environ (as returned by os.Environ) for
// application-prefixed keys not in recognizedEnvKeys.
func ValidateEnviron(environ []string) error {
	var unknown []string
	for _, kv := range environ {
		key := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			key = kv[:idx]
		}
		if !hasRecognizedPrefix(key) {
			continue
		}
		if !recognizedEnvKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &UnrecognizedOptionsError{Keys: unknown}
}

func hasRecognizedPrefix(key string) bool {
	for _, p := range recognizedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Load loads configuration with automatic environment detection: a
// .env file (if present) is loaded first, then YAML/JSON config files,
// then process environment variables override file values.
func Load(opts ...LoaderOptions) (*Config, error) {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	if options.EnvFile != "" {
		_ = godotenv.Load(options.EnvFile)
	}

	if err := ValidateEnviron(os.Environ()); err != nil {
		return nil, err
	}

	env := options.Environment
	if env == "" {
		env = GetEnvironment()
	}

	cfg, err := loadConfigFileChain(options.ConfigDir, env)
	if err != nil {
		cfg = newConfigWithDefaults()
	}

	if cfg.Environment == "" {
		cfg.Environment = env
	}

	setDefaults(cfg)

	if !options.SkipEnvSubstitution {
		SubstituteEnvVarsInConfig(cfg)
	}

	applyEnvironmentOverrides(cfg)

	return cfg, nil
}

// loadConfigFileChain tries <env>.yaml, then default.yaml, then config.yaml.
func loadConfigFileChain(dir, env string) (*Config, error) {
	candidates := []string{
		filepath.Join(dir, fmt.Sprintf("%s.yaml", env)),
		filepath.Join(dir, "default.yaml"),
		filepath.Join(dir, "config.yaml"),
	}

	var lastErr error
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			lastErr = err
			continue
		}
		return LoadFromFile(path)
	}
	return nil, lastErr
}

// applyEnvironmentOverrides applies the recognized process environment
// variables over file-derived configuration (highest priority).
func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("REVOCATION_CHECK_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Revocation.CheckEnabled = b
		}
	}
	if v := os.Getenv("REVOCATION_DEFAULT_TTL_HOURS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Revocation.DefaultTTLHours = uint(n)
		}
	}
	if v := os.Getenv("REVOCATION_SWEEP_INTERVAL_MINS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Revocation.SweepIntervalMins = uint(n)
		}
	}
	if v := os.Getenv("STRICT_CONTEXT_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Relay.StrictContextMode = b
		}
	}
	if v := os.Getenv("MAX_CONTEXT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Relay.MaxContextBytes = n
		}
	}
	if v := os.Getenv("BIND_ADDRESS"); v != "" {
		cfg.Server.BindAddress = v
	}
	if v := os.Getenv("PROOF_STREAM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.StreamEnabled = b
		}
	}
	if v := os.Getenv("PROOF_JWT_PUBLIC_KEY_ENV"); v != "" {
		cfg.Server.JWTPublicKeyEnv = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.ConnString = v
	}

	if v := os.Getenv("PROOF_KEYSTORE_DIR"); v != "" {
		cfg.KeyStore.Directory = v
	}
	if v := os.Getenv("PROOF_KEYSTORE_PASSPHRASE_ENV"); v != "" {
		cfg.KeyStore.PassphraseEnv = v
	}

	if v := os.Getenv("PROOF_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROOF_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PROOF_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}

	if v := os.Getenv("PROOF_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("PROOF_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("PROOF_HEALTH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Health.Enabled = b
		}
	}
	if v := os.Getenv("PROOF_HEALTH_ADDR"); v != "" {
		cfg.Health.Addr = v
	}
}

// LoadForEnvironment loads configuration for a specific environment
func LoadForEnvironment(environment string) (*Config, error) {
	return Load(LoaderOptions{
		ConfigDir:   "config",
		Environment: environment,
	})
}

// MustLoad loads configuration or panics on error
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
