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

// Command proofctl is the Proof-Messenger client CLI: it owns a local
// Secure Key Store, signs outgoing messages, and submits them to a
// relay. Exit codes: 0 success, 2 invalid usage, 3 verification
// failed, 4 I/O failure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proof-messenger/relay/pkg/version"
)

// exitCode categorizes a command failure for main's os.Exit call.
type exitCode int

const (
	exitSuccess      exitCode = 0
	exitInvalidUsage exitCode = 2
	exitVerifyFailed exitCode = 3
	exitIOFailure    exitCode = 4
)

// cliError pairs an error with the exit code it should produce, so
// RunE can return ordinary errors while main still exits with the
// documented code.
type cliError struct {
	code exitCode
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageError(format string, args ...interface{}) error {
	return &cliError{code: exitInvalidUsage, err: fmt.Errorf(format, args...)}
}

func verifyError(format string, args ...interface{}) error {
	return &cliError{code: exitVerifyFailed, err: fmt.Errorf(format, args...)}
}

func ioError(format string, args ...interface{}) error {
	return &cliError{code: exitIOFailure, err: fmt.Errorf(format, args...)}
}

var (
	keystoreDir   string
	passphraseEnv string
	relayAddr     string
)

var rootCmd = &cobra.Command{
	Use:     "proofctl",
	Short:   "Proof-Messenger client CLI",
	Version: version.String(),
	Long: `proofctl owns a client's Secure Key Store, signs contexts, and submits
them to a Proof-Messenger relay for verification and forwarding.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "proofctl: %v\n", err)
		if cliErr, ok := err.(*cliError); ok {
			os.Exit(int(cliErr.code))
		}
		os.Exit(int(exitInvalidUsage))
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&keystoreDir, "keystore-dir", ".proof-messenger/keys", "directory holding the encrypted local identity")
	rootCmd.PersistentFlags().StringVar(&passphraseEnv, "passphrase-env", "PROOF_KEYSTORE_PASSPHRASE", "environment variable carrying the keystore passphrase")
	rootCmd.PersistentFlags().StringVar(&relayAddr, "relay", "http://localhost:8443", "base URL of the relay's transport/http server")
}
