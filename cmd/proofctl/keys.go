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

// Admin tooling for the operator identity: this is deliberately
// separate from the client Secure Key Store commands above. These keys
// mint/verify the scope JWTs transport/http's Authenticator checks;
// they are never a client's message-signing key (see SPEC_FULL.md §9).
package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/proof-messenger/relay/crypto/keys"
	transporthttp "github.com/proof-messenger/relay/transport/http"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the operator admin identity used to sign scope JWTs",
}

var keysGenOutFile string

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an Ed25519 admin identity and write the private key to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyPair, err := keys.GenerateEd25519KeyPair()
		if err != nil {
			return ioError("generating key pair: %w", err)
		}

		pemBytes, err := keys.ExportPrivateKeyPEM(keyPair)
		if err != nil {
			return ioError("exporting key pair: %w", err)
		}

		if keysGenOutFile == "" {
			fmt.Println(string(pemBytes))
		} else {
			if err := os.WriteFile(keysGenOutFile, pemBytes, 0600); err != nil {
				return ioError("writing key file: %w", err)
			}
			fmt.Printf("wrote admin identity %s to %s\n", keyPair.ID(), keysGenOutFile)
		}

		pub, ok := keyPair.PublicKey().(ed25519.PublicKey)
		if !ok {
			return ioError("generated key pair is not Ed25519")
		}
		fmt.Printf("public key (set as the relay's PROOF_ADMIN_PUBKEY): %s\n", base64.StdEncoding.EncodeToString(pub))
		return nil
	},
}

var keysIssueTokenCmd = &cobra.Command{
	Use:   "issue-token <key-file> <subject> <scope...>",
	Short: "Mint an EdDSA scope token for the relay's revocation endpoints",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pemBytes, err := os.ReadFile(args[0])
		if err != nil {
			return ioError("reading key file: %w", err)
		}
		keyPair, err := keys.LoadPrivateKeyPEM(pemBytes)
		if err != nil {
			return ioError("loading key file: %w", err)
		}
		priv, ok := keyPair.PrivateKey().(ed25519.PrivateKey)
		if !ok {
			return ioError("key file does not hold an Ed25519 private key")
		}

		scopes := make([]transporthttp.Scope, 0, len(args)-2)
		for _, s := range args[2:] {
			scopes = append(scopes, transporthttp.Scope(s))
		}

		issuer := transporthttp.NewTokenIssuer(priv)
		token, err := issuer.IssueToken(args[1], scopes, 24*time.Hour)
		if err != nil {
			return ioError("issuing token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	keysGenerateCmd.Flags().StringVar(&keysGenOutFile, "out", "", "file to write the exported private key to (default: stdout)")

	keysCmd.AddCommand(keysGenerateCmd)
	keysCmd.AddCommand(keysIssueTokenCmd)
	rootCmd.AddCommand(keysCmd)
}
