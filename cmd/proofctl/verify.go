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
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proof-messenger/relay/proof"
)

// verifyCmd checks a proof against the local identity's own public
// key — a self-check that a signature was produced by this keystore,
// useful for confirming a context was signed correctly before it's
// sent, or for re-checking one pulled from local history. It performs
// no network call; verifying a peer's proof is the relay's job.
var verifyCmd = &cobra.Command{
	Use:   "verify <proof-hex> <context-hex>",
	Short: "Verify a proof against the local identity's public key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigHex, ctxHex := args[0], args[1]

		sig, err := hex.DecodeString(sigHex)
		if err != nil || len(sig) != proof.SignatureSize {
			return usageError("proof must be %d-byte hex", proof.SignatureSize)
		}
		ctx, err := hex.DecodeString(ctxHex)
		if err != nil {
			return usageError("context is not valid hex: %w", err)
		}

		store, err := loadOrCreateIdentity()
		if err != nil {
			return err
		}
		pub, err := store.PublicKey()
		if err != nil {
			return ioError("reading public key: %w", err)
		}

		if err := proof.VerifyBytes(pub[:], ctx, sig, true); err != nil {
			return verifyError("verification failed: %w", err)
		}

		fmt.Println("ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
