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
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// inviteCode is the payload an invite code carries: enough for a peer
// to address this client's proofs (the sender public key) and find the
// relay both sides must share.
type inviteCode struct {
	PublicKeyHex string `json:"pubkey"`
	Relay        string `json:"relay"`
}

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Generate (if needed) the local identity and print an invite code",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadOrCreateIdentity()
		if err != nil {
			return err
		}
		pubHex, err := publicKeyHex(store)
		if err != nil {
			return ioError("%w", err)
		}

		payload, err := json.Marshal(inviteCode{PublicKeyHex: pubHex, Relay: relayAddr})
		if err != nil {
			return ioError("encoding invite code: %w", err)
		}

		fmt.Println(base64.StdEncoding.EncodeToString(payload))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inviteCmd)
}
