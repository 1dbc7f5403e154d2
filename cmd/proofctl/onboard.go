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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard <code>",
	Short: "Trust a peer from an invite code printed by their `invite` command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			return usageError("invite code is not valid base64: %w", err)
		}

		var code inviteCode
		if err := json.Unmarshal(raw, &code); err != nil {
			return usageError("invite code is malformed: %w", err)
		}
		if _, err := hex.DecodeString(code.PublicKeyHex); err != nil || len(code.PublicKeyHex) != 64 {
			return usageError("invite code carries an invalid public key")
		}

		// Ensure this side also has a local identity before trusting a peer.
		if _, err := loadOrCreateIdentity(); err != nil {
			return err
		}

		if err := saveContact(code.PublicKeyHex, contact{Relay: code.Relay}); err != nil {
			return ioError("saving contact: %w", err)
		}

		fmt.Printf("onboarded %s via relay %s\n", code.PublicKeyHex, code.Relay)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}
