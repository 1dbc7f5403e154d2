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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	sendTo  string
	sendMsg string
)

// relayContext is the application-defined context signed by send: the
// core verifier treats it as opaque bytes, but the relay and recipient
// need a canonical shape to recover the intended action from.
type relayContext struct {
	To        string `json:"to"`
	Body      string `json:"msg"`
	Timestamp int64  `json:"timestamp"`
}

type relayRequest struct {
	Sender  string `json:"sender"`
	Context string `json:"context"`
	Body    string `json:"body"`
	Proof   string `json:"proof"`
}

type relaySuccess struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type relayFailure struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a message context and submit it to the relay",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendTo == "" {
			return usageError("--to is required")
		}
		if _, err := hex.DecodeString(sendTo); err != nil || len(sendTo) != 64 {
			return usageError("--to must be a 64-char hex Ed25519 public key")
		}
		if sendMsg == "" {
			return usageError("--msg is required")
		}

		store, err := loadOrCreateIdentity()
		if err != nil {
			return err
		}
		senderHex, err := publicKeyHex(store)
		if err != nil {
			return ioError("%w", err)
		}

		ctxBytes, err := json.Marshal(relayContext{To: sendTo, Body: sendMsg, Timestamp: time.Now().Unix()})
		if err != nil {
			return ioError("encoding context: %w", err)
		}

		sig, err := store.Sign(ctxBytes, true)
		if err != nil {
			return ioError("signing context: %w", err)
		}

		reqBody, err := json.Marshal(relayRequest{
			Sender:  senderHex,
			Context: hex.EncodeToString(ctxBytes),
			Body:    sendMsg,
			Proof:   hex.EncodeToString(sig[:]),
		})
		if err != nil {
			return ioError("encoding request: %w", err)
		}

		resp, err := http.Post(relayAddr+"/relay", "application/json", bytes.NewReader(reqBody))
		if err != nil {
			return ioError("submitting to relay: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return ioError("reading relay response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			var failure relayFailure
			_ = json.Unmarshal(respBody, &failure)
			return verifyError("relay rejected message: %s: %s", failure.Error, failure.Detail)
		}

		var success relaySuccess
		if err := json.Unmarshal(respBody, &success); err != nil {
			return ioError("parsing relay response: %w", err)
		}

		fmt.Printf("accepted: id=%s\n", success.ID)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient public key, 64 hex chars")
	sendCmd.Flags().StringVar(&sendMsg, "msg", "", "message body")
	rootCmd.AddCommand(sendCmd)
}
