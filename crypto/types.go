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

// Package crypto manages the relay operator's Ed25519 admin identity:
// the key proofctl's keys subcommand generates and uses to sign scope
// tokens, and the relay server's Authenticator verifies against.
package crypto

import (
	"crypto"
	"errors"
)

// KeyPair is the admin's Ed25519 signing identity.
type KeyPair interface {
	PublicKey() crypto.PublicKey
	PrivateKey() crypto.PrivateKey
	Sign(message []byte) ([]byte, error)
	Verify(message, signature []byte) error
	ID() string
}

var ErrInvalidSignature = errors.New("invalid signature")
