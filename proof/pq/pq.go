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

// Package pq is a forward-looking scaffold for post-quantum signing,
// kept deliberately outside the default client path (proof.Keypair
// always means Ed25519). It exists so that a future migration away
// from Ed25519 has somewhere to land without reshaping the proof
// primitive's public surface: callers that want it opt in explicitly
// by constructing a Keypair here instead of a proof.Keypair.
package pq

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Keypair wraps a Dilithium mode-3 (ML-DSA security category equivalent)
// key pair. Signature and key sizes are an order of magnitude larger than
// Ed25519's, which is why this stays opt-in rather than the default.
type Keypair struct {
	pub  *mode3.PublicKey
	priv *mode3.PrivateKey
}

// GenerateKeypair draws a fresh Dilithium mode-3 key pair from the CSPRNG.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := mode3.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("pq: failed to generate keypair: %w", err)
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// PublicKeyBytes returns the packed public key.
func (k *Keypair) PublicKeyBytes() []byte {
	out := make([]byte, mode3.PublicKeySize)
	k.pub.Pack((*[mode3.PublicKeySize]byte)(out))
	return out
}

// Sign produces a detached signature over context. Unlike proof.Sign
// there is no strict/non-strict mode: an empty context is permitted,
// since this scaffold is not yet wired into the relay's context rules.
func (k *Keypair) Sign(context []byte) []byte {
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(k.priv, context, sig)
	return sig
}

// Verify checks a detached signature against a packed public key.
func Verify(pubkeyBytes, context, sig []byte) (bool, error) {
	if len(pubkeyBytes) != mode3.PublicKeySize {
		return false, fmt.Errorf("pq: public key must be %d bytes", mode3.PublicKeySize)
	}
	if len(sig) != mode3.SignatureSize {
		return false, fmt.Errorf("pq: signature must be %d bytes", mode3.SignatureSize)
	}
	var pub mode3.PublicKey
	pub.Unpack((*[mode3.PublicKeySize]byte)(pubkeyBytes))
	return mode3.Verify(&pub, context, sig), nil
}
