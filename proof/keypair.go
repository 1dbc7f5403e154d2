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

// Package proof implements the binding of an Ed25519 signer key to an
// arbitrary context, with strict validation and an explicit, stable
// error taxonomy. Every operation here is pure and side-effect free
// except for reading the system CSPRNG.
package proof

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
)

// PublicKeySize, PrivateKeySize and SignatureSize are the exact,
// non-negotiable byte lengths the wire format and storage layer rely on.
const (
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.PrivateKeySize // 64: seed(32)||public(32)
	SignatureSize  = ed25519.SignatureSize
)

// Keypair owns a 32-byte private scalar and a 32-byte public point. The
// canonical 64-byte serialization is private‖public, matching Go's
// ed25519.PrivateKey layout exactly. Keypair has no exported fields: the
// only way to extract private material is Bytes(), an explicit opt-in.
type Keypair struct {
	priv ed25519.PrivateKey
}

// GenerateKeypair draws 32 bytes from the CSPRNG and derives the public
// point. Fails only if the RNG itself fails to produce the seed.
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, wrapError(KindRngFailure, "failed to generate keypair", err)
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromSeed deterministically derives a keypair from a uint64 seed.
// Used for tests and reproducible fixtures; never for production signing
// keys. The derivation is a fixed domain-tagged SHA-512 of the seed's
// big-endian encoding, truncated to the 32 bytes ed25519.NewKeyFromSeed
// expects — pure byte operations, so results are identical across
// platforms and Go versions.
func KeypairFromSeed(seed uint64) *Keypair {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	h := sha512.New()
	h.Write([]byte("proof-messenger/keypair-seed/v1"))
	h.Write(buf[:])
	digest := h.Sum(nil)
	priv := ed25519.NewKeyFromSeed(digest[:ed25519.SeedSize])
	return &Keypair{priv: priv}
}

// KeypairFromBytes accepts exactly 64 bytes (private‖public) and rejects
// any other length or a public half that does not match the point
// derived from the private half.
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != PrivateKeySize {
		return nil, wrapError(KindInvalidPrivateKey, "private key must be 64 bytes", nil)
	}
	priv := ed25519.PrivateKey(append([]byte(nil), b...))
	seed := priv.Seed()
	derived := ed25519.NewKeyFromSeed(seed)
	derivedPub := derived.Public().(ed25519.PublicKey)
	givenPub := priv.Public().(ed25519.PublicKey)
	if !derivedPub.Equal(givenPub) {
		return nil, newError(KindInvalidPrivateKey, "public half does not match derived point")
	}
	return &Keypair{priv: priv}, nil
}

// PublicKey returns the 32-byte public key.
func (k *Keypair) PublicKey() [PublicKeySize]byte {
	var out [PublicKeySize]byte
	copy(out[:], k.priv.Public().(ed25519.PublicKey))
	return out
}

// Bytes returns the canonical 64-byte (private‖public) serialization.
// This is the one explicit opt-in export of private material; callers
// outside the Secure Key Store (keystore package) should not call this
// on a client's live signing key.
func (k *Keypair) Bytes() [PrivateKeySize]byte {
	var out [PrivateKeySize]byte
	copy(out[:], k.priv)
	return out
}

// Zeroize overwrites the private scalar in place. After calling this,
// the Keypair must not be used for signing again.
func (k *Keypair) Zeroize() {
	for i := range k.priv {
		k.priv[i] = 0
	}
}
