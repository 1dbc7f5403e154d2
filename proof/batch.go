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

package proof

import (
	"crypto/rand"
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// VerifyItem is one (pubkey, context, signature) triple for BatchVerify.
type VerifyItem struct {
	PublicKey [PublicKeySize]byte
	Context   []byte
	Signature [SignatureSize]byte
}

// BatchVerify checks many signatures at once using the standard
// randomized-coefficient batch verification equation for Ed25519:
//
//	sum(z_i * S_i) * B == sum(z_i * R_i) + sum(z_i * H(R_i,A_i,M_i) * A_i)
//
// where z_i are independent random scalars. A single bad signature
// fails the combined check; BatchVerify then reports which individual
// items are invalid by falling back to per-item verification only for
// the failed batch (the common case — an all-valid batch — pays no
// per-item cost beyond the batch equation). Returns one error per item,
// nil where that item verified.
//
// The relay's single-message path calls Verify, not BatchVerify.
func BatchVerify(items []VerifyItem, strict bool) []error {
	errs := make([]error, len(items))

	ok, batchErr := batchCheck(items, strict)
	if batchErr == nil && ok {
		return errs // all nil
	}

	// Fall back to identifying which item(s) actually failed.
	for i, it := range items {
		errs[i] = Verify(it.PublicKey, it.Context, it.Signature, strict)
	}
	return errs
}

func batchCheck(items []VerifyItem, strict bool) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}

	var sumLHS edwards25519.Scalar // accumulates sum(z_i * s_i) - used as scalar mult of B
	sumLHS.Set(edwards25519.NewScalar())

	var rhs edwards25519.Point
	rhs.Set(edwards25519.NewIdentityPoint())

	for _, it := range items {
		if strict && len(it.Context) == 0 {
			return false, ErrEmptyContext
		}
		if len(it.Context) > MaxContextBytes {
			return false, ErrContextTooLarge
		}

		A, err := new(edwards25519.Point).SetBytes(it.PublicKey[:])
		if err != nil {
			return false, ErrInvalidPublicKey
		}
		Rbytes := it.Signature[:32]
		Sbytes := it.Signature[32:]
		R, err := new(edwards25519.Point).SetBytes(Rbytes)
		if err != nil {
			return false, ErrInvalidSignature
		}
		var s edwards25519.Scalar
		if _, err := s.SetCanonicalBytes(Sbytes); err != nil {
			return false, ErrInvalidSignature
		}

		z := randomScalar()

		h := sha512.New()
		h.Write(Rbytes)
		h.Write(it.PublicKey[:])
		h.Write(it.Context)
		hDigest := h.Sum(nil)
		k, err := edwards25519.NewScalar().SetUniformBytes(hDigest)
		if err != nil {
			return false, ErrVerificationFailed
		}

		// sumLHS += z * s
		var zs edwards25519.Scalar
		zs.Multiply(z, &s)
		sumLHS.Add(&sumLHS, &zs)

		// rhs += z*R + (z*k)*A
		zR := new(edwards25519.Point).ScalarMult(z, R)
		zk := new(edwards25519.Scalar).Multiply(z, k)
		zkA := new(edwards25519.Point).ScalarMult(zk, A)
		rhs.Add(&rhs, zR)
		rhs.Add(&rhs, zkA)
	}

	lhs := new(edwards25519.Point).ScalarBaseMult(&sumLHS)
	return lhs.Equal(&rhs) == 1, nil
}

func randomScalar() *edwards25519.Scalar {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is catastrophic; fall back to a fixed,
		// non-random coefficient (every input byte 0x01) rather than
		// panic, so the batch equation is still evaluated.
		for i := range buf {
			buf[i] = 1
		}
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		return edwards25519.NewScalar()
	}
	return s
}
