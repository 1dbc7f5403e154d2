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

import "crypto/ed25519"

// MaxContextBytes is the hard ceiling on context length (1 MiB), per spec.
const MaxContextBytes = 1 << 20

// Signature is a 64-byte detached Ed25519 signature over a context.
type Signature [SignatureSize]byte

// Sign produces a deterministic (RFC 8032) signature over context using
// the keypair's private scalar. In strict mode an empty context is
// rejected before any signing work is performed.
func Sign(k *Keypair, context []byte, strict bool) (Signature, error) {
	var sig Signature
	if strict && len(context) == 0 {
		return sig, ErrEmptyContext
	}
	if len(context) > MaxContextBytes {
		return sig, ErrContextTooLarge
	}
	raw := ed25519.Sign(k.priv, context)
	copy(sig[:], raw)
	return sig, nil
}
