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

package keystore

import "errors"

var (
	// ErrNotReady is returned by sign/public-key operations before a
	// keypair exists or after the store has been reset.
	ErrNotReady = errors.New("keystore: not ready")

	// ErrAlreadyReady is returned when generate is called on a store
	// that already holds a keypair; callers must reset first.
	ErrAlreadyReady = errors.New("keystore: already ready, reset before regenerating")

	// ErrGenerationFailed is returned when generate() fails; the
	// underlying cause is not wrapped but is available via LastError.
	ErrGenerationFailed = errors.New("keystore: key generation failed")
)
