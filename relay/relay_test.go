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

package relay

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	revocationmem "github.com/proof-messenger/relay/revocation/memory"
	storemem "github.com/proof-messenger/relay/store/memory"

	"github.com/proof-messenger/relay/proof"
)

func testConfig() Config {
	return Config{StrictContextMode: true, MaxContextBytes: 1 << 20}
}

func signedMessage(t *testing.T, context []byte) (Message, *proof.Keypair) {
	t.Helper()
	kp := proof.KeypairFromSeed(1)
	sig, err := proof.Sign(kp, context, true)
	require.NoError(t, err)
	pub := kp.PublicKey()
	return Message{
		SenderHex:    hex.EncodeToString(pub[:]),
		ContextHex:   hex.EncodeToString(context),
		SignatureHex: hex.EncodeToString(sig[:]),
		Body:         "hello",
	}, kp
}

func TestProcessAndVerifyAcceptsValidMessage(t *testing.T) {
	msg, _ := signedMessage(t, []byte("transfer:100:alice->bob"))
	ms := storemem.New()
	rs := revocationmem.New()

	accepted, err := ProcessAndVerify(context.Background(), msg, Deps{
		Revocation: rs,
		Store:      ms,
		Config:     testConfig(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, accepted.StoredID)

	stored, err := ms.Get(context.Background(), accepted.StoredID)
	require.NoError(t, err)
	require.Equal(t, "hello", stored.Body)
}

func TestProcessAndVerifyRejectsBadSender(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	msg.SenderHex = "not-hex"

	_, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindInvalidPublicKey, relayErr.Kind)
}

func TestProcessAndVerifyRejectsShortSender(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	msg.SenderHex = hex.EncodeToString([]byte("short"))

	_, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindInvalidPublicKey, relayErr.Kind)
}

func TestProcessAndVerifyRejectsEmptyContextInStrictMode(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	msg.ContextHex = ""

	_, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindEmptyContext, relayErr.Kind)
}

func TestProcessAndVerifyRejectsOversizeContext(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	big := make([]byte, 64)
	msg.ContextHex = hex.EncodeToString(big)

	_, err := ProcessAndVerify(context.Background(), msg, Deps{
		Config: Config{StrictContextMode: true, MaxContextBytes: 32},
	})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindInvalidContext, relayErr.Kind)
}

func TestProcessAndVerifyRejectsMalformedSignature(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	msg.SignatureHex = "deadbeef"

	_, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindInvalidSignature, relayErr.Kind)
}

func TestProcessAndVerifyRejectsWrongSignature(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	other, _ := signedMessage(t, []byte("different context"))
	msg.SignatureHex = other.SignatureHex

	_, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindVerificationFailed, relayErr.Kind)
}

func TestProcessAndVerifyRejectsRevokedSignature(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	rs := revocationmem.New()
	_, err := rs.Revoke(context.Background(), msg.SignatureHex, "compromised", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ProcessAndVerify(context.Background(), msg, Deps{
		Revocation: rs,
		Config:     testConfig(),
	})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindProofRevoked, relayErr.Kind)
}

func TestProcessAndVerifyChecksRevocationBeforeCrypto(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))
	other, _ := signedMessage(t, []byte("different context"))
	msg.SignatureHex = other.SignatureHex // well-formed, but fails verification against "ctx"

	rs := revocationmem.New()
	_, err := rs.Revoke(context.Background(), msg.SignatureHex, "compromised", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ProcessAndVerify(context.Background(), msg, Deps{
		Revocation: rs,
		Config:     testConfig(),
	})
	require.Error(t, err)
	var relayErr *Error
	require.True(t, asRelayError(err, &relayErr))
	require.Equal(t, KindProofRevoked, relayErr.Kind)
}

func TestProcessAndVerifyWithoutStoreGeneratesID(t *testing.T) {
	msg, _ := signedMessage(t, []byte("ctx"))

	accepted, err := ProcessAndVerify(context.Background(), msg, Deps{Config: testConfig()})
	require.NoError(t, err)
	require.NotEmpty(t, accepted.StoredID)
}

func TestErrorKindHTTPStatus(t *testing.T) {
	require.Equal(t, 400, KindInvalidPublicKey.HTTPStatus())
	require.Equal(t, 401, KindVerificationFailed.HTTPStatus())
	require.Equal(t, 403, KindProofRevoked.HTTPStatus())
	require.Equal(t, 503, KindStorageFailure.HTTPStatus())
	require.Equal(t, 500, KindInternal.HTTPStatus())
}

func TestErrorKindClientFault(t *testing.T) {
	require.True(t, KindInvalidSignature.ClientFault())
	require.False(t, KindProofRevoked.ClientFault())
	require.False(t, KindStorageFailure.ClientFault())
}
