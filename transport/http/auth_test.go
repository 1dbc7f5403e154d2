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

package http

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueTokenAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	issuer := NewTokenIssuer(priv)
	token, err := issuer.IssueToken("admin", []Scope{ScopeRevoke, ScopeRead}, time.Hour)
	require.NoError(t, err)

	auth := NewAuthenticator(pub)
	req := httptest.NewRequest(http.MethodGet, "/revocation/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.NoError(t, auth.check(req, ScopeRead))
}

func TestAuthenticatorRejectsWrongKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	issuer := NewTokenIssuer(priv)
	token, err := issuer.IssueToken("admin", []Scope{ScopeRevoke}, time.Hour)
	require.NoError(t, err)

	auth := NewAuthenticator(otherPub)
	req := httptest.NewRequest(http.MethodPost, "/revocation/revoke", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.ErrorIs(t, auth.check(req, ScopeRevoke), errInvalidToken)
}

func TestAuthenticatorRejectsMissingScope(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	issuer := NewTokenIssuer(priv)
	token, err := issuer.IssueToken("admin", []Scope{ScopeRead}, time.Hour)
	require.NoError(t, err)

	auth := NewAuthenticator(pub)
	req := httptest.NewRequest(http.MethodPost, "/revocation/revoke", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.ErrorIs(t, auth.check(req, ScopeManage), errMissingScope)
}

func TestAuthenticatorRejectsMissingBearer(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := NewAuthenticator(pub)
	req := httptest.NewRequest(http.MethodPost, "/revocation/revoke", nil)
	require.ErrorIs(t, auth.check(req, ScopeRevoke), errMissingBearer)
}
