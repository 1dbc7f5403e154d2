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

// Package http adapts the relay verifier and the revocation store to
// the wire format over HTTP: POST /relay and the four /revocation/*
// routes, with JWT scope-gated authentication on the write-side
// revocation endpoints.
package http

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope is one of the three authorization scopes the revocation
// endpoints check against a bearer token's claims.
type Scope string

const (
	ScopeRevoke Scope = "proof:revoke"
	ScopeRead   Scope = "proof:read"
	ScopeManage Scope = "proof:manage"
)

var (
	errMissingBearer = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid or expired token")
	errMissingScope  = errors.New("token lacks required scope")
)

// Authenticator validates a bearer token and checks it carries the
// required scope, verifying the EdDSA signature against the relay
// operator's Ed25519 admin identity rather than a remote JWKS fetch —
// this service issues and verifies its own scope tokens, it never
// federates identity with a third party.
type Authenticator struct {
	publicKey ed25519.PublicKey
}

// NewAuthenticator builds an Authenticator around the admin identity's
// Ed25519 public key (see cmd/proofctl's admin `keys` subcommand),
// distinct from any client's proof keypair.
func NewAuthenticator(publicKey ed25519.PublicKey) *Authenticator {
	return &Authenticator{publicKey: publicKey}
}

// TokenIssuer mints EdDSA-signed scope tokens from the admin identity's
// Ed25519 private key. It is kept separate from Authenticator because
// only proofctl's keys subcommand ever needs to sign; the relay server
// only ever verifies.
type TokenIssuer struct {
	privateKey ed25519.PrivateKey
}

// NewTokenIssuer builds a TokenIssuer around the admin identity's
// private key.
func NewTokenIssuer(privateKey ed25519.PrivateKey) *TokenIssuer {
	return &TokenIssuer{privateKey: privateKey}
}

// IssueToken mints a scope token for subject, valid for ttl.
func (t *TokenIssuer) IssueToken(subject string, scopes []Scope, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": joinScopes(scopes),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(t.privateKey)
}

// Require returns middleware that rejects requests unless the bearer
// token is valid and carries want.
func (a *Authenticator) Require(want Scope, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.check(r, want); err != nil {
			writeError(w, errToRelayKind(err), err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) check(r *http.Request, want Scope) error {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return errMissingBearer
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return a.publicKey, nil
	})
	if err != nil || !token.Valid {
		return errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errInvalidToken
	}
	if !hasScope(claims, want) {
		return errMissingScope
	}
	return nil
}

func hasScope(claims jwt.MapClaims, want Scope) bool {
	raw, _ := claims["scope"].(string)
	for _, sc := range strings.Fields(raw) {
		if sc == string(want) {
			return true
		}
	}
	return false
}

func joinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

func errToRelayKind(err error) string {
	switch {
	case errors.Is(err, errMissingBearer), errors.Is(err, errInvalidToken):
		return "Unauthorized"
	case errors.Is(err, errMissingScope):
		return "Forbidden"
	default:
		return "Internal"
	}
}

// withRequestID stamps a request id onto ctx using the same untyped
// string key internal/logger.StructuredLogger.WithContext reads.
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, "request_id", id)
}
