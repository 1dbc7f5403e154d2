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
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/proof-messenger/relay/internal/logger"
	"github.com/proof-messenger/relay/internal/metrics"
	"github.com/proof-messenger/relay/relay"
	"github.com/proof-messenger/relay/revocation"
)

// maxBodyBytes bounds the request body the server will read before
// doing any parsing work: a hex-encoded 1 MiB context (2 MiB) plus the
// sender, proof, body and JSON overhead, rounded up.
const maxBodyBytes = 4 << 20

// Server wires the relay verifier (relay.ProcessAndVerify) and the
// revocation store to net/http: a thin struct holding collaborators,
// one handler method per route, JSON in and out.
type Server struct {
	Deps   relay.Deps
	Auth   *Authenticator
	Logger logger.Logger

	// BaseMux, if set, is served as-is instead of a fresh Mux() build.
	// cmd/proof-relay sets this to the mux returned by an earlier Mux()
	// call after grafting the optional /relay/stream route onto it, so
	// ListenAndServe doesn't silently drop that route by rebuilding.
	BaseMux *http.ServeMux
}

// Handler returns BaseMux if set, otherwise a freshly built Mux().
func (s *Server) Handler() *http.ServeMux {
	if s.BaseMux != nil {
		return s.BaseMux
	}
	return s.Mux()
}

// Mux builds the route table. Go 1.22+'s ServeMux method+pattern
// syntax stands in for a third-party router; none of these routes need
// anything a stdlib mux can't already do.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /relay", withInstrumentation("/relay", s.withBodyLimit(http.HandlerFunc(s.handleRelay))))

	revoke := http.HandlerFunc(s.handleRevoke)
	check := withInstrumentation("/revocation/check", http.HandlerFunc(s.handleCheck))
	list := withInstrumentation("/revocation/list", http.HandlerFunc(s.handleList))
	cleanup := withInstrumentation("/revocation/cleanup", http.HandlerFunc(s.handleCleanup))

	if s.Auth != nil {
		mux.Handle("POST /revocation/revoke", withInstrumentation("/revocation/revoke", s.withBodyLimit(s.Auth.Require(ScopeRevoke, revoke))))
		mux.Handle("GET /revocation/check/{sig}", check) // left open to anonymous callers
		mux.Handle("GET /revocation/list", s.Auth.Require(ScopeRead, list))
		mux.Handle("POST /revocation/cleanup", s.Auth.Require(ScopeManage, cleanup))
	} else {
		mux.Handle("POST /revocation/revoke", withInstrumentation("/revocation/revoke", s.withBodyLimit(revoke)))
		mux.Handle("GET /revocation/check/{sig}", check)
		mux.Handle("GET /revocation/list", list)
		mux.Handle("POST /revocation/cleanup", cleanup)
	}
	return mux
}

func (s *Server) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBodyBytes {
			metrics.RejectedOversizeBodies.Inc()
			writeError(w, "InvalidContext", "request body exceeds maximum size")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		metrics.RequestBodySize.Observe(float64(r.ContentLength))
		next.ServeHTTP(w, r)
	})
}

// withInstrumentation records per-route latency regardless of outcome.
func withInstrumentation(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		metrics.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type relayRequest struct {
	Sender  string `json:"sender"`
	Context string `json:"context"`
	Body    string `json:"body"`
	Proof   string `json:"proof"`
	Group   string `json:"group,omitempty"`
}

type successResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := withRequestID(r.Context(), requestID)

	var req relayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues("POST", "/relay", "400").Inc()
		writeError(w, "InvalidContext", "request body is not valid JSON")
		return
	}

	msg := relay.Message{
		SenderHex:    req.Sender,
		ContextHex:   req.Context,
		SignatureHex: req.Proof,
		Body:         req.Body,
		GroupID:      req.Group,
	}

	accepted, err := relay.ProcessAndVerify(ctx, msg, s.Deps)
	if err != nil {
		s.writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", ID: accepted.StoredID})
	metrics.RequestsTotal.WithLabelValues("POST", "/relay", "200").Inc()
}

type revokeRequest struct {
	ProofSignature string `json:"proof_signature"`
	Reason         string `json:"reason,omitempty"`
	TTLHours       uint   `json:"ttl_hours,omitempty"`
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "InvalidContext", "request body is not valid JSON")
		return
	}
	if req.ProofSignature == "" {
		writeError(w, "InvalidSignature", "proof_signature is required")
		return
	}
	if s.Deps.Revocation == nil {
		writeError(w, "StorageFailure", "revocation store is not configured")
		return
	}

	var ttl time.Duration
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}
	revokedBy := subjectFromRequest(r)

	if _, err := s.Deps.Revocation.Revoke(r.Context(), req.ProofSignature, req.Reason, revokedBy, ttl); err != nil {
		writeError(w, "StorageFailure", "failed to record revocation")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Status: "success"})
}

type checkResponse struct {
	IsRevoked      bool      `json:"is_revoked"`
	CheckedAt      time.Time `json:"checked_at"`
	ProofSignature string    `json:"proof_signature"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sig := r.PathValue("sig")
	if s.Deps.Revocation == nil {
		writeJSON(w, http.StatusOK, checkResponse{IsRevoked: false, CheckedAt: time.Now(), ProofSignature: sig})
		return
	}
	revoked, err := s.Deps.Revocation.IsRevoked(r.Context(), sig)
	if err != nil {
		writeError(w, "StorageFailure", "revocation lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{
		IsRevoked:      revoked,
		CheckedAt:      time.Now(),
		ProofSignature: sig,
	})
}

type listResponse struct {
	Count        int                 `json:"count"`
	Revocations  []revocation.Entry  `json:"revocations"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.Deps.Revocation == nil {
		writeJSON(w, http.StatusOK, listResponse{Count: 0, Revocations: []revocation.Entry{}})
		return
	}
	entries, err := s.Deps.Revocation.ListActive(r.Context())
	if err != nil {
		writeError(w, "StorageFailure", "failed to list revocations")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(entries), Revocations: entries})
}

type cleanupResponse struct {
	Removed int64 `json:"removed"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if s.Deps.Revocation == nil {
		writeJSON(w, http.StatusOK, cleanupResponse{Removed: 0})
		return
	}
	removed, err := s.Deps.Revocation.CleanupExpired(r.Context())
	if err != nil {
		writeError(w, "StorageFailure", "cleanup failed")
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{Removed: removed})
}

func subjectFromRequest(r *http.Request) string {
	// A bare subject extraction; full claim access would require the
	// Authenticator to stash claims on the request context, which the
	// manage-only write paths here don't yet need.
	if r.Header.Get("Authorization") == "" {
		return "anonymous"
	}
	return "authenticated"
}

func (s *Server) writeRelayError(w http.ResponseWriter, err error) {
	kind := "Internal"
	status := http.StatusInternalServerError
	var relayErr *relay.Error
	if e, ok := err.(*relay.Error); ok {
		relayErr = e
	} else if u, ok := err.(interface{ Unwrap() error }); ok {
		if re, ok2 := u.Unwrap().(*relay.Error); ok2 {
			relayErr = re
		}
	}
	if relayErr != nil {
		kind = string(relayErr.Kind)
		status = relayErr.Kind.HTTPStatus()
	}
	metrics.RequestsTotal.WithLabelValues("POST", "/relay", strconv.Itoa(status)).Inc()
	writeJSON(w, status, errorResponse{Error: kind, Detail: err.Error()})
}

func writeError(w http.ResponseWriter, kind, detail string) {
	status := relay.ErrorKind(kind).HTTPStatus()
	switch kind {
	case "Unauthorized":
		status = http.StatusUnauthorized
	case "Forbidden":
		status = http.StatusForbidden
	}
	writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
