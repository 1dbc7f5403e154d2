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

// Package websocket streams relay.Message submissions and
// relay.Accepted/error results over a single persistent connection,
// for clients that want to pipeline many proofs without the overhead
// of a new HTTP request per message.
package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/proof-messenger/relay/internal/logger"
	"github.com/proof-messenger/relay/relay"
)

// wireMessage is the WebSocket wire format for a relay submission.
type wireMessage struct {
	RequestID string `json:"request_id,omitempty"`
	Sender    string `json:"sender"`
	Context   string `json:"context"`
	Signature string `json:"proof"`
	Body      string `json:"body,omitempty"`
	Group     string `json:"group,omitempty"`
}

// wireResult is the WebSocket wire format for a relay outcome.
type wireResult struct {
	RequestID string `json:"request_id,omitempty"`
	Accepted  bool   `json:"accepted"`
	ID        string `json:"id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Server streams relay submissions over persistent WebSocket
// connections, verifying each message against the same relay.Deps a
// transport/http.Server would use.
type Server struct {
	Deps   relay.Deps
	Logger logger.Logger

	upgrader     websocket.Upgrader
	readTimeout  time.Duration
	writeTimeout time.Duration

	connections map[*websocket.Conn]bool
	connMu      sync.RWMutex
}

// NewServer creates a relay-streaming WebSocket server.
func NewServer(deps relay.Deps, log logger.Logger) *Server {
	return &Server{
		Deps:   deps,
		Logger: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		readTimeout:  60 * time.Second,
		writeTimeout: 30 * time.Second,
		connections:  make(map[*websocket.Conn]bool),
	}
}

// Handler returns an http.Handler that upgrades to WebSocket and
// streams relay submissions, intended to be mounted at /relay/stream.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, fmt.Sprintf("websocket upgrade failed: %v", err), http.StatusBadRequest)
			return
		}

		s.addConnection(conn)
		defer s.removeConnection(conn)
		defer func() { _ = conn.Close() }()

		s.handleConnection(r.Context(), conn)
	})
}

func (s *Server) handleConnection(ctx context.Context, conn *websocket.Conn) {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			return
		}

		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.Logger.Warn("websocket read error", logger.Error(err))
			}
			return
		}

		accepted, err := relay.ProcessAndVerify(ctx, relay.Message{
			SenderHex:    msg.Sender,
			ContextHex:   msg.Context,
			SignatureHex: msg.Signature,
			Body:         msg.Body,
			GroupID:      msg.Group,
		}, s.Deps)

		result := wireResult{RequestID: msg.RequestID}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Accepted = true
			result.ID = accepted.StoredID
		}
		s.sendResult(conn, &result)
	}
}

func (s *Server) sendResult(conn *websocket.Conn, result *wireResult) {
	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		s.Logger.Error("failed to set write deadline", logger.Error(err))
		return
	}
	if err := conn.WriteJSON(result); err != nil {
		s.Logger.Error("failed to write relay result", logger.Error(err))
	}
}

func (s *Server) addConnection(conn *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.connections[conn] = true
}

func (s *Server) removeConnection(conn *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.connections, conn)
}

// ConnectionCount returns the number of active streaming connections.
func (s *Server) ConnectionCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return len(s.connections)
}

// Close closes every active connection, sending a normal-closure frame
// first.
func (s *Server) Close() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	for conn := range s.connections {
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		_ = conn.Close()
	}
	s.connections = make(map[*websocket.Conn]bool)
	return nil
}
