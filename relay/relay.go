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
	"time"

	"filippo.io/edwards25519"
	"github.com/google/uuid"

	"github.com/proof-messenger/relay/internal/logger"
	"github.com/proof-messenger/relay/internal/metrics"
	"github.com/proof-messenger/relay/proof"
	"github.com/proof-messenger/relay/revocation"
	"github.com/proof-messenger/relay/store"
)

// Message is the untrusted wire input to ProcessAndVerify: every field
// arrives hex-encoded text, exactly as a caller would submit it over
// the HTTP transport.
type Message struct {
	SenderHex    string
	ContextHex   string
	SignatureHex string
	Body         string
	GroupID      string
}

// Accepted is returned once a message clears every check.
type Accepted struct {
	StoredID  string
	Sender    [32]byte
	AcceptedAt time.Time
}

// Config bounds ProcessAndVerify's context handling; it is the relay
// slice of the application Config, passed explicitly rather than read
// from a package global.
type Config struct {
	StrictContextMode bool
	MaxContextBytes   int
}

// Deps collects ProcessAndVerify's collaborators. All fields are
// optional except Config: a nil Revocation skips the revocation check,
// a nil Store skips persistence (verify-only mode), and a nil Clock
// defaults to time.Now.
type Deps struct {
	Revocation revocation.Store
	Store      store.MessageStore
	Config     Config
	Clock      func() time.Time
	Logger     logger.Logger
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// ProcessAndVerify runs the seven-step relay algorithm against msg:
//
//  1. parse sender as a 32-byte, on-curve Ed25519 public key
//  2. hex-decode the context and enforce length bounds
//  3. parse the signature as exactly 64 bytes
//  4. if a revocation store is configured, reject already-revoked signatures
//  5. verify the signature over the context
//  6. if a message store is configured, persist the accepted message
//  7. return Accepted
//
// Steps run in this exact order: the revocation check happens before
// the (more expensive) cryptographic verification, so a revoked
// signature is rejected without spending a scalar multiplication on it.
func ProcessAndVerify(ctx context.Context, msg Message, deps Deps) (Accepted, error) {
	start := time.Now()
	log := deps.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	result, err := processAndVerify(ctx, msg, deps)

	elapsed := time.Since(start)
	metrics.RelayProcessingDuration.Observe(elapsed.Seconds())
	metrics.MessageSize.Observe(float64(len(msg.Body)))

	if err != nil {
		var relayErr *Error
		kind := KindInternal
		if asRelayError(err, &relayErr) {
			kind = relayErr.Kind
		}
		metrics.RelayRejected.WithLabelValues(string(kind)).Inc()

		fields := []logger.Field{
			logger.String("kind", string(kind)),
			logger.String("sender", truncateHex(msg.SenderHex)),
			logger.Duration("elapsed", elapsed),
		}
		if kind.ClientFault() {
			log.Warn("relay rejected message", fields...)
		} else {
			log.Error("relay rejected message", append(fields, logger.Error(err))...)
		}
		return Accepted{}, err
	}

	metrics.RelayAccepted.Inc()
	log.Info("relay accepted message",
		logger.String("sender", truncateHex(msg.SenderHex)),
		logger.String("stored_id", result.StoredID),
		logger.Duration("elapsed", elapsed),
	)
	return result, nil
}

func processAndVerify(ctx context.Context, msg Message, deps Deps) (Accepted, error) {
	// Step 1: parse sender.
	sender, err := parseSender(msg.SenderHex)
	if err != nil {
		return Accepted{}, err
	}

	// Step 2: parse and bound the context.
	context, err := parseContext(msg.ContextHex, deps.Config)
	if err != nil {
		return Accepted{}, err
	}

	// Step 3: parse the signature.
	sig, err := parseSignature(msg.SignatureHex)
	if err != nil {
		return Accepted{}, err
	}

	// Step 4: revocation check, ahead of the crypto work.
	if deps.Revocation != nil {
		t0 := time.Now()
		revoked, err := deps.Revocation.IsRevoked(ctx, msg.SignatureHex)
		metrics.GetGlobalCollector().RecordRevocationCheck(revoked, time.Since(t0))
		if err != nil {
			return Accepted{}, wrapError(KindStorageFailure, "revocation check failed", err)
		}
		if revoked {
			return Accepted{}, newError(KindProofRevoked, "signature has been revoked")
		}
	}

	// Step 5: verify the signature.
	if err := proof.Verify(sender, context, sig, deps.Config.StrictContextMode); err != nil {
		return Accepted{}, translateProofError(err)
	}

	// Step 6: persist, if a store is configured.
	var storedID string
	if deps.Store != nil {
		record := store.Message{
			GroupID:   groupOrDefault(msg.GroupID),
			Sender:    sender,
			Context:   context,
			Body:      msg.Body,
			Proof:     sig,
			CreatedAt: deps.now(),
			Verified:  true,
		}
		saved, err := deps.Store.Append(ctx, record)
		if err != nil {
			return Accepted{}, wrapError(KindStorageFailure, "failed to persist accepted message", err)
		}
		storedID = saved.ID
	} else {
		storedID = uuid.NewString()
	}

	// Step 7: accept.
	return Accepted{
		StoredID:   storedID,
		Sender:     sender,
		AcceptedAt: deps.now(),
	}, nil
}

func parseSender(senderHex string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(senderHex)
	if err != nil {
		return out, wrapError(KindInvalidPublicKey, "sender is not valid hex", err)
	}
	if len(raw) != 32 {
		return out, newError(KindInvalidPublicKey, "sender must be 32 bytes")
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return out, wrapError(KindInvalidPublicKey, "sender is not a valid curve point", err)
	}
	copy(out[:], raw)
	return out, nil
}

func parseContext(contextHex string, cfg Config) ([]byte, error) {
	raw, err := hex.DecodeString(contextHex)
	if err != nil {
		return nil, wrapError(KindInvalidContext, "context is not valid hex", err)
	}
	if cfg.StrictContextMode && len(raw) == 0 {
		return nil, newError(KindEmptyContext, "context must not be empty in strict mode")
	}
	max := cfg.MaxContextBytes
	if max <= 0 {
		max = proof.MaxContextBytes
	}
	if len(raw) > max {
		return nil, newError(KindInvalidContext, "context exceeds maximum size")
	}
	return raw, nil
}

func parseSignature(sigHex string) ([64]byte, error) {
	var out [64]byte
	raw, err := hex.DecodeString(sigHex)
	if err != nil {
		return out, wrapError(KindInvalidSignature, "signature is not valid hex", err)
	}
	if len(raw) != 64 {
		return out, newError(KindInvalidSignature, "signature must be 64 bytes")
	}
	copy(out[:], raw)
	return out, nil
}

func translateProofError(err error) error {
	var pe *proof.Error
	if e, ok := err.(*proof.Error); ok {
		pe = e
	}
	if pe == nil {
		return wrapError(KindInternal, "verification failed", err)
	}
	switch pe.Kind {
	case proof.KindEmptyContext:
		return wrapError(KindEmptyContext, pe.Message, err)
	case proof.KindContextTooLarge:
		return wrapError(KindInvalidContext, pe.Message, err)
	case proof.KindVerificationFailed:
		return wrapError(KindVerificationFailed, pe.Message, err)
	default:
		return wrapError(KindVerificationFailed, pe.Message, err)
	}
}

func groupOrDefault(groupID string) string {
	if groupID == "" {
		return store.DefaultGroupID
	}
	return groupID
}

func truncateHex(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}

func asRelayError(err error, target **Error) bool {
	for err != nil {
		if re, ok := err.(*Error); ok {
			*target = re
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
