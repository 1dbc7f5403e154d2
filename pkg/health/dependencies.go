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

package health

import (
	"context"
	"fmt"
	"time"

	"github.com/proof-messenger/relay/revocation"
	"github.com/proof-messenger/relay/store"
)

// CheckDependencies probes the revocation store and message store this
// relay instance was wired with. Either may be nil (revocation
// checking or persistence disabled by configuration); a nil
// collaborator reports ready, since an absent dependency cannot be
// unreachable.
func CheckDependencies(ctx context.Context, revocationStore revocation.Store, messageStore store.MessageStore) *DependencyHealth {
	health := &DependencyHealth{Status: StatusHealthy, RevocationReady: true, StoreReady: true}

	if revocationStore != nil {
		start := time.Now()
		_, err := revocationStore.IsRevoked(ctx, "")
		health.RevocationLatency = time.Since(start).String()
		if err != nil {
			health.RevocationReady = false
			health.RevocationError = fmt.Sprintf("revocation store unreachable: %v", err)
		}
	}

	if messageStore != nil {
		start := time.Now()
		err := messageStore.Ping(ctx)
		health.StoreLatency = time.Since(start).String()
		if err != nil {
			health.StoreReady = false
			health.StoreError = fmt.Sprintf("message store unreachable: %v", err)
		}
	}

	if !health.RevocationReady || !health.StoreReady {
		health.Status = StatusUnhealthy
	}
	return health
}
