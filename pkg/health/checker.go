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
	"time"

	"github.com/proof-messenger/relay/revocation"
	"github.com/proof-messenger/relay/store"
)

// Checker performs health checks against the relay's own process
// state and its configured storage collaborators.
type Checker struct {
	revocationStore revocation.Store
	messageStore    store.MessageStore
}

// NewChecker creates a new health checker. Either store may be nil.
func NewChecker(revocationStore revocation.Store, messageStore store.MessageStore) *Checker {
	return &Checker{
		revocationStore: revocationStore,
		messageStore:    messageStore,
	}
}

// CheckAll performs all health checks
func (c *Checker) CheckAll(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Status:    StatusHealthy,
		Errors:    make([]string, 0),
	}

	status.DependencyStatus = CheckDependencies(ctx, c.revocationStore, c.messageStore)
	if status.DependencyStatus.Status != StatusHealthy {
		status.Status = status.DependencyStatus.Status
		if status.DependencyStatus.RevocationError != "" {
			status.Errors = append(status.Errors, "Revocation: "+status.DependencyStatus.RevocationError)
		}
		if status.DependencyStatus.StoreError != "" {
			status.Errors = append(status.Errors, "Store: "+status.DependencyStatus.StoreError)
		}
	}

	status.SystemStatus = CheckSystem()
	if status.SystemStatus.Status != StatusHealthy {
		if status.Status == StatusHealthy {
			status.Status = status.SystemStatus.Status
		} else if status.SystemStatus.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
		if status.SystemStatus.Error != "" {
			status.Errors = append(status.Errors, "System: "+status.SystemStatus.Error)
		}
	}

	return status
}
