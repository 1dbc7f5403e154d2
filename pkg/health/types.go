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

// Package health reports the relay's own liveness/readiness and the
// reachability of its storage collaborators (the revocation store, the
// message store), for use by container orchestrators and operators.
package health

import "time"

// Status represents the overall health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// HealthStatus represents the complete health status of the system
type HealthStatus struct {
	Status           Status             `json:"status"`
	Timestamp        time.Time          `json:"timestamp"`
	DependencyStatus *DependencyHealth  `json:"dependencies,omitempty"`
	SystemStatus     *SystemHealth      `json:"system,omitempty"`
	Errors           []string           `json:"errors,omitempty"`
}

// DependencyHealth reports whether the revocation store and message
// store this relay instance was configured with are reachable.
type DependencyHealth struct {
	Status            Status `json:"status"`
	RevocationReady    bool   `json:"revocation_ready"`
	RevocationLatency  string `json:"revocation_latency,omitempty"`
	RevocationError    string `json:"revocation_error,omitempty"`
	StoreReady         bool   `json:"store_ready"`
	StoreLatency       string `json:"store_latency,omitempty"`
	StoreError         string `json:"store_error,omitempty"`
}

// SystemHealth represents system resource health
type SystemHealth struct {
	Status         Status  `json:"status"`
	MemoryUsedMB   uint64  `json:"memory_used_mb"`
	MemoryTotalMB  uint64  `json:"memory_total_mb"`
	MemoryPercent  float64 `json:"memory_percent"`
	CPUPercent     float64 `json:"cpu_percent"`
	DiskUsedGB     uint64  `json:"disk_used_gb"`
	DiskTotalGB    uint64  `json:"disk_total_gb"`
	DiskPercent    float64 `json:"disk_percent"`
	GoRoutines     int     `json:"goroutines"`
	Error          string  `json:"error,omitempty"`
}
