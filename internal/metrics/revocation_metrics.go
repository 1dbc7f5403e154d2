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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RevocationsCreated tracks revoke calls, labeled by whether they
	// created a new entry or refreshed an existing active one.
	RevocationsCreated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revocation",
			Name:      "created_total",
			Help:      "Total number of revocation entries created or refreshed",
		},
		[]string{"outcome"}, // created, refreshed
	)

	// ActiveRevocations tracks the current number of non-expired entries.
	ActiveRevocations = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "revocation",
			Name:      "active",
			Help:      "Number of currently active revocation entries",
		},
	)

	// SweepsRun tracks background sweeper executions.
	SweepsRun = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revocation",
			Name:      "sweeps_total",
			Help:      "Total number of revocation sweep runs",
		},
	)

	// SweepEntriesRemoved tracks entries purged by the sweeper.
	SweepEntriesRemoved = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revocation",
			Name:      "sweep_entries_removed_total",
			Help:      "Total number of expired revocation entries removed by sweeps",
		},
	)

	// SweepDuration tracks sweep latency.
	SweepDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "revocation",
			Name:      "sweep_duration_seconds",
			Help:      "Revocation sweep duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to 2s
		},
	)
)
