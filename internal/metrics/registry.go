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

// Package metrics wires Prometheus instrumentation for the relay:
// cryptographic operation counters, revocation-store gauges, and
// transport-level request counters, all registered under one
// dedicated registry rather than the global default so that a single
// process can host more than one instrumented component in tests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "proof_messenger"

// Registry is the Prometheus registry every collector in this package
// registers against. Kept as a package variable (rather than the
// global prometheus.DefaultRegisterer) so tests can spin up isolated
// collector sets without cross-test collisions.
var Registry = prometheus.NewRegistry()
