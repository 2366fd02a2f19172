// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus instruments for the voting
// backend. All recording methods are safe on a nil *Metrics, so engines
// under test need no registry.
package metrics
