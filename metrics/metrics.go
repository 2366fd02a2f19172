// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the backend's Prometheus instruments. A nil *Metrics is
// valid and records nothing, so tests can skip registration entirely.
type Metrics struct {
	VotesRegistered *prometheus.CounterVec
	VoteConflicts   prometheus.Counter
	GatewayRequests *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec
	AuditRuns       *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
}

// New registers the instrument set against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotesRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sufragio",
				Name:      "votes_registered_total",
				Help:      "Total number of votes committed, by category",
			},
			[]string{"category"},
		),
		VoteConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sufragio",
				Name:      "vote_conflicts_total",
				Help:      "Total number of rejected duplicate votes",
			},
		),
		GatewayRequests: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sufragio",
				Name:      "gateway_request_seconds",
				Help:      "Latency of persistence gateway calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "table"},
		),
		GatewayErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sufragio",
				Name:      "gateway_errors_total",
				Help:      "Total number of failed gateway calls",
			},
			[]string{"method", "table"},
		),
		AuditRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sufragio",
				Name:      "audit_runs_total",
				Help:      "Total number of auditor operations executed",
			},
			[]string{"operation"},
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sufragio",
				Name:      "login_attempts_total",
				Help:      "Administrator login attempts, by tier and outcome",
			},
			[]string{"tier", "outcome"},
		),
	}
}

// ObserveGateway records one gateway call. Safe on a nil receiver.
func (m *Metrics) ObserveGateway(method, table string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.GatewayRequests.WithLabelValues(method, table).Observe(d.Seconds())
	if err != nil {
		m.GatewayErrors.WithLabelValues(method, table).Inc()
	}
}

// VoteRegistered counts one committed vote. Safe on a nil receiver.
func (m *Metrics) VoteRegistered(category string) {
	if m == nil {
		return
	}
	m.VotesRegistered.WithLabelValues(category).Inc()
}

// VoteConflict counts one duplicate rejection. Safe on a nil receiver.
func (m *Metrics) VoteConflict() {
	if m == nil {
		return
	}
	m.VoteConflicts.Inc()
}

// AuditRun counts one auditor operation. Safe on a nil receiver.
func (m *Metrics) AuditRun(operation string) {
	if m == nil {
		return
	}
	m.AuditRuns.WithLabelValues(operation).Inc()
}

// LoginAttempt counts one login, outcome "success" or "failure". Safe on
// a nil receiver.
func (m *Metrics) LoginAttempt(tier string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.LoginAttempts.WithLabelValues(tier, outcome).Inc()
}
