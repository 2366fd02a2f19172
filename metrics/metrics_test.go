// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.VoteRegistered("presidencial")
	m.VoteRegistered("presidencial")
	m.VoteRegistered("regional")
	if got := promtestutil.ToFloat64(m.VotesRegistered.WithLabelValues("presidencial")); got != 2 {
		t.Errorf("votes_registered{presidencial} = %v, want 2", got)
	}

	m.VoteConflict()
	if got := promtestutil.ToFloat64(m.VoteConflicts); got != 1 {
		t.Errorf("vote_conflicts = %v, want 1", got)
	}

	m.ObserveGateway("GET", "voters", 30*time.Millisecond, nil)
	m.ObserveGateway("POST", "votes", 10*time.Millisecond, errors.New("boom"))
	if got := promtestutil.ToFloat64(m.GatewayErrors.WithLabelValues("POST", "votes")); got != 1 {
		t.Errorf("gateway_errors{POST,votes} = %v, want 1", got)
	}

	m.LoginAttempt("admin", true)
	m.LoginAttempt("admin", false)
	if got := promtestutil.ToFloat64(m.LoginAttempts.WithLabelValues("admin", "failure")); got != 1 {
		t.Errorf("login_attempts{admin,failure} = %v, want 1", got)
	}

	m.AuditRun("normalize")
	if got := promtestutil.ToFloat64(m.AuditRuns.WithLabelValues("normalize")); got != 1 {
		t.Errorf("audit_runs{normalize} = %v, want 1", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.VoteRegistered("presidencial")
	m.VoteConflict()
	m.ObserveGateway("GET", "voters", time.Millisecond, nil)
	m.AuditRun("normalize")
	m.LoginAttempt("admin", true)
}
