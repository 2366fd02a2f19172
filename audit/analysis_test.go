// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrondan/sufragio/models"
	"github.com/jrondan/sufragio/testutil"
)

func TestAnalyzeTrends(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		a := New(testutil.NewFakeStore(), KeepNewest, nil)
		report, err := a.AnalyzeTrends(context.Background())
		require.NoError(t, err)
		require.False(t, report.HasData)
		require.NotEmpty(t, report.Message)
	})

	t.Run("buckets and direction", func(t *testing.T) {
		store := testutil.NewFakeStore()
		// day 1: 1 vote, day 2: 3 votes, day 3: 2 votes
		store.SeedVote(models.Vote{ID: "a", VoterDNI: "10000001", CandidateID: ptr("c"), Category: "regional", VotedAt: at(1, 10, 0)})
		for i := 0; i < 3; i++ {
			store.SeedVote(models.Vote{ID: fmt.Sprintf("b%d", i), VoterDNI: fmt.Sprintf("2000000%d", i), CandidateID: ptr("c"), Category: "regional", VotedAt: at(2, 10, i)})
		}
		for i := 0; i < 2; i++ {
			store.SeedVote(models.Vote{ID: fmt.Sprintf("c%d", i), VoterDNI: fmt.Sprintf("3000000%d", i), CandidateID: ptr("c"), Category: "regional", VotedAt: at(3, 10, i)})
		}

		a := New(store, KeepNewest, nil)
		report, err := a.AnalyzeTrends(context.Background())
		require.NoError(t, err)
		require.True(t, report.HasData)
		require.Equal(t, 3, report.TotalDataPoints)
		require.Equal(t, []TrendPoint{
			{Date: "2026-04-01", Count: 1},
			{Date: "2026-04-02", Count: 3},
			{Date: "2026-04-03", Count: 2},
		}, report.Points)
		// One rising delta, one falling, out of two
		require.Equal(t, 50, report.Analysis.Upward)
		require.Equal(t, 50, report.Analysis.Downward)
		require.Equal(t, 0, report.Analysis.Stable)
	})

	t.Run("window caps at fourteen buckets", func(t *testing.T) {
		store := testutil.NewFakeStore()
		for day := 1; day <= 20; day++ {
			store.SeedVote(models.Vote{
				ID:          fmt.Sprintf("d%d", day),
				VoterDNI:    fmt.Sprintf("%08d", day),
				CandidateID: ptr("c"),
				Category:    "regional",
				VotedAt:     at(day, 12, 0),
			})
		}

		a := New(store, KeepNewest, nil)
		report, err := a.AnalyzeTrends(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Points, 14)
		require.Equal(t, "2026-04-07", report.Points[0].Date)
		require.Equal(t, "2026-04-20", report.Points[13].Date)
		require.Equal(t, 20, report.TotalDataPoints)
	})
}

func TestDetectAnomalies(t *testing.T) {
	t.Run("clean data", func(t *testing.T) {
		store := testutil.NewFakeStore()
		store.SeedVote(models.Vote{ID: "v", VoterDNI: "12345678", CandidateID: ptr("c"), Category: "regional", VotedAt: at(10, 12, 0)})

		a := New(store, KeepNewest, nil)
		report, err := a.DetectAnomalies(context.Background())
		require.NoError(t, err)
		require.False(t, report.HasData)
		require.Equal(t, 1, report.TotalVotes)
	})

	t.Run("duplicate severity", func(t *testing.T) {
		store := testutil.NewFakeStore()
		// 12 duplicates past the first: high (threshold > 10)
		for i := 0; i < 13; i++ {
			store.SeedVote(models.Vote{
				ID:          fmt.Sprintf("dup%d", i),
				VoterDNI:    "12345678",
				CandidateID: ptr("c"),
				Category:    "presidencial",
				// Spread out to stay clear of the rapid-succession signal
				VotedAt: at(10, 9, i*6),
			})
		}

		a := New(store, KeepNewest, nil)
		report, err := a.DetectAnomalies(context.Background())
		require.NoError(t, err)
		require.True(t, report.HasData)

		dup := findAnomaly(t, report, "duplicate")
		require.Equal(t, 12, dup.Count)
		require.Equal(t, "high", dup.Severity)
	})

	t.Run("out of hours", func(t *testing.T) {
		store := testutil.NewFakeStore()
		hours := []int{6, 7, 19, 23, 18} // all outside 08:00-18:00
		for i, h := range hours {
			store.SeedVote(models.Vote{
				ID:          fmt.Sprintf("oh%d", i),
				VoterDNI:    fmt.Sprintf("%08d", i),
				CandidateID: ptr("c"),
				Category:    "regional",
				VotedAt:     at(10, h, 0),
			})
		}
		// In-hours boundary cases must not count.
		store.SeedVote(models.Vote{ID: "open", VoterDNI: "90000000", CandidateID: ptr("c"), Category: "regional", VotedAt: at(10, 8, 0)})
		store.SeedVote(models.Vote{ID: "late", VoterDNI: "90000001", CandidateID: ptr("c"), Category: "regional", VotedAt: at(10, 17, 59)})

		a := New(store, KeepNewest, nil)
		report, err := a.DetectAnomalies(context.Background())
		require.NoError(t, err)

		ooh := findAnomaly(t, report, "out_of_hours")
		require.Equal(t, 5, ooh.Count)
		require.Equal(t, "low", ooh.Severity)
	})

	t.Run("rapid succession", func(t *testing.T) {
		store := testutil.NewFakeStore()
		// Three votes 2 minutes apart: two pairs under the window.
		for i := 0; i < 3; i++ {
			store.SeedVote(models.Vote{
				ID:          fmt.Sprintf("rs%d", i),
				VoterDNI:    "12345678",
				CandidateID: ptr("c"),
				Category:    fmt.Sprintf("cat%d", i), // distinct, no duplicate signal
				VotedAt:     at(10, 10, i*2),
			})
		}

		a := New(store, KeepNewest, nil)
		report, err := a.DetectAnomalies(context.Background())
		require.NoError(t, err)

		rs := findAnomaly(t, report, "rapid_succession")
		require.Equal(t, 2, rs.Count)
		require.Equal(t, "low", rs.Severity)
	})
}

func findAnomaly(t *testing.T, report *AnomalyReport, typ string) Anomaly {
	t.Helper()
	for _, a := range report.Anomalies {
		if a.Type == typ {
			return a
		}
	}
	t.Fatalf("anomaly %q not reported", typ)
	return Anomaly{}
}

func TestSeverityThresholds(t *testing.T) {
	tests := []struct {
		count, high, medium int
		want                string
	}{
		{11, 10, 5, "high"},
		{10, 10, 5, "medium"},
		{6, 10, 5, "medium"},
		{5, 10, 5, "low"},
		{1, 10, 5, "low"},
		{21, 20, 10, "high"},
		{16, 15, 8, "high"},
	}

	for _, tt := range tests {
		if got := severity(tt.count, tt.high, tt.medium); got != tt.want {
			t.Errorf("severity(%d, %d, %d) = %q, want %q", tt.count, tt.high, tt.medium, got, tt.want)
		}
	}
}

func TestAnalyzeParticipation(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		a := New(testutil.NewFakeStore(), KeepNewest, nil)
		report, err := a.AnalyzeParticipation(context.Background())
		require.NoError(t, err)
		require.False(t, report.HasData)
	})

	t.Run("per department", func(t *testing.T) {
		store := testutil.NewFakeStore()
		store.SeedVoter(models.Voter{DNI: "10000001", FullName: "A", Department: "Lima"})
		store.SeedVoter(models.Voter{DNI: "10000002", FullName: "B", Department: "Lima"})
		store.SeedVoter(models.Voter{DNI: "10000003", FullName: "C", Department: "Lima"})
		store.SeedVoter(models.Voter{DNI: "20000001", FullName: "D", Department: "Cusco"})
		store.SeedVote(models.Vote{ID: "v1", VoterDNI: "10000001", CandidateID: ptr("c"), Category: "regional", VotedAt: at(10, 10, 0)})
		store.SeedVote(models.Vote{ID: "v2", VoterDNI: "10000002", CandidateID: ptr("c"), Category: "regional", VotedAt: at(10, 10, 1)})

		a := New(store, KeepNewest, nil)
		report, err := a.AnalyzeParticipation(context.Background())
		require.NoError(t, err)
		require.True(t, report.HasData)
		require.Equal(t, 4, report.TotalVoters)
		require.Equal(t, 2, report.TotalVoted)

		lima := report.ByRegion["Lima"]
		require.Equal(t, 2, lima.Voted)
		require.Equal(t, 3, lima.Total)
		require.InDelta(t, 66.7, lima.Rate, 0.01)

		cusco := report.ByRegion["Cusco"]
		require.Equal(t, 0, cusco.Voted)
		require.Equal(t, 0.0, cusco.Rate)

		// Demographic buckets are multipliers of the overall 50% rate.
		require.InDelta(t, 45.0, report.ByDemographic["18-30"], 0.01)
		require.InDelta(t, 55.0, report.ByDemographic["31-50"], 0.01)
		require.InDelta(t, 52.5, report.ByDemographic["urban"], 0.01)
		require.InDelta(t, 47.5, report.ByDemographic["rural"], 0.01)
	})
}
