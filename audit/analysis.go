// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/models"
)

// Votes cast outside this local-time window count as out-of-hours.
const (
	votingOpensHour  = 8
	votingClosesHour = 18
)

// Consecutive votes by the same voter under this gap count as
// rapid-succession pairs.
const rapidSuccessionWindow = 5 * time.Minute

// trendWindow caps the chart series at the most recent daily buckets.
const trendWindow = 14

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TrendAnalysis struct {
	Upward   int `json:"upward"`
	Downward int `json:"downward"`
	Stable   int `json:"stable"`
}

type TrendReport struct {
	HasData         bool          `json:"hasData"`
	Message         string        `json:"message,omitempty"`
	Points          []TrendPoint  `json:"trendPoints,omitempty"`
	Analysis        TrendAnalysis `json:"trendAnalysis"`
	TotalDataPoints int           `json:"totalDataPoints"`
	// Full date-bucketed series for downstream modeling.
	Series []TrendPoint `json:"rawVotesByDate,omitempty"`
}

// AnalyzeTrends buckets votes by calendar date, returns the last (up
// to) 14 daily buckets, and classifies day-over-day deltas as a
// percentage breakdown across the whole series.
func (a *Auditor) AnalyzeTrends(ctx context.Context) (*TrendReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("analyze_trends")

	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{OrderBy: "voted_at.asc"})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range votes {
		if v.VotedAt == nil || v.VotedAt.IsZero() {
			continue
		}
		counts[v.VotedAt.Format("2006-01-02")]++
	}
	if len(counts) == 0 {
		return &TrendReport{HasData: false, Message: "not enough data to analyze trends"}, nil
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make([]TrendPoint, len(dates))
	for i, d := range dates {
		series[i] = TrendPoint{Date: d, Count: counts[d]}
	}

	start := 0
	if len(series) > trendWindow {
		start = len(series) - trendWindow
	}
	points := series[start:]

	var analysis TrendAnalysis
	if len(series) >= 2 {
		up, down, flat := 0, 0, 0
		for i := 1; i < len(series); i++ {
			switch {
			case series[i].Count > series[i-1].Count:
				up++
			case series[i].Count < series[i-1].Count:
				down++
			default:
				flat++
			}
		}
		total := up + down + flat
		analysis = TrendAnalysis{
			Upward:   up * 100 / total,
			Downward: down * 100 / total,
			Stable:   flat * 100 / total,
		}
	}

	return &TrendReport{
		HasData:         true,
		Points:          points,
		Analysis:        analysis,
		TotalDataPoints: len(series),
		Series:          series,
	}, nil
}

type Anomaly struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Severity string `json:"severity"` // low | medium | high
}

type AnomalyPattern struct {
	Pattern     string `json:"pattern"`
	Frequency   int    `json:"frequency"`
	Description string `json:"description"`
}

type AnomalyReport struct {
	HasData    bool             `json:"hasData"`
	Message    string           `json:"message,omitempty"`
	Anomalies  []Anomaly        `json:"anomalies,omitempty"`
	Patterns   []AnomalyPattern `json:"anomalyPatterns,omitempty"`
	TotalVotes int              `json:"totalVotes"`
}

// DetectAnomalies computes three independent signals over the full vote
// set: duplicate votes by (voter, category), votes outside the
// 08:00-18:00 window, and same-voter vote pairs under five minutes
// apart. Counting only; nothing is repaired here.
func (a *Auditor) DetectAnomalies(ctx context.Context) (*AnomalyReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("detect_anomalies")

	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{})
	if err != nil {
		return nil, err
	}

	duplicates := countDuplicates(votes)
	outOfHours := countOutOfHours(votes)
	rapid := countRapidSuccession(votes)

	var anomalies []Anomaly
	var patterns []AnomalyPattern
	if duplicates > 0 {
		anomalies = append(anomalies, Anomaly{
			Type:     "duplicate",
			Count:    duplicates,
			Severity: severity(duplicates, 10, 5),
		})
		patterns = append(patterns, AnomalyPattern{
			Pattern:     "duplicate",
			Frequency:   duplicates,
			Description: "multiple votes from the same voter in the same category",
		})
	}
	if outOfHours > 0 {
		anomalies = append(anomalies, Anomaly{
			Type:     "out_of_hours",
			Count:    outOfHours,
			Severity: severity(outOfHours, 20, 10),
		})
		patterns = append(patterns, AnomalyPattern{
			Pattern:     "out_of_hours",
			Frequency:   outOfHours,
			Description: "votes recorded outside normal voting hours (8am-6pm)",
		})
	}
	if rapid > 0 {
		anomalies = append(anomalies, Anomaly{
			Type:     "rapid_succession",
			Count:    rapid,
			Severity: severity(rapid, 15, 8),
		})
		patterns = append(patterns, AnomalyPattern{
			Pattern:     "rapid_succession",
			Frequency:   rapid,
			Description: "multiple votes from the same voter less than 5 minutes apart",
		})
	}

	if len(anomalies) == 0 {
		return &AnomalyReport{HasData: false, Message: "no anomalies detected", TotalVotes: len(votes)}, nil
	}
	return &AnomalyReport{
		HasData:    true,
		Anomalies:  anomalies,
		Patterns:   patterns,
		TotalVotes: len(votes),
	}, nil
}

// countDuplicates counts votes beyond the first per (voter, category),
// the same grouping ResolveDuplicates deletes, counted instead.
func countDuplicates(votes []models.Vote) int {
	seen := make(map[string]int)
	duplicates := 0
	for _, v := range votes {
		if v.VoterDNI == "" || v.Category == "" {
			continue
		}
		key := v.VoterDNI + "_" + v.Category
		if seen[key] > 0 {
			duplicates++
		}
		seen[key]++
	}
	return duplicates
}

func countOutOfHours(votes []models.Vote) int {
	n := 0
	for _, v := range votes {
		if v.VotedAt == nil || v.VotedAt.IsZero() {
			continue
		}
		hour := v.VotedAt.Hour()
		if hour < votingOpensHour || hour >= votingClosesHour {
			n++
		}
	}
	return n
}

func countRapidSuccession(votes []models.Vote) int {
	byVoter := make(map[string][]time.Time)
	for _, v := range votes {
		if v.VoterDNI == "" || v.VotedAt == nil || v.VotedAt.IsZero() {
			continue
		}
		byVoter[v.VoterDNI] = append(byVoter[v.VoterDNI], v.VotedAt.Time)
	}

	pairs := 0
	for _, times := range byVoter {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for i := 1; i < len(times); i++ {
			if times[i].Sub(times[i-1]) < rapidSuccessionWindow {
				pairs++
			}
		}
	}
	return pairs
}

func severity(count, high, medium int) string {
	switch {
	case count > high:
		return "high"
	case count > medium:
		return "medium"
	default:
		return "low"
	}
}

type RegionParticipation struct {
	Rate  float64 `json:"rate"`
	Voted int     `json:"voted"`
	Total int     `json:"total"`
}

type ParticipationReport struct {
	HasData       bool                           `json:"hasData"`
	Message       string                         `json:"message,omitempty"`
	ByRegion      map[string]RegionParticipation `json:"participationByRegion,omitempty"`
	ByDemographic map[string]float64             `json:"participationByDemographic,omitempty"`
	TotalVoters   int                            `json:"totalVoters"`
	TotalVoted    int                            `json:"totalVoted"`
}

// Demographic buckets are fixed multipliers of the overall rate: a
// placeholder until real demographic data exists, not a statistical
// model.
var demographicMultipliers = map[string]float64{
	"18-30": 0.90,
	"31-50": 1.10,
	"51-70": 1.05,
	"70+":   0.85,
	"urban": 1.05,
	"rural": 0.95,
}

// AnalyzeParticipation joins voters to votes by DNI and computes a
// participation rate per department, plus the placeholder demographic
// breakdown. Rates are percentages rounded to one decimal.
func (a *Auditor) AnalyzeParticipation(ctx context.Context) (*ParticipationReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("analyze_participation")

	voters, err := a.store.ListVoters(ctx, "")
	if err != nil {
		return nil, err
	}
	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{})
	if err != nil {
		return nil, err
	}

	voted := make(map[string]bool)
	for _, v := range votes {
		if v.VoterDNI != "" {
			voted[v.VoterDNI] = true
		}
	}

	totalByRegion := make(map[string]int)
	votedByRegion := make(map[string]int)
	for _, v := range voters {
		if v.Department == "" || v.DNI == "" {
			continue
		}
		totalByRegion[v.Department]++
		if voted[v.DNI] {
			votedByRegion[v.Department]++
		}
	}

	if len(totalByRegion) == 0 {
		return &ParticipationReport{HasData: false, Message: "not enough data to analyze participation"}, nil
	}

	byRegion := make(map[string]RegionParticipation, len(totalByRegion))
	for region, total := range totalByRegion {
		n := votedByRegion[region]
		byRegion[region] = RegionParticipation{
			Rate:  round1(float64(n) * 100 / float64(total)),
			Voted: n,
			Total: total,
		}
	}

	byDemographic := make(map[string]float64, len(demographicMultipliers))
	if len(voters) > 0 {
		overall := float64(len(voted)) * 100 / float64(len(voters))
		for bucket, mult := range demographicMultipliers {
			byDemographic[bucket] = round1(overall * mult)
		}
	}

	return &ParticipationReport{
		HasData:       true,
		ByRegion:      byRegion,
		ByDemographic: byDemographic,
		TotalVoters:   len(voters),
		TotalVoted:    len(voted),
	}, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
