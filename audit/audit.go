// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/models"
)

// KeepPolicy decides which vote survives duplicate resolution.
type KeepPolicy string

const (
	// KeepNewest retains the most recently cast vote per (voter,
	// category). Default.
	KeepNewest KeepPolicy = "newest"
	// KeepOldest retains the first vote cast.
	KeepOldest KeepPolicy = "oldest"
)

var dniPattern = regexp.MustCompile(`^\d{8}$`)

// Auditor runs batch integrity operations over the full record sets.
// Operations are serialized behind an internal mutex: a second
// invocation while one is in flight would double-count or
// double-delete.
type Auditor struct {
	mu      sync.Mutex
	store   gateway.Store
	policy  KeepPolicy
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds an auditor. m may be nil.
func New(store gateway.Store, policy KeepPolicy, m *metrics.Metrics) *Auditor {
	if policy != KeepOldest {
		policy = KeepNewest
	}
	return &Auditor{store: store, policy: policy, metrics: m, now: time.Now}
}

// PurgeNullValues deletes records missing required text fields:
// candidates without name, party name, description or photo; voters
// without full name, address, district, province or department; votes
// without voter id, category or candidate id. Returns the count
// deleted. Note that invalidated votes carry a null candidate id by
// design and are swept by this operation.
func (a *Auditor) PurgeNullValues(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("purge_null_values")

	deleted := 0

	candidates, err := a.store.ListCandidates(ctx, "")
	if err != nil {
		return deleted, err
	}
	for _, c := range candidates {
		if blank(c.Name) || blank(c.PartyName) || blank(c.Description) || blank(c.PhotoURL) {
			if err := a.store.DeleteCandidate(ctx, c.ID); err != nil {
				slog.Error("failed to delete candidate", "id", c.ID, "error", err)
				continue
			}
			deleted++
		}
	}

	voters, err := a.store.ListVoters(ctx, "")
	if err != nil {
		return deleted, err
	}
	for _, v := range voters {
		if blank(v.FullName) || blank(v.Address) || blank(v.District) || blank(v.Province) || blank(v.Department) {
			if err := a.store.DeleteVoter(ctx, v.DNI); err != nil {
				slog.Error("failed to delete voter", "dni", v.DNI, "error", err)
				continue
			}
			deleted++
		}
	}

	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{})
	if err != nil {
		return deleted, err
	}
	for _, v := range votes {
		if blank(v.VoterDNI) || blank(v.Category) || v.Invalidated() {
			if err := a.store.DeleteVote(ctx, v.ID); err != nil {
				slog.Error("failed to delete vote", "id", v.ID, "error", err)
				continue
			}
			deleted++
		}
	}

	slog.Info("null-value purge complete", "deleted", deleted)
	return deleted, nil
}

// ResolveDuplicates groups votes by (voter, category) and deletes all
// but one per group, per the configured keep policy. Idempotent: a
// second run deletes nothing. Returns the count deleted.
func (a *Auditor) ResolveDuplicates(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("resolve_duplicates")

	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{OrderBy: "voted_at.desc"})
	if err != nil {
		return 0, err
	}

	groups := make(map[string][]models.Vote)
	for _, v := range votes {
		if v.VoterDNI == "" || v.Category == "" {
			continue
		}
		key := v.VoterDNI + "_" + v.Category
		groups[key] = append(groups[key], v)
	}

	deleted := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			ti, tj := voteTime(group[i]), voteTime(group[j])
			if a.policy == KeepOldest {
				return ti.Before(tj)
			}
			return ti.After(tj)
		})
		for _, v := range group[1:] {
			if err := a.store.DeleteVote(ctx, v.ID); err != nil {
				slog.Error("failed to delete duplicate vote", "id", v.ID, "error", err)
				continue
			}
			deleted++
		}
	}

	slog.Info("duplicate resolution complete", "deleted", deleted, "policy", a.policy)
	return deleted, nil
}

// InvalidDNI is one malformed identifier found by ValidateDNIs.
type InvalidDNI struct {
	DNI    string `json:"dni"`
	Source string `json:"source"` // "voter" or "vote"
	Name   string `json:"name,omitempty"`
}

// ValidateDNIs scans voters and votes for identifiers that are not
// exactly eight digits. Reporting only; nothing is mutated.
func (a *Auditor) ValidateDNIs(ctx context.Context) ([]InvalidDNI, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("validate_dnis")

	var invalid []InvalidDNI

	voters, err := a.store.ListVoters(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, v := range voters {
		if !dniPattern.MatchString(v.DNI) {
			invalid = append(invalid, InvalidDNI{DNI: v.DNI, Source: "voter", Name: v.FullName})
		}
	}

	votes, err := a.store.ListVotes(ctx, gateway.VoteFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, v := range votes {
		if v.VoterDNI != "" && !dniPattern.MatchString(v.VoterDNI) && !seen[v.VoterDNI] {
			seen[v.VoterDNI] = true
			invalid = append(invalid, InvalidDNI{DNI: v.VoterDNI, Source: "vote"})
		}
	}

	slog.Info("dni validation complete", "invalid", len(invalid))
	return invalid, nil
}

// Normalize trims and title-cases free-text name and location fields on
// voters and candidates, persisting only records that actually changed.
// Upserts go against the natural key, so repeated runs are idempotent.
// Returns the count of records changed.
func (a *Auditor) Normalize(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics.AuditRun("normalize")

	changed := 0

	voters, err := a.store.ListVoters(ctx, "")
	if err != nil {
		return 0, err
	}
	for _, v := range voters {
		updated := v
		updated.FullName = NormalizeName(v.FullName)
		updated.Address = strings.TrimSpace(v.Address)
		updated.District = NormalizeName(v.District)
		updated.Province = NormalizeName(v.Province)
		updated.Department = NormalizeName(v.Department)
		if updated == v {
			continue
		}
		if _, err := a.store.UpsertVoter(ctx, updated); err != nil {
			slog.Warn("failed to normalize voter", "dni", v.DNI, "error", err)
			continue
		}
		changed++
	}

	candidates, err := a.store.ListCandidates(ctx, "")
	if err != nil {
		return changed, err
	}
	for _, c := range candidates {
		patch := map[string]interface{}{}
		if n := NormalizeName(c.Name); n != c.Name {
			patch["name"] = n
		}
		if p := strings.TrimSpace(c.PartyName); p != c.PartyName {
			patch["party_name"] = p
		}
		if len(patch) == 0 {
			continue
		}
		if err := a.store.UpdateCandidate(ctx, c.ID, patch); err != nil {
			slog.Warn("failed to normalize candidate", "id", c.ID, "error", err)
			continue
		}
		changed++
	}

	slog.Info("normalization complete", "changed", changed)
	return changed, nil
}

// NormalizeName trims, collapses whitespace and title-cases each word.
func NormalizeName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func voteTime(v models.Vote) time.Time {
	if v.VotedAt == nil {
		return time.Time{}
	}
	return v.VotedAt.Time
}
