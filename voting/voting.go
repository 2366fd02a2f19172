// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrondan/sufragio/apperr"
	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/models"
)

// Service implements the vote registration protocol against the record
// store. It holds no cross-request state; exclusivity ultimately rests
// on the store's (voter_dni, category) uniqueness constraint.
type Service struct {
	store   gateway.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService builds a voting service. m may be nil.
func NewService(store gateway.Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register commits the voter's selections as votes, in list order, one
// category each.
//
// A failure aborts the remaining selections but does NOT roll back
// votes already committed in this call; the store has no multi-record
// transactions. Callers must treat a failed response as "some votes may
// have been recorded" and re-query CategoriesVoted before retrying.
func (s *Service) Register(ctx context.Context, voterDNI string, selections []models.VoteSelection) error {
	if len(selections) == 0 {
		return apperr.New(apperr.Validation, "no selections to register")
	}

	voter, err := s.store.FindVoter(ctx, voterDNI)
	if err != nil {
		return err
	}

	voted, err := s.CategoriesVoted(ctx, voterDNI)
	if err != nil {
		return err
	}
	recorded := make(map[string]bool, len(voted))
	for _, c := range voted {
		recorded[c] = true
	}

	for _, sel := range selections {
		category, err := models.ParseCategory(sel.Category)
		if err != nil {
			return apperr.Wrap(apperr.Validation, fmt.Sprintf("invalid category: %s", sel.Category), err)
		}

		// Fast path only; the insert below is what actually closes
		// the race with concurrent calls.
		if recorded[category] {
			s.metrics.VoteConflict()
			return apperr.Newf(apperr.Conflict, "already voted in category: %s", category)
		}

		candidate, err := s.store.FindCandidate(ctx, sel.CandidateID)
		if err != nil {
			return err
		}
		if candidate.Category != category {
			return apperr.Newf(apperr.Validation,
				"candidate category (%s) does not match selection (%s)", candidate.Category, category)
		}

		vote := models.Vote{
			VoterDNI:    voterDNI,
			CandidateID: &candidate.ID,
			Category:    category,
			VotedAt:     models.NewTimestamp(s.now()),
		}
		if err := s.store.InsertVote(ctx, vote); err != nil {
			if apperr.Is(err, apperr.Conflict) {
				// The store's uniqueness constraint is authoritative:
				// a concurrent call won this category.
				s.metrics.VoteConflict()
				return apperr.Newf(apperr.Conflict, "already voted in category: %s", category)
			}
			return err
		}

		slog.Info("vote registered", "dni", voterDNI, "candidate", candidate.ID, "category", category)
		s.metrics.VoteRegistered(category)
		recorded[category] = true
	}

	voter.HasVoted = true
	voter.VotedAt = models.NewTimestamp(s.now())
	if _, err := s.store.UpsertVoter(ctx, *voter); err != nil {
		return fmt.Errorf("failed to mark voter as voted: %w", err)
	}
	return nil
}

// CategoriesVoted returns the categories with a recorded vote for the
// voter. Invalidated votes (null candidate) still count: the category
// history survives invalidation, so an invalidated voter cannot re-vote
// in that category.
func (s *Service) CategoriesVoted(ctx context.Context, voterDNI string) ([]string, error) {
	votes, err := s.store.ListVotes(ctx, gateway.VoteFilter{VoterDNI: voterDNI})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(votes))
	seen := make(map[string]bool, len(votes))
	for _, v := range votes {
		if v.Category == "" || seen[v.Category] {
			continue
		}
		seen[v.Category] = true
		categories = append(categories, v.Category)
	}
	return categories, nil
}

// Invalidate severs the candidate link on all of the voter's votes that
// still reference one, keeping the vote rows, categories and
// timestamps. It does not reset has_voted or the category history.
// Returns the number of votes invalidated.
func (s *Service) Invalidate(ctx context.Context, voterDNI string) (int, error) {
	votes, err := s.store.ListVotes(ctx, gateway.VoteFilter{VoterDNI: voterDNI})
	if err != nil {
		return 0, err
	}

	invalidated := 0
	for _, v := range votes {
		if v.Invalidated() {
			continue
		}
		patch := map[string]interface{}{"candidate_id": nil}
		if err := s.store.UpdateVote(ctx, v.ID, patch); err != nil {
			slog.Error("failed to invalidate vote", "vote", v.ID, "error", err)
			continue
		}
		invalidated++
		slog.Info("vote invalidated", "vote", v.ID, "dni", voterDNI)
	}
	return invalidated, nil
}
