// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"

	"github.com/jrondan/sufragio/models"
)

// VoteFilter narrows ListVotes. Zero fields are ignored.
type VoteFilter struct {
	VoterDNI string
	Category string
	// PostgREST order expression, e.g. "voted_at.desc". Empty means
	// store order.
	OrderBy string
}

// Store is the persistence gateway contract consumed by the voting
// engine and the auditor. All calls are remote and may fail with
// transport or store-side errors independent of business logic; the
// store offers no multi-record transactions.
//
// InsertVote must surface the store's uniqueness violation on
// (voter_dni, category) as a Conflict error: that constraint is the
// authoritative enforcement point for vote exclusivity.
type Store interface {
	FindVoter(ctx context.Context, dni string) (*models.Voter, error)
	ListVoters(ctx context.Context, dniFilter string) ([]models.Voter, error)
	UpsertVoter(ctx context.Context, v models.Voter) (*models.Voter, error)
	DeleteVoter(ctx context.Context, dni string) error

	FindCandidate(ctx context.Context, id string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, category string) ([]models.Candidate, error)
	UpdateCandidate(ctx context.Context, id string, patch map[string]interface{}) error
	DeleteCandidate(ctx context.Context, id string) error

	InsertVote(ctx context.Context, v models.Vote) error
	ListVotes(ctx context.Context, f VoteFilter) ([]models.Vote, error)
	UpdateVote(ctx context.Context, id string, patch map[string]interface{}) error
	DeleteVote(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
