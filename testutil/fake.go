// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jrondan/sufragio/apperr"
	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/models"
)

// FakeStore is an in-memory gateway.Store. Like the real store it
// enforces at most one vote per (voter, category) pair, rejecting the
// second insert with a conflict, so races in the registration path can
// be exercised without a server.
type FakeStore struct {
	mu         sync.Mutex
	voters     map[string]models.Voter
	candidates map[string]models.Candidate
	votes      []models.Vote

	// FailNext, when non-nil, is returned by the next mutating call and
	// then cleared.
	FailNext error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		voters:     make(map[string]models.Voter),
		candidates: make(map[string]models.Candidate),
	}
}

// SeedVoter adds a voter record directly.
func (f *FakeStore) SeedVoter(v models.Voter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voters[v.DNI] = v
}

// SeedCandidate adds a candidate record directly.
func (f *FakeStore) SeedCandidate(c models.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[c.ID] = c
}

// SeedVote adds a vote directly, bypassing the uniqueness check.
func (f *FakeStore) SeedVote(v models.Vote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	f.votes = append(f.votes, v)
}

// Votes returns a copy of all stored votes.
func (f *FakeStore) Votes() []models.Vote {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Vote, len(f.votes))
	copy(out, f.votes)
	return out
}

func (f *FakeStore) takeFailure() error {
	if f.FailNext != nil {
		err := f.FailNext
		f.FailNext = nil
		return err
	}
	return nil
}

func (f *FakeStore) FindVoter(ctx context.Context, dni string) (*models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.voters[dni]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "voter not found: %s", dni)
	}
	out := v
	return &out, nil
}

func (f *FakeStore) ListVoters(ctx context.Context, dniFilter string) ([]models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Voter
	for _, v := range f.voters {
		if dniFilter != "" && v.DNI != dniFilter {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DNI < out[j].DNI })
	return out, nil
}

func (f *FakeStore) UpsertVoter(ctx context.Context, v models.Voter) (*models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	f.voters[v.DNI] = v
	out := v
	return &out, nil
}

func (f *FakeStore) DeleteVoter(ctx context.Context, dni string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	delete(f.voters, dni)
	return nil
}

func (f *FakeStore) FindCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	if id == "" {
		return nil, apperr.New(apperr.Validation, "candidate id is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "candidate not found: %s", id)
	}
	out := c
	return &out, nil
}

func (f *FakeStore) ListCandidates(ctx context.Context, category string) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Candidate
	for _, c := range f.candidates {
		if category != "" && c.Category != category {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) UpdateCandidate(ctx context.Context, id string, patch map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	c, ok := f.candidates[id]
	if !ok {
		return apperr.Newf(apperr.NotFound, "candidate not found: %s", id)
	}
	if v, ok := patch["name"]; ok {
		c.Name, _ = v.(string)
	}
	if v, ok := patch["party_name"]; ok {
		c.PartyName, _ = v.(string)
	}
	if v, ok := patch["vote_count"]; ok {
		switch n := v.(type) {
		case int:
			c.VoteCount = n
		case float64:
			c.VoteCount = int(n)
		}
	}
	f.candidates[id] = c
	return nil
}

func (f *FakeStore) DeleteCandidate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	delete(f.candidates, id)
	return nil
}

// InsertVote appends a vote unless one already exists for the same
// voter and category. The conflict check and append happen under one
// lock, which is the property the registration path depends on.
func (f *FakeStore) InsertVote(ctx context.Context, v models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for _, existing := range f.votes {
		if existing.VoterDNI == v.VoterDNI && existing.Category == v.Category {
			return apperr.New(apperr.Conflict, "record already exists")
		}
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	f.votes = append(f.votes, v)
	return nil
}

func (f *FakeStore) ListVotes(ctx context.Context, filter gateway.VoteFilter) ([]models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Vote
	for _, v := range f.votes {
		if filter.VoterDNI != "" && v.VoterDNI != filter.VoterDNI {
			continue
		}
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *FakeStore) UpdateVote(ctx context.Context, id string, patch map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i, v := range f.votes {
		if v.ID != id {
			continue
		}
		if raw, ok := patch["candidate_id"]; ok {
			if raw == nil {
				f.votes[i].CandidateID = nil
			} else if s, ok := raw.(string); ok {
				f.votes[i].CandidateID = &s
			}
		}
		return nil
	}
	return apperr.Newf(apperr.NotFound, "vote not found: %s", id)
}

func (f *FakeStore) DeleteVote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i, v := range f.votes {
		if v.ID == id {
			f.votes = append(f.votes[:i], f.votes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *FakeStore) Ping(ctx context.Context) error {
	return nil
}
