// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sync"
	"time"
)

// Registry is the authority for session validity: a token is live iff
// it is present and unexpired. Implementations must be safe for
// concurrent use from every authenticated request.
type Registry interface {
	Put(ctx context.Context, token string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// MemoryRegistry is the default single-instance registry: a
// mutex-guarded map from token to expiry. Expired entries are evicted
// lazily on lookup.
type MemoryRegistry struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (r *MemoryRegistry) WithClock(now func() time.Time) *MemoryRegistry {
	r.now = now
	return r
}

func (r *MemoryRegistry) Put(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = expiresAt
	return nil
}

func (r *MemoryRegistry) Validate(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiresAt, ok := r.tokens[token]
	if !ok {
		return false, nil
	}
	if r.now().After(expiresAt) {
		delete(r.tokens, token)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRegistry) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

// Len reports the number of registered tokens, expired entries
// included until their next lookup.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
