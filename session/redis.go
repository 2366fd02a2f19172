// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry backs the active-token registry with Redis, for
// deployments where several backend instances must honor each other's
// sessions. Expiry rides on Redis TTLs, so there is no lazy eviction to
// do here.
type RedisRegistry struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisRegistry connects to addr (a redis:// URL) and verifies the
// connection.
func NewRedisRegistry(ctx context.Context, addr, prefix string) (*RedisRegistry, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisRegistry{client: c, prefix: prefix, now: time.Now}, nil
}

// WithPrefix derives a registry over the same connection under a
// different key namespace. Each tier gets its own prefix so a token
// registered by one tier never validates on another.
func (r *RedisRegistry) WithPrefix(prefix string) *RedisRegistry {
	return &RedisRegistry{client: r.client, prefix: prefix, now: r.now}
}

func (r *RedisRegistry) key(token string) string {
	return r.prefix + ":token:" + token
}

func (r *RedisRegistry) Put(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("error registering token: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Validate(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("error looking up token: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
