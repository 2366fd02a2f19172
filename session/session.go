// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Credentials is the single configured login pair for a tier.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator issues and validates session tokens for one privilege
// tier. Issuance signs the token; validation consults only the active
// registry, so tokens do not survive a restart of the issuing process
// unless the registry is external.
type Authenticator struct {
	tier     string
	creds    Credentials
	secret   string
	registry Registry
	now      func() time.Time
}

// New builds an authenticator for a tier ("admin", "superadmin").
func New(tier string, creds Credentials, secret string, registry Registry) *Authenticator {
	return &Authenticator{
		tier:     tier,
		creds:    creds,
		secret:   secret,
		registry: registry,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate checks the configured credential pair and, on match,
// returns a signed token registered for TokenTTL. On mismatch it
// returns "" and no error; the caller decides how to report that.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", nil
	}

	emailOK := hmac.Equal([]byte(email), []byte(a.creds.Email))
	passwordOK := hmac.Equal([]byte(password), []byte(a.creds.Password))
	if !emailOK || !passwordOK {
		slog.Warn("invalid credentials", "tier", a.tier, "email", email)
		return "", nil
	}

	expiresAt := a.now().Add(TokenTTL)
	token := a.buildToken(email, expiresAt)
	if err := a.registry.Put(ctx, token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to register token: %w", err)
	}

	slog.Info("token issued", "tier", a.tier, "email", email)
	return token, nil
}

// Validate reports whether the token is live in the active registry.
// The signature is not re-verified here: registry membership, written
// only by this tier's Authenticate, is the authority.
func (a *Authenticator) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	ok, err := a.registry.Validate(ctx, token)
	if err != nil {
		slog.Error("token registry lookup failed", "tier", a.tier, "error", err)
		return false
	}
	return ok
}

// Tier names the privilege tier this authenticator gates.
func (a *Authenticator) Tier() string { return a.tier }

// buildToken assembles the three base64url segments: header, payload
// (email, expiry in Unix millis, tier as the role tag) and an
// HMAC-SHA256 signature over header.payload.
func (a *Authenticator) buildToken(email string, expiresAt time.Time) string {
	enc := base64.RawURLEncoding

	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(fmt.Sprintf(
		`{"email":%q,"exp":%d,"role":%q}`, email, expiresAt.UnixMilli(), a.tier,
	)))

	mac := hmac.New(sha256.New, []byte(a.secret))
	mac.Write([]byte(header + "." + payload))
	signature := enc.EncodeToString(mac.Sum(nil))

	return header + "." + payload + "." + signature
}
