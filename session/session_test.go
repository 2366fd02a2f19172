// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"strings"
	"testing"
	"time"
)

var testCreds = Credentials{Email: "admin@elecciones.pe", Password: "s3cret"}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantToken bool
	}{
		{"valid credentials", testCreds.Email, testCreds.Password, true},
		{"wrong password", testCreds.Email, "nope", false},
		{"wrong email", "intruder@example.com", testCreds.Password, false},
		{"empty email", "", testCreds.Password, false},
		{"empty password", testCreds.Email, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := New("admin", testCreds, "signing-secret", NewMemoryRegistry())

			token, err := auth.Authenticate(context.Background(), tt.email, tt.password)
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if (token != "") != tt.wantToken {
				t.Errorf("Authenticate() token = %q, wantToken %v", token, tt.wantToken)
			}
		})
	}
}

func TestTokenShape(t *testing.T) {
	auth := New("admin", testCreds, "signing-secret", NewMemoryRegistry())
	token, err := auth.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("token has %d segments, want 3", len(segments))
	}
	for i, s := range segments {
		if s == "" {
			t.Errorf("segment %d is empty", i)
		}
		if strings.ContainsAny(s, "+/=") {
			t.Errorf("segment %d is not base64url without padding: %q", i, s)
		}
	}

	// A different secret must sign differently.
	other := New("admin", testCreds, "other-secret", NewMemoryRegistry())
	otherToken, _ := other.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if strings.Split(otherToken, ".")[2] == segments[2] {
		t.Error("different secrets produced identical signatures")
	}
}

func TestValidateLifecycle(t *testing.T) {
	current := time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	registry := NewMemoryRegistry().WithClock(clock)
	auth := New("admin", testCreds, "signing-secret", registry).WithClock(clock)

	token, err := auth.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if !auth.Validate(context.Background(), token) {
		t.Error("Validate() = false for freshly issued token")
	}
	if auth.Validate(context.Background(), "forged.token.value") {
		t.Error("Validate() = true for unregistered token")
	}
	if auth.Validate(context.Background(), "") {
		t.Error("Validate() = true for empty token")
	}

	// Just inside the window
	current = current.Add(TokenTTL - time.Minute)
	if !auth.Validate(context.Background(), token) {
		t.Error("Validate() = false just before expiry")
	}

	// Past the window: lazily evicted
	current = current.Add(2 * time.Minute)
	if auth.Validate(context.Background(), token) {
		t.Error("Validate() = true after 24h TTL")
	}
	if registry.Len() != 0 {
		t.Errorf("registry Len() = %d after eviction, want 0", registry.Len())
	}
}

func TestRevoke(t *testing.T) {
	registry := NewMemoryRegistry()
	auth := New("admin", testCreds, "signing-secret", registry)

	token, _ := auth.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if err := registry.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if auth.Validate(context.Background(), token) {
		t.Error("Validate() = true after revocation")
	}
}

func TestTiersDoNotShareCredentials(t *testing.T) {
	admin := New("admin", testCreds, "secret", NewMemoryRegistry())
	super := New("superadmin", Credentials{Email: "superadmin@elecciones.pe", Password: "other"}, "secret", NewMemoryRegistry())

	token, _ := admin.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if token == "" {
		t.Fatal("admin Authenticate() failed")
	}

	got, _ := super.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	if got != "" {
		t.Error("superadmin Authenticate() accepted admin credentials")
	}
}

func TestTiersDoNotShareTokens(t *testing.T) {
	superCreds := Credentials{Email: "superadmin@elecciones.pe", Password: "other"}
	admin := New("admin", testCreds, "secret", NewMemoryRegistry())
	super := New("superadmin", superCreds, "secret", NewMemoryRegistry())

	adminToken, _ := admin.Authenticate(context.Background(), testCreds.Email, testCreds.Password)
	superToken, _ := super.Authenticate(context.Background(), superCreds.Email, superCreds.Password)
	if adminToken == "" || superToken == "" {
		t.Fatal("Authenticate() failed")
	}

	// Validation is registry membership, so each tier must only see
	// its own issued tokens.
	if super.Validate(context.Background(), adminToken) {
		t.Error("superadmin Validate() accepted an admin-issued token")
	}
	if admin.Validate(context.Background(), superToken) {
		t.Error("admin Validate() accepted a superadmin-issued token")
	}
	if !admin.Validate(context.Background(), adminToken) || !super.Validate(context.Background(), superToken) {
		t.Error("Validate() rejected a token on its own tier")
	}
}

func TestEventLog(t *testing.T) {
	log := NewEventLog(3)
	log.Record("admin_login", "a@x", "10.0.0.1", true)
	log.Record("admin_login", "b@x", "10.0.0.2", false)
	log.Record("superadmin_login", "c@x", "10.0.0.3", true)
	log.Record("admin_login", "d@x", "10.0.0.4", true) // evicts the oldest

	events := log.Recent(10)
	if len(events) != 3 {
		t.Fatalf("Recent() returned %d events, want 3", len(events))
	}
	if events[0].User != "d@x" {
		t.Errorf("Recent()[0].User = %q, want newest first", events[0].User)
	}
	if events[2].User != "b@x" {
		t.Errorf("Recent()[2].User = %q, oldest entry was not evicted correctly", events[2].User)
	}
	if events[1].Status != "success" {
		t.Errorf("Status = %q, want success", events[1].Status)
	}

	two := log.Recent(2)
	if len(two) != 2 {
		t.Errorf("Recent(2) returned %d events", len(two))
	}
}
