// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Auth, http.StatusUnauthorized},
		{Upstream, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(Conflict, "dup"), Conflict},
		{"wrapped classified", fmt.Errorf("outer: %w", New(NotFound, "gone")), NotFound},
		{"plain error", errors.New("boom"), Internal},
		{"nil", nil, Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageOfHidesInternals(t *testing.T) {
	// Unclassified errors must never leak their text to clients.
	err := errors.New("pq: connection refused to 10.0.0.5")
	if got := MessageOf(err); got != "internal server error" {
		t.Errorf("MessageOf(plain) = %q, want generic message", got)
	}

	classified := New(Validation, "dni must be exactly 8 digits")
	if got := MessageOf(classified); got != "dni must be exactly 8 digits" {
		t.Errorf("MessageOf(classified) = %q", got)
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", New(Conflict, "dup"))
	if !Is(err, Conflict) {
		t.Error("Is() = false for wrapped conflict")
	}
	if Is(err, NotFound) {
		t.Error("Is() = true for wrong kind")
	}
	if Is(nil, Conflict) {
		t.Error("Is(nil) = true")
	}
}

func TestWrapUnwraps(t *testing.T) {
	inner := errors.New("socket closed")
	err := Wrap(Upstream, "record store unreachable", inner)
	if !errors.Is(err, inner) {
		t.Error("Wrap() lost the inner error")
	}
}
