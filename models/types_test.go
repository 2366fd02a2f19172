// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"exact", "presidencial", CategoryPresidencial, false},
		{"upper", "REGIONAL", CategoryRegional, false},
		{"padded", "  distrital ", CategoryDistrital, false},
		{"unknown", "municipal", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2026-04-12T09:30:00Z"`, time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)},
		{"no zone", `"2026-04-12T09:30:00"`, time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)},
		{"micros no zone", `"2026-04-12T09:30:00.123456"`, time.Date(2026, 4, 12, 9, 30, 0, 123456000, time.UTC)},
		{"date only", `"2026-04-12"`, time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"not-a-time"`), &ts); err == nil {
		t.Error("Unmarshal(garbage) did not fail")
	}
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Errorf("Unmarshal(null) error = %v", err)
	}
}

func TestTimestampMarshal(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC))
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2026-04-12T09:30:00Z"` {
		t.Errorf("Marshal() = %s", b)
	}

	var zero Timestamp
	b, _ = json.Marshal(zero)
	if string(b) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", b)
	}
}

func TestVoteInvalidated(t *testing.T) {
	id := "c1"
	blank := "  "
	tests := []struct {
		name string
		vote Vote
		want bool
	}{
		{"linked", Vote{CandidateID: &id}, false},
		{"nil candidate", Vote{CandidateID: nil}, true},
		{"blank candidate", Vote{CandidateID: &blank}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vote.Invalidated(); got != tt.want {
				t.Errorf("Invalidated() = %v, want %v", got, tt.want)
			}
		})
	}
}
