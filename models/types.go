package models

import (
	"fmt"
	"strings"
	"time"
)

// Electoral categories. A vote and its candidate must share one.
const (
	CategoryPresidencial = "presidencial"
	CategoryDistrital    = "distrital"
	CategoryRegional     = "regional"
)

// Categories lists the fixed electoral tiers in ballot order.
var Categories = []string{CategoryPresidencial, CategoryDistrital, CategoryRegional}

// ParseCategory normalizes and validates a category string.
func ParseCategory(s string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	switch c {
	case CategoryPresidencial, CategoryDistrital, CategoryRegional:
		return c, nil
	}
	return "", fmt.Errorf("invalid category: %q", s)
}

// Domain types. JSON tags follow the gateway's column names.

type Voter struct {
	DNI        string     `json:"dni"`
	FullName   string     `json:"full_name"`
	Address    string     `json:"address"`
	District   string     `json:"district"`
	Province   string     `json:"province"`
	Department string     `json:"department"`
	BirthDate  string     `json:"birth_date,omitempty"`
	HasVoted   bool       `json:"has_voted"`
	CreatedAt  *Timestamp `json:"created_at,omitempty"`
	VotedAt    *Timestamp `json:"voted_at,omitempty"`
}

type Candidate struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	PhotoURL               string `json:"photo_url"`
	Description            string `json:"description"`
	PartyName              string `json:"party_name"`
	PartyLogoURL           string `json:"party_logo_url"`
	PartyDescription       string `json:"party_description"`
	Category               string `json:"category"`
	AcademicFormation      string `json:"academic_formation"`
	ProfessionalExperience string `json:"professional_experience"`
	CampaignProposal       string `json:"campaign_proposal"`
	// Maintained by a trigger in the store, never written by this engine.
	VoteCount int `json:"vote_count"`
}

type Vote struct {
	ID       string `json:"id,omitempty"`
	VoterDNI string `json:"voter_dni"`
	// nil means the vote was invalidated: the row persists but the
	// causal link to a candidate is severed.
	CandidateID *string    `json:"candidate_id"`
	Category    string     `json:"category"`
	VotedAt     *Timestamp `json:"voted_at,omitempty"`
}

// Invalidated reports whether the vote's candidate reference is null.
func (v Vote) Invalidated() bool {
	return v.CandidateID == nil || strings.TrimSpace(*v.CandidateID) == ""
}

// Request types

type VoteSelection struct {
	CandidateID   string `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	Category      string `json:"category"`
}

type CastVotesRequest struct {
	VoterDNI   string          `json:"voterDni"`
	Selections []VoteSelection `json:"selections"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyVoterRequest struct {
	DNI string `json:"dni"`
}

// Response types

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type VerifyTokenResponse struct {
	Success bool `json:"success"`
	Valid   bool `json:"valid"`
}

type InvalidateResponse struct {
	Success          bool `json:"success"`
	InvalidatedCount int  `json:"invalidatedCount"`
}

type CountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type DashboardStats struct {
	TotalVotes        int         `json:"totalVotes"`
	TotalVoters       int         `json:"totalVoters"`
	ParticipationRate float64     `json:"participationRate"`
	PresidentialVotes int         `json:"presidentialVotes"`
	DistritalVotes    int         `json:"distritalVotes"`
	RegionalVotes     int         `json:"regionalVotes"`
	Candidates        []Candidate `json:"candidates"`
}

// Timestamp wraps time.Time with tolerant decoding for the store's
// timestamp renderings ("2006-01-02T15:04:05", with or without a zone
// suffix). Encoding always emits RFC 3339.
type Timestamp struct {
	time.Time
}

// NewTimestamp is a convenience for building pointer fields.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp: %q", s)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Time.Format(time.RFC3339) + `"`), nil
}
