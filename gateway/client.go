// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jrondan/sufragio/apperr"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/models"
)

const (
	tableVoters     = "voters"
	tableCandidates = "candidates"
	tableVotes      = "votes"

	preferRepresentation = "return=representation"
	preferUpsert         = "resolution=merge-duplicates,return=representation"

	readAttempts = 3
	readDelay    = 200 * time.Millisecond
)

// Client talks to the PostgREST-style record store over HTTP. Reads use
// the anon key; writes and administrative scans use the service-role
// key, which bypasses row-level security.
type Client struct {
	baseURL    string
	apiKey     string
	serviceKey string
	timeout    time.Duration
	httpc      *http.Client
	metrics    *metrics.Metrics
}

// NewClient builds a gateway client. m may be nil.
func NewClient(baseURL, apiKey, serviceKey string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		serviceKey: serviceKey,
		timeout:    timeout,
		httpc:      &http.Client{},
		metrics:    m,
	}
}

// ========== VOTERS ==========

func (c *Client) FindVoter(ctx context.Context, dni string) (*models.Voter, error) {
	q := url.Values{}
	q.Set("dni", "eq."+dni)
	q.Set("select", "*")

	var voters []models.Voter
	if err := c.getJSON(ctx, tableVoters, q, true, &voters); err != nil {
		return nil, err
	}
	if len(voters) == 0 {
		return nil, apperr.Newf(apperr.NotFound, "voter not found: %s", dni)
	}
	return &voters[0], nil
}

func (c *Client) ListVoters(ctx context.Context, dniFilter string) ([]models.Voter, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	if strings.TrimSpace(dniFilter) != "" {
		q.Set("dni", "ilike.*"+strings.TrimSpace(dniFilter)+"*")
	}

	var voters []models.Voter
	if err := c.getJSON(ctx, tableVoters, q, true, &voters); err != nil {
		return nil, err
	}
	return voters, nil
}

// UpsertVoter inserts or merges on the dni natural key, so repeated
// writes of the same voter are idempotent.
func (c *Client) UpsertVoter(ctx context.Context, v models.Voter) (*models.Voter, error) {
	body, err := c.write(ctx, http.MethodPost, tableVoters, nil, v, preferUpsert)
	if err != nil {
		return nil, err
	}

	var voters []models.Voter
	if err := json.Unmarshal(body, &voters); err != nil || len(voters) == 0 {
		// Store accepted the write but returned no representation.
		return &v, nil
	}
	return &voters[0], nil
}

func (c *Client) DeleteVoter(ctx context.Context, dni string) error {
	q := url.Values{}
	q.Set("dni", "eq."+dni)
	_, err := c.write(ctx, http.MethodDelete, tableVoters, q, nil, "")
	return err
}

// ========== CANDIDATES ==========

func (c *Client) FindCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.New(apperr.Validation, "candidate id is required")
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "*")

	var candidates []models.Candidate
	if err := c.getJSON(ctx, tableCandidates, q, false, &candidates); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperr.Newf(apperr.NotFound, "candidate not found: %s", id)
	}
	return &candidates[0], nil
}

func (c *Client) ListCandidates(ctx context.Context, category string) ([]models.Candidate, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "vote_count.desc")
	if category != "" {
		q.Set("category", "eq."+category)
	}

	var candidates []models.Candidate
	if err := c.getJSON(ctx, tableCandidates, q, false, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (c *Client) UpdateCandidate(ctx context.Context, id string, patch map[string]interface{}) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	_, err := c.write(ctx, http.MethodPatch, tableCandidates, q, patch, preferRepresentation)
	return err
}

func (c *Client) DeleteCandidate(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	_, err := c.write(ctx, http.MethodDelete, tableCandidates, q, nil, "")
	return err
}

// ========== VOTES ==========

// InsertVote commits a single vote. A uniqueness violation on
// (voter_dni, category) comes back as a Conflict error; that signal is
// authoritative for exclusivity, pre-read category sets are only an
// optimization.
func (c *Client) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := c.write(ctx, http.MethodPost, tableVotes, nil, v, "")
	return err
}

func (c *Client) ListVotes(ctx context.Context, f VoteFilter) ([]models.Vote, error) {
	q := url.Values{}
	q.Set("select", "*")
	if f.VoterDNI != "" {
		q.Set("voter_dni", "eq."+f.VoterDNI)
	}
	if f.Category != "" {
		q.Set("category", "eq."+f.Category)
	}
	if f.OrderBy != "" {
		q.Set("order", f.OrderBy)
	}

	var votes []models.Vote
	if err := c.getJSON(ctx, tableVotes, q, true, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

func (c *Client) UpdateVote(ctx context.Context, id string, patch map[string]interface{}) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	_, err := c.write(ctx, http.MethodPatch, tableVotes, q, patch, preferRepresentation)
	return err
}

func (c *Client) DeleteVote(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	_, err := c.write(ctx, http.MethodDelete, tableVotes, q, nil, "")
	return err
}

// Ping performs a minimal round trip against the store.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "dni")
	q.Set("limit", "1")
	var out []map[string]interface{}
	return c.getJSON(ctx, tableVoters, q, false, &out)
}

// ========== TRANSPORT ==========

// getJSON performs a read with bounded retries for transient transport
// failures, then decodes the response array.
func (c *Client) getJSON(ctx context.Context, table string, q url.Values, service bool, out interface{}) error {
	start := time.Now()
	body, err := retry.DoWithData(
		func() ([]byte, error) {
			status, b, execErr := c.exec(ctx, http.MethodGet, table, q, nil, service, "")
			if execErr != nil {
				return nil, transientError{execErr}
			}
			if status >= 500 {
				return nil, transientError{fmt.Errorf("gateway returned status %d: %s", status, trim(b))}
			}
			return b, c.classify(status, b, table)
		},
		retry.Context(ctx),
		retry.Attempts(readAttempts),
		retry.Delay(readDelay),
		retry.RetryIf(func(err error) bool {
			_, ok := err.(transientError)
			return ok
		}),
		retry.LastErrorOnly(true),
	)
	c.metrics.ObserveGateway(http.MethodGet, table, time.Since(start), err)
	if err != nil {
		if te, ok := err.(transientError); ok {
			return apperr.Wrap(apperr.Upstream, "record store unavailable", te.error)
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Wrap(apperr.Upstream, "malformed record store response", err)
	}
	return nil
}

// write performs a single-attempt mutation. Mutations are not retried:
// an insert that timed out may still have committed, and re-driving it
// is the caller's decision.
func (c *Client) write(ctx context.Context, method, table string, q url.Values, payload interface{}, prefer string) ([]byte, error) {
	start := time.Now()
	status, body, err := c.exec(ctx, method, table, q, payload, true, prefer)
	if err != nil {
		c.metrics.ObserveGateway(method, table, time.Since(start), err)
		return nil, apperr.Wrap(apperr.Upstream, "record store unavailable", err)
	}
	cerr := c.classify(status, body, table)
	c.metrics.ObserveGateway(method, table, time.Since(start), cerr)
	if cerr != nil {
		return nil, cerr
	}
	return body, nil
}

// exec is the raw HTTP round trip. It returns an error only for
// transport-level failures; HTTP status handling belongs to classify.
func (c *Client) exec(ctx context.Context, method, table string, q url.Values, payload interface{}, service bool, prefer string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + table
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	key := c.apiKey
	if service {
		key = c.serviceKey
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		slog.Warn("gateway request failed", "method", method, "table", table, "error", err)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// classify converts a non-2xx store response into the error taxonomy.
// Unique-constraint violations become Conflict; everything else is
// Upstream.
func (c *Client) classify(status int, body []byte, table string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if isUniqueViolation(status, body) {
		return apperr.New(apperr.Conflict, "record already exists")
	}
	slog.Error("gateway error response", "table", table, "status", status, "body", trim(body))
	return apperr.Newf(apperr.Upstream, "record store error (status %d)", status)
}

// isUniqueViolation detects the store's duplicate-key signal: HTTP 409
// or the Postgres 23505 code in the error body.
func isUniqueViolation(status int, body []byte) bool {
	if status == http.StatusConflict {
		return true
	}
	s := string(body)
	return strings.Contains(s, "23505") || strings.Contains(s, "duplicate key")
}

func trim(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// transientError marks failures worth retrying on reads.
type transientError struct{ error }
