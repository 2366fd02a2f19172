// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jrondan/sufragio/apperr"
)

// Record is a verified identity as returned by the national registry.
type Record struct {
	DNI        string
	FullName   string
	Address    string
	District   string
	Province   string
	Department string
	BirthDate  string
}

// Client queries the external identity-lookup API (a RENIEC proxy).
// Responses vary by provider, so parsing is tolerant: fields are picked
// from the first matching key of several known spellings.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		httpc:   &http.Client{},
	}
}

// Lookup resolves a DNI against the registry. A DNI the registry does
// not know, or knows without usable name data, fails with a Validation
// error; transport problems fail with Upstream.
func (c *Client) Lookup(ctx context.Context, dni string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/" + dni
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "identity registry unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.Newf(apperr.Validation, "dni not found in national registry: %s", dni)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Newf(apperr.Upstream, "identity registry error (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to read identity response", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "malformed identity response", err)
	}

	// Some providers nest the record under "data".
	if data, ok := payload["data"].(map[string]interface{}); ok {
		payload = data
	}

	rec := parseRecord(dni, payload)
	if rec.FullName == "" {
		slog.Warn("identity lookup returned no usable name", "dni", dni)
		return nil, apperr.Newf(apperr.Validation, "dni not registered or lacks identity data: %s", dni)
	}
	return rec, nil
}

// parseRecord assembles a Record from whichever field spellings the
// provider used.
func parseRecord(dni string, data map[string]interface{}) *Record {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := data[k]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					return s
				}
			}
		}
		return ""
	}

	fullName := first("nombre_completo", "full_name", "fullName")
	if fullName == "" {
		given := first("nombres", "names", "first_name")
		paternal := first("apellido_paterno", "paternal_surname", "last_name")
		maternal := first("apellido_materno", "maternal_surname")
		fullName = strings.TrimSpace(strings.Join(
			nonEmpty(given, paternal, maternal), " ",
		))
	}

	return &Record{
		DNI:        dni,
		FullName:   fullName,
		Address:    first("direccion", "direccion_completa", "address"),
		District:   first("distrito", "district"),
		Province:   first("provincia", "province"),
		Department: first("departamento", "department", "region"),
		BirthDate:  first("fecha_nacimiento", "birth_date", "birthDate"),
	}
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
