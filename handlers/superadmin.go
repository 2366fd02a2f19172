// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
	"github.com/jrondan/sufragio/session"
)

// SuperAdminHandler serves the super-administrator tier: its own
// login/verify pair, the migration export and the security audit view.
type SuperAdminHandler struct {
	auth    *session.Authenticator
	store   gateway.Store
	events  *session.EventLog
	metrics *metrics.Metrics
}

func NewSuperAdminHandler(auth *session.Authenticator, store gateway.Store, events *session.EventLog, m *metrics.Metrics) *SuperAdminHandler {
	return &SuperAdminHandler{auth: auth, store: store, events: events, metrics: m}
}

// Login handles POST /superadmin/login
func (h *SuperAdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	ip := middleware.GetClientIP(r)
	h.events.Record("superadmin_login", req.Email, ip, token != "")
	h.metrics.LoginAttempt(h.auth.Tier(), token != "")

	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
}

// Verify handles GET /superadmin/verify
func (h *SuperAdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if !h.auth.Validate(r.Context(), token) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VerifyTokenResponse{Success: true, Valid: true})
}

// Export handles GET /superadmin/migration/export
// Bulk snapshot of voters and candidates plus the vote count, for
// migrating the election dataset elsewhere.
func (h *SuperAdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	voters, err := h.store.ListVoters(r.Context(), "")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	candidates, err := h.store.ListCandidates(r.Context(), "")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	votes, err := h.store.ListVotes(r.Context(), gateway.VoteFilter{})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"voters":     voters,
		"candidates": candidates,
		"voteCount":  len(votes),
	})
}

// SecurityAudit handles GET /superadmin/audit/security
func (h *SuperAdminHandler) SecurityAudit(w http.ResponseWriter, r *http.Request) {
	events := h.events.Recent(100)
	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}
