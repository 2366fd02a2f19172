// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/jrondan/sufragio/audit"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
	"github.com/jrondan/sufragio/session"
)

// AdminHandler serves the administrator tier: login/verify plus the
// integrity and analysis operations.
type AdminHandler struct {
	auth    *session.Authenticator
	auditor *audit.Auditor
	events  *session.EventLog
	metrics *metrics.Metrics
}

func NewAdminHandler(auth *session.Authenticator, auditor *audit.Auditor, events *session.EventLog, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{auth: auth, auditor: auditor, events: events, metrics: m}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
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
	h.events.Record("admin_login", req.Email, ip, token != "")
	h.metrics.LoginAttempt(h.auth.Tier(), token != "")

	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
}

// Verify handles GET /admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if !h.auth.Validate(r.Context(), token) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VerifyTokenResponse{Success: true, Valid: true})
}

// CleanNullValues handles POST /admin/clean/null-values
func (h *AdminHandler) CleanNullValues(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.auditor.PurgeNullValues(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Success: true, Count: deleted})
}

// CleanDuplicates handles POST /admin/clean/duplicates
func (h *AdminHandler) CleanDuplicates(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.auditor.ResolveDuplicates(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Success: true, Count: deleted})
}

// ValidateDNIs handles GET /admin/clean/validate-dnis
func (h *AdminHandler) ValidateDNIs(w http.ResponseWriter, r *http.Request) {
	invalid, err := h.auditor.ValidateDNIs(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"count":       len(invalid),
		"invalidDnis": invalid,
	})
}

// Normalize handles POST /admin/clean/normalize
func (h *AdminHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	changed, err := h.auditor.Normalize(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Success: true, Count: changed})
}

// Trends handles POST /admin/training/trends
func (h *AdminHandler) Trends(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditor.AnalyzeTrends(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}

// Anomalies handles POST /admin/training/anomalies
func (h *AdminHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditor.DetectAnomalies(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}

// Participation handles POST /admin/training/participation
func (h *AdminHandler) Participation(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditor.AnalyzeParticipation(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}
