// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
)

// CandidateHandler serves public candidate queries.
type CandidateHandler struct {
	store gateway.Store
}

func NewCandidateHandler(store gateway.Store) *CandidateHandler {
	return &CandidateHandler{store: store}
}

// List handles GET /candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.store.ListCandidates(r.Context(), "")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Update handles PATCH /candidates/{id}
// Admin tier. The body is a partial column map; unknown or empty
// patches are rejected before touching the store.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch map[string]interface{}
	if err := middleware.ParseJSONBody(r, &patch); err != nil || len(patch) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "patch body required")
		return
	}

	// Existence check first so a bad id is a 404, not a silent no-op.
	if _, err := h.store.FindCandidate(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := h.store.UpdateCandidate(r.Context(), id, patch); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Success: true, Message: "candidate updated"})
}

// ByCategory handles GET /candidates/category/{category}
func (h *CandidateHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(r.PathValue("category"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), category)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}
