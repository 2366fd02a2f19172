// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
	"github.com/jrondan/sufragio/voting"
)

// VoteHandler serves the vote registration surface.
type VoteHandler struct {
	svc *voting.Service
}

func NewVoteHandler(svc *voting.Service) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Cast handles POST /votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req models.CastVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VoterDNI == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voterDni is required")
		return
	}

	if err := h.svc.Register(r.Context(), req.VoterDNI, req.Selections); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		Success: true,
		Message: "votes registered",
	})
}

// Categories handles GET /votes/voter/{dni}/categories
func (h *VoteHandler) Categories(w http.ResponseWriter, r *http.Request) {
	dni := r.PathValue("dni")

	categories, err := h.svc.CategoriesVoted(r.Context(), dni)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, categories)
}

// Invalidate handles POST /votes/invalidate/{dni}
func (h *VoteHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	dni := r.PathValue("dni")

	count, err := h.svc.Invalidate(r.Context(), dni)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.InvalidateResponse{
		Success:          true,
		InvalidatedCount: count,
	})
}
