// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"regexp"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/identity"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
)

var dniPattern = regexp.MustCompile(`^\d{8}$`)

// VoterHandler serves voter verification and lookup.
type VoterHandler struct {
	store    gateway.Store
	identity *identity.Client
}

func NewVoterHandler(store gateway.Store, id *identity.Client) *VoterHandler {
	return &VoterHandler{store: store, identity: id}
}

// Verify handles POST /voters/verify
// Confirms the DNI against the national registry, then creates or
// refreshes the voter record with the registry's demographic fields. A
// DNI the registry rejects never becomes a voter.
func (h *VoterHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !dniPattern.MatchString(req.DNI) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dni must be exactly 8 digits")
		return
	}

	rec, err := h.identity.Lookup(r.Context(), req.DNI)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	voter := models.Voter{
		DNI:        rec.DNI,
		FullName:   rec.FullName,
		Address:    rec.Address,
		District:   rec.District,
		Province:   rec.Province,
		Department: rec.Department,
		BirthDate:  rec.BirthDate,
	}

	// Keep voting state if the voter already exists; only the
	// demographic fields refresh.
	if existing, err := h.store.FindVoter(r.Context(), req.DNI); err == nil {
		voter.HasVoted = existing.HasVoted
		voter.VotedAt = existing.VotedAt
		voter.CreatedAt = existing.CreatedAt
	}

	saved, err := h.store.UpsertVoter(r.Context(), voter)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"voter":   saved,
	})
}

// Get handles GET /voters/{dni}
func (h *VoterHandler) Get(w http.ResponseWriter, r *http.Request) {
	dni := r.PathValue("dni")

	voter, err := h.store.FindVoter(r.Context(), dni)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voter)
}

// List handles GET /voters/list
// Admin tier. An optional ?dni= narrows by exact identifier.
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	voters, err := h.store.ListVoters(r.Context(), r.URL.Query().Get("dni"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if voters == nil {
		voters = []models.Voter{}
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}
