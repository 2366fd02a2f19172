// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"net/http"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
)

// DashboardHandler serves the aggregate election snapshot.
type DashboardHandler struct {
	store gateway.Store
}

func NewDashboardHandler(store gateway.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	votes, err := h.store.ListVotes(r.Context(), gateway.VoteFilter{})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
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
	if candidates == nil {
		candidates = []models.Candidate{}
	}

	stats := models.DashboardStats{
		TotalVotes:  len(votes),
		TotalVoters: len(voters),
		Candidates:  candidates,
	}

	participants := make(map[string]bool)
	for _, v := range votes {
		if v.VoterDNI != "" {
			participants[v.VoterDNI] = true
		}
		switch v.Category {
		case models.CategoryPresidencial:
			stats.PresidentialVotes++
		case models.CategoryDistrital:
			stats.DistritalVotes++
		case models.CategoryRegional:
			stats.RegionalVotes++
		}
	}

	if len(voters) > 0 {
		rate := float64(len(participants)) * 100 / float64(len(voters))
		stats.ParticipationRate = math.Round(rate*10) / 10
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
