// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/middleware"
)

// HealthHandler serves liveness and store round-trip checks.
type HealthHandler struct {
	store gateway.Store
}

func NewHealthHandler(store gateway.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GatewayHealth handles GET /health/gateway
func (h *HealthHandler) GatewayHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.store.Ping(r.Context()); err != nil {
		middleware.JSONResponse(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"error":  "record store unreachable",
		})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"latency_ms": time.Since(start).Milliseconds(),
	})
}
