// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jrondan/sufragio/audit"
	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/handlers"
	"github.com/jrondan/sufragio/identity"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/session"
	"github.com/jrondan/sufragio/voting"
)

// Deps carries the constructed engines the routes are wired against.
type Deps struct {
	Store      gateway.Store
	Votes      *voting.Service
	Auditor    *audit.Auditor
	AdminAuth  *session.Authenticator
	SuperAuth  *session.Authenticator
	Events     *session.EventLog
	Identity   *identity.Client
	Metrics    *metrics.Metrics
	MetricsFor http.Handler // /metrics handler; nil serves the default registry
}

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voteHandler := handlers.NewVoteHandler(d.Votes)
	adminHandler := handlers.NewAdminHandler(d.AdminAuth, d.Auditor, d.Events, d.Metrics)
	superHandler := handlers.NewSuperAdminHandler(d.SuperAuth, d.Store, d.Events, d.Metrics)
	voterHandler := handlers.NewVoterHandler(d.Store, d.Identity)
	candidateHandler := handlers.NewCandidateHandler(d.Store)
	dashboardHandler := handlers.NewDashboardHandler(d.Store)
	healthHandler := handlers.NewHealthHandler(d.Store)

	logged := middleware.WithLogging
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireToken(d.AdminAuth, d.Events, "admin_access", h))
	}
	super := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireToken(d.SuperAuth, d.Events, "superadmin_access", h))
	}

	// Health checks
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/gateway", healthHandler.GatewayHealth)

	// Vote registration (public)
	mux.HandleFunc("POST /votes", logged(voteHandler.Cast))
	mux.HandleFunc("GET /votes/voter/{dni}/categories", logged(voteHandler.Categories))
	mux.HandleFunc("POST /votes/invalidate/{dni}", logged(voteHandler.Invalidate))

	// Voter verification and lookup
	mux.HandleFunc("POST /voters/verify", logged(voterHandler.Verify))
	mux.HandleFunc("GET /voters/list", admin(voterHandler.List))
	mux.HandleFunc("GET /voters/{dni}", logged(voterHandler.Get))

	// Candidate queries (public)
	mux.HandleFunc("GET /candidates", logged(candidateHandler.List))
	mux.HandleFunc("GET /candidates/category/{category}", logged(candidateHandler.ByCategory))
	mux.HandleFunc("PATCH /candidates/{id}", admin(candidateHandler.Update))

	// Dashboard
	mux.HandleFunc("GET /dashboard/stats", logged(dashboardHandler.Stats))

	// Administrator tier
	mux.HandleFunc("POST /admin/login", logged(adminHandler.Login))
	mux.HandleFunc("GET /admin/verify", logged(adminHandler.Verify))
	mux.HandleFunc("POST /admin/clean/null-values", admin(adminHandler.CleanNullValues))
	mux.HandleFunc("POST /admin/clean/duplicates", admin(adminHandler.CleanDuplicates))
	mux.HandleFunc("POST /admin/clean/normalize", admin(adminHandler.Normalize))
	mux.HandleFunc("GET /admin/clean/validate-dnis", admin(adminHandler.ValidateDNIs))
	mux.HandleFunc("POST /admin/training/trends", admin(adminHandler.Trends))
	mux.HandleFunc("POST /admin/training/anomalies", admin(adminHandler.Anomalies))
	mux.HandleFunc("POST /admin/training/participation", admin(adminHandler.Participation))

	// Super-administrator tier
	mux.HandleFunc("POST /superadmin/login", logged(superHandler.Login))
	mux.HandleFunc("GET /superadmin/verify", logged(superHandler.Verify))
	mux.HandleFunc("GET /superadmin/migration/export", super(superHandler.Export))
	mux.HandleFunc("GET /superadmin/audit/security", super(superHandler.SecurityAudit))

	// Prometheus scrape endpoint
	metricsHandler := d.MetricsFor
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	mux.Handle("GET /metrics", metricsHandler)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sufragio API v1"))
	})

	return mux
}
