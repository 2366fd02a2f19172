// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the sufragio API server.

Sufragio is the backend for a national electronic-voting pilot: voters
verified against the national identity registry cast one vote per
electoral category (presidencial, distrital, regional), and an
administrator tier audits and repairs the record sets after the fact.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	GATEWAY_URL=https://... GATEWAY_KEY=... go run main.go

Or with flags:

	go run main.go -p 8080 -gateway-url "https://..."

# Configuration

Required settings:

  - GATEWAY_URL (-gateway-url): record store base URL (PostgREST-style)
  - GATEWAY_KEY (-gateway-key): store API key
  - SIGNING_SECRET (-signing-secret): token signing secret
  - ADMIN_PASSWORD, SUPERADMIN_PASSWORD: tier credentials
  - IDENTITY_URL (-identity-url): national identity registry base URL

Optional settings:

  - PORT (-p): server port (default: 8080)
  - GATEWAY_SERVICE_KEY: service-role key for writes (defaults to GATEWAY_KEY)
  - REDIS_ADDR (-redis): external token registry for multi-instance runs
  - IDENTITY_KEY (-identity-key): identity registry API key
  - DUPLICATE_POLICY (-duplicate-policy): newest (default) or oldest

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (votes, admin, superadmin, voters,
    candidates, dashboard, health)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, bearer-token guard
  - models: domain and request/response types
  - voting: vote registration protocol and invalidation
  - session: token issuance and the active-token registry
  - audit: integrity scans and turnout analysis
  - gateway: HTTP client for the record store
  - identity: national identity registry adapter
  - metrics: Prometheus instruments
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
