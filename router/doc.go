// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the HTTP surface: public vote registration, voter
and candidate queries, the admin and super-admin tiers behind their
bearer-token guards, health checks and the Prometheus scrape endpoint.
*/
package router
