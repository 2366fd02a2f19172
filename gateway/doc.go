// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gateway is the HTTP client for the external record store.

The store is a PostgREST-style API over three record sets (voters,
candidates, votes) with filter syntax in the query string:

	GET  /voters?dni=eq.12345678&select=*
	POST /votes
	PATCH /votes?id=eq.<uuid>

There are no multi-record transactions. The one store-side guarantee the
engine leans on is the uniqueness constraint on (voter_dni, category):
InsertVote translates its violation (HTTP 409 or Postgres 23505) into a
Conflict error, which the registration protocol treats as the
authoritative duplicate signal.

Reads are retried up to three times on transport failures and 5xx
responses. Mutations are never retried: a timed-out insert may have
committed, and blind re-drives would fight the uniqueness constraint.

Every call applies the configured per-call timeout; timeouts and other
transport failures surface as Upstream errors, never raw.

The Store interface exists so the voting engine, auditor and handlers
can run against the in-memory fake in testutil.
*/
package gateway
