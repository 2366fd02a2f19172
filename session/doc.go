// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session gates administrative access with short-lived signed
tokens.

# Tiers

Two independent authenticators run side by side, administrator and
super-administrator, each bound to one configured credential pair and
its own active-token registry. Because validation is registry
membership, per-tier registries are what keep an admin token from
opening super-admin endpoints:

	admin := session.New("admin", adminCreds, secret, session.NewMemoryRegistry())
	super := session.New("superadmin", superCreds, secret, session.NewMemoryRegistry())

# Tokens

A token is three base64url segments: a fixed header, a payload carrying
the email, a 24-hour expiry in Unix milliseconds and the tier as a role
tag, and an HMAC-SHA256 signature over header.payload.

Validation does NOT re-verify the signature. The active-token registry,
populated only by successful Authenticate calls, is the authority: a
token is valid iff it is registered and unexpired. Expired registry
entries are evicted lazily on lookup. Tokens are opaque to every other
process and die with the registry, unless the Redis registry is
configured to share them across instances.

# Registries

MemoryRegistry (default) is a mutex-guarded map for single-instance
deployments. RedisRegistry stores tokens with native TTLs so several
instances can honor each other's sessions; WithPrefix derives the
per-tier namespaces over one connection.

# Audit trail

EventLog keeps a bounded in-process record of login attempts and
rejected accesses, served by the super-admin security audit endpoint.
*/
package session
