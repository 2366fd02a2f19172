// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity is the adapter for the national identity registry.

Voter verification must confirm a DNI against the registry before any
voter record is created or refreshed. Provider responses differ in
field naming and nesting, so the adapter does best-effort extraction
from a set of known key spellings; that tolerance lives here, at the
boundary, and never inside the voting engine.
*/
package identity
