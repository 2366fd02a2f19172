// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the voting backend.

Each handler group is a struct built from the engines it fronts (voting
service, auditor, authenticators, record store) so tests can construct
them against fakes. Handlers parse and validate the wire shapes, call
one engine operation, and translate failures through the error
taxonomy; no business rules live here.
*/
package handlers
