// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

WriteError is the single crossing point for component failures: it maps
the error taxonomy to HTTP statuses (validation 400, not-found 404,
conflict 409, auth 401, upstream/internal 500) and emits only the
classified message, never internals.

RequireToken guards administrative endpoints with a bearer token
checked against a tier's session authenticator; rejections feed the
security audit trail through an AccessRecorder.
*/
package middleware
