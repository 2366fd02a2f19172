// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apperr is the error taxonomy shared by every component:
// validation, not-found, conflict, auth and upstream failures, each with
// a fixed HTTP status. Anything unclassified surfaces as a generic
// internal error.
package apperr
