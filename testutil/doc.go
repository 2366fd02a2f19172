// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package testutil provides HTTP test helpers and an in-memory record
store for handler and engine tests. FakeStore enforces the same
one-vote-per-category constraint as the real store, so concurrency
behavior can be tested without a server.
*/
package testutil
