// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types shared across the backend.

# Record types

Voter, Candidate and Vote mirror the three record sets held by the
persistence gateway. JSON tags use the gateway's snake_case column names,
so the same structs serve as wire types for gateway calls.

A Vote with a nil CandidateID is an invalidated vote: the row, its
category and its timestamp persist, only the link to the candidate is
severed.

# Categories

The three electoral tiers are fixed:

	models.CategoryPresidencial
	models.CategoryDistrital
	models.CategoryRegional

ParseCategory lower-cases, trims and validates free-form input.

# Timestamps

The gateway renders timestamps inconsistently (with and without zone
suffixes, sometimes date-only). Timestamp decodes all observed layouts
and always encodes RFC 3339.
*/
package models
