// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the vote registration protocol.

# Exclusivity

At most one vote per (voter, category). Register pre-reads the voter's
category history as a fast path, but correctness does not depend on it:
the record store's uniqueness constraint on (voter_dni, category)
rejects the losing insert of any race, and that Conflict is surfaced as
the duplicate signal.

# Partial failure

Selections commit in caller order. When one fails, the earlier commits
in the same call stay; the store has no transactions to roll them
back. Callers must re-query CategoriesVoted before retrying; a retried
selection whose vote already landed is rejected by the constraint,
which is the desired outcome.

# Invalidation

Invalidate nulls the candidate reference on a voter's votes without
deleting the rows. The category history and has_voted flag survive, so
the voter stays barred from those categories.
*/
package voting
