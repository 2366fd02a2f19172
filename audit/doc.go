// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package audit detects and repairs integrity problems the real-time
voting path failed to prevent.

Operations are independently invocable batch scans over the full record
sets, gated behind the administrator tier:

  - PurgeNullValues: delete records missing required text fields
  - ResolveDuplicates: keep one vote per (voter, category), delete the
    rest per the configured KeepPolicy (default: keep newest)
  - ValidateDNIs: report identifiers that are not eight digits, without
    mutating anything
  - Normalize: trim and title-case name/location fields, idempotently
  - AnalyzeTrends: daily vote buckets with an up/down/flat breakdown
  - DetectAnomalies: duplicate, out-of-hours and rapid-succession
    signals with fixed low/medium/high thresholds
  - AnalyzeParticipation: per-department participation rates plus a
    placeholder demographic breakdown

An Auditor serializes its operations behind a mutex; the scans are
read-group-write against a store with no transactions, so two
overlapping runs could double-delete.
*/
package audit
