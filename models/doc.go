// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateUserRequest: username
  - CreatePollRequest: title, description, options, optional ends_at
  - CastVoteRequest: option_id

# Response Types

Types for JSON responses:

  - VoteAccepted: poll_id, option_id, new vote_count
  - MyVoteResponse: the caller's option_id, or null
  - TallyResult: per-option counts plus total
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: principal identity (opaque id plus display name)
  - Poll: poll metadata; OpenAt/Open derive lifecycle from ends_at
  - Option: voting option with its denormalized vote count
  - Vote: immutable (poll, user, option) record
  - PollWithOptions, PollSummary: read projections

# Lifecycle

A poll has no stored status column. It is open from the instant it is
created and closes when ends_at (if any) passes; Poll.OpenAt is the
single definition of that rule and is evaluated lazily wherever
lifecycle matters.
*/
package models
