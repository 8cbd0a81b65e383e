// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the vote-casting and tally-consistency engine.

A Store wraps an injected *sql.DB and exposes the whole operation
surface: CreateUser, CreatePoll, GetPoll, ListOpenPolls,
ListPollsByCreator, CastVote, UserVote, Tally, VerifyTally. It holds no
cross-request state; the database's transactions and constraints are
the only concurrency primitives.

# Casting a vote

CastVote runs one transaction that checks, in order: poll exists, poll
is open (clock vs ends_at), option belongs to the poll, principal
exists, and no prior vote. The prior-vote check exists only to give a
friendly answer in the common case - the UNIQUE(poll_id, user_id)
index on the votes table is what actually decides concurrent attempts.
Exactly one of two racing requests commits; the loser gets
ErrDuplicateVote immediately, with no retry and no partial write. The
option's vote_count is incremented inside the same transaction, so the
denormalized tally can never drift from the ledger.

# Errors

All failures map to sentinel errors (ErrValidation, ErrPollNotFound,
ErrOptionNotFound, ErrUserNotFound, ErrPollClosed, ErrDuplicateVote)
wrapped with detail; callers dispatch with errors.Is. Every error path
leaves the database exactly as it was.

# Tallies

Tally reads the denormalized counts. VerifyTally recounts the ledger
grouped by option and compares; the two views are required to be
numerically identical at every committed instant, and the tests assert
this after every mutation.
*/
package store
