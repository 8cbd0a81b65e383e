// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/models"
)

// CastVote records a single vote for userID on pollID as one atomic
// unit: lifecycle check, option check, ledger insert, and tally
// increment all commit together or not at all. A rejected vote leaves
// every row untouched and is never retried here.
//
// The duplicate pre-check only shortcuts the common case. Two requests
// can both pass it before either inserts, so the UNIQUE(poll_id,
// user_id) index on the insert is what actually decides the race; its
// rejection maps to the same ErrDuplicateVote.
func (s *Store) CastVote(ctx context.Context, pollID, userID, optionID string) (*models.VoteAccepted, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var poll models.Poll
	err = tx.QueryRowContext(ctx, `
		SELECT id, created_at, ends_at FROM polls WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.CreatedAt, &poll.EndsAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}

	if !poll.OpenAt(now) {
		return nil, fmt.Errorf("%w: %s", ErrPollClosed, pollID)
	}

	var optionOK bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2)
	`, optionID, pollID).Scan(&optionOK)
	if err != nil {
		return nil, fmt.Errorf("check option: %w", err)
	}
	if !optionOK {
		return nil, fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}

	var userOK bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, userID).Scan(&userOK)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !userOK {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	// Fast path for the common duplicate; not authoritative.
	var voted bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)
	`, pollID, userID).Scan(&voted)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		return nil, fmt.Errorf("%w: user %s on poll %s", ErrDuplicateVote, userID, pollID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, poll_id, user_id, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollID, userID, optionID, now)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent request for the same key.
			return nil, fmt.Errorf("%w: user %s on poll %s", ErrDuplicateVote, userID, pollID)
		}
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll_options SET vote_count = vote_count + 1 WHERE id = $1
	`, optionID)
	if err != nil {
		return nil, fmt.Errorf("increment vote count: %w", err)
	}

	var count int64
	err = tx.QueryRowContext(ctx, `
		SELECT vote_count FROM poll_options WHERE id = $1
	`, optionID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("read vote count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote: %w", err)
	}

	return &models.VoteAccepted{
		PollID:    pollID,
		OptionID:  optionID,
		VoteCount: count,
	}, nil
}

// UserVote returns the option id userID voted for on pollID, or ""
// when they have not voted.
func (s *Store) UserVote(ctx context.Context, pollID, userID string) (string, error) {
	var optionID string
	err := s.db.QueryRowContext(ctx, `
		SELECT option_id FROM votes WHERE poll_id = $1 AND user_id = $2
	`, pollID, userID).Scan(&optionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query vote: %w", err)
	}
	return optionID, nil
}
