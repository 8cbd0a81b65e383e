// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ballotbox/models"
)

// Tally reads the denormalized per-option counts for a poll. Because
// the counter is only ever incremented in the same transaction as the
// vote insert, this matches a recount of the ledger at every committed
// instant; VerifyTally asserts that equivalence.
func (s *Store) Tally(ctx context.Context, pollID string) (*models.TallyResult, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)
	`, pollID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check poll: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, option_text, vote_count
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query tally: %w", err)
	}
	defer rows.Close()

	result := &models.TallyResult{PollID: pollID, Options: []models.OptionCount{}}
	for rows.Next() {
		var oc models.OptionCount
		if err := rows.Scan(&oc.OptionID, &oc.Text, &oc.Count); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		result.Options = append(result.Options, oc)
		result.Total += oc.Count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}

	return result, nil
}

// VerifyTally recounts the vote ledger and compares it with the
// denormalized counts, per option and for the poll total. Any
// divergence is returned as an error.
func (s *Store) VerifyTally(ctx context.Context, pollID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)
	`, pollID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check poll: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.vote_count,
		       (SELECT COUNT(*) FROM votes v WHERE v.option_id = o.id) AS ledger_count
		FROM poll_options o
		WHERE o.poll_id = $1
	`, pollID)
	if err != nil {
		return fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	var sum int64
	for rows.Next() {
		var optionID string
		var cached, ledger int64
		if err := rows.Scan(&optionID, &cached, &ledger); err != nil {
			return fmt.Errorf("scan counts: %w", err)
		}
		if cached != ledger {
			return fmt.Errorf("tally mismatch on option %s: vote_count=%d, ledger=%d", optionID, cached, ledger)
		}
		sum += cached
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate counts: %w", err)
	}

	var ledgerTotal int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE poll_id = $1
	`, pollID).Scan(&ledgerTotal)
	if err != nil {
		return fmt.Errorf("count votes: %w", err)
	}
	if sum != ledgerTotal {
		return fmt.Errorf("tally mismatch on poll %s: options sum=%d, ledger=%d", pollID, sum, ledgerTotal)
	}

	return nil
}
