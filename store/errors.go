// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrValidation     = errors.New("invalid input")
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrPollClosed     = errors.New("poll is closed")
	ErrDuplicateVote  = errors.New("already voted")
)

// isUniqueViolation reports whether err is a unique-constraint
// rejection from either supported driver. The sqlite driver exposes no
// exported error type for constraint failures, so that side matches on
// the message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
