// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateUserRequest struct {
	Username string `json:"username"`
}

type CreatePollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type VoteAccepted struct {
	PollID    string `json:"poll_id"`
	OptionID  string `json:"option_id"`
	VoteCount int64  `json:"vote_count"`
}

type MyVoteResponse struct {
	OptionID *string `json:"option_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatorID   string     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// OpenAt reports whether the poll accepts votes at the given instant.
// A poll is open from the moment it is created until ends_at passes;
// a poll with no ends_at never closes.
func (p Poll) OpenAt(now time.Time) bool {
	return p.EndsAt == nil || now.Before(*p.EndsAt)
}

// Open reports whether the poll accepts votes right now.
func (p Poll) Open() bool {
	return p.OpenAt(time.Now().UTC())
}

type Option struct {
	ID        string `json:"id"`
	PollID    string `json:"poll_id"`
	Text      string `json:"text"`
	VoteCount int64  `json:"vote_count"`
}

type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	UserID    string    `json:"user_id"`
	OptionID  string    `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
	// UserVote is the caller's option id, when a principal was supplied
	// and has voted on this poll.
	UserVote *string `json:"user_vote,omitempty"`
}

// PollSummary is a listing row: the poll plus its total vote count.
type PollSummary struct {
	Poll       Poll  `json:"poll"`
	TotalVotes int64 `json:"total_votes"`
}

// Tally types

type OptionCount struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Count    int64  `json:"count"`
}

type TallyResult struct {
	PollID  string        `json:"poll_id"`
	Options []OptionCount `json:"options"`
	Total   int64         `json:"total"`
}

// Counts returns the tally as an option id -> count map.
func (t TallyResult) Counts() map[string]int64 {
	m := make(map[string]int64, len(t.Options))
	for _, oc := range t.Options {
		m[oc.OptionID] = oc.Count
	}
	return m
}
