// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/models"
)

// Store owns all poll, vote, and tally operations. It keeps no state
// of its own: every operation reads and writes the injected database,
// so concurrent requests coordinate only through the database's
// transactions and constraints.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateUser provisions a principal. Credentials and login live with
// the identity collaborator; this only reserves the id and name.
func (s *Store) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, created_at)
		VALUES ($1, $2, $3)
	`, user.ID, user.Username, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username already taken", ErrValidation)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetUser looks up a principal by id.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, created_at FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// CreatePoll writes the poll row and all its option rows as one
// transaction. A poll is never observable with fewer than 2 options:
// any validation failure aborts the whole unit.
func (s *Store) CreatePoll(ctx context.Context, creatorID, title, description string, options []string, endsAt *time.Time) (*models.PollWithOptions, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	trimmed := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			trimmed = append(trimmed, opt)
		}
	}
	if len(trimmed) < 2 {
		return nil, fmt.Errorf("%w: at least 2 non-empty options required", ErrValidation)
	}

	now := time.Now().UTC()
	if endsAt != nil {
		t := endsAt.UTC()
		if !t.After(now) {
			return nil, fmt.Errorf("%w: ends_at must be in the future", ErrValidation)
		}
		endsAt = &t
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var creatorOK bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, creatorID).Scan(&creatorOK)
	if err != nil {
		return nil, fmt.Errorf("check creator: %w", err)
	}
	if !creatorOK {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, creatorID)
	}

	poll := models.Poll{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
		CreatedAt:   now,
		EndsAt:      endsAt,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, title, description, creator_id, created_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.Title, poll.Description, poll.CreatorID, poll.CreatedAt, poll.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("insert poll: %w", err)
	}

	opts := make([]models.Option, 0, len(trimmed))
	for _, text := range trimmed {
		opt := models.Option{ID: uuid.NewString(), PollID: poll.ID, Text: text}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, option_text, vote_count)
			VALUES ($1, $2, $3, 0)
		`, opt.ID, opt.PollID, opt.Text)
		if err != nil {
			return nil, fmt.Errorf("insert option: %w", err)
		}
		opts = append(opts, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit poll: %w", err)
	}

	return &models.PollWithOptions{Poll: poll, Options: opts}, nil
}

// GetPoll returns a poll and its options, ordered by option id.
func (s *Store) GetPoll(ctx context.Context, pollID string) (*models.PollWithOptions, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, creator_id, created_at, ends_at
		FROM polls
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &poll.Description, &poll.CreatorID, &poll.CreatedAt, &poll.EndsAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, vote_count
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.VoteCount); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}

	return &models.PollWithOptions{Poll: poll, Options: options}, nil
}

// ListOpenPolls returns polls still accepting votes, newest first.
// Openness is evaluated lazily against the current clock; nothing
// transitions polls in the background.
func (s *Store) ListOpenPolls(ctx context.Context) ([]models.PollSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.description, p.creator_id, p.created_at, p.ends_at,
		       (SELECT COUNT(*) FROM votes v WHERE v.poll_id = p.id) AS total_votes
		FROM polls p
		WHERE p.ends_at IS NULL OR p.ends_at > $1
		ORDER BY p.created_at DESC
	`, time.Now().UTC())
	return scanSummaries(rows, err)
}

// ListPollsByCreator returns all polls owned by a creator, newest first.
func (s *Store) ListPollsByCreator(ctx context.Context, creatorID string) ([]models.PollSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.description, p.creator_id, p.created_at, p.ends_at,
		       (SELECT COUNT(*) FROM votes v WHERE v.poll_id = p.id) AS total_votes
		FROM polls p
		WHERE p.creator_id = $1
		ORDER BY p.created_at DESC
	`, creatorID)
	return scanSummaries(rows, err)
}

func scanSummaries(rows *sql.Rows, err error) ([]models.PollSummary, error) {
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	summaries := []models.PollSummary{}
	for rows.Next() {
		var sm models.PollSummary
		err := rows.Scan(&sm.Poll.ID, &sm.Poll.Title, &sm.Poll.Description,
			&sm.Poll.CreatorID, &sm.Poll.CreatedAt, &sm.Poll.EndsAt, &sm.TotalVotes)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	return summaries, nil
}
