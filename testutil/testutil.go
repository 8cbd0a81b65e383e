// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. Each test gets its own named shared-cache database so tests
// never see each other's rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := cliparse.Config{
		DatabaseType: "sqlite",
		DatabaseURL:  "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
	}

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// CreateTestUser inserts a principal and returns its id.
func CreateTestUser(t *testing.T, conn *sql.DB, username string) string {
	t.Helper()

	userID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO users (id, username, created_at)
		VALUES ($1, $2, $3)
	`, userID, username, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestPoll inserts a poll created now and returns its id.
// A nil endsAt means the poll never closes; a past endsAt makes it closed.
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID, title string, endsAt *time.Time) string {
	t.Helper()
	return CreateTestPollAt(t, conn, creatorID, title, time.Now().UTC(), endsAt)
}

// CreateTestPollAt inserts a poll with an explicit creation time, for
// tests that depend on listing order.
func CreateTestPollAt(t *testing.T, conn *sql.DB, creatorID, title string, createdAt time.Time, endsAt *time.Time) string {
	t.Helper()

	pollID := uuid.NewString()
	if endsAt != nil {
		utc := endsAt.UTC()
		endsAt = &utc
	}
	_, err := conn.Exec(`
		INSERT INTO polls (id, title, description, creator_id, created_at, ends_at)
		VALUES ($1, $2, '', $3, $4, $5)
	`, pollID, title, creatorID, createdAt.UTC(), endsAt)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, option_text, vote_count)
		VALUES ($1, $2, $3, 0)
	`, optionID, pollID, text)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
