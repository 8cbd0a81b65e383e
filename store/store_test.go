package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/testutil"
)

func TestCreateUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected non-empty user id")
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %q", user.Username)
	}

	// Duplicate username is a validation error
	_, err = st.CreateUser(ctx, "alice")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate username, got %v", err)
	}

	// Blank username is rejected before touching the database
	_, err = st.CreateUser(ctx, "   ")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for blank username, got %v", err)
	}
}

func TestCreatePoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	creatorID := testutil.CreateTestUser(t, conn, "alice")

	endsAt := time.Now().UTC().Add(time.Hour)
	poll, err := st.CreatePoll(ctx, creatorID, "Lunch", "Where to eat", []string{"Pizza", "Salad"}, &endsAt)
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if poll.Poll.ID == "" {
		t.Error("Expected non-empty poll id")
	}
	if len(poll.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(poll.Options))
	}
	if poll.Poll.EndsAt == nil {
		t.Error("Expected ends_at to be set")
	}
	if !poll.Poll.Open() {
		t.Error("Expected freshly created poll to be open")
	}

	got, err := st.GetPoll(ctx, poll.Poll.ID)
	if err != nil {
		t.Fatalf("GetPoll failed: %v", err)
	}
	if got.Poll.Title != "Lunch" {
		t.Errorf("Expected title Lunch, got %q", got.Poll.Title)
	}
	if len(got.Options) != 2 {
		t.Errorf("Expected 2 stored options, got %d", len(got.Options))
	}
	for _, opt := range got.Options {
		if opt.VoteCount != 0 {
			t.Errorf("Expected fresh option %s to have 0 votes, got %d", opt.ID, opt.VoteCount)
		}
	}
}

func TestCreatePollValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	creatorID := testutil.CreateTestUser(t, conn, "alice")
	past := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name    string
		title   string
		options []string
		endsAt  *time.Time
	}{
		{"empty title", "", []string{"A", "B"}, nil},
		{"whitespace title", "   ", []string{"A", "B"}, nil},
		{"no options", "Poll", nil, nil},
		{"one option", "Poll", []string{"A"}, nil},
		{"one real option after trimming", "Poll", []string{"A", "   ", ""}, nil},
		{"ends_at in the past", "Poll", []string{"A", "B"}, &past},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.CreatePoll(ctx, creatorID, tt.title, "", tt.options, tt.endsAt)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	// No partial poll may be observable after any rejection - not even
	// a poll row with zero options.
	var pollCount, optionCount int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM polls`).Scan(&pollCount); err != nil {
		t.Fatalf("Failed to count polls: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM poll_options`).Scan(&optionCount); err != nil {
		t.Fatalf("Failed to count options: %v", err)
	}
	if pollCount != 0 || optionCount != 0 {
		t.Errorf("Expected no rows after rejected creations, got %d polls, %d options", pollCount, optionCount)
	}
}

func TestCreatePollUnknownCreator(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)

	_, err := st.CreatePoll(context.Background(), "no-such-user", "Poll", "", []string{"A", "B"}, nil)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestGetPollNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)

	_, err := st.GetPoll(context.Background(), "missing")
	if !errors.Is(err, ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}
}

func TestListOpenPolls(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	creatorID := testutil.CreateTestUser(t, conn, "alice")

	base := time.Now().UTC().Add(-time.Hour)
	past := base.Add(time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	oldest := testutil.CreateTestPollAt(t, conn, creatorID, "Oldest", base, nil)
	closed := testutil.CreateTestPollAt(t, conn, creatorID, "Closed", base.Add(time.Minute), &past)
	middle := testutil.CreateTestPollAt(t, conn, creatorID, "Middle", base.Add(2*time.Minute), &future)
	newest := testutil.CreateTestPollAt(t, conn, creatorID, "Newest", base.Add(3*time.Minute), nil)

	polls, err := st.ListOpenPolls(ctx)
	if err != nil {
		t.Fatalf("ListOpenPolls failed: %v", err)
	}

	if len(polls) != 3 {
		t.Fatalf("Expected 3 open polls, got %d", len(polls))
	}
	wantOrder := []string{newest, middle, oldest}
	for i, want := range wantOrder {
		if polls[i].Poll.ID != want {
			t.Errorf("Position %d: expected poll %s, got %s", i, want, polls[i].Poll.ID)
		}
	}
	for _, sm := range polls {
		if sm.Poll.ID == closed {
			t.Error("Closed poll listed as open")
		}
	}
}

func TestListPollsByCreator(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	first := testutil.CreateTestPollAt(t, conn, alice, "First", base, nil)
	second := testutil.CreateTestPollAt(t, conn, alice, "Second", base.Add(time.Minute), nil)
	testutil.CreateTestPollAt(t, conn, bob, "Bob's", base.Add(2*time.Minute), nil)

	polls, err := st.ListPollsByCreator(ctx, alice)
	if err != nil {
		t.Fatalf("ListPollsByCreator failed: %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("Expected 2 polls for alice, got %d", len(polls))
	}
	if polls[0].Poll.ID != second || polls[1].Poll.ID != first {
		t.Error("Expected newest-first ordering for creator listing")
	}

	none, err := st.ListPollsByCreator(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListPollsByCreator for unknown creator failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected empty listing for unknown creator, got %d", len(none))
	}
}

func TestListingsCarryTotalVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")

	pollID := testutil.CreateTestPoll(t, conn, alice, "Snacks", nil)
	optionID := testutil.AddTestOption(t, conn, pollID, "Chips")
	testutil.AddTestOption(t, conn, pollID, "Fruit")

	if _, err := st.CastVote(ctx, pollID, alice, optionID); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if _, err := st.CastVote(ctx, pollID, bob, optionID); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	polls, err := st.ListOpenPolls(ctx)
	if err != nil {
		t.Fatalf("ListOpenPolls failed: %v", err)
	}
	if len(polls) != 1 {
		t.Fatalf("Expected 1 poll, got %d", len(polls))
	}
	if polls[0].TotalVotes != 2 {
		t.Errorf("Expected total_votes 2, got %d", polls[0].TotalVotes)
	}
}
