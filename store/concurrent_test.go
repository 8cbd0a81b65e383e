// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/ballotbox/testutil"
)

// TestConcurrentDuplicateVotes races many casts for the same
// (poll, user) key. Exactly one must win; every loser must get
// ErrDuplicateVote from the unique index, and the tally must agree
// with the ledger afterward.
func TestConcurrentDuplicateVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, conn, "alice")

	pollID := testutil.CreateTestPoll(t, conn, alice, "Contested", nil)
	options := []string{
		testutil.AddTestOption(t, conn, pollID, "A"),
		testutil.AddTestOption(t, conn, pollID, "B"),
		testutil.AddTestOption(t, conn, pollID, "C"),
	}

	numAttempts := 10
	var successCount, duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			_, err := st.CastVote(ctx, pollID, alice, options[attempt%len(options)])
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				duplicateCount.Add(1)
			default:
				t.Errorf("Unexpected error from concurrent cast: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", successCount.Load())
	}
	if duplicateCount.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d duplicate rejections, got %d", numAttempts-1, duplicateCount.Load())
	}

	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes WHERE poll_id = $1`, pollID).Scan(&votes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if votes != 1 {
		t.Errorf("Expected 1 vote row, got %d", votes)
	}

	if err := st.VerifyTally(ctx, pollID); err != nil {
		t.Errorf("Tally diverged under contention: %v", err)
	}
}

// TestConcurrentDistinctVoters verifies independent principals never
// interfere: all casts succeed and the counts add up.
func TestConcurrentDistinctVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	st := New(conn)
	ctx := context.Background()
	creator := testutil.CreateTestUser(t, conn, "creator")

	pollID := testutil.CreateTestPoll(t, conn, creator, "Busy", nil)
	options := []string{
		testutil.AddTestOption(t, conn, pollID, "A"),
		testutil.AddTestOption(t, conn, pollID, "B"),
	}

	numVoters := 12
	voters := make([]string, numVoters)
	for i := 0; i < numVoters; i++ {
		voters[i] = testutil.CreateTestUser(t, conn, fmt.Sprintf("voter%d", i))
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			if _, err := st.CastVote(ctx, pollID, voters[idx], options[idx%len(options)]); err != nil {
				t.Errorf("Vote by voter%d failed: %v", idx, err)
				return
			}
			successCount.Add(1)
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d accepted votes, got %d", numVoters, successCount.Load())
	}

	tally, err := st.Tally(ctx, pollID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if tally.Total != int64(numVoters) {
		t.Errorf("Expected total %d, got %d", numVoters, tally.Total)
	}
	if err := st.VerifyTally(ctx, pollID); err != nil {
		t.Errorf("Tally diverged under load: %v", err)
	}
}
