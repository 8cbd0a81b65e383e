// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Drivers

Open selects the driver from Config.DatabaseType:

  - "sqlite": modernc.org/sqlite (pure Go, the default; use a
    file: DSN, e.g. "file:ballotbox.db?_pragma=foreign_keys(1)")
  - "postgres": lib/pq

Queries throughout the codebase use $1-style placeholders, which both
drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

	users 1──* polls (creator_id)
	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

votes carries UNIQUE(poll_id, user_id): at most one vote per principal
per poll, enforced by the database rather than application code. The
vote_count column on poll_options is a denormalized tally that is only
ever mutated inside the same transaction as a vote insert.
*/
package db
