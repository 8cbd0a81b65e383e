// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

Ballotbox is a polling service: authenticated principals create polls
with multiple options and cast exactly one vote each; anyone can view
running tallies. One vote per principal per poll is enforced by the
database, not by application checks, so concurrent duplicate requests
resolve to exactly one accepted vote.

# Starting the Server

The server reads environment variables (optionally from .env) or CLI
flags:

	DATABASE_URL="file:ballotbox.db?_pragma=foreign_keys(1)" go run .

Or with flags:

	go run . -p 3000 -t postgres -d "postgres://..."

# Configuration

  - DATABASE_URL (-d): connection string (required)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): server port (default: 3000)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - store: the vote-casting and tally-consistency engine
  - handlers: HTTP request handlers (users, polls, voting, results)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain and request/response types
  - db: driver selection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
