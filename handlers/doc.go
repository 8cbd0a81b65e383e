// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP layer over the store.

Handlers are thin: they extract the principal from the X-User-ID
header, decode JSON, call one store operation, and translate the
store's sentinel errors to HTTP statuses (400 validation, 404 not
found, 401 missing/unknown principal, 409 closed poll or duplicate
vote). All invariants live in the store.

  - UserHandler: principal provisioning
  - PollHandler: poll creation, lookup, listings
  - VotingHandler: vote casting, own-vote lookup
  - ResultsHandler: tallies
*/
package handlers
