// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method patterns.

	POST /users                   create a principal
	POST /polls                   create a poll (auth)
	GET  /polls                   list open polls, newest first
	GET  /polls/{id}              poll with options (+ caller's vote)
	GET  /polls/{id}/results      tally
	POST /polls/{id}/vote         cast a vote (auth)
	GET  /polls/{id}/my-vote      caller's vote (auth)
	GET  /my-polls                caller's polls (auth)
	GET  /health                  health check

Authenticated routes read the opaque principal id from the X-User-ID
header, which the identity collaborator sets upstream.
*/
package router
