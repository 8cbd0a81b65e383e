// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/store"
)

func NewRouter(st *store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st)
	pollHandler := handlers.NewPollHandler(st)
	votingHandler := handlers.NewVotingHandler(st)
	resultsHandler := handlers.NewResultsHandler(st)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Principals
	mux.HandleFunc("POST /users", middleware.WithLogging(userHandler.Create))

	// Polls
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.Create))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListOpen))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.Get))
	mux.HandleFunc("GET /my-polls", middleware.WithLogging(pollHandler.MyPolls))

	// Voting
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", middleware.WithLogging(votingHandler.GetMyVote))

	// Results
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
