// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

type PollHandler struct {
	store *store.Store
}

func NewPollHandler(st *store.Store) *PollHandler {
	return &PollHandler{store: st}
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), userID, req.Title, req.Description, req.Options, req.EndsAt)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", poll.Poll.ID, "creator_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// Get handles GET /polls/{id}
// Includes the caller's own vote when a principal header is present.
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if userID := middleware.UserID(r); userID != "" {
		optionID, err := h.store.UserVote(r.Context(), pollID, userID)
		if err != nil {
			slog.Warn("failed to load user vote", "error", err, "poll_id", pollID)
		} else if optionID != "" {
			poll.UserVote = &optionID
		}
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ListOpen handles GET /polls
func (h *PollHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListOpenPolls(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// MyPolls handles GET /my-polls
func (h *PollHandler) MyPolls(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	polls, err := h.store.ListPollsByCreator(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}
