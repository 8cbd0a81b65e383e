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

type VotingHandler struct {
	store *store.Store
}

func NewVotingHandler(st *store.Store) *VotingHandler {
	return &VotingHandler{store: st}
}

// CastVote handles POST /polls/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	userID := middleware.UserID(r)
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	accepted, err := h.store.CastVote(r.Context(), pollID, userID, req.OptionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_id", accepted.OptionID, "count", accepted.VoteCount)

	middleware.JSONResponse(w, http.StatusCreated, accepted)
}

// GetMyVote handles GET /polls/{id}/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	userID := middleware.UserID(r)
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	optionID, err := h.store.UserVote(r.Context(), pollID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := models.MyVoteResponse{}
	if optionID != "" {
		resp.OptionID = &optionID
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
