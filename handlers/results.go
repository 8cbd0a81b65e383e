// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/store"
)

type ResultsHandler struct {
	store *store.Store
}

func NewResultsHandler(st *store.Store) *ResultsHandler {
	return &ResultsHandler{store: st}
}

// GetResults handles GET /polls/{id}/results
// Tallies remain readable after a poll closes.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	tally, err := h.store.Tally(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}
