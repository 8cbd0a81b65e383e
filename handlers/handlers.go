// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/store"
)

// writeStoreError maps the store's sentinel errors onto HTTP statuses.
// Unknown errors are logged and reported as a generic 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPollNotFound), errors.Is(err, store.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUserNotFound):
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrPollClosed), errors.Is(err, store.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
