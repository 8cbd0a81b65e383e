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

type UserHandler struct {
	store *store.Store
}

func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, user)
}
