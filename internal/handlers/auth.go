// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/session"
	"taskboard/internal/store"
)

// Auth groups the authentication HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public shape of an account in API responses.
type userResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  *string     `json:"name"`
	Role  models.Role `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// Login verifies credentials and starts a session. Invalid credentials
// always produce the same 401 regardless of whether the account exists.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Name:   name,
		Role:   user.Role,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Logout destroys the current session. Safe to call without one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(sess.UserID)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		// Account deleted while the session was still live.
		a.sessions.Destroy(r.Context(), w, r)
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
