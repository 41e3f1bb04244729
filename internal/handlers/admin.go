// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/store"
)

// Admin groups the user management HTTP handlers. All routes require the
// ADMIN role, enforced by middleware.
type Admin struct {
	users *store.UserStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(users *store.UserStore) *Admin {
	return &Admin{users: users}
}

// ListUsers returns every account, admins first.
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("user list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     *string     `json:"name,omitempty"`
	Role     models.Role `json:"role"`
}

// CreateUser registers a new account. The email is stored lowercased and
// a duplicate (in any casing) is a 409.
func (a *Admin) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be ADMIN or EMPLOYEE")
		return
	}

	user, err := a.users.Create(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword replaces a user's password.
func (a *Admin) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req resetPasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.users.ResetPassword(id, req.Password); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes an account and its entire board. Admins cannot
// delete themselves, and the last admin account cannot be removed.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if id == sess.UserID {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	target, err := a.users.FindByID(id)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if target.IsAdmin() {
		admins, err := a.users.CountAdmins()
		if err != nil {
			slog.Error("admin count failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if admins <= 1 {
			writeError(w, http.StatusBadRequest, "cannot delete the last admin")
			return
		}
	}

	if err := a.users.Delete(id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
