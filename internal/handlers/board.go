// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/storage"
	"taskboard/internal/store"
)

// Board groups the category, task, comment and photo HTTP handlers.
// Every operation is scoped to the authenticated user's board.
type Board struct {
	categories *store.CategoryStore
	tasks      *store.TaskStore
	comments   *store.CommentStore
	photos     *store.PhotoStore
	storage    *storage.Client // nil when object storage is not configured
}

// NewBoard creates a new Board handler group.
func NewBoard(categories *store.CategoryStore, tasks *store.TaskStore, comments *store.CommentStore, photos *store.PhotoStore, st *storage.Client) *Board {
	return &Board{
		categories: categories,
		tasks:      tasks,
		comments:   comments,
		photos:     photos,
		storage:    st,
	}
}

// Get returns the full board for the authenticated user.
func (b *Board) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	board, err := b.categories.Board(sess.UserID)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type createCategoryRequest struct {
	Title string `json:"title"`
}

// CreateCategory appends a new column at the end of the board.
func (b *Board) CreateCategory(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createCategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := b.categories.Create(sess.UserID, req.Title)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a column and everything in it.
func (b *Board) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := b.categories.Delete(sess.UserID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type movePositionRequest struct {
	Order int `json:"order"`
}

// MoveCategory repositions a column on the board.
func (b *Board) MoveCategory(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req movePositionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := b.categories.Move(sess.UserID, id, req.Order); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTaskRequest struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
}

// CreateTask appends a new task at the bottom of a column.
func (b *Board) CreateTask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	categoryID, err := parseUUID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := b.tasks.Create(sess.UserID, categoryID, req.Title)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// UpdateTask applies a partial edit to a task's details. Omitted fields
// are left unchanged.
func (b *Board) UpdateTask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	task, err := b.tasks.UpdateDetails(sess.UserID, id, req.Title, req.Description, req.CreatedAt)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task, its comments and its photos.
func (b *Board) DeleteTask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := b.tasks.Delete(sess.UserID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveTaskRequest struct {
	CategoryID string `json:"category_id"`
	Order      int    `json:"order"`
}

// MoveTask places a task at a new slot, possibly in a different column.
func (b *Board) MoveTask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req moveTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	categoryID, err := parseUUID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := b.tasks.Move(sess.UserID, id, categoryID, req.Order); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completionRequest struct {
	Completed bool `json:"completed"`
}

// SetTaskCompletion toggles a task's completed flag.
func (b *Board) SetTaskCompletion(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req completionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := b.tasks.SetCompleted(sess.UserID, id, req.Completed)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// AddComment appends a comment to a task.
func (b *Board) AddComment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req addCommentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateComment(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := b.comments.Add(sess.UserID, id, req.Text)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

type addPhotoRequest struct {
	URL string `json:"url"`
}

// AddPhoto attaches an uploaded photo URL to a task.
func (b *Board) AddPhoto(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req addPhotoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "photo url is required")
		return
	}

	photo, err := b.photos.Add(sess.UserID, id, req.URL)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// DeletePhoto detaches a photo and removes the underlying object when it
// lives in our storage.
func (b *Board) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := urlID(r, "photoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	url, err := b.photos.Delete(sess.UserID, id)
	if err != nil {
		storeError(w, err)
		return
	}

	if b.storage != nil {
		if key, ok := b.storage.ExtractKey(url); ok {
			// The DB row is already gone; a stranded object is tolerable.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := b.storage.Delete(ctx, key); err != nil {
					slog.Error("photo object delete failed", "key", key, "error", err)
				}
			}()
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
