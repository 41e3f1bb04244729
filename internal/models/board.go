// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the entities of the task board: users, categories
// (ordered columns), tasks, and their comments and photos.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named column on a user's board. Within one user the Order
// values of all categories form the dense sequence 0..n-1.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual field populated by the board query.
	Tasks []Task `json:"tasks"`
}

// Task is a unit of work belonging to exactly one category. Within one
// category the Order values of all tasks form the dense sequence 0..n-1.
type Task struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by the board query.
	Photos   []Photo   `json:"photos"`
	Comments []Comment `json:"comments"`
}

// Comment is an append-only note on a task, ordered by creation time.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo is an unordered image attachment on a task. The URL points at
// object storage and is produced by the upload endpoint.
type Photo struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
