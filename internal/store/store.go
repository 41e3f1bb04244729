// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access for all task board entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
//
// Every mutating method is scoped by the owning user's id: a row that
// exists but belongs to another user is reported as ErrNotFound, never as
// a permission error, so the API does not leak other users' data.
// Position renumbering always runs inside a single transaction.
package store

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness rule is violated, such as
	// creating a user with an email that is already taken.
	ErrConflict = errors.New("conflict")
)
