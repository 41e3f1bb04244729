// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

// PhotoStore handles task photo persistence. The image bytes themselves
// live in object storage; rows here carry the public URL.
type PhotoStore struct {
	db *sql.DB
}

// NewPhotoStore creates a new PhotoStore with the given database connection.
func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// Add attaches a photo URL to an owned task. ErrNotFound when the task is
// missing or belongs to another user.
func (s *PhotoStore) Add(userID, taskID uuid.UUID, url string) (*models.Photo, error) {
	var owned uuid.UUID
	err := s.db.QueryRow(`
		SELECT t.id FROM tasks t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND c.user_id = $2
	`, taskID, userID).Scan(&owned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	p := &models.Photo{}
	err = s.db.QueryRow(`
		INSERT INTO photos (task_id, url)
		VALUES ($1, $2)
		RETURNING id, task_id, url, created_at
	`, taskID, url).Scan(&p.ID, &p.TaskID, &p.URL, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

// Delete removes an owned photo and returns its URL so the caller can
// delete the underlying object.
func (s *PhotoStore) Delete(userID, photoID uuid.UUID) (string, error) {
	var url string
	err := s.db.QueryRow(`
		DELETE FROM photos p
		USING tasks t, categories c
		WHERE p.id = $1 AND t.id = p.task_id AND c.id = t.category_id AND c.user_id = $2
		RETURNING p.url
	`, photoID, userID).Scan(&url)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete photo: %w", err)
	}
	return url, nil
}
