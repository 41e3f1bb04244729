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

// CommentStore handles task comment persistence.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Add appends a comment to an owned task. ErrNotFound when the task is
// missing or belongs to another user.
func (s *CommentStore) Add(userID, taskID uuid.UUID, text string) (*models.Comment, error) {
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

	cm := &models.Comment{}
	err = s.db.QueryRow(`
		INSERT INTO comments (task_id, text)
		VALUES ($1, $2)
		RETURNING id, task_id, text, created_at
	`, taskID, text).Scan(&cm.ID, &cm.TaskID, &cm.Text, &cm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return cm, nil
}

// ListForTask returns a task's comments oldest first.
func (s *CommentStore) ListForTask(userID, taskID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.task_id, cm.text, cm.created_at
		FROM comments cm
		JOIN tasks t ON t.id = cm.task_id
		JOIN categories c ON c.id = t.category_id
		WHERE cm.task_id = $1 AND c.user_id = $2
		ORDER BY cm.created_at ASC
	`, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.TaskID, &cm.Text, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}
