// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

// TaskStore handles task persistence, including the per-category dense
// ordering and moves between categories.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore with the given database connection.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// findForOwner resolves a task through its category's owner. Returns
// ErrNotFound when the task does not exist or the chain does not end at
// the given user.
func (s *TaskStore) findForOwner(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, userID, taskID uuid.UUID) (categoryID uuid.UUID, position int, err error) {
	err = q.QueryRow(`
		SELECT t.category_id, t.position
		FROM tasks t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND c.user_id = $2
	`, taskID, userID).Scan(&categoryID, &position)
	if err == sql.ErrNoRows {
		return uuid.Nil, 0, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("find task: %w", err)
	}
	return categoryID, position, nil
}

// FindForOwner returns an owned task or ErrNotFound.
func (s *TaskStore) FindForOwner(userID, taskID uuid.UUID) (*models.Task, error) {
	t := &models.Task{}
	err := s.db.QueryRow(`
		SELECT t.id, t.category_id, t.title, t.description, t.completed, t.position,
		       t.created_at, t.updated_at
		FROM tasks t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND c.user_id = $2
	`, taskID, userID).Scan(
		&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.Completed, &t.Order,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

// Create appends a new task at the end of an owned category. ErrNotFound
// when the category is missing or owned by someone else.
func (s *TaskStore) Create(userID, categoryID uuid.UUID, title string) (*models.Task, error) {
	var owned uuid.UUID
	err := s.db.QueryRow(`
		SELECT id FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&owned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}

	t := &models.Task{}
	err = s.db.QueryRow(`
		INSERT INTO tasks (category_id, title, position)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE category_id = $1))
		RETURNING id, category_id, title, description, completed, position,
		          created_at, updated_at
	`, categoryID, title).Scan(
		&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.Completed, &t.Order,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	t.Photos = []models.Photo{}
	t.Comments = []models.Comment{}
	return t, nil
}

// Delete removes an owned task and decrements the position of every later
// sibling in the same category, closing the gap exactly. Both steps run
// in one transaction.
func (s *TaskStore) Delete(userID, taskID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	categoryID, position, err := s.findForOwner(tx, userID, taskID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE tasks SET position = position - 1
		WHERE category_id = $1 AND position > $2
	`, categoryID, position); err != nil {
		return fmt.Errorf("renumber tasks: %w", err)
	}

	return tx.Commit()
}

// Move places an owned task at newOrder inside newCategoryID, which must
// also belong to the user. Same-category moves shift only the siblings
// between the old and new position; cross-category moves close the gap in
// the source column and open a slot in the destination. Everything runs
// in one transaction, using the position captured before any write.
func (s *TaskStore) Move(userID, taskID, newCategoryID uuid.UUID, newOrder int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	oldCategoryID, oldOrder, err := s.findForOwner(tx, userID, taskID)
	if err != nil {
		return err
	}

	// The destination must be verified separately: source ownership says
	// nothing about the target column.
	var destCount int
	err = tx.QueryRow(`
		SELECT (SELECT COUNT(*) FROM tasks WHERE category_id = $1)
		FROM categories WHERE id = $1 AND user_id = $2
	`, newCategoryID, userID).Scan(&destCount)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find destination: %w", err)
	}

	if newOrder < 0 {
		newOrder = 0
	}

	if oldCategoryID == newCategoryID {
		// Largest valid target is the last slot of the current column.
		if newOrder > destCount-1 {
			newOrder = destCount - 1
		}
		if newOrder == oldOrder {
			// No-op: skip entirely rather than writing a transiently
			// duplicated position.
			return tx.Commit()
		}
		if oldOrder < newOrder {
			_, err = tx.Exec(`
				UPDATE tasks SET position = position - 1
				WHERE category_id = $1 AND position > $2 AND position <= $3
			`, oldCategoryID, oldOrder, newOrder)
		} else {
			_, err = tx.Exec(`
				UPDATE tasks SET position = position + 1
				WHERE category_id = $1 AND position >= $3 AND position < $2
			`, oldCategoryID, oldOrder, newOrder)
		}
		if err != nil {
			return fmt.Errorf("shift tasks: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE tasks SET position = $1, updated_at = NOW() WHERE id = $2
		`, newOrder, taskID); err != nil {
			return fmt.Errorf("place task: %w", err)
		}
		return tx.Commit()
	}

	// Cross-category: appending at destCount shifts no destination sibling.
	if newOrder > destCount {
		newOrder = destCount
	}

	if _, err := tx.Exec(`
		UPDATE tasks SET position = position - 1
		WHERE category_id = $1 AND position > $2
	`, oldCategoryID, oldOrder); err != nil {
		return fmt.Errorf("vacate source: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE tasks SET position = position + 1
		WHERE category_id = $1 AND position >= $2
	`, newCategoryID, newOrder); err != nil {
		return fmt.Errorf("open destination slot: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE tasks SET category_id = $1, position = $2, updated_at = NOW()
		WHERE id = $3
	`, newCategoryID, newOrder, taskID); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	return tx.Commit()
}

// UpdateDetails applies a partial update: nil fields are left untouched.
// The ownership check lives in the UPDATE itself so a task deleted by a
// concurrent request still reports ErrNotFound.
func (s *TaskStore) UpdateDetails(userID, taskID uuid.UUID, title, description *string, createdAt *time.Time) (*models.Task, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	idx := 1
	if title != nil {
		set = append(set, fmt.Sprintf("title = $%d", idx))
		args = append(args, *title)
		idx++
	}
	if description != nil {
		set = append(set, fmt.Sprintf("description = $%d", idx))
		args = append(args, *description)
		idx++
	}
	if createdAt != nil {
		set = append(set, fmt.Sprintf("created_at = $%d", idx))
		args = append(args, *createdAt)
		idx++
	}
	args = append(args, taskID, userID)

	query := fmt.Sprintf(`
		UPDATE tasks SET %s
		WHERE id = $%d AND category_id IN (SELECT id FROM categories WHERE user_id = $%d)
		RETURNING id, category_id, title, description, completed, position,
		          created_at, updated_at
	`, strings.Join(set, ", "), idx, idx+1)

	t := &models.Task{}
	err := s.db.QueryRow(query, args...).Scan(
		&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.Completed, &t.Order,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// SetCompleted toggles the completion flag of an owned task.
func (s *TaskStore) SetCompleted(userID, taskID uuid.UUID, completed bool) (*models.Task, error) {
	t := &models.Task{}
	err := s.db.QueryRow(`
		UPDATE tasks SET completed = $1, updated_at = NOW()
		WHERE id = $2 AND category_id IN (SELECT id FROM categories WHERE user_id = $3)
		RETURNING id, category_id, title, description, completed, position,
		          created_at, updated_at
	`, completed, taskID, userID).Scan(
		&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.Completed, &t.Order,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return t, nil
}
