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

// defaultCategoryColor is assigned to newly created columns.
const defaultCategoryColor = "#94a3b8"

// CategoryStore handles category (board column) persistence, including the
// per-user dense ordering of columns.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Board returns the user's full board: categories ordered by position,
// each with its tasks ordered by position, each task with its photos and
// its comments ordered by creation time.
func (s *CategoryStore) Board(userID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, color, position, created_at
		FROM categories WHERE user_id = $1 ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Color, &c.Order, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Tasks = []models.Task{}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	taskIndex := map[uuid.UUID][2]int{} // task id -> (category slot, task slot)
	taskRows, err := s.db.Query(`
		SELECT t.id, t.category_id, t.title, t.description, t.completed, t.position,
		       t.created_at, t.updated_at
		FROM tasks t
		JOIN categories c ON c.id = t.category_id
		WHERE c.user_id = $1
		ORDER BY t.position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t models.Task
		if err := taskRows.Scan(
			&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.Completed, &t.Order,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Photos = []models.Photo{}
		t.Comments = []models.Comment{}
		ci, ok := index[t.CategoryID]
		if !ok {
			continue
		}
		taskIndex[t.ID] = [2]int{ci, len(categories[ci].Tasks)}
		categories[ci].Tasks = append(categories[ci].Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return nil, err
	}

	photoRows, err := s.db.Query(`
		SELECT p.id, p.task_id, p.url, p.created_at
		FROM photos p
		JOIN tasks t ON t.id = p.task_id
		JOIN categories c ON c.id = t.category_id
		WHERE c.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer photoRows.Close()

	for photoRows.Next() {
		var p models.Photo
		if err := photoRows.Scan(&p.ID, &p.TaskID, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		if pos, ok := taskIndex[p.TaskID]; ok {
			task := &categories[pos[0]].Tasks[pos[1]]
			task.Photos = append(task.Photos, p)
		}
	}
	if err := photoRows.Err(); err != nil {
		return nil, err
	}

	commentRows, err := s.db.Query(`
		SELECT cm.id, cm.task_id, cm.text, cm.created_at
		FROM comments cm
		JOIN tasks t ON t.id = cm.task_id
		JOIN categories c ON c.id = t.category_id
		WHERE c.user_id = $1
		ORDER BY cm.created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var cm models.Comment
		if err := commentRows.Scan(&cm.ID, &cm.TaskID, &cm.Text, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if pos, ok := taskIndex[cm.TaskID]; ok {
			task := &categories[pos[0]].Tasks[pos[1]]
			task.Comments = append(task.Comments, cm)
		}
	}
	return categories, commentRows.Err()
}

// Create appends a new category at the end of the user's board. The
// position is computed inside the INSERT so the append is atomic.
func (s *CategoryStore) Create(userID uuid.UUID, title string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(`
		INSERT INTO categories (user_id, title, color, position)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM categories WHERE user_id = $1))
		RETURNING id, user_id, title, color, position, created_at
	`, userID, title, defaultCategoryColor).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Color, &c.Order, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	c.Tasks = []models.Task{}
	return c, nil
}

// Delete removes an owned category, cascading its tasks, photos and
// comments, then closes the gap in the user's column ordering. The two
// steps run in one transaction.
func (s *CategoryStore) Delete(userID, categoryID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`
		SELECT position FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&position)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE categories SET position = position - 1
		WHERE user_id = $1 AND position > $2
	`, userID, position); err != nil {
		return fmt.Errorf("renumber categories: %w", err)
	}

	return tx.Commit()
}

// Move repositions an owned category within the user's board, shifting the
// columns between the old and new position by one. Moving a category onto
// its current position writes nothing.
func (s *CategoryStore) Move(userID, categoryID uuid.UUID, newOrder int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var oldOrder, count int
	err = tx.QueryRow(`
		SELECT position, (SELECT COUNT(*) FROM categories WHERE user_id = $2)
		FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&oldOrder, &count)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}

	if newOrder < 0 {
		newOrder = 0
	}
	if newOrder > count-1 {
		newOrder = count - 1
	}
	if newOrder == oldOrder {
		return tx.Commit()
	}

	if oldOrder < newOrder {
		_, err = tx.Exec(`
			UPDATE categories SET position = position - 1
			WHERE user_id = $1 AND position > $2 AND position <= $3
		`, userID, oldOrder, newOrder)
	} else {
		_, err = tx.Exec(`
			UPDATE categories SET position = position + 1
			WHERE user_id = $1 AND position >= $3 AND position < $2
		`, userID, oldOrder, newOrder)
	}
	if err != nil {
		return fmt.Errorf("shift categories: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE categories SET position = $1 WHERE id = $2
	`, newOrder, categoryID); err != nil {
		return fmt.Errorf("place category: %w", err)
	}

	return tx.Commit()
}
