// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"taskboard/internal/database"
	"taskboard/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "taskboard")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "taskboard")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway user whose rows (and everything cascading
// from them) are removed when the test finishes.
func testUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	users := NewUserStore(db)
	u, err := users.Create(email, "test-password-1", nil, models.RoleEmployee)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// mustCategory creates a category or fails the test.
func mustCategory(t *testing.T, db *sql.DB, userID uuid.UUID, title string) *models.Category {
	t.Helper()

	c, err := NewCategoryStore(db).Create(userID, title)
	if err != nil {
		t.Fatalf("failed to create category %q: %v", title, err)
	}
	return c
}

// mustTask creates a task or fails the test.
func mustTask(t *testing.T, db *sql.DB, userID, categoryID uuid.UUID, title string) *models.Task {
	t.Helper()

	tk, err := NewTaskStore(db).Create(userID, categoryID, title)
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return tk
}

// boardTitles flattens a board into category title -> ordered task titles,
// asserting that each column's positions are exactly 0..n-1 on the way.
func boardTitles(t *testing.T, db *sql.DB, userID uuid.UUID) map[string][]string {
	t.Helper()

	board, err := NewCategoryStore(db).Board(userID)
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}
	out := map[string][]string{}
	for i, c := range board {
		if c.Order != i {
			t.Errorf("category %q has position %d, want %d", c.Title, c.Order, i)
		}
		titles := []string{}
		for j, tk := range c.Tasks {
			if tk.Order != j {
				t.Errorf("task %q has position %d, want %d", tk.Title, tk.Order, j)
			}
			titles = append(titles, tk.Title)
		}
		out[c.Title] = titles
	}
	return out
}
