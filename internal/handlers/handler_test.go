// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/session"
	"taskboard/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "taskboard")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "taskboard")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. The
// session-backed pieces are exercised through context injection, so no
// Valkey instance is needed here.
type testEnv struct {
	DB         *sql.DB
	Users      *store.UserStore
	Categories *store.CategoryStore
	Tasks      *store.TaskStore
	Comments   *store.CommentStore
	Photos     *store.PhotoStore
	Board      *Board
	Admin      *Admin
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	tasks := store.NewTaskStore(db)
	comments := store.NewCommentStore(db)
	photos := store.NewPhotoStore(db)

	return &testEnv{
		DB:         db,
		Users:      users,
		Categories: categories,
		Tasks:      tasks,
		Comments:   comments,
		Photos:     photos,
		Board:      NewBoard(categories, tasks, comments, photos, nil),
		Admin:      NewAdmin(users),
	}
}

// newTestUser creates a user removed (with its board) on test cleanup.
func (e *testEnv) newTestUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	u, err := e.Users.Create(email, "handler-test-pass", nil, role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// sessionFor builds session data matching a stored user.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// withSession attaches session data to a request context using the
// middleware key, simulating the state after LoadSession.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and a session.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// mustCategoryID creates a category directly through the store.
func (e *testEnv) mustCategoryID(t *testing.T, userID uuid.UUID, title string) uuid.UUID {
	t.Helper()
	c, err := e.Categories.Create(userID, title)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c.ID
}

// mustTaskID creates a task directly through the store.
func (e *testEnv) mustTaskID(t *testing.T, userID, categoryID uuid.UUID, title string) uuid.UUID {
	t.Helper()
	task, err := e.Tasks.Create(userID, categoryID, title)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task.ID
}
