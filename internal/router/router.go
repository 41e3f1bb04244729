// Package router sets up all HTTP routes and middleware chains for the
// task board API. Routes are grouped into public, authenticated, and
// admin-only sections with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/session"
)

// Deps bundles the handler groups the router wires up.
type Deps struct {
	Sessions *session.Store
	Auth     *handlers.Auth
	Board    *handlers.Board
	Admin    *handlers.Admin
	Upload   *handlers.Upload
	Proxy    *handlers.Proxy
	Export   *handlers.Export
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Login gets its own rate limit against credential guessing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", d.Auth.Me)
		})

		// Board routes — any authenticated user, always scoped to their
		// own board.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/board", d.Board.Get)

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", d.Board.CreateCategory)
				r.Delete("/{categoryID}", d.Board.DeleteCategory)
				r.Patch("/{categoryID}/position", d.Board.MoveCategory)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", d.Board.CreateTask)
				r.Patch("/{taskID}", d.Board.UpdateTask)
				r.Delete("/{taskID}", d.Board.DeleteTask)
				r.Patch("/{taskID}/position", d.Board.MoveTask)
				r.Patch("/{taskID}/completion", d.Board.SetTaskCompletion)
				r.Post("/{taskID}/comments", d.Board.AddComment)
				r.Post("/{taskID}/photos", d.Board.AddPhoto)
			})

			r.Delete("/photos/{photoID}", d.Board.DeletePhoto)

			r.Post("/uploads", d.Upload.Photos)
			r.Post("/image-proxy", d.Proxy.Fetch)
			r.Get("/export", d.Export.Board)
		})

		// User management — admin only.
		r.Route("/admin/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/", d.Admin.ListUsers)
			r.Post("/", d.Admin.CreateUser)
			r.Post("/{userID}/password", d.Admin.ResetPassword)
			r.Delete("/{userID}", d.Admin.DeleteUser)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
