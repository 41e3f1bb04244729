package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskboard/internal/models"
)

// Login's rejection paths never reach the session store, so a nil one
// is fine here; the full cookie round trip is covered by the session
// package tests.
func TestLoginRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuth(nil, env.Users)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"email": `, http.StatusBadRequest},
		{"missing password", `{"email":"someone@test.local"}`, http.StatusBadRequest},
		{"missing email", `{"password":"handler-test-pass"}`, http.StatusBadRequest},
		{"unknown field", `{"email":"a@b.c","password":"x","extra":true}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			auth.Login(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestLoginInvalidCredentialsAreUniform(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuth(nil, env.Users)
	u := env.newTestUser(t, "login-uniform@test.local", models.RoleEmployee)

	// Unknown account and wrong password must be indistinguishable.
	bodies := []string{
		`{"email":"nobody@test.local","password":"whatever-pass"}`,
		`{"email":"` + u.Email + `","password":"wrong-password"}`,
	}

	var responses []string
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		auth.Login(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		responses = append(responses, rr.Body.String())
	}
	if responses[0] != responses[1] {
		t.Errorf("response bodies differ: %q vs %q", responses[0], responses[1])
	}
}

func TestMeReturnsAccount(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuth(nil, env.Users)
	u := env.newTestUser(t, "me@test.local", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = withSession(req, sessionFor(u))
	rr := httptest.NewRecorder()
	auth.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, u.Email) || !strings.Contains(body, `"ADMIN"`) {
		t.Errorf("body = %s", body)
	}
}
