package imageproxy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

// stubTransport serves a canned response for any request, recording the
// URL it was asked for.
type stubTransport struct {
	status      int
	body        []byte
	contentType string
	requested   string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requested = req.URL.String()
	header := http.Header{}
	if s.contentType != "" {
		header.Set("Content-Type", s.contentType)
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(s.body)),
		Request:    req,
	}, nil
}

func TestFetchRejectsBadURLs(t *testing.T) {
	f := New([]string{"cdn.test.local"})

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", ErrInvalidURL},
		{"not a url", "://nope", ErrInvalidURL},
		{"plain http", "http://cdn.test.local/a.jpg", ErrInvalidURL},
		{"host not listed", "https://evil.test/a.jpg", ErrHostNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.Fetch(context.Background(), tt.url)
			if !errors.Is(err, tt.want) {
				t.Errorf("Fetch(%q) err = %v, want %v", tt.url, err, tt.want)
			}
		})
	}
}

func TestFetchDefaultAllowList(t *testing.T) {
	f := New(nil)
	if !f.allowed[defaultAllowedHost] {
		t.Errorf("default allow-list missing %q", defaultAllowedHost)
	}
	if f.allowed["cdn.test.local"] {
		t.Error("default allow-list should not contain arbitrary hosts")
	}
}

func TestFetchReturnsBytesAndContentType(t *testing.T) {
	stub := &stubTransport{status: http.StatusOK, body: []byte("img-bytes"), contentType: "image/png"}
	f := New([]string{"cdn.test.local"})
	f.client.Transport = stub

	data, contentType, err := f.Fetch(context.Background(), "https://cdn.test.local/photos/a.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "img-bytes" {
		t.Errorf("data = %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	if stub.requested != "https://cdn.test.local/photos/a.png" {
		t.Errorf("requested %q", stub.requested)
	}
}

func TestFetchDefaultsContentType(t *testing.T) {
	stub := &stubTransport{status: http.StatusOK, body: []byte("x")}
	f := New([]string{"cdn.test.local"})
	f.client.Transport = stub

	_, contentType, err := f.Fetch(context.Background(), "https://cdn.test.local/a")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %q, want image/jpeg fallback", contentType)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	stub := &stubTransport{status: http.StatusNotFound}
	f := New([]string{"cdn.test.local"})
	f.client.Transport = stub

	if _, _, err := f.Fetch(context.Background(), "https://cdn.test.local/missing.jpg"); err == nil {
		t.Error("expected error for upstream 404")
	}
}
