// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imageproxy fetches photos from a small allow-list of external
// hosts on behalf of the browser. Only https URLs are accepted, which
// keeps the proxy from being used to reach internal services.
package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// defaultAllowedHost is used when no allow-list is configured.
const defaultAllowedHost = "utfs.io"

// maxFetchBytes caps how much image data the proxy will buffer.
const maxFetchBytes = 32 << 20

var (
	// ErrInvalidURL is returned for malformed or non-https URLs.
	ErrInvalidURL = errors.New("invalid image url")

	// ErrHostNotAllowed is returned when the URL's host is not on the
	// allow-list.
	ErrHostNotAllowed = errors.New("host not allowed")
)

// Fetcher retrieves images from allow-listed https hosts.
type Fetcher struct {
	client  *http.Client
	allowed map[string]bool
}

// New creates a Fetcher restricted to the given hosts. An empty list
// falls back to the default allow-list.
func New(hosts []string) *Fetcher {
	if len(hosts) == 0 {
		hosts = []string{defaultAllowedHost}
	}
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[h] = true
	}
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		allowed: allowed,
	}
}

// Fetch downloads the image at rawURL and returns its bytes and content
// type. The URL must be https and its host must be allow-listed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if rawURL == "" {
		return nil, "", ErrInvalidURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "https" || parsed.Hostname() == "" {
		return nil, "", ErrInvalidURL
	}
	if !f.allowed[parsed.Hostname()] {
		return nil, "", ErrHostNotAllowed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: upstream status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
