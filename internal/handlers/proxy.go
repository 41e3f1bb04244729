// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"taskboard/internal/imageproxy"
)

// Proxy exposes the external image fetcher to the browser. The frontend
// uses it to inline photos from hosts that block cross-origin reads.
type Proxy struct {
	fetcher *imageproxy.Fetcher
}

// NewProxy creates a new Proxy handler.
func NewProxy(fetcher *imageproxy.Fetcher) *Proxy {
	return &Proxy{fetcher: fetcher}
}

type proxyRequest struct {
	URL string `json:"url"`
}

type proxyResponse struct {
	Base64      string `json:"base64"`
	ContentType string `json:"content_type"`
}

// Fetch downloads an allow-listed image and returns it base64-encoded.
func (p *Proxy) Fetch(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	data, contentType, err := p.fetcher.Fetch(r.Context(), req.URL)
	switch {
	case errors.Is(err, imageproxy.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "only https urls are allowed")
		return
	case errors.Is(err, imageproxy.ErrHostNotAllowed):
		writeError(w, http.StatusBadRequest, "host not allowed")
		return
	case err != nil:
		slog.Error("image proxy fetch failed", "url", req.URL, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch image")
		return
	}

	writeJSON(w, http.StatusOK, proxyResponse{
		Base64:      base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	})
}
