// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"taskboard/internal/imaging"
	"taskboard/internal/storage"
)

// Upload handles multipart photo uploads into object storage.
type Upload struct {
	storage  *storage.Client
	maxBytes int64
	maxFiles int
}

// NewUpload creates a new Upload handler. maxBytes is the per-file size
// limit and maxFiles the per-request count limit.
func NewUpload(st *storage.Client, maxBytes int64, maxFiles int) *Upload {
	return &Upload{storage: st, maxBytes: maxBytes, maxFiles: maxFiles}
}

// uploadedFile describes one stored photo in the upload response.
type uploadedFile struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Size         int64  `json:"size"`
}

// Photos accepts a multipart form with one or more "files" parts, stores
// each image with a thumbnail, and returns the public URLs. The URLs are
// attached to a task in a separate request.
func (u *Upload) Photos(w http.ResponseWriter, r *http.Request) {
	if u.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "photo storage is not configured")
		return
	}

	// Bound the whole request at the per-file limit times the file cap.
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes*int64(u.maxFiles))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > u.maxFiles {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many files (max %d)", u.maxFiles))
		return
	}

	results := make([]uploadedFile, 0, len(files))
	for _, header := range files {
		if header.Size > u.maxBytes {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is too large (max %d MB)", header.Filename, u.maxBytes>>20))
			return
		}

		file, err := header.Open()
		if err != nil {
			slog.Error("upload open failed", "file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			slog.Error("upload read failed", "file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		// Sniff the real content type; the client-supplied header is not
		// trusted.
		contentType := http.DetectContentType(data)
		if !imaging.IsSupported(contentType) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is not a supported image", header.Filename))
			return
		}

		thumb, err := imaging.Thumbnail(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s could not be decoded", header.Filename))
			return
		}

		id := uuid.New().String()
		key := "tasks/" + id + extFor(contentType)
		thumbKey := "tasks/" + id + "_thumb.jpg"

		ctx := r.Context()
		if err := u.storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
			slog.Error("photo upload failed", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := u.storage.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
			slog.Error("thumbnail upload failed", "key", thumbKey, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		results = append(results, uploadedFile{
			Name:         header.Filename,
			URL:          u.storage.FileURL(key),
			ThumbnailURL: u.storage.FileURL(thumbKey),
			Size:         header.Size,
		})
	}

	writeJSON(w, http.StatusCreated, results)
}

// extFor maps a sniffed image content type to a file extension.
func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
