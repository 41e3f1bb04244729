// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskboard/internal/export"
	"taskboard/internal/imageproxy"
	"taskboard/internal/middleware"
	"taskboard/internal/storage"
	"taskboard/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// errUnfetchablePhoto marks photos no configured source can retrieve;
// they are skipped instead of embedded.
var errUnfetchablePhoto = errors.New("no source for photo")

// Export streams the authenticated user's board as an xlsx download.
type Export struct {
	categories *store.CategoryStore
	storage    *storage.Client     // nil when object storage is not configured
	fetcher    *imageproxy.Fetcher // for photos hosted outside our bucket
}

// NewExport creates a new Export handler.
func NewExport(categories *store.CategoryStore, st *storage.Client, fetcher *imageproxy.Fetcher) *Export {
	return &Export{categories: categories, storage: st, fetcher: fetcher}
}

// photoFetcher retrieves photo bytes for embedding: bucket objects are
// downloaded directly, anything else goes through the image proxy's
// allow-listed fetch. Returns nil when neither source is configured.
func (e *Export) photoFetcher() export.PhotoFetcher {
	if e.storage == nil && e.fetcher == nil {
		return nil
	}
	return func(ctx context.Context, url string) ([]byte, string, error) {
		if e.storage != nil {
			if key, ok := e.storage.ExtractKey(url); ok {
				data, err := e.storage.Download(ctx, key)
				if err != nil {
					return nil, "", err
				}
				return data, http.DetectContentType(data), nil
			}
		}
		if e.fetcher != nil {
			return e.fetcher.Fetch(ctx, url)
		}
		return nil, "", errUnfetchablePhoto
	}
}

// Board builds the workbook and sends it as an attachment. Photos are
// embedded next to their task rows when a source can fetch them.
func (e *Export) Board(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	board, err := e.categories.Board(sess.UserID)
	if err != nil {
		storeError(w, err)
		return
	}

	workbook, err := export.Build(r.Context(), board, e.photoFetcher())
	if err != nil {
		slog.Error("export build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if err := workbook.Write(w); err != nil {
		slog.Error("export write failed", "error", err)
	}
}
