// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders a user's board as an xlsx workbook, one row per
// task with its photos embedded next to the row.
package export

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"taskboard/internal/models"
)

// SheetName is the name of the single worksheet in the export.
const SheetName = "Tasks"

// photoStartColumn is the first column (1-based) used for embedded photos.
const photoStartColumn = 8

// headers is the fixed header row of the export.
var headers = []string{"ID", "Title", "Description", "Category", "Status", "Created", "Comments"}

// columnWidths mirrors the header order.
var columnWidths = []float64{10, 35, 50, 18, 12, 14, 40}

// PhotoFetcher retrieves photo bytes for embedding. A fetch failure skips
// that photo rather than failing the whole export.
type PhotoFetcher func(ctx context.Context, url string) (data []byte, contentType string, err error)

// Build renders the board into an xlsx workbook. Tasks appear in board
// order: column by column, each column's tasks top to bottom.
func Build(ctx context.Context, board []models.Category, fetch PhotoFetcher) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	row := 2
	for _, category := range board {
		for _, task := range category.Tasks {
			if err := writeTask(ctx, f, row, &category, &task, fetch); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f, nil
}

// writeTask fills one row with the task's fields and embeds its photos.
func writeTask(ctx context.Context, f *excelize.File, row int, category *models.Category, task *models.Task, fetch PhotoFetcher) error {
	status := "Open"
	if task.Completed {
		status = "Done"
	}
	description := ""
	if task.Description != nil {
		description = *task.Description
	}
	comments := make([]string, 0, len(task.Comments))
	for _, cm := range task.Comments {
		comments = append(comments, cm.Text)
	}

	values := []any{
		task.ID.String(),
		task.Title,
		description,
		category.Title,
		status,
		task.CreatedAt.Format(time.DateOnly),
		strings.Join(comments, "\n"),
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("write task row: %w", err)
		}
	}

	if fetch == nil || len(task.Photos) == 0 {
		return nil
	}

	col := photoStartColumn
	embedded := false
	for _, photo := range task.Photos {
		data, contentType, err := fetch(ctx, photo.URL)
		if err != nil {
			// Unreachable photos are skipped; the row still exports.
			continue
		}
		ext := extensionFor(contentType, photo.URL)
		if ext == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, row)
		err = f.AddPictureFromBytes(SheetName, cell, &excelize.Picture{
			Extension: ext,
			File:      data,
			Format:    &excelize.GraphicOptions{AutoFit: true},
		})
		if err != nil {
			return fmt.Errorf("embed photo: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(SheetName, name, name, 18); err != nil {
			return fmt.Errorf("set photo column width: %w", err)
		}
		col++
		embedded = true
	}
	if embedded {
		if err := f.SetRowHeight(SheetName, row, 90); err != nil {
			return fmt.Errorf("set photo row height: %w", err)
		}
	}
	return nil
}

// extensionFor picks an image extension from the content type, falling
// back to the URL suffix. Returns "" for non-image data.
func extensionFor(contentType, url string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mediaType {
		case "image/png":
			return ".png"
		case "image/jpeg":
			return ".jpg"
		case "image/gif":
			return ".gif"
		}
	}
	lower := strings.ToLower(url)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			if ext == ".jpeg" {
				return ".jpg"
			}
			return ext
		}
	}
	return ""
}

// Filename returns the download filename for an export generated now.
func Filename(now time.Time) string {
	return "tasks_" + now.Format(time.DateOnly) + ".xlsx"
}
