// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates photo thumbnails. Decoding supports JPEG,
// PNG and GIF; thumbnails are always re-encoded as JPEG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ThumbnailSize is the bounding box for generated thumbnails, in pixels.
const ThumbnailSize = 512

// jpegQuality matches what photo CDNs typically use for previews.
const jpegQuality = 82

// Thumbnail decodes an image and scales it to fit within ThumbnailSize,
// preserving aspect ratio. Images that already fit are re-encoded
// without scaling. Returns JPEG bytes.
func Thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > ThumbnailSize || height > ThumbnailSize {
		if width >= height {
			height = height * ThumbnailSize / width
			width = ThumbnailSize
		} else {
			width = width * ThumbnailSize / height
			height = ThumbnailSize
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// IsSupported reports whether the sniffed content type is an image format
// the thumbnailer can decode.
func IsSupported(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
