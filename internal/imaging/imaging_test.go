package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestThumbnailScalesDown(t *testing.T) {
	out, err := Thumbnail(encodePNG(t, 2048, 1024))
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	w, h := decodeSize(t, out)
	if w != ThumbnailSize {
		t.Errorf("width = %d, want %d", w, ThumbnailSize)
	}
	if h != ThumbnailSize/2 {
		t.Errorf("height = %d, want %d", h, ThumbnailSize/2)
	}
}

func TestThumbnailPortrait(t *testing.T) {
	out, err := Thumbnail(encodePNG(t, 600, 1200))
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	w, h := decodeSize(t, out)
	if h != ThumbnailSize {
		t.Errorf("height = %d, want %d", h, ThumbnailSize)
	}
	if w != ThumbnailSize/2 {
		t.Errorf("width = %d, want %d", w, ThumbnailSize/2)
	}
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	out, err := Thumbnail(encodePNG(t, 100, 80))
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	w, h := decodeSize(t, out)
	if w != 100 || h != 80 {
		t.Errorf("size = %dx%d, want 100x80", w, h)
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, err := Thumbnail([]byte("not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestIsSupported(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/gif"} {
		if !IsSupported(ct) {
			t.Errorf("IsSupported(%q) = false", ct)
		}
	}
	for _, ct := range []string{"image/webp", "application/pdf", "text/html"} {
		if IsSupported(ct) {
			t.Errorf("IsSupported(%q) = true", ct)
		}
	}
}
