/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package site

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSaveImageStoresFileAndMetadata(t *testing.T) {
	db := openSiteTestDB(t)
	dir := t.TempDir()
	g := NewGallery(db, dir, zerolog.Nop())
	ctx := context.Background()

	data := pngBytes(t, 32, 16)
	img, err := g.SaveImage(ctx, "header photo.PNG", "a header", "caption", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save image: %v", err)
	}

	if img.Width != 32 || img.Height != 16 {
		t.Errorf("dimensions = %dx%d, want 32x16", img.Width, img.Height)
	}
	if img.FileSize != int64(len(data)) {
		t.Errorf("file size = %d, want %d", img.FileSize, len(data))
	}
	if img.OriginalFilename != "header photo.PNG" {
		t.Errorf("original filename = %q", img.OriginalFilename)
	}
	if !strings.HasSuffix(img.Filename, ".png") || img.Filename == "header photo.PNG" {
		t.Errorf("stored filename %q should be generated with a lowercase extension", img.Filename)
	}

	if _, err := os.Stat(filepath.Join(dir, img.Filename)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	db := openSiteTestDB(t)
	g := NewGallery(db, t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	_, err := g.SaveImage(ctx, "notes.txt", "", "", strings.NewReader("plain text"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("txt upload err = %v, want ErrUnsupportedImage", err)
	}

	// Right extension, wrong content.
	_, err = g.SaveImage(ctx, "fake.png", "", "", strings.NewReader("not a png"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("fake png err = %v, want ErrUnsupportedImage", err)
	}
}

func TestDeleteImageRemovesFile(t *testing.T) {
	db := openSiteTestDB(t)
	dir := t.TempDir()
	g := NewGallery(db, dir, zerolog.Nop())
	ctx := context.Background()

	img, err := g.SaveImage(ctx, "gone.png", "", "", bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("save image: %v", err)
	}

	if err := g.DeleteImage(ctx, img.ID); err != nil {
		t.Fatalf("delete image: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, img.Filename)); !os.IsNotExist(err) {
		t.Errorf("file still present after delete (err = %v)", err)
	}
	if _, err := g.GetImage(ctx, img.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	if err := g.DeleteImage(ctx, img.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUpdateImageMeta(t *testing.T) {
	db := openSiteTestDB(t)
	g := NewGallery(db, t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	img, err := g.SaveImage(ctx, "meta.png", "old alt", "old caption", bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("save image: %v", err)
	}

	if err := g.UpdateImageMeta(ctx, img.ID, "new alt", "new caption"); err != nil {
		t.Fatalf("update meta: %v", err)
	}
	got, err := g.GetImage(ctx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AltText != "new alt" || got.Caption != "new caption" {
		t.Errorf("meta = %q/%q, want updated values", got.AltText, got.Caption)
	}
}
