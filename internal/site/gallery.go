/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// ErrUnsupportedImage is returned for uploads that are not a readable
// jpeg, png or gif.
var ErrUnsupportedImage = errors.New("unsupported image format")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Gallery stores uploaded images on local disk and tracks their
// metadata in image_gallery.
type Gallery struct {
	db        *gorm.DB
	uploadDir string
	logger    zerolog.Logger
}

// NewGallery creates a gallery backed by uploadDir.
func NewGallery(db *gorm.DB, uploadDir string, logger zerolog.Logger) *Gallery {
	return &Gallery{
		db:        db,
		uploadDir: uploadDir,
		logger:    logger.With().Str("component", "gallery").Logger(),
	}
}

// UploadDir returns the directory served at /uploads/.
func (g *Gallery) UploadDir() string {
	return g.uploadDir
}

// SaveImage stores one uploaded file under a generated name and
// records its metadata. The original filename is kept only as display
// metadata, never used on disk.
func (g *Gallery) SaveImage(ctx context.Context, originalName, altText, caption string, file io.Reader) (*models.GalleryImage, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return nil, ErrUnsupportedImage
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	filename := uuid.New().String() + ext
	if err := os.MkdirAll(g.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	fullPath := filepath.Join(g.uploadDir, filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	img := &models.GalleryImage{
		Filename:         filename,
		OriginalFilename: filepath.Base(originalName),
		AltText:          altText,
		Caption:          caption,
		FileSize:         int64(len(data)),
		Width:            cfg.Width,
		Height:           cfg.Height,
		UploadedAt:       time.Now(),
	}
	if err := g.db.WithContext(ctx).Create(img).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("record upload: %w", err)
	}

	g.logger.Info().
		Str("filename", filename).
		Str("original", img.OriginalFilename).
		Int64("size", img.FileSize).
		Msg("image uploaded")
	return img, nil
}

// ListImages returns all gallery images, newest first.
func (g *Gallery) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := g.db.WithContext(ctx).Order("uploaded_at DESC").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// GetImage returns one image by id.
func (g *Gallery) GetImage(ctx context.Context, id int64) (*models.GalleryImage, error) {
	var img models.GalleryImage
	err := g.db.WithContext(ctx).First(&img, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return &img, nil
}

// UpdateImageMeta updates the alt text and caption of an image.
func (g *Gallery) UpdateImageMeta(ctx context.Context, id int64, altText, caption string) error {
	res := g.db.WithContext(ctx).Model(&models.GalleryImage{}).
		Where("id = ?", id).
		Updates(map[string]any{"alt_text": altText, "caption": caption})
	if res.Error != nil {
		return fmt.Errorf("update image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteImage removes the metadata row and the file on disk. A missing
// file is not an error; the row is the source of truth.
func (g *Gallery) DeleteImage(ctx context.Context, id int64) error {
	img, err := g.GetImage(ctx, id)
	if err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Delete(&models.GalleryImage{}, id).Error; err != nil {
		return fmt.Errorf("delete image row: %w", err)
	}
	fullPath := filepath.Join(g.uploadDir, img.Filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		g.logger.Warn().Err(err).Str("filename", img.Filename).Msg("failed to remove image file")
	}
	return nil
}
