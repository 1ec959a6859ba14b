/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/site"
)

// MaxUploadSizeBytes caps gallery uploads at 10 MiB.
const MaxUploadSizeBytes = 10 << 20

// AdminGallery lists the uploaded images.
func (h *Handler) AdminGallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.ListImages(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list images")
		return
	}

	h.Render(w, r, "pages/admin/gallery", PageData{
		Title: "Image Gallery",
		Data:  map[string]any{"Images": images},
	})
}

// AdminGalleryUpload stores an uploaded image.
func (h *Handler) AdminGalleryUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(MaxUploadSizeBytes); err != nil {
		http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := h.gallery.SaveImage(r.Context(), header.Filename,
		strings.TrimSpace(r.FormValue("alt_text")),
		strings.TrimSpace(r.FormValue("caption")), file)
	if errors.Is(err, site.ErrUnsupportedImage) {
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "save image")
		return
	}

	h.record(r, activity.ActionImageUpload, fmt.Sprintf("Uploaded image %q", img.OriginalFilename))
	h.redirect(w, r, "/admin/gallery")
}

// AdminGalleryUpdate edits an image's alt text and caption.
func (h *Handler) AdminGalleryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	err = h.gallery.UpdateImageMeta(r.Context(), id,
		strings.TrimSpace(r.FormValue("alt_text")),
		strings.TrimSpace(r.FormValue("caption")))
	if errors.Is(err, site.ErrNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "update image")
		return
	}

	h.redirect(w, r, "/admin/gallery")
}

// AdminGalleryDelete removes an image and its file.
func (h *Handler) AdminGalleryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.gallery.DeleteImage(r.Context(), id); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete image")
		return
	}

	h.record(r, activity.ActionImageDelete, fmt.Sprintf("Deleted image #%d", id))
	h.redirect(w, r, "/admin/gallery")
}
