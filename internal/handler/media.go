package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"gamehub/internal/httputil"
	"gamehub/internal/model"
	"gamehub/internal/service"
)

// MediaHandler groups the image upload endpoints. Only mounted when R2 is
// configured.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler wires dependencies for the upload endpoints.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadCover accepts a multipart image and returns the hosted cover URL for
// the publish form.
// POST /media/covers
func (h *MediaHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.media.UploadCover)
}

// UploadScreenshot accepts a multipart image and returns the hosted
// screenshot URL.
// POST /media/screenshots
func (h *MediaHandler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.media.UploadScreenshot)
}

type uploadFunc func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, fn uploadFunc) {
	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	result, err := fn(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
