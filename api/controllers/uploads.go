package controllers

import (
	"io"
	"net/http"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/internal/uploads"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

const uploadsFormField = "images"

// UploadImages receives a multipart batch of product images, normalizes them
// and stores them in the media bucket.
func UploadImages(svc uploads.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(media.MaxUploadMB) * 1024 * 1024 * int64(maxInt(media.MaxFiles, 1))
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart request"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		headers := r.MultipartForm.File[uploadsFormField]
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no images in request"))
			return
		}

		files := make([]uploads.File, 0, len(headers))
		for _, header := range headers {
			src, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file"))
				return
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file"))
				return
			}
			files = append(files, uploads.File{Filename: header.Filename, Data: data})
		}

		results, err := svc.UploadImages(r.Context(), files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"images": results})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
