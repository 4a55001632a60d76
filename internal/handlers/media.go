package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"listingBoard/internal/models"
	"listingBoard/internal/storage"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
)

func mediaKind(contentType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, `image/`):
		return models.MediaImage, true
	case strings.HasPrefix(contentType, `video/`):
		return models.MediaVideo, true
	}
	return ``, false
}

func MediaUploadHandler(media storage.MediaStore, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File is larger than %d bytes", maxBytes))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile(`file`)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File is larger than %d bytes", maxBytes))
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		mtype := mimetype.Detect(data)
		contentType := mtype.String()
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}

		kind, ok := mediaKind(contentType)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported media type %s", contentType))
			return
		}

		id, err := media.Upload(r.Context(), header.Filename, contentType, bytes.NewReader(data))
		if err != nil {
			slog.Error("Failed to store media", slog.String("name", header.Filename), slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, models.MediaRef{URI: `/media/` + id, Kind: kind})
	})
}

func MediaDownloadHandler(media storage.MediaStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, contentType, err := media.Download(r.Context(), mux.Vars(r)[`id`])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, `Media not found`)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if contentType == `` {
			contentType = mimetype.Detect(data).String()
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	})
}
