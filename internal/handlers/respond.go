package handlers

import (
	"encoding/json"
	"listingBoard/internal/models"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeErrorFields(w, status, message, nil)
}

func writeErrorFields(w http.ResponseWriter, status int, message string, fields map[string]string) {
	w.Header().Set("Retry-After", "3")
	writeJSON(w, status, models.ErrorResponse{Message: message, Fields: fields})
}
