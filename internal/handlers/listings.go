package handlers

import (
	"encoding/json"
	"errors"
	"listingBoard/internal/models"
	"listingBoard/internal/storage"
	"listingBoard/internal/workflow"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

var validate = models.NewValidator()

func ListingCreateHandler(db storage.Database, cache storage.Cache) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, `Unauthorized`)
			return
		}

		var req models.CreateListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeErrorFields(w, http.StatusBadRequest, `Invalid listing`, models.FieldErrors(err))
			return
		}

		listing, err := db.CreateListing(r.Context(), req.Listing(session.UserId))
		if err != nil {
			slog.Error("Failed to create listing", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		cache.DeleteListingsByStatus(r.Context(), models.StatusPending)

		slog.Info("Listing created", slog.String("id", listing.Id), slog.String("owner", listing.OwnerId))

		writeJSON(w, http.StatusCreated, listing)
	})
}

func ListingsByStatusHandler(db storage.Database, cache storage.Cache) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, `Unauthorized`)
			return
		}

		status := models.StatusVerified
		if raw := r.URL.Query().Get(`status`); raw != `` {
			parsed, ok := models.ParseStatus(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, `Unknown status`)
				return
			}
			status = parsed
		}

		if status != models.StatusVerified && !session.IsReviewer() {
			writeError(w, http.StatusForbidden, `Only reviewers can see unverified listings`)
			return
		}

		if data, err := cache.GetListingsByStatus(r.Context(), status); err == nil {
			slog.Debug("Cache hit", slog.String("status", string(status)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}

		slog.Debug("Cache miss", slog.String("status", string(status)))

		// Read before the database so an invalidation racing this request wins.
		gen, genErr := cache.Generation(r.Context(), status)
		if genErr != nil {
			slog.Warn("Failed to read cache generation", slog.String("status", string(status)), slog.Any("err", genErr))
		}

		listings, err := db.GetListingsByStatus(r.Context(), status)
		if err != nil {
			slog.Error("Failed to get listings", slog.String("status", string(status)), slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if listings == nil {
			listings = []models.Listing{}
		}

		if genErr == nil {
			if err := cache.PutListingsByStatus(r.Context(), listings, status, gen); err != nil {
				slog.Warn("Failed to cache listings", slog.String("status", string(status)), slog.Any("err", err))
			}
		}

		writeJSON(w, http.StatusOK, listings)
	})
}

func ListingGetHandler(db storage.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, `Unauthorized`)
			return
		}

		listing, err := db.GetListingById(r.Context(), mux.Vars(r)[`id`])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, `Listing not found`)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if listing.Verification != models.StatusVerified && !session.IsReviewer() && listing.OwnerId != session.UserId {
			writeError(w, http.StatusNotFound, `Listing not found`)
			return
		}

		writeJSON(w, http.StatusOK, listing)
	})
}

// ListingTransitionHandler moves a pending listing to a final state. With a nil
// action the target is read from the request body.
func ListingTransitionHandler(db storage.Database, cache storage.Cache, action *workflow.Action) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, `Unauthorized`)
			return
		}

		var act workflow.Action
		if action != nil {
			act = *action
		} else {
			var req models.TransitionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}

			defer r.Body.Close()

			parsed, err := workflow.ActionFor(req.Verification)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			act = parsed
		}

		id := mux.Vars(r)[`id`]

		current, err := db.GetListingById(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, `Listing not found`)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		target, err := workflow.Apply(current.Verification, act)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}

		updated, err := db.TransitionListing(r.Context(), id, current.Verification, target, session.UserId)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				writeError(w, http.StatusNotFound, `Listing not found`)
			case errors.Is(err, storage.ErrConflict):
				writeError(w, http.StatusConflict, `Listing was already reviewed`)
			default:
				slog.Error("Failed to update listing", slog.String("id", id), slog.Any("err", err))
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		cache.DeleteListingsByStatus(r.Context(), current.Verification)
		cache.DeleteListingsByStatus(r.Context(), target)

		slog.Info("Listing reviewed",
			slog.String("id", id),
			slog.String("from", string(current.Verification)),
			slog.String("to", string(target)),
			slog.String("reviewer", session.UserId),
		)

		writeJSON(w, http.StatusOK, updated)
	})
}
