package router

import (
	"listingBoard/internal/handlers"
	"listingBoard/internal/storage"
	"listingBoard/internal/workflow"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const defaultMediaLimit = 20 << 20

type options struct {
	mediaLimit int64
}

type Option func(*options)

func WithMediaLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.mediaLimit = n
		}
	}
}

func New(database storage.Database, cache storage.Cache, media storage.MediaStore, auth *handlers.Auth, opts ...Option) http.Handler {
	o := options{mediaLimit: defaultMediaLimit}
	for _, opt := range opts {
		opt(&o)
	}

	accept, reject := workflow.Accept, workflow.Reject

	router := mux.NewRouter()

	router.HandleFunc(`/dummyLogin`, auth.DummyLoginHandler).Methods(`GET`)
	router.Handle(`/register`, auth.RegisterHandler(database)).Methods(`POST`)
	router.Handle(`/login`, auth.LoginHandler(database)).Methods(`POST`)

	router.Handle(`/listings`, auth.AuthorizationMiddleware(handlers.ListingCreateHandler(database, cache), false, database)).Methods(`POST`)
	router.Handle(`/listings`, auth.AuthorizationMiddleware(handlers.ListingsByStatusHandler(database, cache), false, database)).Methods(`GET`)
	router.Handle(`/listings/{id}`, auth.AuthorizationMiddleware(handlers.ListingGetHandler(database), false, database)).Methods(`GET`)
	router.Handle(`/listings/{id}`, auth.AuthorizationMiddleware(handlers.ListingTransitionHandler(database, cache, nil), true, database)).Methods(`PATCH`, `PUT`)
	router.Handle(`/listings/{id}/accept`, auth.AuthorizationMiddleware(handlers.ListingTransitionHandler(database, cache, &accept), true, database)).Methods(`POST`)
	router.Handle(`/listings/{id}/reject`, auth.AuthorizationMiddleware(handlers.ListingTransitionHandler(database, cache, &reject), true, database)).Methods(`POST`)

	router.Handle(`/media`, auth.AuthorizationMiddleware(handlers.MediaUploadHandler(media, o.mediaLimit), false, database)).Methods(`POST`)
	router.Handle(`/media/{id}`, handlers.MediaDownloadHandler(media)).Methods(`GET`)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{`*`},
		AllowedMethods:   []string{`GET`, `POST`, `DELETE`, `OPTIONS`, `PATCH`, `PUT`},
		AllowedHeaders:   []string{`Content-Type`, `Authorization`},
		AllowCredentials: true,
	}).Handler(logRequests(router))

	return handler
}

// logRequests wraps the whole router so unmatched routes are logged too.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		slog.Info("Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", m.Code),
			slog.Int64("bytes", m.Written),
			slog.Duration("duration", m.Duration),
		)
	})
}
