package storage

import (
	"context"
	"errors"
	"io"
	"listingBoard/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrCacheMiss = errors.New("cache miss")
)

type Database interface {
	CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error)
	GetListingById(ctx context.Context, id string) (models.Listing, error)
	GetListingsByStatus(ctx context.Context, status models.VerificationStatus) ([]models.Listing, error)
	// TransitionListing moves the listing from `from` to `to` only if it is
	// still in `from`. ErrConflict means the listing was found in another state.
	TransitionListing(ctx context.Context, id string, from, to models.VerificationStatus, reviewerId string) (models.Listing, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserById(ctx context.Context, id string) (models.User, error)
}

// Cache holds one list per status. Every delete bumps the status generation;
// a Put carrying an older generation is dropped, so a list read before an
// invalidation never lands in the cache after it.
type Cache interface {
	Generation(ctx context.Context, status models.VerificationStatus) (int64, error)
	PutListingsByStatus(ctx context.Context, listings []models.Listing, status models.VerificationStatus, gen int64) error
	GetListingsByStatus(ctx context.Context, status models.VerificationStatus) ([]byte, error)
	DeleteListingsByStatus(ctx context.Context, status models.VerificationStatus)
}

type MediaStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Download(ctx context.Context, id string) ([]byte, string, error)
}
