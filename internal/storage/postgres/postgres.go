package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"listingBoard/internal/models"
	store "listingBoard/internal/storage"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const driverName = "postgres"

//go:embed tables/createTables.sql
var createTables string

const listingColumns = `id, owner_id, title, purpose, property_type, description, city, address, landmark,
	media, price, area, balconies, bathrooms, floors, owner_name, owner_phone, owner_email,
	verification, reviewed_by, reviewed_at, created_at`

type Storage struct {
	Db  *sql.DB
	now func() time.Time
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	database, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, err
	}

	storage := &Storage{Db: database, now: time.Now}

	if err := storage.init(ctx); err != nil {
		return storage, err
	}

	return storage, nil
}

func (storage *Storage) init(ctx context.Context) error {
	if _, err := storage.Db.ExecContext(ctx, createTables); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	return nil
}

func (storage *Storage) Close() error {
	return storage.Db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (models.Listing, error) {
	var (
		listing    models.Listing
		media      []byte
		status     string
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
	)

	err := row.Scan(&listing.Id, &listing.OwnerId, &listing.Title, &listing.Purpose, &listing.PropertyType,
		&listing.Description, &listing.City, &listing.Address, &listing.Landmark,
		&media, &listing.Price, &listing.Area, &listing.Balconies, &listing.Bathrooms, &listing.Floors,
		&listing.OwnerName, &listing.OwnerPhone, &listing.OwnerEmail,
		&status, &reviewedBy, &reviewedAt, &listing.CreatedAt)
	if err != nil {
		return listing, err
	}

	if err := json.Unmarshal(media, &listing.Media); err != nil {
		return listing, fmt.Errorf("decode media of listing %s: %w", listing.Id, err)
	}

	listing.Verification = models.VerificationStatus(status)
	listing.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		listing.ReviewedAt = &t
	}
	listing.CreatedAt = listing.CreatedAt.UTC()

	return listing, nil
}

func (storage *Storage) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	listing.Id = uuid.NewString()
	listing.Verification = models.StatusPending
	listing.ReviewedBy = ``
	listing.ReviewedAt = nil
	listing.CreatedAt = storage.now().UTC().Truncate(time.Microsecond)
	if listing.Media == nil {
		listing.Media = []models.MediaRef{}
	}

	media, err := json.Marshal(listing.Media)
	if err != nil {
		return listing, err
	}

	query := `INSERT INTO listings (id, owner_id, title, purpose, property_type, description, city, address, landmark,
		media, price, area, balconies, bathrooms, floors, owner_name, owner_phone, owner_email, verification, created_at)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err = storage.Db.ExecContext(ctx, query, listing.Id, listing.OwnerId, listing.Title, listing.Purpose,
		listing.PropertyType, listing.Description, listing.City, listing.Address, listing.Landmark,
		string(media), listing.Price, listing.Area, listing.Balconies, listing.Bathrooms, listing.Floors,
		listing.OwnerName, listing.OwnerPhone, listing.OwnerEmail, string(listing.Verification), listing.CreatedAt)
	if err != nil {
		return models.Listing{}, err
	}

	return listing, nil
}

func (storage *Storage) GetListingById(ctx context.Context, id string) (models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(storage.Db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return listing, fmt.Errorf("listing %s: %w", id, store.ErrNotFound)
	}

	return listing, err
}

func (storage *Storage) GetListingsByStatus(ctx context.Context, status models.VerificationStatus) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE verification = $1 ORDER BY created_at DESC, seq DESC`

	rows, err := storage.Db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	listings := []models.Listing{}

	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}

		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

func (storage *Storage) TransitionListing(ctx context.Context, id string, from, to models.VerificationStatus, reviewerId string) (models.Listing, error) {
	query := `UPDATE listings SET verification = $1, reviewed_by = $2, reviewed_at = $3
	WHERE id = $4 AND verification = $5 RETURNING ` + listingColumns

	reviewedAt := storage.now().UTC().Truncate(time.Microsecond)

	listing, err := scanListing(storage.Db.QueryRowContext(ctx, query, string(to), reviewerId, reviewedAt, id, string(from)))
	if err == nil {
		return listing, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, err
	}

	current, err := storage.GetListingById(ctx, id)
	if err != nil {
		return models.Listing{}, err
	}

	return current, fmt.Errorf("listing %s is %s: %w", id, current.Verification, store.ErrConflict)
}

func (storage *Storage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.Id = uuid.NewString()

	query := `INSERT INTO users (id, email, password, user_type) VALUES($1, $2, $3, $4)`
	if _, err := storage.Db.ExecContext(ctx, query, user.Id, user.Email, user.Password, user.UserType); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (storage *Storage) GetUserById(ctx context.Context, id string) (models.User, error) {
	var user models.User

	query := `SELECT id, email, password, user_type FROM users WHERE id = $1`
	err := storage.Db.QueryRowContext(ctx, query, id).Scan(&user.Id, &user.Email, &user.Password, &user.UserType)
	if errors.Is(err, sql.ErrNoRows) {
		return user, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}

	return user, err
}
