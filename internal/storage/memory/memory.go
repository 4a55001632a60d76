// Package memory keeps listings, users, cached lists and media in process
// memory. It backs STORAGE_BACKEND=memory and the end-to-end client tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"listingBoard/internal/models"
	store "listingBoard/internal/storage"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Storage struct {
	mu       sync.RWMutex
	listings map[string]models.Listing
	users    map[string]models.User
	seq      map[string]int64
	next     int64
	last     time.Time
	now      func() time.Time
}

func New() *Storage {
	return &Storage{
		listings: make(map[string]models.Listing),
		users:    make(map[string]models.User),
		seq:      make(map[string]int64),
		now:      time.Now,
	}
}

// stamp returns a creation time strictly after every earlier one, so ordering
// by created_at never ties. Callers hold mu.
func (s *Storage) stamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func clone(l models.Listing) models.Listing {
	l.Media = slices.Clone(l.Media)
	if l.ReviewedAt != nil {
		t := *l.ReviewedAt
		l.ReviewedAt = &t
	}
	return l
}

func (s *Storage) CreateListing(_ context.Context, listing models.Listing) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing.Id = uuid.NewString()
	listing.Verification = models.StatusPending
	listing.ReviewedBy = ``
	listing.ReviewedAt = nil
	listing.CreatedAt = s.stamp()
	if listing.Media == nil {
		listing.Media = []models.MediaRef{}
	}

	s.next++
	s.seq[listing.Id] = s.next
	s.listings[listing.Id] = clone(listing)

	return clone(listing), nil
}

func (s *Storage) GetListingById(_ context.Context, id string) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("listing %s: %w", id, store.ErrNotFound)
	}

	return clone(listing), nil
}

func (s *Storage) GetListingsByStatus(_ context.Context, status models.VerificationStatus) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := []models.Listing{}
	for _, l := range s.listings {
		if l.Verification == status {
			listings = append(listings, clone(l))
		}
	}

	slices.SortFunc(listings, func(a, b models.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(s.seq[b.Id] - s.seq[a.Id])
	})

	return listings, nil
}

func (s *Storage) TransitionListing(_ context.Context, id string, from, to models.VerificationStatus, reviewerId string) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("listing %s: %w", id, store.ErrNotFound)
	}

	if listing.Verification != from {
		return clone(listing), fmt.Errorf("listing %s is %s: %w", id, listing.Verification, store.ErrConflict)
	}

	reviewedAt := s.now().UTC()
	listing.Verification = to
	listing.ReviewedBy = reviewerId
	listing.ReviewedAt = &reviewedAt
	s.listings[id] = listing

	return clone(listing), nil
}

func (s *Storage) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Id = uuid.NewString()
	s.users[user.Id] = user

	return user, nil
}

func (s *Storage) GetUserById(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}

	return user, nil
}

// Cache is a map-backed storage.Cache. Entries live until the next delete.
type Cache struct {
	mu      sync.Mutex
	entries map[models.VerificationStatus][]byte
	gens    map[models.VerificationStatus]int64
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[models.VerificationStatus][]byte),
		gens:    make(map[models.VerificationStatus]int64),
	}
}

func (c *Cache) Generation(_ context.Context, status models.VerificationStatus) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gens[status], nil
}

func (c *Cache) PutListingsByStatus(_ context.Context, listings []models.Listing, status models.VerificationStatus, gen int64) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[status] != gen {
		return nil
	}
	c.entries[status] = data

	return nil
}

func (c *Cache) GetListingsByStatus(_ context.Context, status models.VerificationStatus) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[status]
	if !ok {
		return nil, store.ErrCacheMiss
	}

	return data, nil
}

func (c *Cache) DeleteListingsByStatus(_ context.Context, status models.VerificationStatus) {
	c.mu.Lock()
	delete(c.entries, status)
	c.gens[status]++
	c.mu.Unlock()
}

type blob struct {
	data        []byte
	contentType string
}

type MediaStore struct {
	mu    sync.RWMutex
	blobs map[string]blob
	next  int
}

func NewMediaStore() *MediaStore {
	return &MediaStore{blobs: make(map[string]blob)}
}

func (m *MediaStore) Upload(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return ``, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	id := strconv.Itoa(m.next)
	m.blobs[id] = blob{data: buf.Bytes(), contentType: contentType}

	return id, nil
}

func (m *MediaStore) Download(_ context.Context, id string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[id]
	if !ok {
		return nil, ``, fmt.Errorf("media %s: %w", id, store.ErrNotFound)
	}

	return slices.Clone(b.data), b.contentType, nil
}
