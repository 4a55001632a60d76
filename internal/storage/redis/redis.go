package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"listingBoard/internal/models"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RedisCache{Client: client, ttl: ttl}, nil
}

func StatusKey(status models.VerificationStatus) string {
	return fmt.Sprintf(`listings:status:%s`, status)
}

var errStaleGeneration = errors.New("stale cache generation")

func GenerationKey(status models.VerificationStatus) string {
	return StatusKey(status) + `:gen`
}

// Generation returns the invalidation counter of a status. A missing key is 0.
func (r *RedisCache) Generation(ctx context.Context, status models.VerificationStatus) (int64, error) {
	return generation(r.Client.Get(ctx, GenerationKey(status)))
}

func generation(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// PutListingsByStatus stores the list only while the generation still equals
// gen. The generation key is watched, so a delete landing between the check
// and the write aborts the transaction.
func (r *RedisCache) PutListingsByStatus(ctx context.Context, listings []models.Listing, status models.VerificationStatus, gen int64) error {
	jsonListings, err := json.Marshal(listings)
	if err != nil {
		slog.Error("Failed to marshal listings", slog.Any("err", err))
		return err
	}

	key := StatusKey(status)
	err = r.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(tx.Get(ctx, GenerationKey(status)))
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonListings, r.ttl)
			return nil
		})
		return err
	}, GenerationKey(status))
	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, errStaleGeneration) {
		slog.Debug("Stale listings not cached", "key", key, "gen", gen)
		return nil
	}
	if err != nil {
		slog.Error("Failed to set listings in cache", slog.Any("err", err))
		return err
	}

	slog.Debug("Successfully cached listings", "key", key, "count", len(listings))

	return nil
}

// GetListingsByStatus returns the cached JSON array. A miss is reported as redis.Nil.
func (r *RedisCache) GetListingsByStatus(ctx context.Context, status models.VerificationStatus) ([]byte, error) {
	key := StatusKey(status)

	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Error("Failed to get listings from the cache", "key", key, slog.Any("err", err))
		}
		return nil, err
	}

	slog.Debug("Successfully got listings from cache", "key", key)

	return data, nil
}

func (r *RedisCache) DeleteListingsByStatus(ctx context.Context, status models.VerificationStatus) {
	key := StatusKey(status)

	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Incr(ctx, GenerationKey(status))
		return nil
	})
	if err != nil {
		slog.Warn("Error deleting key", "key", key, slog.Any("err", err))
	} else {
		slog.Debug("Key deleted", "key", key)
	}
}

func (r *RedisCache) Close() error {
	return r.Client.Close()
}
