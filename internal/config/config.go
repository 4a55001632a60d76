package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = `postgres`
	BackendMemory   = `memory`
)

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	JWTKey        string
	TokenTTL      time.Duration
	DummyTokenTTL time.Duration
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type MongoConfig struct {
	URI string
	DB  string
}

type LogConfig struct {
	Level slog.Level
	JSON  bool
}

type ListingConfig struct {
	MediaMaxBytes int64
}

type AppConfig struct {
	AppName  string
	Env      string
	Backend  string
	HTTP     HTTPConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Log      LogConfig
	Listing  ListingConfig
}

func (c *AppConfig) IsDev() bool {
	return c.Env == `dev`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &AppConfig{
		AppName: getEnvAsString(`APP_NAME`, `listing-board`),
		Env:     getEnvAsString(`APP_ENV`, `prod`),
		Backend: strings.ToLower(getEnvAsString(`STORAGE_BACKEND`, BackendPostgres)),
	}

	cfg.HTTP.Addr = getEnvAsString(`HTTP_ADDR`, `:8080`)
	if cfg.HTTP.ShutdownTimeout, err = getEnvAsDuration(`SHUTDOWN_TIMEOUT`, 10*time.Second); err != nil {
		return nil, err
	}

	cfg.Auth.JWTKey = os.Getenv(`JWT_KEY`)
	if cfg.Auth.JWTKey == `` {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("JWT_KEY environment variable is required")
		}
		cfg.Auth.JWTKey = `dev-only-signing-key`
	}
	if cfg.Auth.TokenTTL, err = getEnvAsDuration(`TOKEN_TTL`, 48*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Auth.DummyTokenTTL, err = getEnvAsDuration(`DUMMY_TOKEN_TTL`, 15*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendPostgres:
		cfg.Postgres.DSN = os.Getenv(`POSTGRES_DSN`)
		if cfg.Postgres.DSN == `` {
			return nil, fmt.Errorf("POSTGRES_DSN environment variable is required for the %s backend", BackendPostgres)
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Backend)
	}

	cfg.Redis.Addr = getEnvAsString(`REDIS_ADDR`, `localhost:6379`)
	cfg.Redis.Password = os.Getenv(`REDIS_PASSWORD`)
	if cfg.Redis.DB, err = getEnvAsInt(`REDIS_DB`, 0); err != nil {
		return nil, err
	}
	if cfg.Redis.TTL, err = getEnvAsDuration(`CACHE_TTL`, 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.Mongo.URI = os.Getenv(`MONGO_URI`)
	cfg.Mongo.DB = getEnvAsString(`MONGO_DB`, `listings`)

	if cfg.Log.Level, err = parseLogLevel(getEnvAsString(`LOG_LEVEL`, `info`)); err != nil {
		return nil, err
	}
	if cfg.Log.JSON, err = getEnvAsBool(`LOG_JSON`, false); err != nil {
		return nil, err
	}

	maxBytes, err := getEnvAsInt(`MEDIA_MAX_BYTES`, 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.Listing.MediaMaxBytes = int64(maxBytes)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != `` {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == `` {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == `` {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == `` {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}
