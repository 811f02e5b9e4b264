// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported values for Config.StoreDriver.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (Next.js dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the trip store backend: postgres, mongo or sqlite.
	// Defaults to "postgres".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string

	// MongoURI is the MongoDB connection string. Required for the mongo driver.
	MongoURI string

	// MongoDatabase is the MongoDB database name. Defaults to "trip-explorer".
	MongoDatabase string

	// SQLitePath is the SQLite database file. Defaults to "trip-explorer.db".
	SQLitePath string

	// SessionSecret is the HMAC key used to verify session tokens. Required.
	SessionSecret string

	// SessionCookie is the cookie that may carry the session token when no
	// Authorization header is present. Defaults to "next-auth.session-token".
	SessionCookie string

	// DevLogin enables POST /auth/dev-token, which mints a session token for
	// any email. Never enable it in production. Defaults to false.
	DevLogin bool

	// CountriesURL is the base URL of the REST Countries feed.
	// Defaults to "https://restcountries.com".
	CountriesURL string

	// CountriesCacheTTL is how long a fetched country list is reused. Defaults to 1h.
	CountriesCacheTTL time.Duration

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable whose value cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "trip-explorer"),
		SQLitePath:    getEnv("SQLITE_PATH", "trip-explorer.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionCookie: getEnv("SESSION_COOKIE", "next-auth.session-token"),
		CountriesURL:  strings.TrimRight(getEnv("COUNTRIES_URL", "https://restcountries.com"), "/"),
	}

	var err error
	if cfg.DevLogin, err = strconv.ParseBool(getEnv("DEV_LOGIN", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid DEV_LOGIN: %w", err)
	}
	if cfg.CountriesCacheTTL, err = time.ParseDuration(getEnv("COUNTRIES_CACHE_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("invalid COUNTRIES_CACHE_TTL: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_BODY_BYTES: must be a positive integer")
	}

	var missing []string

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	case DriverSQLite:
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: want postgres, mongo or sqlite", cfg.StoreDriver)
	}

	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
