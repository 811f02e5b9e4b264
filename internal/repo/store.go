package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-explorer/internal/config"
	"github.com/pkordes/trip-explorer/migrations"
)

// Store owns the process-wide storage handle and the repos built on it.
// It is opened once at startup, shared by all requests, and closed on shutdown.
type Store struct {
	// Trips is the trip repository for the configured driver.
	Trips TripRepo

	close func(ctx context.Context) error
}

// Open connects to the store selected by cfg.StoreDriver, brings its schema
// up to date (goose migrations for SQL stores, indexes for MongoDB), and
// returns the ready Store.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("repo.Open: unknown store driver %q", cfg.StoreDriver)
	}
}

// Close releases the underlying connection(s).
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: create pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Open: ping postgres: %w", err)
	}

	// goose needs database/sql; borrow connections from the pool for the run.
	sqlDB := stdlib.OpenDBFromPool(pool)
	err = Migrate(ctx, goose.DialectPostgres, sqlDB, migrations.Postgres())
	_ = sqlDB.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		Trips: NewTripRepo(pool),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: open sqlite: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repo.Open: ping sqlite: %w", err)
	}

	if err := Migrate(ctx, goose.DialectSQLite3, db, migrations.SQLite()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		Trips: NewSQLiteTripRepo(db),
		close: func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("repo.Open: connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("repo.Open: ping mongo: %w", err)
	}

	mdb := client.Database(database)
	if err := EnsureTripIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("repo.Open: %w", err)
	}

	return &Store{
		Trips: NewMongoTripRepo(mdb),
		close: client.Disconnect,
	}, nil
}

// Migrate applies all pending migrations in fsys to db.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("repo.Migrate: create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) {
			return fmt.Errorf("repo.Migrate: %d applied before failure: %w", len(partial.Applied), err)
		}
		return fmt.Errorf("repo.Migrate: run migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"dialect", string(dialect),
			"version", r.Source.Version,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}
