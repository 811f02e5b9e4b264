// Package repo contains all database access logic for the Trip Explorer API.
// TripRepo has one implementation per supported store (Postgres, MongoDB,
// SQLite). No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-explorer/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// Every operation is scoped to a single owner: a trip belonging to another
// owner behaves exactly as if it did not exist.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// store-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicate if the owner already has a trip with that
	// name; in that case nothing is written.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// ListByOwner returns all trips of owner in creation order.
	ListByOwner(ctx context.Context, owner string) ([]domain.Trip, error)

	// UpdateNotes replaces the notes of the owner's trip with the given id.
	// Returns domain.ErrNotFound if the owner has no such trip.
	UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error

	// Delete removes the owner's trip with the given id.
	// Returns domain.ErrNotFound if the owner has no such trip.
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const pgTripColumns = `id, owner_email, name, capital, region, flag, notes, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
// The unique index on (owner_email, name) makes the duplicate check atomic:
// ON CONFLICT DO NOTHING returns no row instead of aborting the transaction.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_email, name, capital, region, flag, notes)
		VALUES (@owner_email, @name, @capital, @region, @flag, @notes)
		ON CONFLICT (owner_email, name) DO NOTHING
		RETURNING ` + pgTripColumns

	args := pgx.NamedArgs{
		"owner_email": trip.Owner,
		"name":        trip.Name,
		"capital":     trip.Capital,
		"region":      trip.Region,
		"flag":        trip.Flag,
		"notes":       trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", domain.ErrDuplicate)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, oldest first.
func (r *pgTripRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + pgTripColumns + `
		FROM trips
		WHERE owner_email = @owner_email
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_email": owner})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// UpdateNotes overwrites the notes column of one owned trip.
func (r *pgTripRepo) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error {
	const q = `
		UPDATE trips
		SET notes      = @notes,
		    updated_at = clock_timestamp()
		WHERE id = @id AND owner_email = @owner_email`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_email": owner, "notes": notes})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.UpdateNotes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.UpdateNotes: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes one owned trip.
func (r *pgTripRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner_email = @owner_email`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_email": owner})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t  domain.Trip
		id pgtype.UUID
	)

	err := s.Scan(&id, &t.Owner, &t.Name, &t.Capital, &t.Region, &t.Flag, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}

// newID returns a time-ordered UUIDv7 for stores that assign ids in Go, so
// trips created within the same clock tick still list in creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
