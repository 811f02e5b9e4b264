package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/trip-explorer/internal/domain"
)

// sqliteTime is a fixed-width UTC layout so that timestamps stored as TEXT
// sort chronologically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// sqliteTripRepo is the SQLite implementation of TripRepo. It is meant for
// local development and single-node deployments.
type sqliteTripRepo struct {
	db *sql.DB
}

// NewSQLiteTripRepo constructs a TripRepo backed by a SQLite *sql.DB opened
// with the "sqlite" driver. The schema must already be migrated.
func NewSQLiteTripRepo(db *sql.DB) TripRepo {
	return &sqliteTripRepo{db: db}
}

const sqliteTripColumns = `id, owner_email, name, capital, region, flag, notes, created_at, updated_at`

// Create inserts a new trip row. SQLite has no server-side UUID generator,
// so the id and timestamps are assigned here.
func (r *sqliteTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (` + sqliteTripColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_email, name) DO NOTHING
		RETURNING ` + sqliteTripColumns

	now := time.Now().UTC().Format(sqliteTime)
	row := r.db.QueryRowContext(ctx, q,
		newID(), trip.Owner, trip.Name, trip.Capital, trip.Region, trip.Flag, trip.Notes, now, now,
	)

	result, err := scanSQLiteTrip(row)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.SQLiteTripRepo.Create: %w", domain.ErrDuplicate)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SQLiteTripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, oldest first.
func (r *sqliteTripRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + sqliteTripColumns + `
		FROM trips
		WHERE owner_email = ?
		ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteTripRepo.ListByOwner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanSQLiteTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SQLiteTripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLiteTripRepo.ListByOwner: rows: %w", err)
	}
	return trips, nil
}

// UpdateNotes overwrites the notes column of one owned trip.
func (r *sqliteTripRepo) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error {
	const q = `
		UPDATE trips
		SET notes = ?, updated_at = ?
		WHERE id = ? AND owner_email = ?`

	res, err := r.db.ExecContext(ctx, q, notes, time.Now().UTC().Format(sqliteTime), id.String(), owner)
	if err != nil {
		return fmt.Errorf("repo.SQLiteTripRepo.UpdateNotes: %w", err)
	}
	return requireAffected("repo.SQLiteTripRepo.UpdateNotes", res)
}

// Delete removes one owned trip.
func (r *sqliteTripRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = ? AND owner_email = ?`

	res, err := r.db.ExecContext(ctx, q, id.String(), owner)
	if err != nil {
		return fmt.Errorf("repo.SQLiteTripRepo.Delete: %w", err)
	}
	return requireAffected("repo.SQLiteTripRepo.Delete", res)
}

// requireAffected turns a zero-row write into domain.ErrNotFound.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// scanSQLiteTrip maps a single row into a domain.Trip, parsing the TEXT
// id and timestamp columns.
func scanSQLiteTrip(s scanner) (domain.Trip, error) {
	var (
		t                domain.Trip
		id               string
		created, updated string
	)

	err := s.Scan(&id, &t.Owner, &t.Name, &t.Capital, &t.Region, &t.Flag, &t.Notes, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.Trip{}, fmt.Errorf("parse id: %w", err)
	}
	if t.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
		return domain.Trip{}, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(sqliteTime, updated); err != nil {
		return domain.Trip{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return t, nil
}
