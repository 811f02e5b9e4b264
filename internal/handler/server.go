// Package handler implements the HTTP handlers for the Trip Explorer API.
// All handlers are methods on Server, which implements gen.StrictServerInterface.
// Methods are split into domain-specific files (health.go, trip.go, etc.) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-explorer/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Every method takes the caller identity resolved by the session middleware.
type TripServicer interface {
	Create(ctx context.Context, owner string, trip domain.Trip) (domain.Trip, error)
	List(ctx context.Context, owner string) ([]domain.Trip, error)
	UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// ExportServicer produces the flat export of the caller's trips.
type ExportServicer interface {
	Export(ctx context.Context, owner string) ([]domain.ExportRow, error)
}

// CountryPicker suggests a random destination from the country feed.
type CountryPicker interface {
	Random(ctx context.Context, region string) (domain.Country, error)
}

// TokenIssuer mints session tokens for the dev login endpoint.
type TokenIssuer interface {
	Issue(email string, ttl time.Duration) (string, error)
}

// Server implements gen.StrictServerInterface for all API endpoints.
// Wire it with NewRouter, which also installs the session middleware.
type Server struct {
	trips     TripServicer
	export    ExportServicer
	countries CountryPicker
	tokens    TokenIssuer
}

// NewServer constructs the Server with all its dependencies.
// A nil tokens disables POST /auth/dev-token.
func NewServer(trips TripServicer, export ExportServicer, countries CountryPicker, tokens TokenIssuer) *Server {
	return &Server{trips: trips, export: export, countries: countries, tokens: tokens}
}
