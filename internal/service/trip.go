// Package service contains the business logic for the Trip Explorer API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/repo"
)

// TripService implements business logic for Trip operations.
// Every method takes the caller's resolved identity as owner and refuses to
// touch the repo when it is empty.
type TripService struct {
	repo     repo.TripRepo
	observer OperationObserver
}

// OperationObserver receives the outcome and latency of every trip
// operation. *metrics.Recorder satisfies it.
type OperationObserver interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Option configures a TripService.
type Option func(*TripService)

// WithObserver reports every operation to o.
func WithObserver(o OperationObserver) Option {
	return func(s *TripService) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, opts ...Option) *TripService {
	s := &TripService{repo: r, observer: noopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new trip for owner.
// Any Owner, ID, Notes or timestamps on trip are ignored: the owner is always
// the caller and a new trip starts without notes.
// Returns domain.ErrValidation if the name is blank and domain.ErrDuplicate
// if owner already saved a trip with the same name.
func (s *TripService) Create(ctx context.Context, owner string, trip domain.Trip) (_ domain.Trip, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)

	if err := requireOwner(owner); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if strings.TrimSpace(trip.Name) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: name is required", domain.ErrValidation)
	}

	result, err := s.repo.Create(ctx, domain.Trip{
		Owner:   owner,
		Name:    trip.Name,
		Capital: trip.Capital,
		Region:  trip.Region,
		Flag:    trip.Flag,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// List returns all trips saved by owner.
func (s *TripService) List(ctx context.Context, owner string) (_ []domain.Trip, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)

	if err := requireOwner(owner); err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	trips, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// UpdateNotes replaces the notes of one of owner's trips. Notes are free
// text and may be empty.
// Returns domain.ErrNotFound if owner has no trip with that id, including
// when the id belongs to someone else.
func (s *TripService) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) (err error) {
	defer s.observe(ctx, "update_notes", time.Now(), &err)

	if err := requireOwner(owner); err != nil {
		return fmt.Errorf("service.TripService.UpdateNotes: %w", err)
	}
	if err := s.repo.UpdateNotes(ctx, owner, id, notes); err != nil {
		return fmt.Errorf("service.TripService.UpdateNotes: %w", err)
	}
	return nil
}

// Delete removes one of owner's trips. Deleting a trip that does not exist
// (or is not owner's) is a successful no-op, so deletes can be retried.
func (s *TripService) Delete(ctx context.Context, owner string, id uuid.UUID) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)

	if err := requireOwner(owner); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func (s *TripService) observe(ctx context.Context, op string, start time.Time, err *error) {
	s.observer.Observe(ctx, op, *err == nil, time.Since(start))
}

type noopObserver struct{}

func (noopObserver) Observe(context.Context, string, bool, time.Duration) {}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return domain.ErrUnauthorized
	}
	return nil
}
