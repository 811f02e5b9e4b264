package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/repo"
	"github.com/pkordes/trip-explorer/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
// Calling a method whose field is nil panics, which doubles as an assertion
// that the service did not touch the repo.
type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	listByOwner func(ctx context.Context, owner string) ([]domain.Trip, error)
	updateNotes func(ctx context.Context, owner string, id uuid.UUID, notes string) error
	delete      func(ctx context.Context, owner string, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Trip, error) {
	return m.listByOwner(ctx, owner)
}
func (m *mockTripRepo) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error {
	return m.updateNotes(ctx, owner, id, notes)
}
func (m *mockTripRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return m.delete(ctx, owner, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

const owner = "ada@example.com"

func validTrip() domain.Trip {
	return domain.Trip{
		Name:    "Portugal",
		Capital: "Lisbon",
		Region:  "Europe",
		Flag:    "https://flagcdn.com/w320/pt.png",
	}
}

// echoRepo returns a repo whose Create echoes the record it receives, so
// tests can inspect exactly what the service asked to persist.
func echoRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			t.ID = uuid.New()
			return t, nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), owner, validTrip())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, "Portugal", got.Name)
	assert.Equal(t, "Lisbon", got.Capital)
	assert.Equal(t, "Europe", got.Region)
	assert.Equal(t, "https://flagcdn.com/w320/pt.png", got.Flag)
	assert.Empty(t, got.Notes)
}

// TestTripService_Create_IgnoresCallerSuppliedOwnerAndNotes verifies that
// the owner always comes from the resolved identity, never from the input.
func TestTripService_Create_IgnoresCallerSuppliedOwnerAndNotes(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.Owner = "mallory@example.com"
	trip.Notes = "pre-filled"
	trip.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.Create(context.Background(), owner, trip)

	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Empty(t, got.Notes)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestTripService_Create_MissingName(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{})

	trip := validTrip()
	trip.Name = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), owner, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_Duplicate(t *testing.T) {
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", domain.ErrDuplicate)
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), owner, validTrip())

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), owner, validTrip())

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List_ScopedToOwner(t *testing.T) {
	var gotOwner string
	r := &mockTripRepo{
		listByOwner: func(_ context.Context, o string) ([]domain.Trip, error) {
			gotOwner = o
			return []domain.Trip{validTrip()}, nil
		},
	}
	svc := service.NewTripService(r)

	trips, err := svc.List(context.Background(), owner)

	require.NoError(t, err)
	assert.Equal(t, owner, gotOwner)
	assert.Len(t, trips, 1)
}

func TestTripService_List_RepoError(t *testing.T) {
	repoErr := errors.New("connection reset")
	r := &mockTripRepo{
		listByOwner: func(_ context.Context, _ string) ([]domain.Trip, error) { return nil, repoErr },
	}

	_, err := service.NewTripService(r).List(context.Background(), owner)

	assert.ErrorIs(t, err, repoErr)
}

// ---- UpdateNotes tests -----------------------------------------------------

func TestTripService_UpdateNotes_PassesThrough(t *testing.T) {
	id := uuid.New()
	var (
		gotOwner string
		gotID    uuid.UUID
		gotNotes string
	)
	r := &mockTripRepo{
		updateNotes: func(_ context.Context, o string, i uuid.UUID, n string) error {
			gotOwner, gotID, gotNotes = o, i, n
			return nil
		},
	}
	svc := service.NewTripService(r)

	err := svc.UpdateNotes(context.Background(), owner, id, "Day 1: arrive")

	require.NoError(t, err)
	assert.Equal(t, owner, gotOwner)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "Day 1: arrive", gotNotes)
}

func TestTripService_UpdateNotes_NotFound(t *testing.T) {
	r := &mockTripRepo{
		updateNotes: func(_ context.Context, _ string, _ uuid.UUID, _ string) error {
			return fmt.Errorf("repo.TripRepo.UpdateNotes: %w", domain.ErrNotFound)
		},
	}

	err := service.NewTripService(r).UpdateNotes(context.Background(), owner, uuid.New(), "x")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_Found(t *testing.T) {
	called := false
	r := &mockTripRepo{
		delete: func(_ context.Context, _ string, _ uuid.UUID) error {
			called = true
			return nil
		},
	}

	err := service.NewTripService(r).Delete(context.Background(), owner, uuid.New())

	require.NoError(t, err)
	assert.True(t, called)
}

// TestTripService_Delete_MissingIsNoOp verifies that deleting an unknown or
// foreign trip reports success.
func TestTripService_Delete_MissingIsNoOp(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _ string, _ uuid.UUID) error {
			return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
		},
	}

	err := service.NewTripService(r).Delete(context.Background(), owner, uuid.New())

	assert.NoError(t, err)
}

func TestTripService_Delete_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		delete: func(_ context.Context, _ string, _ uuid.UUID) error { return repoErr },
	}

	err := service.NewTripService(r).Delete(context.Background(), owner, uuid.New())

	assert.ErrorIs(t, err, repoErr)
}

// ---- unauthenticated callers -----------------------------------------------

// TestTripService_EmptyOwner_NeverTouchesRepo verifies every operation
// rejects a missing identity before any storage access. The empty mock
// panics if any repo method is called.
func TestTripService_EmptyOwner_NeverTouchesRepo(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "", validTrip())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.List(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = svc.UpdateNotes(ctx, "", uuid.New(), "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = svc.Delete(ctx, "", uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- observer --------------------------------------------------------------

type observation struct {
	op      string
	success bool
}

type captureObserver struct {
	calls []observation
}

func (c *captureObserver) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, observation{op: op, success: success})
}

func TestTripService_ReportsOperations(t *testing.T) {
	obs := &captureObserver{}
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrDuplicate
		},
		listByOwner: func(_ context.Context, _ string) ([]domain.Trip, error) { return []domain.Trip{}, nil },
		updateNotes: func(_ context.Context, _ string, _ uuid.UUID, _ string) error { return domain.ErrNotFound },
		delete:      func(_ context.Context, _ string, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := service.NewTripService(r, service.WithObserver(obs))
	ctx := context.Background()

	_, _ = svc.Create(ctx, owner, validTrip())
	_, _ = svc.List(ctx, owner)
	_ = svc.UpdateNotes(ctx, owner, uuid.New(), "x")
	_ = svc.Delete(ctx, owner, uuid.New())

	assert.Equal(t, []observation{
		{op: "create", success: false},
		{op: "list", success: true},
		{op: "update_notes", success: false},
		{op: "delete", success: true},
	}, obs.calls)
}
