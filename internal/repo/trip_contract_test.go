package repo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/repo"
)

const (
	ownerA = "ada@example.com"
	ownerB = "grace@example.com"
)

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(owner string) domain.Trip {
	return domain.Trip{
		Owner:   owner,
		Name:    "Portugal",
		Capital: "Lisbon",
		Region:  "Europe",
		Flag:    "https://flagcdn.com/w320/pt.png",
	}
}

// contractOptions describes what a repo under test can support.
type contractOptions struct {
	// concurrent is false when the repo is bound to something that cannot be
	// shared between goroutines, such as a single pgx.Tx.
	concurrent bool
}

// runTripRepoContract exercises the behaviour every TripRepo implementation
// must share. newRepo must return an empty, isolated repo on every call.
func runTripRepoContract(t *testing.T, opts contractOptions, newRepo func(t *testing.T) repo.TripRepo) {
	t.Run("Create", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		input := tripFixture(ownerA)
		got, err := r.Create(ctx, input)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID, "ID should be store-generated")
		assert.Equal(t, ownerA, got.Owner)
		assert.Equal(t, input.Name, got.Name)
		assert.Equal(t, input.Capital, got.Capital)
		assert.Equal(t, input.Region, got.Region)
		assert.Equal(t, input.Flag, got.Flag)
		assert.Empty(t, got.Notes)
		assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by the store")
		assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by the store")
	})

	t.Run("Create_ThenListReturnsIdenticalFields", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		got, err := r.ListByOwner(ctx, ownerA)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, created.ID, got[0].ID)
		assert.Equal(t, "Portugal", got[0].Name)
		assert.Equal(t, "Lisbon", got[0].Capital)
		assert.Equal(t, "Europe", got[0].Region)
		assert.Equal(t, "https://flagcdn.com/w320/pt.png", got[0].Flag)
		assert.Empty(t, got[0].Notes)
	})

	t.Run("Create_DuplicateNameSameOwner", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		first, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)
		require.NoError(t, r.UpdateNotes(ctx, ownerA, first.ID, "keep me"))

		dup := tripFixture(ownerA)
		dup.Capital = "Porto"
		_, err = r.Create(ctx, dup)

		assert.ErrorIs(t, err, domain.ErrDuplicate)

		// The existing record is untouched.
		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, "Lisbon", got[0].Capital)
		assert.Equal(t, "keep me", got[0].Notes)
	})

	t.Run("Create_NameMatchIsCaseSensitive", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		_, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		lower := tripFixture(ownerA)
		lower.Name = "portugal"
		_, err = r.Create(ctx, lower)

		assert.NoError(t, err)
	})

	t.Run("Create_SameNameDifferentOwners", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		_, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)
		_, err = r.Create(ctx, tripFixture(ownerB))

		assert.NoError(t, err)
	})

	t.Run("Create_ConcurrentDuplicatesYieldOneRecord", func(t *testing.T) {
		if !opts.concurrent {
			t.Skip("repo cannot be shared between goroutines")
		}
		r := newRepo(t)
		ctx := context.Background()

		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			ok   int
			dups int
		)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Create(ctx, tripFixture(ownerA))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case assert.ErrorIs(t, err, domain.ErrDuplicate):
					dups++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, n-1, dups)

		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("ListByOwner_Empty", func(t *testing.T) {
		r := newRepo(t)

		got, err := r.ListByOwner(context.Background(), ownerA)

		require.NoError(t, err)
		assert.NotNil(t, got, "empty result must be a non-nil slice")
		assert.Empty(t, got)
	})

	t.Run("ListByOwner_IsolatesOwners", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		a := tripFixture(ownerA)
		a.Name = "Japan"
		_, err := r.Create(ctx, a)
		require.NoError(t, err)

		b := tripFixture(ownerB)
		b.Name = "Chile"
		_, err = r.Create(ctx, b)
		require.NoError(t, err)

		gotA, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		require.Len(t, gotA, 1)
		assert.Equal(t, "Japan", gotA[0].Name)

		gotB, err := r.ListByOwner(ctx, ownerB)
		require.NoError(t, err)
		require.Len(t, gotB, 1)
		assert.Equal(t, "Chile", gotB[0].Name)
	})

	t.Run("ListByOwner_CreationOrder", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"Peru", "Kenya", "Iceland"} {
			trip := tripFixture(ownerA)
			trip.Name = name
			_, err := r.Create(ctx, trip)
			require.NoError(t, err)
		}

		got, err := r.ListByOwner(ctx, ownerA)

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Peru", got[0].Name)
		assert.Equal(t, "Kenya", got[1].Name)
		assert.Equal(t, "Iceland", got[2].Name)
	})

	t.Run("UpdateNotes_OverwritesNotAppends", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		require.NoError(t, r.UpdateNotes(ctx, ownerA, created.ID, "Day 1: arrive"))
		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Equal(t, "Day 1: arrive", got[0].Notes)

		require.NoError(t, r.UpdateNotes(ctx, ownerA, created.ID, "Day 2: tram 28"))
		got, err = r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Equal(t, "Day 2: tram 28", got[0].Notes)
		assert.False(t, got[0].UpdatedAt.Before(created.UpdatedAt), "UpdatedAt should not move backwards")
	})

	t.Run("UpdateNotes_EmptyString", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)
		require.NoError(t, r.UpdateNotes(ctx, ownerA, created.ID, "something"))

		require.NoError(t, r.UpdateNotes(ctx, ownerA, created.ID, ""))

		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Empty(t, got[0].Notes)
	})

	t.Run("UpdateNotes_UnknownID", func(t *testing.T) {
		r := newRepo(t)

		err := r.UpdateNotes(context.Background(), ownerA, uuid.New(), "x")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateNotes_ForeignOwner", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		err = r.UpdateNotes(ctx, ownerB, created.ID, "hijacked")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Empty(t, got[0].Notes)
	})

	t.Run("Delete", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		require.NoError(t, r.Delete(ctx, ownerA, created.ID))

		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Empty(t, got)

		// A second delete finds nothing.
		assert.ErrorIs(t, r.Delete(ctx, ownerA, created.ID), domain.ErrNotFound)
	})

	t.Run("Delete_ForeignOwner", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)

		err = r.Delete(ctx, ownerB, created.ID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		got, err := r.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("Delete_ThenRecreateSameName", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		created, err := r.Create(ctx, tripFixture(ownerA))
		require.NoError(t, err)
		require.NoError(t, r.Delete(ctx, ownerA, created.ID))

		again, err := r.Create(ctx, tripFixture(ownerA))

		require.NoError(t, err)
		assert.NotEqual(t, created.ID, again.ID)
	})
}
