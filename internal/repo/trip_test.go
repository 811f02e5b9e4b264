package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-explorer/internal/repo"
	"github.com/pkordes/trip-explorer/testutil"
)

// TestSQLiteTripRepo runs the repo contract against a throwaway SQLite file.
// It always runs: no external database is needed.
func TestSQLiteTripRepo(t *testing.T) {
	runTripRepoContract(t, contractOptions{concurrent: true}, func(t *testing.T) repo.TripRepo {
		return repo.NewSQLiteTripRepo(testutil.NewSQLite(t))
	})
}

// TestPostgresTripRepo runs the repo contract against Postgres.
//
// Each case opens a transaction against the test database and builds the
// repo on it. The transaction is rolled back when the case finishes, giving
// free per-test isolation.
//
// Requires TEST_DATABASE_URL; TestMain applies the migrations.
func TestPostgresTripRepo(t *testing.T) {
	runTripRepoContract(t, contractOptions{concurrent: false}, func(t *testing.T) repo.TripRepo {
		t.Helper()
		pool := testutil.NewPool(t)

		tx, err := pool.Begin(context.Background())
		require.NoError(t, err, "begin transaction")

		t.Cleanup(func() {
			// Rollback discards all changes made during the test, so no cleanup SQL needed.
			_ = tx.Rollback(context.Background())
		})

		return repo.NewTripRepo(tx)
	})
}

// TestMongoTripRepo runs the repo contract against MongoDB, one throwaway
// database per case. Requires TEST_MONGODB_URI.
func TestMongoTripRepo(t *testing.T) {
	runTripRepoContract(t, contractOptions{concurrent: true}, func(t *testing.T) repo.TripRepo {
		t.Helper()
		database := testutil.NewMongoDatabase(t)
		require.NoError(t, repo.EnsureTripIndexes(context.Background(), database))
		return repo.NewMongoTripRepo(database)
	})
}
