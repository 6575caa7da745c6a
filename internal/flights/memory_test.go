package flights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdesk/appctx/internal/flights"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	t.Run("requires initialization", func(t *testing.T) {
		t.Parallel()

		repo, err := flights.NewMemoryRepository(t.Context())
		require.NoError(t, err)

		err = repo.Save(t.Context(), flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"})
		assert.ErrorIs(t, err, flights.ErrNotInitialized)
	})

	t.Run("stores and finds flights", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepository(t)
		flight := flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"}

		require.NoError(t, repo.Save(t.Context(), flight))

		found, err := repo.Find(t.Context(), "LH400")
		require.NoError(t, err)
		assert.Equal(t, flight, found)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepository(t)
		flight := flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"}

		require.NoError(t, repo.Save(t.Context(), flight))
		assert.ErrorIs(t, repo.Save(t.Context(), flight), flights.ErrFlightExists)
	})

	t.Run("returns ErrFlightNotFound for unknown flights", func(t *testing.T) {
		t.Parallel()

		_, err := newMemoryRepository(t).Find(t.Context(), "XX1")
		assert.ErrorIs(t, err, flights.ErrFlightNotFound)
	})

	t.Run("lists flights ordered by number", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepository(t)
		require.NoError(t, repo.Save(t.Context(), flights.Flight{Number: "UA900", Origin: "SFO", Destination: "FRA"}))
		require.NoError(t, repo.Save(t.Context(), flights.Flight{Number: "BA117", Origin: "LHR", Destination: "JFK"}))

		list, err := repo.List(t.Context())
		require.NoError(t, err)

		require.Len(t, list, 2)
		assert.Equal(t, "BA117", list[0].Number)
		assert.Equal(t, "UA900", list[1].Number)
	})
}

func newMemoryRepository(t *testing.T) *flights.MemoryRepository {
	t.Helper()

	repo, err := flights.NewMemoryRepository(t.Context())
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(t.Context()))

	return repo
}
