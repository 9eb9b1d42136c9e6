package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	db, _ := buildTestStore(t)

	t.Run("full record with reference", func(t *testing.T) {
		ac, err := db.Lookup("172SP")
		require.NoError(t, err)
		require.NotNil(t, ac)

		assert.Equal(t, "N172SP", ac.TailNumber)
		assert.Equal(t, "CESSNA", ac.Manufacturer)
		assert.Equal(t, "172S", ac.Model)
		assert.Empty(t, ac.Series)
		assert.Equal(t, "Fixed Wing Single-Engine", ac.AircraftType)
		assert.Equal(t, "Reciprocating", ac.EngineType)
		require.NotNil(t, ac.NumEngines)
		assert.Equal(t, 1, *ac.NumEngines)
		require.NotNil(t, ac.NumSeats)
		assert.Equal(t, 4, *ac.NumSeats)
		require.NotNil(t, ac.YearMfr)
		assert.Equal(t, 2001, *ac.YearMfr)
	})

	t.Run("no matching reference still resolves", func(t *testing.T) {
		ac, err := db.Lookup("99999")
		require.NoError(t, err)
		require.NotNil(t, ac)

		assert.Equal(t, "N99999", ac.TailNumber)
		assert.Equal(t, "Unknown", ac.Manufacturer)
		assert.Equal(t, "Unknown", ac.Model)
		assert.Equal(t, "Unknown", ac.AircraftType)
		assert.Equal(t, "Unknown", ac.EngineType)
		assert.Nil(t, ac.NumEngines)
		assert.Nil(t, ac.NumSeats)
		assert.Nil(t, ac.YearMfr)
	})

	t.Run("engine count salvaged from engine model code", func(t *testing.T) {
		ac, err := db.Lookup("10001")
		require.NoError(t, err)
		require.NotNil(t, ac)

		require.NotNil(t, ac.NumEngines)
		assert.Equal(t, 3, *ac.NumEngines)
		assert.Equal(t, "Turbo-Fan", ac.EngineType)
	})

	t.Run("malformed counts degrade to absent, zero is present", func(t *testing.T) {
		ac, err := db.Lookup("10002")
		require.NoError(t, err)
		require.NotNil(t, ac)

		assert.Nil(t, ac.NumEngines, `"abc" must coerce to absent`)
		require.NotNil(t, ac.NumSeats)
		assert.Equal(t, 0, *ac.NumSeats, `"0" is a present value`)
		assert.Nil(t, ac.YearMfr)
	})

	t.Run("reference counts used as fallback", func(t *testing.T) {
		ac, err := db.Lookup("10003")
		require.NoError(t, err)
		require.NotNil(t, ac)

		require.NotNil(t, ac.NumEngines)
		assert.Equal(t, 1, *ac.NumEngines)
		require.NotNil(t, ac.NumSeats)
		assert.Equal(t, 4, *ac.NumSeats)
	})

	t.Run("not found is nil, not an error", func(t *testing.T) {
		ac, err := db.Lookup("00000")
		require.NoError(t, err)
		assert.Nil(t, ac)
	})

	t.Run("repeated lookups are identical", func(t *testing.T) {
		first, err := db.Lookup("172SP")
		require.NoError(t, err)
		second, err := db.Lookup("172SP")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestBulkLookup(t *testing.T) {
	db, _ := buildTestStore(t)

	t.Run("outcomes preserve input order", func(t *testing.T) {
		results, found, err := db.BulkLookup([]string{"N172SP", "N-BAD!", "N00000"})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, 1, found)

		assert.Equal(t, "N172SP", results[0].TailNumber)
		assert.Empty(t, results[0].Error)
		require.NotNil(t, results[0].Aircraft)
		assert.Equal(t, "CESSNA", results[0].Aircraft.Manufacturer)

		assert.Equal(t, "N-BAD!", results[1].TailNumber)
		assert.Equal(t, "Invalid tail number", results[1].Error)
		assert.Nil(t, results[1].Aircraft)

		assert.Equal(t, "N00000", results[2].TailNumber)
		assert.Equal(t, "Not found", results[2].Error)
		assert.Nil(t, results[2].Aircraft)
	})

	t.Run("size bound rejected before any lookups", func(t *testing.T) {
		tails := make([]string, MaxBulkSize+1)
		for i := range tails {
			tails[i] = "N172SP"
		}

		results, found, err := db.BulkLookup(tails)
		require.ErrorIs(t, err, ErrBulkTooLarge)
		assert.Nil(t, results)
		assert.Zero(t, found)
	})

	t.Run("exactly at the bound is accepted", func(t *testing.T) {
		tails := make([]string, MaxBulkSize)
		for i := range tails {
			tails[i] = "N172SP"
		}

		results, found, err := db.BulkLookup(tails)
		require.NoError(t, err)
		assert.Len(t, results, MaxBulkSize)
		assert.Equal(t, MaxBulkSize, found)
	})

	t.Run("empty request", func(t *testing.T) {
		results, found, err := db.BulkLookup(nil)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Zero(t, found)
	})
}

func TestStats(t *testing.T) {
	db, _ := buildTestStore(t)

	stats, err := db.Stats()
	require.NoError(t, err)

	assert.Equal(t, 5, stats.RecordCount)
	assert.NotEmpty(t, stats.LastUpdated)
}
