package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tail_lookup/internal/faa"
)

func testMasterRecords() []faa.Record {
	return []faa.Record{
		{
			"N-NUMBER": "172SP", "MFR MDL CODE": "0500123",
			"TYPE AIRCRAFT": "4", "TYPE ENGINE": "1",
			"NO-ENG": "1", "NO-SEATS": "4", "YEAR MFR": "2001",
		},
		{
			"N-NUMBER": "99999", "MFR MDL CODE": "7777777",
			"TYPE AIRCRAFT": "", "TYPE ENGINE": "",
			"NO-ENG": "", "NO-SEATS": "", "YEAR MFR": "",
		},
		{
			"N-NUMBER": "10001", "MFR MDL CODE": "0600001",
			"TYPE AIRCRAFT": "5", "TYPE ENGINE": "5",
			"NO-ENG": "", "ENG MFR MDL": "30010", "NO-SEATS": "189", "YEAR MFR": "2015",
		},
		{
			"N-NUMBER": "10002", "MFR MDL CODE": "",
			"TYPE AIRCRAFT": "4", "TYPE ENGINE": "1",
			"NO-ENG": "abc", "NO-SEATS": "0", "YEAR MFR": "19xx",
		},
		{
			"N-NUMBER": "10003", "MFR MDL CODE": "0500123",
			"TYPE AIRCRAFT": "4", "TYPE ENGINE": "1",
			"NO-ENG": "", "NO-SEATS": "", "YEAR MFR": "1999",
		},
		// Row without a tail number is skipped.
		{"N-NUMBER": "", "MFR MDL CODE": "0500123"},
	}
}

func testAcftrefRecords() []faa.Record {
	return []faa.Record{
		{"CODE": "0500123", "MFR": "CESSNA", "MODEL": "172S", "NO-ENG": "1", "NO-SEATS": "4"},
		// Duplicate code: first occurrence wins.
		{"CODE": "0500123", "MFR": "PIPER", "MODEL": "PA-28", "NO-ENG": "1", "NO-SEATS": "4"},
		{"CODE": "0600001", "MFR": "BOEING", "MODEL": "737-800", "NO-ENG": "", "NO-SEATS": ""},
		// Row without a code is skipped.
		{"CODE": "", "MFR": "NONE"},
	}
}

// buildTestStore builds a store in a temp dir and opens it.
func buildTestStore(t *testing.T) (*DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aircraft.db")
	_, err := Build(path, testMasterRecords(), testAcftrefRecords())
	require.NoError(t, err)

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, path
}

func TestBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aircraft.db")

	counts, err := Build(path, testMasterRecords(), testAcftrefRecords())
	require.NoError(t, err)

	// One duplicate reference code and one empty code are not counted.
	assert.Equal(t, 2, counts.ReferenceRecords)
	// One master row has no tail number.
	assert.Equal(t, 5, counts.RegistrationRecords)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestBuildReplacesExistingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aircraft.db")

	_, err := Build(path, testMasterRecords(), testAcftrefRecords())
	require.NoError(t, err)

	// Rebuild with a smaller data set; the old contents must be gone.
	master := []faa.Record{{"N-NUMBER": "55555", "MFR MDL CODE": "0500123"}}
	_, err = Build(path, master, testAcftrefRecords())
	require.NoError(t, err)

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordCount)

	ac, err := db.Lookup("172SP")
	require.NoError(t, err)
	assert.Nil(t, ac, "records from the previous build must not survive")
}

func TestBuildIdempotentCounts(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.db")
	second := filepath.Join(dir, "b.db")

	c1, err := Build(first, testMasterRecords(), testAcftrefRecords())
	require.NoError(t, err)
	c2, err := Build(second, testMasterRecords(), testAcftrefRecords())
	require.NoError(t, err)

	assert.Equal(t, c1, c2)

	db1, err := Open(first)
	require.NoError(t, err)
	defer db1.Close()
	db2, err := Open(second)
	require.NoError(t, err)
	defer db2.Close()

	s1, err := db1.Stats()
	require.NoError(t, err)
	s2, err := db2.Stats()
	require.NoError(t, err)
	assert.Equal(t, s1.RecordCount, s2.RecordCount)
	assert.NotEmpty(t, s1.LastUpdated)
	assert.NotEmpty(t, s2.LastUpdated)
}

func TestBuildDuplicateRegistrationFirstWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aircraft.db")

	master := []faa.Record{
		{"N-NUMBER": "172SP", "MFR MDL CODE": "0500123", "YEAR MFR": "2001"},
		{"N-NUMBER": "172SP", "MFR MDL CODE": "0500123", "YEAR MFR": "1987"},
	}
	counts, err := Build(path, master, testAcftrefRecords())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.RegistrationRecords)

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	ac, err := db.Lookup("172SP")
	require.NoError(t, err)
	require.NotNil(t, ac)
	require.NotNil(t, ac.YearMfr)
	assert.Equal(t, 2001, *ac.YearMfr)
}
