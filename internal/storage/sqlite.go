// Package storage builds and serves the aircraft registration store.
//
// The store is a single SQLite file holding the registration and reference
// tables joined at lookup time, plus a metadata table with build provenance.
// It is rebuilt wholesale by Build and opened read-only for serving; one DB
// handle is shared across all concurrent lookups.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"tail_lookup/internal/faa"
	"tail_lookup/internal/tailnum"
)

// MaxBulkSize bounds how many identifiers one bulk lookup may carry.
const MaxBulkSize = 50

// ErrBulkTooLarge is returned before any lookup work when a bulk request
// exceeds MaxBulkSize.
var ErrBulkTooLarge = fmt.Errorf("bulk lookup limited to %d tail numbers", MaxBulkSize)

// Aircraft is a decoded registration lookup result.
type Aircraft struct {
	TailNumber   string `json:"tail_number"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Series       string `json:"series,omitempty"`
	AircraftType string `json:"aircraft_type"`
	EngineType   string `json:"engine_type"`
	NumEngines   *int   `json:"num_engines,omitempty"`
	NumSeats     *int   `json:"num_seats,omitempty"`
	YearMfr      *int   `json:"year_mfr,omitempty"`
}

// DB is a handle to a built aircraft store.
type DB struct {
	db *sql.DB
}

// Open opens the store at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the store handle.
func (d *DB) Close() error {
	return d.db.Close()
}

const lookupQuery = `
	SELECT r.key, r.aircraft_type_code, r.engine_type_code,
		r.engine_count, r.seat_count, r.manufacture_year,
		a.manufacturer, a.model, a.series, a.engine_count, a.seat_count
	FROM registration r
	LEFT JOIN reference a ON r.reference_code = a.code
	WHERE r.key = ?`

// Lookup resolves a normalized registration key to a decoded Aircraft.
// It returns nil with no error when the key is not registered. A
// registration with no matching reference row still resolves, with
// manufacturer and model reported as Unknown.
func (d *DB) Lookup(key string) (*Aircraft, error) {
	var (
		tail, acftType, engType              string
		engCount, seatCount, yearMfr         string
		mfr, model, series, refEng, refSeats sql.NullString
	)

	err := d.db.QueryRow(lookupQuery, key).Scan(
		&tail, &acftType, &engType, &engCount, &seatCount, &yearMfr,
		&mfr, &model, &series, &refEng, &refSeats)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", key, err)
	}

	return &Aircraft{
		TailNumber:   "N" + tail,
		Manufacturer: orUnknown(mfr.String),
		Model:        orUnknown(model.String),
		Series:       series.String,
		AircraftType: faa.AircraftTypeLabel(acftType),
		EngineType:   faa.EngineTypeLabel(engType),
		NumEngines:   parseCount(engCount, refEng.String),
		NumSeats:     parseCount(seatCount, refSeats.String),
		YearMfr:      parseCount(yearMfr, ""),
	}, nil
}

// BulkResult is the outcome for one identifier in a bulk lookup.
type BulkResult struct {
	TailNumber string
	Aircraft   *Aircraft // nil when Error is set
	Error      string
}

// BulkLookup resolves up to MaxBulkSize raw identifiers independently,
// preserving input order. Each item yields either an Aircraft or a per-item
// error ("Invalid tail number" or "Not found"); one item's failure never
// affects its siblings. The second return value counts successes.
func (d *DB) BulkLookup(tails []string) ([]BulkResult, int, error) {
	if len(tails) > MaxBulkSize {
		return nil, 0, ErrBulkTooLarge
	}

	results := make([]BulkResult, 0, len(tails))
	found := 0
	for _, raw := range tails {
		key := tailnum.Normalize(raw)
		if key == "" {
			results = append(results, BulkResult{
				TailNumber: strings.ToUpper(strings.TrimSpace(raw)),
				Error:      "Invalid tail number",
			})
			continue
		}

		ac, err := d.Lookup(key)
		if err != nil {
			results = append(results, BulkResult{TailNumber: "N" + key, Error: "Lookup failed"})
			continue
		}
		if ac == nil {
			results = append(results, BulkResult{TailNumber: "N" + key, Error: "Not found"})
			continue
		}

		found++
		results = append(results, BulkResult{TailNumber: ac.TailNumber, Aircraft: ac})
	}
	return results, found, nil
}

// Stats summarizes the store contents.
type Stats struct {
	RecordCount int
	LastUpdated string // empty when the build never recorded a timestamp
}

// Stats returns the registration record count and the last build timestamp.
func (d *DB) Stats() (Stats, error) {
	var s Stats
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM registration`).Scan(&s.RecordCount); err != nil {
		return Stats{}, fmt.Errorf("count registrations: %w", err)
	}

	err := d.db.QueryRow(`SELECT value FROM metadata WHERE key = 'last_updated'`).Scan(&s.LastUpdated)
	if err != nil && err != sql.ErrNoRows {
		return Stats{}, fmt.Errorf("read last_updated: %w", err)
	}
	return s, nil
}

// orUnknown substitutes the Unknown sentinel for empty source fields.
func orUnknown(s string) string {
	if s == "" {
		return faa.UnknownLabel
	}
	return s
}

// parseCount coerces a stored numeric field to an integer, preferring the
// registration value and falling back to the reference value only when the
// registration text is empty. Empty or malformed text degrades to absent,
// never to an error; "0" is the present value zero.
func parseCount(primary, fallback string) *int {
	s := primary
	if s == "" {
		s = fallback
	}
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
