package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"tail_lookup/internal/faa"
)

const schema = `
	CREATE TABLE registration (
		key TEXT PRIMARY KEY,
		reference_code TEXT,
		aircraft_type_code TEXT,
		engine_type_code TEXT,
		engine_count TEXT,
		seat_count TEXT,
		manufacture_year TEXT
	);

	CREATE TABLE reference (
		code TEXT PRIMARY KEY,
		manufacturer TEXT,
		model TEXT,
		series TEXT,
		engine_count TEXT,
		seat_count TEXT
	);

	CREATE TABLE metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
`

// BuildCounts reports how many rows a build loaded per table. Duplicate
// keys are counted once; the first occurrence wins.
type BuildCounts struct {
	ReferenceRecords    int
	RegistrationRecords int
}

// Build creates a fresh store at path from parsed MASTER and ACFTREF
// records. The store is written to a temporary file next to path and
// renamed into place only after a complete build, so a concurrent reader of
// the old store never observes a partial one. Any prior store at path is
// replaced wholesale; there is no incremental update.
func Build(path string, master, acftref []faa.Record) (BuildCounts, error) {
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return BuildCounts{}, fmt.Errorf("remove stale temp store: %w", err)
	}

	counts, err := buildAt(tmp, master, acftref)
	if err != nil {
		_ = os.Remove(tmp)
		return BuildCounts{}, err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return BuildCounts{}, fmt.Errorf("replace store: %w", err)
	}
	return counts, nil
}

func buildAt(path string, master, acftref []faa.Record) (BuildCounts, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return BuildCounts{}, fmt.Errorf("create store: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(schema); err != nil {
		return BuildCounts{}, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return BuildCounts{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var counts BuildCounts

	// Reference rows go in first so the lookup join has them available.
	counts.ReferenceRecords, err = insertReference(tx, acftref)
	if err != nil {
		return BuildCounts{}, fmt.Errorf("insert reference records: %w", err)
	}

	counts.RegistrationRecords, err = insertRegistration(tx, master)
	if err != nil {
		return BuildCounts{}, fmt.Errorf("insert registration records: %w", err)
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`INSERT INTO metadata (key, value) VALUES ('last_updated', ?)`, ts); err != nil {
		return BuildCounts{}, fmt.Errorf("write metadata: %w", err)
	}

	if _, err := tx.Exec(`CREATE INDEX idx_registration_reference ON registration(reference_code)`); err != nil {
		return BuildCounts{}, fmt.Errorf("create index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return BuildCounts{}, fmt.Errorf("commit build: %w", err)
	}
	return counts, nil
}

func insertReference(tx *sql.Tx, records []faa.Record) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO reference (code, manufacturer, model, series, engine_count, seat_count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	for _, rec := range records {
		code := rec["CODE"]
		if code == "" {
			continue
		}
		// ACFTREF has no series column; stored empty until a richer
		// source is integrated.
		res, err := stmt.Exec(code, rec["MFR"], rec["MODEL"], "", rec["NO-ENG"], rec["NO-SEATS"])
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			count += int(n)
		}
	}
	return count, nil
}

func insertRegistration(tx *sql.Tx, records []faa.Record) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO registration
			(key, reference_code, aircraft_type_code, engine_type_code, engine_count, seat_count, manufacture_year)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	for _, rec := range records {
		key := rec["N-NUMBER"]
		if key == "" {
			continue
		}

		engines := rec["NO-ENG"]
		if engines == "" {
			// Salvage from the engine model code's first character;
			// not a validated count.
			if emm := rec["ENG MFR MDL"]; emm != "" {
				engines = emm[:1]
			}
		}

		res, err := stmt.Exec(key, rec["MFR MDL CODE"], rec["TYPE AIRCRAFT"], rec["TYPE ENGINE"],
			engines, rec["NO-SEATS"], rec["YEAR MFR"])
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			count += int(n)
		}
	}
	return count, nil
}
