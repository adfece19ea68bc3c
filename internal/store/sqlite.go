// Package store holds the optional persistence tiers layered on top of the
// in-memory tracker: a local cache of aircraft metadata lookups, and an
// optional longer-term archive of accepted positions.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"go1090/internal/aircraft"
)

// MetadataCache is a local, file-backed cache of aircraft metadata
// lookups, avoiding a linear ZIP/CSV scan for every ICAO address a
// long-running process has already resolved once.
type MetadataCache struct {
	db *sql.DB
}

// OpenMetadataCache opens or creates a SQLite database at path.
func OpenMetadataCache(path string) (*MetadataCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open metadata cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}

	if err := createMetadataSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &MetadataCache{db: db}, nil
}

func createMetadataSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS aircraft_metadata (
		icao             TEXT PRIMARY KEY,
		registration     TEXT NOT NULL,
		type_designator  TEXT NOT NULL,
		model            TEXT NOT NULL,
		description      TEXT NOT NULL,
		wake_category    TEXT NOT NULL,
		cached_at        TEXT NOT NULL DEFAULT (datetime('now'))
	);`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (c *MetadataCache) Close() error {
	return c.db.Close()
}

// Get returns the cached metadata for icaoAddress, if present.
func (c *MetadataCache) Get(icaoAddress aircraft.ICAOAddress) (aircraft.Data, bool, error) {
	row := c.db.QueryRow(`
		SELECT registration, type_designator, model, description, wake_category
		FROM aircraft_metadata WHERE icao = ?`, icaoAddress.String())

	var registration, typeDesignator, model, description, wakeCategory string
	if err := row.Scan(&registration, &typeDesignator, &model, &description, &wakeCategory); err != nil {
		if err == sql.ErrNoRows {
			return aircraft.Data{}, false, nil
		}
		return aircraft.Data{}, false, fmt.Errorf("store: get metadata: %w", err)
	}

	reg, err := aircraft.NewRegistration(registration)
	if err != nil {
		return aircraft.Data{}, false, err
	}
	typeDes, err := aircraft.NewTypeDesignator(typeDesignator)
	if err != nil {
		return aircraft.Data{}, false, err
	}
	desc, err := aircraft.NewDescription(description)
	if err != nil {
		return aircraft.Data{}, false, err
	}

	return aircraft.Data{
		Registration:           reg,
		TypeDesignator:         typeDes,
		Model:                  model,
		Description:            desc,
		WakeTurbulenceCategory: aircraft.ParseWakeTurbulenceCategory(wakeCategory),
	}, true, nil
}

// Put stores data as the cached metadata for icaoAddress, overwriting any
// previous entry.
func (c *MetadataCache) Put(icaoAddress aircraft.ICAOAddress, data aircraft.Data) error {
	_, err := c.db.Exec(`
		INSERT INTO aircraft_metadata (icao, registration, type_designator, model, description, wake_category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(icao) DO UPDATE SET
			registration = excluded.registration,
			type_designator = excluded.type_designator,
			model = excluded.model,
			description = excluded.description,
			wake_category = excluded.wake_category,
			cached_at = datetime('now')`,
		icaoAddress.String(), data.Registration.String(), data.TypeDesignator.String(),
		data.Model, data.Description.String(), wakeCategoryCode(data.WakeTurbulenceCategory))
	if err != nil {
		return fmt.Errorf("store: put metadata: %w", err)
	}
	return nil
}

// wakeCategoryCode renders category in the single-letter form
// aircraft.ParseWakeTurbulenceCategory expects, the inverse of that
// parser.
func wakeCategoryCode(category aircraft.WakeTurbulenceCategory) string {
	switch category {
	case aircraft.Light:
		return "L"
	case aircraft.Medium:
		return "M"
	case aircraft.Heavy:
		return "H"
	default:
		return ""
	}
}
