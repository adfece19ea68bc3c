package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PositionArchive mirrors accepted aircraft positions to Postgres for
// retention longer than the in-process tracker's 60-second purge window.
type PositionArchive struct {
	pool *pgxpool.Pool
}

// OpenPositionArchive opens a connection pool against dsn (a
// "postgres://" connection string).
func OpenPositionArchive(ctx context.Context, dsn string) (*PositionArchive, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	archive := &PositionArchive{pool: pool}
	if err := archive.createSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return archive, nil
}

func (a *PositionArchive) createSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS aircraft_positions (
		icao            TEXT NOT NULL,
		ts_ns           BIGINT NOT NULL,
		latitude_rad    DOUBLE PRECISION NOT NULL,
		longitude_rad   DOUBLE PRECISION NOT NULL,
		altitude_m      DOUBLE PRECISION NOT NULL,
		recorded_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (icao, ts_ns)
	);
	CREATE INDEX IF NOT EXISTS idx_aircraft_positions_icao ON aircraft_positions(icao);`
	_, err := a.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// RecordPosition inserts or refreshes one (icao, ts_ns) position row.
func (a *PositionArchive) RecordPosition(ctx context.Context, icao string, tsNs int64, latitudeRad, longitudeRad, altitudeM float64) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO aircraft_positions (icao, ts_ns, latitude_rad, longitude_rad, altitude_m)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (icao, ts_ns) DO UPDATE SET
			latitude_rad = excluded.latitude_rad,
			longitude_rad = excluded.longitude_rad,
			altitude_m = excluded.altitude_m`,
		icao, tsNs, latitudeRad, longitudeRad, altitudeM)
	if err != nil {
		return fmt.Errorf("store: record position: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (a *PositionArchive) Close() {
	a.pool.Close()
}
