package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax and column types.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// rebind rewrites ? placeholders to $n for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func postgresSchema() []string {
	return []string{
		`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS carriers (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		capabilities TEXT NOT NULL DEFAULT '[]',
		certifications TEXT NOT NULL DEFAULT '[]',
		service_areas TEXT NOT NULL DEFAULT '[]',
		specialties TEXT NOT NULL DEFAULT '[]'
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`,
	}
}

func sqliteSchema() []string {
	return []string{
		`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (origin, destination)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS carriers (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		capabilities TEXT NOT NULL DEFAULT '[]',
		certifications TEXT NOT NULL DEFAULT '[]',
		service_areas TEXT NOT NULL DEFAULT '[]',
		specialties TEXT NOT NULL DEFAULT '[]'
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`,
	}
}

// InitSchema creates the cache and carrier tables on Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, postgresSchema())
}

// InitSQLiteSchema creates the same tables on SQLite.
func InitSQLiteSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, sqliteSchema())
}

func initSchema(ctx context.Context, db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}
