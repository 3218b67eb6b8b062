package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/neersetu/neersetu/internal/model"
)

// sourceLabel identifies provenance of this store in citations.
const sourceLabel = "SQLite gw_levels"

const schema = `
CREATE TABLE IF NOT EXISTS gw_levels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	state TEXT,
	district TEXT,
	block TEXT,
	year INTEGER,
	level_m REAL,
	stage TEXT
);
CREATE INDEX IF NOT EXISTS idx_gw_levels_block_year ON gw_levels(block, year);
`

// SQLiteStore implements FactStore over a local SQLite database.
// Safe for concurrent readers: database/sql pools connections and the
// store issues only SELECTs after seeding.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if necessary) the database at path and ensures
// the gw_levels schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SourceLabel returns the citation label for this store.
func (s *SQLiteStore) SourceLabel() string {
	return sourceLabel
}

// LookupRange returns readings for block within [startYear, endYear], year
// ascending. Block matching is case-insensitive.
func (s *SQLiteStore) LookupRange(ctx context.Context, block string, startYear, endYear int) ([]model.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, level_m, stage
		FROM gw_levels
		WHERE lower(block) = lower(?) AND year BETWEEN ? AND ?
		ORDER BY year ASC`,
		block, startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Reading
	for rows.Next() {
		var r model.Reading
		var stage string
		if err := rows.Scan(&r.Year, &r.LevelM, &stage); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Stage = model.Stage(stage)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// LookupExact returns the reading for (block, year), or nil when absent.
func (s *SQLiteStore) LookupExact(ctx context.Context, block string, year int) (*model.Reading, error) {
	var r model.Reading
	var stage string
	err := s.db.QueryRowContext(ctx, `
		SELECT year, level_m, stage
		FROM gw_levels
		WHERE lower(block) = lower(?) AND year = ?`,
		block, year).Scan(&r.Year, &r.LevelM, &stage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query exact: %w", err)
	}
	r.Stage = model.Stage(stage)
	return &r, nil
}

// LookupLevel returns only the level for (block, year).
func (s *SQLiteStore) LookupLevel(ctx context.Context, block string, year int) (float64, bool, error) {
	var level float64
	err := s.db.QueryRowContext(ctx, `
		SELECT level_m
		FROM gw_levels
		WHERE lower(block) = lower(?) AND year = ?`,
		block, year).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query level: %w", err)
	}
	return level, true, nil
}

// Replace wipes the table and bulk-inserts records in one transaction.
// Used by the seed command; never called during request handling.
func (s *SQLiteStore) Replace(ctx context.Context, records []model.FactRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gw_levels`); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gw_levels(state, district, block, year, level_m, stage)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.State, rec.District, rec.Block,
			rec.Year, rec.LevelM, string(rec.Stage)); err != nil {
			return fmt.Errorf("insert %s/%d: %w", rec.Block, rec.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gw_levels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
