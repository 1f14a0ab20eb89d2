// Package sqlitestore backs the ledger grid with a sqlite database. Cells
// are stored sparsely, one row per non-empty cell, so row counts stay honest
// no matter how jagged the sheet gets.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

const createTablesStatement = `
CREATE TABLE IF NOT EXISTS sheets (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS cells (
	sheet TEXT NOT NULL,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (sheet, row, col),
	FOREIGN KEY (sheet) REFERENCES sheets(name)
);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path and ensures every sheet
// exists with its header row. Existing header rows are left untouched.
func Open(path string, sheets map[string][]string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database at %s: %w", path, err)
	}
	// sqlite locks the whole file; one connection avoids busy errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTablesStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring ledger tables: %w", err)
	}

	s := &Store{db: db}

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.ensureSheet(name, sheets[name]); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensuring sheet %s: %w", name, err)
		}
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSheet(name string, header []string) error {
	var existing string
	err := s.db.QueryRow("SELECT name FROM sheets WHERE name = ?", name).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO sheets (name) VALUES (?)", name); err != nil {
		return err
	}
	for i, value := range header {
		if value == "" {
			continue
		}
		if _, err := tx.Exec("INSERT INTO cells (sheet, row, col, value) VALUES (?, 1, ?, ?)", name, i+1, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) knownSheet(ctx context.Context, sheet string) error {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM sheets WHERE name = ?", sheet).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlitestore: unknown sheet %q", sheet)
	}
	return err
}

func (s *Store) Rows(ctx context.Context, sheet string) ([][]string, error) {
	if err := s.knownSheet(ctx, sheet); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT row, col, value FROM cells WHERE sheet = ? ORDER BY row, col", sheet)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: reading %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var r, c int
		var v string
		if err := rows.Scan(&r, &c, &v); err != nil {
			return nil, fmt.Errorf("sqlitestore: scanning %s: %w", sheet, err)
		}
		for len(out) < r {
			out = append(out, nil)
		}
		row := out[r-1]
		for len(row) < c {
			row = append(row, "")
		}
		row[c-1] = v
		out[r-1] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterating %s: %w", sheet, err)
	}
	return out, nil
}

func (s *Store) Column(ctx context.Context, sheet string, col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("sqlitestore: column %d out of range", col)
	}
	if err := s.knownSheet(ctx, sheet); err != nil {
		return nil, err
	}

	var maxRow int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(row), 0) FROM cells WHERE sheet = ?", sheet).Scan(&maxRow)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: sizing %s: %w", sheet, err)
	}

	out := make([]string, maxRow)
	rows, err := s.db.QueryContext(ctx,
		"SELECT row, value FROM cells WHERE sheet = ? AND col = ?", sheet, col)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: reading %s column %d: %w", sheet, col, err)
	}
	defer rows.Close()
	for rows.Next() {
		var r int
		var v string
		if err := rows.Scan(&r, &v); err != nil {
			return nil, fmt.Errorf("sqlitestore: scanning %s column %d: %w", sheet, col, err)
		}
		out[r-1] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterating %s column %d: %w", sheet, col, err)
	}
	return out, nil
}

func (s *Store) Cell(ctx context.Context, sheet string, row, col int) (string, error) {
	if row < 1 || col < 1 {
		return "", fmt.Errorf("sqlitestore: cell (%d,%d) out of range", row, col)
	}
	var v string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM cells WHERE sheet = ? AND row = ? AND col = ?", sheet, row, col).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlitestore: reading %s cell (%d,%d): %w", sheet, row, col, err)
	}
	return v, nil
}

// WriteRows replaces the target row range in one transaction: delete, then
// insert only non-empty values so MAX(row) keeps tracking real content.
func (s *Store) WriteRows(ctx context.Context, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("sqlitestore: start row %d out of range", startRow)
	}
	if err := s.knownSheet(ctx, sheet); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: starting write: %w", err)
	}
	defer tx.Rollback()

	endRow := startRow + len(rows) - 1
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cells WHERE sheet = ? AND row >= ? AND row <= ?", sheet, startRow, endRow); err != nil {
		return fmt.Errorf("sqlitestore: clearing rows %d-%d: %w", startRow, endRow, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO cells (sheet, row, col, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("sqlitestore: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		for j, value := range row {
			if value == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, sheet, startRow+i, j+1, value); err != nil {
				return fmt.Errorf("sqlitestore: writing cell (%d,%d): %w", startRow+i, j+1, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: committing rows %d-%d: %w", startRow, endRow, err)
	}
	return nil
}

func (s *Store) Purge(ctx context.Context, sheet string, width int) error {
	if width < 0 {
		return fmt.Errorf("sqlitestore: width %d out of range", width)
	}
	if err := s.knownSheet(ctx, sheet); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM cells WHERE sheet = ? AND col > ?", sheet, width); err != nil {
		return fmt.Errorf("sqlitestore: purging %s beyond column %d: %w", sheet, width, err)
	}
	return nil
}
