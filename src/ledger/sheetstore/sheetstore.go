// Package sheetstore backs the ledger grid with an xlsx workbook. The
// workbook is held open for the life of the store and saved after every
// write, so each appended document is on disk before the next one starts.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"
)

type Store struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open opens the workbook at path, creating it if missing, and ensures every
// sheet exists with its header row. Headers of existing sheets are left
// untouched so older ledgers keep their original layout.
func Open(path string, sheets map[string][]string) (*Store, error) {
	var file *excelize.File
	created := false

	switch _, err := os.Stat(path); {
	case err == nil:
		file, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening ledger workbook at %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		file = excelize.NewFile()
		created = true
	default:
		return nil, fmt.Errorf("checking ledger workbook at %s: %w", path, err)
	}

	existing := make(map[string]bool)
	for _, name := range file.GetSheetList() {
		existing[name] = true
	}

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	dirty := created
	for _, name := range names {
		if existing[name] {
			continue
		}
		if _, err := file.NewSheet(name); err != nil {
			file.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
		header := sheets[name]
		if err := file.SetSheetRow(name, "A1", &header); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing %s header: %w", name, err)
		}
		dirty = true
	}

	if created {
		if _, ok := sheets["Sheet1"]; !ok {
			if err := file.DeleteSheet("Sheet1"); err != nil {
				file.Close()
				return nil, fmt.Errorf("removing placeholder sheet: %w", err)
			}
		}
		if idx, err := file.GetSheetIndex(names[0]); err == nil && idx >= 0 {
			file.SetActiveSheet(idx)
		}
	}

	s := &Store{file: file, path: path}
	if dirty {
		if err := s.save(); err != nil {
			file.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("saving ledger workbook: %w", err)
	}
	return nil
}

func (s *Store) Rows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheetstore: reading %s: %w", sheet, err)
	}
	return rows, nil
}

func (s *Store) Column(ctx context.Context, sheet string, col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("sheetstore: column %d out of range", col)
	}
	rows, err := s.Rows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		if col <= len(row) {
			out[i] = row[col-1]
		}
	}
	return out, nil
}

func (s *Store) Cell(_ context.Context, sheet string, row, col int) (string, error) {
	if row < 1 || col < 1 {
		return "", fmt.Errorf("sheetstore: cell (%d,%d) out of range", row, col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("sheetstore: %w", err)
	}
	value, err := s.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("sheetstore: reading %s cell %s: %w", sheet, cell, err)
	}
	return value, nil
}

func (s *Store) WriteRows(_ context.Context, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("sheetstore: start row %d out of range", startRow)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return fmt.Errorf("sheetstore: %w", err)
		}
		if err := s.file.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("sheetstore: writing %s row %d: %w", sheet, startRow+i, err)
		}
	}
	return s.save()
}

// Purge clears every cell beyond width, then drops trailing rows that held
// nothing else. Removal runs bottom-up so earlier rows keep their positions.
func (s *Store) Purge(_ context.Context, sheet string, width int) error {
	if width < 0 {
		return fmt.Errorf("sheetstore: width %d out of range", width)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("sheetstore: reading %s: %w", sheet, err)
	}

	lastContent := 0
	for i, row := range rows {
		for c := width; c < len(row); c++ {
			if row[c] == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, i+1)
			if err != nil {
				return fmt.Errorf("sheetstore: %w", err)
			}
			if err := s.file.SetCellStr(sheet, cell, ""); err != nil {
				return fmt.Errorf("sheetstore: clearing %s cell %s: %w", sheet, cell, err)
			}
		}
		for c := 0; c < len(row) && c < width; c++ {
			if row[c] != "" {
				lastContent = i + 1
				break
			}
		}
	}

	for r := len(rows); r > lastContent && r > 1; r-- {
		if err := s.file.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("sheetstore: removing %s row %d: %w", sheet, r, err)
		}
	}
	return s.save()
}
