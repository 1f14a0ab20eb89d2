// Package memstore is an in-memory grid backend. It powers dry runs and
// tests; nothing is persisted.
package memstore

import (
	"context"
	"fmt"
	"sync"
)

type Store struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// New creates a store holding the given sheets, each seeded with its header
// row at row 1.
func New(sheets map[string][]string) *Store {
	s := &Store{sheets: make(map[string][][]string, len(sheets))}
	for name, header := range sheets {
		row := make([]string, len(header))
		copy(row, header)
		s.sheets[name] = [][]string{row}
	}
	return s
}

func (s *Store) Rows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown sheet %q", sheet)
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, trimRow(row))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (s *Store) Column(ctx context.Context, sheet string, col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("memstore: column %d out of range", col)
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
		return "", fmt.Errorf("memstore: cell (%d,%d) out of range", row, col)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.sheets[sheet]
	if !ok {
		return "", fmt.Errorf("memstore: unknown sheet %q", sheet)
	}
	if row > len(rows) || col > len(rows[row-1]) {
		return "", nil
	}
	return rows[row-1][col-1], nil
}

func (s *Store) WriteRows(_ context.Context, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("memstore: start row %d out of range", startRow)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sheets[sheet]
	if !ok {
		return fmt.Errorf("memstore: unknown sheet %q", sheet)
	}
	need := startRow + len(rows) - 1
	for len(existing) < need {
		existing = append(existing, nil)
	}
	for i, row := range rows {
		cp := make([]string, len(row))
		copy(cp, row)
		existing[startRow-1+i] = cp
	}
	s.sheets[sheet] = existing
	return nil
}

func (s *Store) Purge(_ context.Context, sheet string, width int) error {
	if width < 0 {
		return fmt.Errorf("memstore: width %d out of range", width)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[sheet]
	if !ok {
		return fmt.Errorf("memstore: unknown sheet %q", sheet)
	}
	for i, row := range rows {
		if len(row) > width {
			rows[i] = row[:width]
		}
	}
	return nil
}

// trimRow drops trailing empty cells, mirroring what spreadsheet readers
// report for short rows.
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
