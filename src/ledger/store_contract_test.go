package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/taxops/gstledger/src/ledger/memstore"
	"github.com/taxops/gstledger/src/ledger/sheetstore"
	"github.com/taxops/gstledger/src/ledger/sqlitestore"
)

// forEachBackend runs a contract case against every Grid implementation.
// Each case gets fresh storage, so the backends stay interchangeable.
func forEachBackend(t *testing.T, fn func(t *testing.T, grid Grid)) {
	t.Helper()
	backends := []struct {
		name string
		open func(t *testing.T) Grid
	}{
		{"memory", func(t *testing.T) Grid {
			return memstore.New(Sheets())
		}},
		{"sheet", func(t *testing.T) Grid {
			s, err := sheetstore.Open(filepath.Join(t.TempDir(), "ledger.xlsx"), Sheets())
			if err != nil {
				t.Fatalf("opening sheet store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		}},
		{"sqlite", func(t *testing.T) Grid {
			s, err := sqlitestore.Open(filepath.Join(t.TempDir(), "ledger.db"), Sheets())
			if err != nil {
				t.Fatalf("opening sqlite store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		}},
	}
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func cellAt(row []string, col int) string {
	if col >= 1 && col <= len(row) {
		return row[col-1]
	}
	return ""
}

func paddedRow(width int, cells map[int]string) []string {
	row := make([]string, width)
	for col, v := range cells {
		row[col-1] = v
	}
	return row
}

func TestGridSeedsHeaderRows(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()

		rows, err := grid.Rows(ctx, SheetInvoices)
		if err != nil {
			t.Fatalf("reading invoice sheet: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected only the header row, got %d rows", len(rows))
		}
		if cellAt(rows[0], 1) != "Invoice_Number" {
			t.Errorf("unexpected first header cell %q", cellAt(rows[0], 1))
		}
		if cellAt(rows[0], ExtendedWidth()) != "Confidence_Line_Items" {
			t.Errorf("unexpected last header cell %q", cellAt(rows[0], ExtendedWidth()))
		}

		head, err := grid.Cell(ctx, SheetDuplicateLog, 1, 1)
		if err != nil {
			t.Fatalf("reading duplicate log header: %v", err)
		}
		if head != "Logged_At" {
			t.Errorf("expected duplicate log header, got %q", head)
		}
	})
}

func TestGridWriteReadRoundtrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()
		width := ExtendedWidth()

		first := paddedRow(width, map[int]string{1: "INV-1", 2: "12/04/2025", 5: "27AAPFU0939F1ZV"})
		second := paddedRow(width, map[int]string{1: "INV-2", 2: "13/04/2025", 5: "29AAACB2230M1ZP"})
		if err := grid.WriteRows(ctx, SheetInvoices, 2, [][]string{first, second}); err != nil {
			t.Fatalf("writing rows: %v", err)
		}

		rows, err := grid.Rows(ctx, SheetInvoices)
		if err != nil {
			t.Fatalf("reading rows: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if cellAt(rows[1], 1) != "INV-1" || cellAt(rows[2], 1) != "INV-2" {
			t.Errorf("rows out of order: %q, %q", cellAt(rows[1], 1), cellAt(rows[2], 1))
		}

		got, err := grid.Cell(ctx, SheetInvoices, 3, 5)
		if err != nil {
			t.Fatalf("reading cell: %v", err)
		}
		if got != "29AAACB2230M1ZP" {
			t.Errorf("expected GSTIN at (3,5), got %q", got)
		}

		col, err := grid.Column(ctx, SheetInvoices, 1)
		if err != nil {
			t.Fatalf("reading column: %v", err)
		}
		if len(col) != 3 {
			t.Fatalf("expected column spanning 3 rows, got %d", len(col))
		}
		if col[1] != "INV-1" || col[2] != "INV-2" {
			t.Errorf("unexpected column values %q, %q", col[1], col[2])
		}
	})
}

func TestGridMissingCellReadsEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()

		got, err := grid.Cell(ctx, SheetInvoices, 50, 3)
		if err != nil {
			t.Fatalf("reading far row: %v", err)
		}
		if got != "" {
			t.Errorf("expected empty cell beyond content, got %q", got)
		}
		got, err = grid.Cell(ctx, SheetInvoices, 1, 500)
		if err != nil {
			t.Fatalf("reading far column: %v", err)
		}
		if got != "" {
			t.Errorf("expected empty cell beyond width, got %q", got)
		}
	})
}

func TestGridWriteRowsReplacesTargetRows(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()
		width := ExtendedWidth()

		old := paddedRow(width, map[int]string{1: "OLD", 3: "leftover"})
		if err := grid.WriteRows(ctx, SheetInvoices, 2, [][]string{old}); err != nil {
			t.Fatalf("writing first version: %v", err)
		}
		replacement := paddedRow(width, map[int]string{1: "NEW"})
		if err := grid.WriteRows(ctx, SheetInvoices, 2, [][]string{replacement}); err != nil {
			t.Fatalf("writing replacement: %v", err)
		}

		got, err := grid.Cell(ctx, SheetInvoices, 2, 1)
		if err != nil {
			t.Fatalf("reading cell: %v", err)
		}
		if got != "NEW" {
			t.Errorf("expected replacement value, got %q", got)
		}
		got, err = grid.Cell(ctx, SheetInvoices, 2, 3)
		if err != nil {
			t.Fatalf("reading cleared cell: %v", err)
		}
		if got != "" {
			t.Errorf("expected old value cleared, got %q", got)
		}
	})
}

func TestGridPurgeDropsStrayContent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()
		width := ExtendedWidth()

		content := paddedRow(width+4, map[int]string{1: "INV-1", width + 3: "junk"})
		if err := grid.WriteRows(ctx, SheetInvoices, 2, [][]string{content}); err != nil {
			t.Fatalf("writing content row: %v", err)
		}
		stray := paddedRow(width+4, map[int]string{width + 4: "stale"})
		if err := grid.WriteRows(ctx, SheetInvoices, 7, [][]string{stray}); err != nil {
			t.Fatalf("writing stray row: %v", err)
		}

		rows, err := grid.Rows(ctx, SheetInvoices)
		if err != nil {
			t.Fatalf("reading before purge: %v", err)
		}
		if len(rows) != 7 {
			t.Fatalf("expected 7 rows before purge, got %d", len(rows))
		}

		if err := grid.Purge(ctx, SheetInvoices, width); err != nil {
			t.Fatalf("purging: %v", err)
		}

		rows, err = grid.Rows(ctx, SheetInvoices)
		if err != nil {
			t.Fatalf("reading after purge: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows after purge, got %d", len(rows))
		}
		if cellAt(rows[1], 1) != "INV-1" {
			t.Errorf("content row lost in purge, got %q", cellAt(rows[1], 1))
		}
		if len(rows[1]) > width {
			t.Errorf("row still %d cells wide after purge", len(rows[1]))
		}
	})
}

func TestGridRejectsUnknownSheet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, grid Grid) {
		ctx := context.Background()

		if _, err := grid.Rows(ctx, "Nope"); err == nil {
			t.Error("expected error reading unknown sheet")
		}
		if err := grid.WriteRows(ctx, "Nope", 2, [][]string{{"x"}}); err == nil {
			t.Error("expected error writing unknown sheet")
		}
	})
}

func TestSheetStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	s, err := sheetstore.Open(path, Sheets())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	row := paddedRow(ExtendedWidth(), map[int]string{1: "INV-9"})
	if err := s.WriteRows(ctx, SheetInvoices, 2, [][]string{row}); err != nil {
		t.Fatalf("writing row: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	reopened, err := sheetstore.Open(path, Sheets())
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.Rows(ctx, SheetInvoices)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 2 || cellAt(rows[1], 1) != "INV-9" {
		t.Fatalf("expected persisted row, got %d rows", len(rows))
	}
	if cellAt(rows[0], 1) != "Invoice_Number" {
		t.Errorf("header row changed on reopen: %q", cellAt(rows[0], 1))
	}
}

func TestSqliteStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := sqlitestore.Open(path, Sheets())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	row := paddedRow(ExtendedWidth(), map[int]string{1: "INV-9"})
	if err := s.WriteRows(ctx, SheetInvoices, 2, [][]string{row}); err != nil {
		t.Fatalf("writing row: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	reopened, err := sqlitestore.Open(path, Sheets())
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.Rows(ctx, SheetInvoices)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 2 || cellAt(rows[1], 1) != "INV-9" {
		t.Fatalf("expected persisted row, got %d rows", len(rows))
	}
}
