package ledger

import "context"

// Grid is the narrow storage contract the writer and dedup index run on.
// Implementations back it with a spreadsheet file, a sqlite database or an
// in-memory table; the writer never knows which.
//
// All coordinates are 1-based. Row 1 is the header row. Implementations may
// trim trailing empty cells from the rows they return, and Cell returns ""
// for any coordinate that holds nothing.
type Grid interface {
	// Rows returns every row of the sheet in order.
	Rows(ctx context.Context, sheet string) ([][]string, error)

	// Column returns one cell per row, "" where the row is short.
	Column(ctx context.Context, sheet string, col int) ([]string, error)

	// Cell returns a single cell value.
	Cell(ctx context.Context, sheet string, row, col int) (string, error)

	// WriteRows stores rows at consecutive positions starting at startRow,
	// replacing whatever those rows held.
	WriteRows(ctx context.Context, sheet string, startRow int, rows [][]string) error

	// Purge removes any content beyond width columns across the whole
	// sheet, including rows that held nothing else.
	Purge(ctx context.Context, sheet string, width int) error
}
