package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Match is a fingerprint hit: the ledger row it sits on and the document
// number recorded there.
type Match struct {
	Row            int
	DocumentNumber string
}

// DedupIndex answers "has this fingerprint been written before" by scanning
// the Fingerprint column of the invoice sheet. The ledger itself is the
// index; nothing is cached, so a hit is always current as of the call.
type DedupIndex struct {
	grid Grid
	log  *slog.Logger
}

func NewDedupIndex(grid Grid, log *slog.Logger) *DedupIndex {
	if log == nil {
		log = slog.Default()
	}
	return &DedupIndex{grid: grid, log: log}
}

// Lookup returns the first row carrying the fingerprint, or nil when the
// ledger has no match. An empty fingerprint never matches anything. Ledgers
// created before the audit block lack the column entirely; those are treated
// as having no duplicates rather than failing the batch.
func (d *DedupIndex) Lookup(ctx context.Context, fingerprint string) (*Match, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return nil, nil
	}

	col := FingerprintColumn()
	head, err := d.grid.Cell(ctx, SheetInvoices, 1, col)
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", SheetInvoices, err)
	}
	if head != "Fingerprint" {
		d.log.Warn("ledger predates the fingerprint column, duplicate check skipped")
		return nil, nil
	}

	cells, err := d.grid.Column(ctx, SheetInvoices, col)
	if err != nil {
		return nil, fmt.Errorf("reading fingerprint column: %w", err)
	}
	for i, v := range cells {
		row := i + 1
		if row == 1 || v != fingerprint {
			continue
		}
		number, err := d.grid.Cell(ctx, SheetInvoices, row, ColInvoiceNumber)
		if err != nil {
			return nil, fmt.Errorf("reading matched row %d: %w", row, err)
		}
		return &Match{Row: row, DocumentNumber: number}, nil
	}
	return nil, nil
}
