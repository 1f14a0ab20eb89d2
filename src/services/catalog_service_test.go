package services

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/taxops/gstledger/src/ledger"
	"github.com/taxops/gstledger/src/ledger/memstore"
	"github.com/taxops/gstledger/src/logger"
	"github.com/taxops/gstledger/src/models"
)

func newCatalog(t *testing.T) (CatalogService, ledger.Grid) {
	t.Helper()
	log := logger.New("error", io.Discard)
	grid := memstore.New(ledger.Sheets())
	writer := ledger.NewWriter(grid, 0, log)
	return NewCatalogService(grid, writer, 0, log), grid
}

func catalogHeader() *models.InvoiceHeader {
	return &models.InvoiceHeader{
		InvoiceNumber: "INV-2025-001",
		SellerGSTIN:   "27AAPFU0939F1ZV",
		SellerName:    "Uma Fabrics",
	}
}

func TestCatalogRecordsNewSellerAndHSN(t *testing.T) {
	ctx := context.Background()
	catalog, grid := newCatalog(t)

	lines := []models.LineItem{
		{LineNumber: 1, HSNCode: "5208", Description: "Cotton fabric roll", TaxableValue: decimal.NewFromInt(1000)},
		{LineNumber: 2, HSNCode: "5208", Description: "Cotton fabric roll", TaxableValue: decimal.NewFromInt(500)},
	}
	if err := catalog.RecordDocument(ctx, catalogHeader(), lines); err != nil {
		t.Fatalf("RecordDocument returned error: %v", err)
	}

	seller, err := grid.Rows(ctx, ledger.SheetSellers)
	if err != nil {
		t.Fatalf("reading sellers: %v", err)
	}
	if len(seller) != 2 {
		t.Fatalf("expected one seller row, got %d", len(seller)-1)
	}
	row := seller[1]
	if row[0] != "27AAPFU0939F1ZV" || row[1] != "Uma Fabrics" {
		t.Errorf("unexpected seller identity: %v", row)
	}
	if row[2] != "27" {
		t.Errorf("expected state code derived from GSTIN, got %q", row[2])
	}
	if row[3] == "" || row[3] != row[4] {
		t.Errorf("expected First_Seen == Last_Seen on insert, got %q and %q", row[3], row[4])
	}
	if row[5] != "1" {
		t.Errorf("expected invoice count 1, got %q", row[5])
	}

	// Two lines with the same code are two occurrences of one catalog row.
	count, err := grid.Cell(ctx, ledger.SheetHSNCodes, 2, 4)
	if err != nil {
		t.Fatalf("reading HSN occurrences: %v", err)
	}
	if count != "2" {
		t.Errorf("expected 2 occurrences, got %q", count)
	}
	code, err := grid.Cell(ctx, ledger.SheetHSNCodes, 2, 1)
	if err != nil {
		t.Fatalf("reading HSN code: %v", err)
	}
	if code != "5208" {
		t.Errorf("expected code 5208, got %q", code)
	}
}

func TestCatalogBumpsExistingSeller(t *testing.T) {
	ctx := context.Background()
	catalog, grid := newCatalog(t)

	if err := catalog.RecordDocument(ctx, catalogHeader(), nil); err != nil {
		t.Fatalf("first document: %v", err)
	}
	second := catalogHeader()
	second.InvoiceNumber = "INV-2025-002"
	second.SellerName = "Uma Fabrics Pvt Ltd" // name already on file wins
	if err := catalog.RecordDocument(ctx, second, nil); err != nil {
		t.Fatalf("second document: %v", err)
	}

	rows, err := grid.Rows(ctx, ledger.SheetSellers)
	if err != nil {
		t.Fatalf("reading sellers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected a single seller row, got %d", len(rows)-1)
	}
	if rows[1][1] != "Uma Fabrics" {
		t.Errorf("expected original name kept, got %q", rows[1][1])
	}
	if rows[1][5] != "2" {
		t.Errorf("expected invoice count 2, got %q", rows[1][5])
	}
}

func TestCatalogSellerName(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)

	if err := catalog.RecordDocument(ctx, catalogHeader(), nil); err != nil {
		t.Fatalf("RecordDocument returned error: %v", err)
	}

	name, ok := catalog.SellerName(ctx, "27AAPFU0939F1ZV")
	if !ok || name != "Uma Fabrics" {
		t.Errorf("expected cached seller name, got %q (%v)", name, ok)
	}
	if _, ok := catalog.SellerName(ctx, "29AAACB2230M1ZP"); ok {
		t.Error("unknown GSTIN must not resolve")
	}
}
