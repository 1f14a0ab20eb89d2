package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taxops/gstledger/src/models"
)

func reportFixture() *models.BatchResult {
	return &models.BatchResult{
		BatchID:     uuid.MustParse("12345678-1234-4321-8765-123456789abc"),
		StartedAt:   time.Date(2025, 4, 12, 10, 30, 0, 0, time.UTC),
		Total:       3,
		Succeeded:   1,
		Duplicates:  1,
		Failed:      1,
		SuccessRate: float64(1) / 3 * 100,
		Items: []models.ItemResult{
			{Index: 1, InvoiceID: "doc-1", Success: true, LedgerRow: 2, ValidationStatus: models.StatusOK, LineCount: 2},
			{Index: 2, InvoiceID: "doc-2", Duplicate: true, DuplicateOf: "INV-2025-001", DuplicateRow: 2},
			{Index: 3, InvoiceID: "doc-3", Stage: StageParsing, Err: "parsing failed: no invoice data recognized in document text"},
		},
		Elapsed: 1234 * time.Millisecond,
	}
}

func TestRenderBatchReport(t *testing.T) {
	report := RenderBatchReport(reportFixture())

	wants := []string{
		"Documents: 3   Succeeded: 1   Duplicates: 1   Failed: 1",
		"Success rate: 33.3%",
		"✓ doc-1 row 2 (OK, 2 lines)",
		"≡ doc-2 duplicate of INV-2025-001 at row 2",
		"✗ doc-3 failed at Parsing: parsing failed",
		"Validation: 1 OK, 0 WARNING, 0 ERROR",
		"Elapsed: 1.234s",
		"Started:   2025-04-12T10:30:00Z",
	}
	for _, want := range wants {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestReportSubject(t *testing.T) {
	subject := ReportSubject(reportFixture())
	if subject != "GST ledger batch 12345678: 1/3 succeeded" {
		t.Errorf("unexpected subject %q", subject)
	}
}
