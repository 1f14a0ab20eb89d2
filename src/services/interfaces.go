package services

import (
	"context"

	"github.com/taxops/gstledger/src/models"
)

// ProgressFunc is called before each batch item starts. index is 1-based.
type ProgressFunc func(index, total int, invoiceID string)

// BatchService ingests a batch of documents into the ledger. One bad
// document never aborts the batch; its failure is recorded in the result.
type BatchService interface {
	ProcessBatch(ctx context.Context, jobs []models.BatchJob, progress ProgressFunc) (*models.BatchResult, error)
}

// InvoiceParser turns extracted text into a validated invoice.
type InvoiceParser interface {
	ParseWithValidation(text string) (*models.ParsedInvoice, error)
}

// CatalogService maintains the Sellers and HSN_Codes reference sheets from
// the documents that pass through the pipeline.
type CatalogService interface {
	RecordDocument(ctx context.Context, header *models.InvoiceHeader, lines []models.LineItem) error
	SellerName(ctx context.Context, gstin string) (string, bool)
}

// AuditService records rejected re-uploads in the Duplicate_Log sheet.
type AuditService interface {
	RecordDuplicateAttempt(ctx context.Context, attempt models.DuplicateAttempt) error
}

// ReportDispatcher delivers the rendered batch report to the operator.
type ReportDispatcher interface {
	DispatchReport(ctx context.Context, subject, body string) error
}
