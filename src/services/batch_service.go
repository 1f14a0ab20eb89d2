package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taxops/gstledger/src/extraction"
	"github.com/taxops/gstledger/src/ledger"
	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/processors"
)

// Pipeline stages as they appear in item results and reports.
const (
	StageExtraction     = "Extraction"
	StageParsing        = "Parsing"
	StageDuplicateCheck = "Duplicate Check"
	StageLedgerWrite    = "Ledger Write"
	StageLineItemWrite  = "Line Item Write"
	StageCanceled       = "Canceled"
	StageUnknown        = "Unknown"
)

// Duplicate_Status values written to the ledger.
const (
	duplicateStatusUnique    = "Unique"
	duplicateStatusUnchecked = "Unchecked"
)

type batchServiceImpl struct {
	extractor extraction.Service
	parser    InvoiceParser
	writer    *ledger.Writer
	dedup     *ledger.DedupIndex // nil disables the duplicate check
	catalog   CatalogService     // nil disables catalog updates
	audit     AuditService       // nil disables the duplicate log
	operator  string
	log       *slog.Logger
}

// NewBatchService creates the ingestion pipeline. dedup, catalog and audit
// may be nil; the corresponding step is skipped.
func NewBatchService(
	extractor extraction.Service,
	parser InvoiceParser,
	writer *ledger.Writer,
	dedup *ledger.DedupIndex,
	catalog CatalogService,
	audit AuditService,
	operator string,
	log *slog.Logger,
) BatchService {
	if log == nil {
		log = slog.Default()
	}
	return &batchServiceImpl{
		extractor: extractor,
		parser:    parser,
		writer:    writer,
		dedup:     dedup,
		catalog:   catalog,
		audit:     audit,
		operator:  operator,
		log:       log,
	}
}

func (s *batchServiceImpl) ProcessBatch(ctx context.Context, jobs []models.BatchJob, progress ProgressFunc) (*models.BatchResult, error) {
	batchID := uuid.New()
	started := time.Now()
	s.log.Info("starting batch", "batchId", batchID, "documents", len(jobs))

	result := &models.BatchResult{
		BatchID:   batchID,
		StartedAt: started,
		Total:     len(jobs),
		Items:     make([]models.ItemResult, 0, len(jobs)),
	}

	for i, job := range jobs {
		if progress != nil {
			progress(i+1, len(jobs), job.InvoiceID)
		}

		var item models.ItemResult
		if err := ctx.Err(); err != nil {
			item = models.ItemResult{
				Index:     i + 1,
				InvoiceID: job.InvoiceID,
				Stage:     StageCanceled,
				Err:       err.Error(),
			}
		} else {
			item = s.processOne(ctx, batchID, i+1, job)
		}

		switch {
		case item.Success:
			result.Succeeded++
		case item.Duplicate:
			result.Duplicates++
		default:
			result.Failed++
		}
		result.Items = append(result.Items, item)
	}

	result.Elapsed = time.Since(started)
	if result.Total > 0 {
		result.SuccessRate = float64(result.Succeeded) / float64(result.Total) * 100
	}
	s.log.Info("batch finished",
		"batchId", batchID,
		"succeeded", result.Succeeded,
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// processOne runs the full pipeline for a single document. A panic anywhere
// inside becomes a failed item, never a dead batch.
func (s *batchServiceImpl) processOne(ctx context.Context, batchID uuid.UUID, index int, job models.BatchJob) (item models.ItemResult) {
	started := time.Now()
	item = models.ItemResult{Index: index, InvoiceID: job.InvoiceID}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("document processing panicked", "invoiceId", job.InvoiceID, "panic", r)
			item.Success = false
			item.Duplicate = false
			item.Stage = StageUnknown
			item.Err = fmt.Sprintf("panic: %v", r)
		}
		item.Elapsed = time.Since(started)
	}()

	extracted, err := s.extractor.Extract(ctx, job.ImagePaths)
	if err != nil {
		return s.failItem(item, StageExtraction, fmt.Errorf("%w: %v", ErrExtractionFailed, err))
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return s.failItem(item, StageExtraction, fmt.Errorf("%w: extraction produced no text", ErrExtractionFailed))
	}

	parsed, err := s.parser.ParseWithValidation(extracted.Text)
	if err != nil {
		return s.failItem(item, StageParsing, fmt.Errorf("%w: %v", ErrParsingFailed, err))
	}

	fingerprint := processors.Fingerprint(parsed.Header)

	duplicateStatus := duplicateStatusUnchecked
	if s.dedup != nil {
		match, err := s.dedup.Lookup(ctx, fingerprint)
		if err != nil {
			return s.failItem(item, StageDuplicateCheck, err)
		}
		if match != nil {
			s.recordDuplicate(ctx, batchID, parsed.Header, fingerprint, match)
			item.Duplicate = true
			item.DuplicateRow = match.Row
			item.DuplicateOf = match.DocumentNumber
			item.DocumentNumber = parsed.Header.InvoiceNumber
			return item
		}
		duplicateStatus = duplicateStatusUnique
	}

	ext := models.ExtendedFields{
		UploadedAt:        time.Now().UTC(),
		UploadedBy:        s.operator,
		ExtractionModel:   extracted.Model,
		ModelVersion:      extracted.ModelVersion,
		ProcessingSeconds: time.Since(started).Seconds(),
		PageCount:         len(extracted.Pages),
		Fingerprint:       fingerprint,
		DuplicateStatus:   duplicateStatus,
		Confidence:        documentConfidence(extracted),
	}

	ledgerRow, err := s.writer.AppendHeaderExtended(ctx, rowFromHeader(parsed.Header), parsed.Validation, ext)
	if err != nil {
		return s.failItem(item, StageLedgerWrite, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err))
	}

	if len(parsed.Lines) > 0 {
		if _, err := s.writer.AppendLineItems(ctx, rowsFromLines(parsed.Header, parsed.Lines)); err != nil {
			// The header row stands; only the lines are missing.
			item.LedgerRow = ledgerRow
			return s.failItem(item, StageLineItemWrite, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err))
		}
	}

	if s.catalog != nil {
		if err := s.catalog.RecordDocument(ctx, parsed.Header, parsed.Lines); err != nil {
			s.log.Warn("catalog update failed", "invoiceId", job.InvoiceID, "error", err)
		}
	}

	item.Success = true
	item.DocumentNumber = parsed.Header.InvoiceNumber
	item.LedgerRow = ledgerRow
	item.ValidationStatus = parsed.Validation.Status
	item.LineCount = len(parsed.Lines)
	item.HasWarnings = len(parsed.Validation.Warnings) > 0
	item.HasErrors = len(parsed.Validation.Errors) > 0
	return item
}

func (s *batchServiceImpl) failItem(item models.ItemResult, stage string, err error) models.ItemResult {
	s.log.Error("document failed", "invoiceId", item.InvoiceID, "stage", stage, "error", err)
	item.Success = false
	item.Stage = stage
	item.Err = err.Error()
	return item
}

// recordDuplicate writes the audit entry for a rejected re-upload. The entry
// is best effort: a full Duplicate_Log must not block the batch.
func (s *batchServiceImpl) recordDuplicate(ctx context.Context, batchID uuid.UUID, header *models.InvoiceHeader, fingerprint string, match *ledger.Match) {
	s.log.Info("duplicate document skipped",
		"invoiceNumber", header.InvoiceNumber, "matchedRow", match.Row)
	if s.audit == nil {
		return
	}
	attempt := models.DuplicateAttempt{
		LoggedAt:      time.Now().UTC(),
		Fingerprint:   fingerprint,
		InvoiceNumber: header.InvoiceNumber,
		SellerGSTIN:   header.SellerGSTIN,
		MatchedRow:    match.Row,
		BatchID:       batchID.String(),
	}
	if err := s.audit.RecordDuplicateAttempt(ctx, attempt); err != nil {
		s.log.Warn("duplicate audit entry failed",
			"invoiceNumber", header.InvoiceNumber, "error", err)
	}
}

// documentConfidence prefers scores the engine reported directly. Otherwise
// the page-level signal, when present, is document-wide; it is applied
// uniformly. All-zero pages mean unmeasured, which stays nil.
func documentConfidence(extracted *extraction.Result) *models.ConfidenceScores {
	if extracted.Confidence != nil {
		return extracted.Confidence
	}
	var sum float64
	measured := 0
	for _, page := range extracted.Pages {
		if page.Confidence > 0 {
			sum += page.Confidence
			measured++
		}
	}
	if measured == 0 {
		return nil
	}
	mean := sum / float64(measured)
	return &models.ConfidenceScores{
		Overall:       mean,
		InvoiceNumber: mean,
		Date:          mean,
		SellerGSTIN:   mean,
		Amounts:       mean,
		LineItems:     mean,
	}
}
