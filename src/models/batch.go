package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchJob is one document to ingest: an ordered set of image paths that
// together form a single invoice (multi-page scans are multiple paths).
type BatchJob struct {
	InvoiceID  string   `yaml:"id" json:"id"`
	ImagePaths []string `yaml:"images" json:"images"`
}

// ItemResult records the outcome of one batch item. Exactly one of the
// three shapes applies: success, duplicate, or failure with a stage label.
type ItemResult struct {
	Index     int    `json:"index"` // 1-based position within the batch
	InvoiceID string `json:"invoice_id"`

	Success bool   `json:"success"`
	Stage   string `json:"stage,omitempty"` // pipeline stage that failed
	Err     string `json:"error,omitempty"`

	Duplicate    bool   `json:"duplicate,omitempty"`
	DuplicateRow int    `json:"duplicate_row,omitempty"`
	DuplicateOf  string `json:"duplicate_of,omitempty"` // document number at the matched row

	DocumentNumber   string           `json:"document_number,omitempty"`
	LedgerRow        int              `json:"ledger_row,omitempty"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
	LineCount        int              `json:"line_count,omitempty"`
	HasWarnings      bool             `json:"has_warnings,omitempty"`
	HasErrors        bool             `json:"has_errors,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// BatchResult is the one-shot summary of a finished batch. It is built once
// by the processor, rendered into the report, and discarded; no state
// survives the run.
type BatchResult struct {
	BatchID     uuid.UUID     `json:"batch_id"`
	StartedAt   time.Time     `json:"started_at"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Duplicates  int           `json:"duplicates"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"` // percent, 0 when Total is 0
	Items       []ItemResult  `json:"items"`
	Elapsed     time.Duration `json:"elapsed"`
}

// ConfidenceScores are per-field extraction confidences in [0,1]. A nil set
// on ExtendedFields means the extractor reported none; the writer leaves the
// cells empty so a spreadsheet filter can tell "unmeasured" from zero.
type ConfidenceScores struct {
	Overall       float64 `json:"overall"`
	InvoiceNumber float64 `json:"invoice_number"`
	Date          float64 `json:"date"`
	SellerGSTIN   float64 `json:"seller_gstin"`
	Amounts       float64 `json:"amounts"`
	LineItems     float64 `json:"line_items"`
}

// ExtendedFields are the audit columns of the wide ledger schema. They are
// resolved into columns by name, never by position.
type ExtendedFields struct {
	UploadedAt        time.Time
	UploadedBy        string
	ExtractionModel   string
	ModelVersion      string
	ProcessingSeconds float64
	PageCount         int
	CorrectionFlag    bool
	CorrectedFields   string
	CorrectionPayload string
	Fingerprint       string
	DuplicateStatus   string
	Confidence        *ConfidenceScores
}

// DuplicateAttempt is an audit entry for a rejected re-upload.
type DuplicateAttempt struct {
	LoggedAt      time.Time
	Fingerprint   string
	InvoiceNumber string
	SellerGSTIN   string
	MatchedRow    int
	BatchID       string
}
