package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/security/validation"
)

// MaxCellChars caps a single cell. Longer values are truncated with a warning
// rather than rejected, so one runaway description cannot sink a whole batch.
const MaxCellChars = 5000

// Writer owns all appends to a ledger. It serializes writers in-process with
// a mutex; cross-process safety comes from ownership, not locking, so run
// exactly one Writer per ledger file.
type Writer struct {
	grid    Grid
	maxRows int // per sheet; 0 or negative disables the cap
	log     *slog.Logger

	mu sync.Mutex
}

func NewWriter(grid Grid, maxRows int, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{grid: grid, maxRows: maxRows, log: log}
}

// AppendHeader appends one core invoice row. The validation status and
// remarks columns are always set from the result, overwriting whatever the
// caller put there. Returns the 1-based row the invoice landed on.
func (w *Writer) AppendHeader(ctx context.Context, row []string, vr models.ValidationResult) (int, error) {
	if isEmptyRow(row) {
		return 0, fmt.Errorf("%w: header row has no content", ErrInvalidInput)
	}
	prepared := prepareHeader(row, vr, HeaderWidth())
	return w.appendRows(ctx, SheetInvoices, ExtendedWidth(), [][]string{prepared})
}

// AppendHeaderExtended appends one invoice row with the audit block filled
// in. Audit values are resolved by column name so the row stays correct even
// if the extended schema grows.
func (w *Writer) AppendHeaderExtended(ctx context.Context, row []string, vr models.ValidationResult, ext models.ExtendedFields) (int, error) {
	if isEmptyRow(row) {
		return 0, fmt.Errorf("%w: header row has no content", ErrInvalidInput)
	}
	prepared := prepareHeader(row, vr, ExtendedWidth())
	for name, value := range extendedCellValues(ext) {
		idx, ok := ExtendedColumnIndex(name)
		if !ok {
			continue
		}
		prepared[idx-1] = value
	}
	return w.appendRows(ctx, SheetInvoices, ExtendedWidth(), [][]string{prepared})
}

// AppendLineItems appends the document's line rows as one contiguous block.
// Returns the row of the first line.
func (w *Writer) AppendLineItems(ctx context.Context, rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no line item rows", ErrInvalidInput)
	}
	for i, row := range rows {
		if isEmptyRow(row) {
			return 0, fmt.Errorf("%w: line item row %d has no content", ErrInvalidInput, i+1)
		}
	}
	return w.appendRows(ctx, SheetLineItems, LineItemWidth(), rows)
}

// AppendRow appends one row to an auxiliary sheet (Sellers, HSN_Codes,
// Duplicate_Log), padded to that sheet's schema width.
func (w *Writer) AppendRow(ctx context.Context, sheet string, row []string) (int, error) {
	width, ok := sheetWidth(sheet)
	if !ok {
		return 0, fmt.Errorf("%w: unknown sheet %q", ErrInvalidInput, sheet)
	}
	if isEmptyRow(row) {
		return 0, fmt.Errorf("%w: row has no content", ErrInvalidInput)
	}
	return w.appendRows(ctx, sheet, width, [][]string{row})
}

// appendRows is the single write path: find the next free row, sanitize,
// write, and read back the first cell to confirm the write landed.
func (w *Writer) appendRows(ctx context.Context, sheet string, width int, rows [][]string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start, err := w.nextFreeRow(ctx, sheet, width, len(rows))
	if err != nil {
		return 0, err
	}

	clean := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		for j, cell := range padded {
			padded[j] = w.sanitizeCell(sheet, start+i, j+1, cell)
		}
		clean[i] = padded
	}

	if err := w.grid.WriteRows(ctx, sheet, start, clean); err != nil {
		return 0, fmt.Errorf("writing %s rows %d-%d: %w", sheet, start, start+len(rows)-1, err)
	}

	got, err := w.grid.Cell(ctx, sheet, start, 1)
	if err != nil {
		return 0, fmt.Errorf("reading back %s row %d: %w", sheet, start, err)
	}
	if got != clean[0][0] {
		return 0, fmt.Errorf("%w: %s row %d cell 1 holds %q, wrote %q", ErrVerificationFailed, sheet, start, got, clean[0][0])
	}
	return start, nil
}

// nextFreeRow computes where the next append lands. Stray content beyond the
// schema width is purged first, and the sheet is re-read afterwards: a single
// stale cell parked at a far row would otherwise inflate the row count
// forever.
func (w *Writer) nextFreeRow(ctx context.Context, sheet string, width, count int) (int, error) {
	rows, err := w.grid.Rows(ctx, sheet)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", sheet, err)
	}

	if overflowsWidth(rows, width) {
		w.log.Warn("purging content beyond schema width", "sheet", sheet, "width", width)
		if err := w.grid.Purge(ctx, sheet, width); err != nil {
			return 0, fmt.Errorf("purging %s: %w", sheet, err)
		}
		rows, err = w.grid.Rows(ctx, sheet)
		if err != nil {
			return 0, fmt.Errorf("re-reading %s after purge: %w", sheet, err)
		}
	}

	next := len(rows) + 1
	if next < 2 {
		next = 2 // row 1 is the header, even on an empty sheet
	}
	if w.maxRows > 0 && next+count-1 > w.maxRows {
		return 0, fmt.Errorf("%w: %s holds %d rows and %d more would exceed the %d row cap",
			ErrLedgerFull, sheet, len(rows), count, w.maxRows)
	}
	return next, nil
}

// sanitizeCell applies the storage hygiene rules in order: strip control
// characters, neutralize formula injection, cap length on a rune boundary.
func (w *Writer) sanitizeCell(sheet string, row, col int, value string) string {
	v := validation.StripUnprintable(value)
	v = validation.SanitizeForFormulaInjection(v)
	if utf8.RuneCountInString(v) > MaxCellChars {
		w.log.Warn("truncating oversized cell",
			"sheet", sheet, "row", row, "col", col, "chars", utf8.RuneCountInString(v))
		v = string([]rune(v)[:MaxCellChars])
	}
	return v
}

// prepareHeader copies the caller's row into a width-sized slice and stamps
// the validation columns.
func prepareHeader(row []string, vr models.ValidationResult, width int) []string {
	out := make([]string, width)
	copy(out, row)
	out[ColValidationStatus-1] = string(vr.Status)
	out[ColValidationRemarks-1] = vr.Remarks()
	return out
}

// extendedCellValues renders the audit block by column name. Zero timestamps,
// durations and page counts become empty cells, and a nil confidence set
// leaves all confidence cells empty so "unmeasured" stays distinct from 0.
func extendedCellValues(ext models.ExtendedFields) map[string]string {
	vals := map[string]string{
		"Uploaded_By":        ext.UploadedBy,
		"Extraction_Model":   ext.ExtractionModel,
		"Model_Version":      ext.ModelVersion,
		"Correction_Flag":    "No",
		"Corrected_Fields":   ext.CorrectedFields,
		"Correction_Payload": ext.CorrectionPayload,
		"Fingerprint":        ext.Fingerprint,
		"Duplicate_Status":   ext.DuplicateStatus,
	}
	if ext.CorrectionFlag {
		vals["Correction_Flag"] = "Yes"
	}
	if !ext.UploadedAt.IsZero() {
		vals["Uploaded_At"] = ext.UploadedAt.Format(time.RFC3339)
	}
	if ext.ProcessingSeconds > 0 {
		vals["Processing_Seconds"] = strconv.FormatFloat(ext.ProcessingSeconds, 'f', 2, 64)
	}
	if ext.PageCount > 0 {
		vals["Page_Count"] = strconv.Itoa(ext.PageCount)
	}
	if c := ext.Confidence; c != nil {
		vals["Confidence_Overall"] = formatScore(c.Overall)
		vals["Confidence_Invoice_Number"] = formatScore(c.InvoiceNumber)
		vals["Confidence_Date"] = formatScore(c.Date)
		vals["Confidence_Seller_GSTIN"] = formatScore(c.SellerGSTIN)
		vals["Confidence_Amounts"] = formatScore(c.Amounts)
		vals["Confidence_Line_Items"] = formatScore(c.LineItems)
	}
	return vals
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sheetWidth(sheet string) (int, bool) {
	switch sheet {
	case SheetInvoices:
		return ExtendedWidth(), true
	case SheetLineItems:
		return LineItemWidth(), true
	case SheetSellers:
		return len(SellerColumns), true
	case SheetHSNCodes:
		return len(HSNColumns), true
	case SheetDuplicateLog:
		return len(DuplicateLogColumns), true
	}
	return 0, false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func overflowsWidth(rows [][]string, width int) bool {
	for _, row := range rows {
		if len(row) <= width {
			continue
		}
		for _, cell := range row[width:] {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
