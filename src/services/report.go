package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/taxops/gstledger/src/models"
)

// RenderBatchReport formats a finished batch as the plain-text report shown
// on stdout and mailed to the operator.
func RenderBatchReport(result *models.BatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "GST Ledger Batch Report\n")
	fmt.Fprintf(&b, "Batch:     %s\n", result.BatchID)
	fmt.Fprintf(&b, "Started:   %s\n", result.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Documents: %d   Succeeded: %d   Duplicates: %d   Failed: %d\n",
		result.Total, result.Succeeded, result.Duplicates, result.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n\n", result.SuccessRate)

	for _, item := range result.Items {
		fmt.Fprintf(&b, "%3d %s\n", item.Index, describeItem(item))
	}

	var ok, warn, errs int
	for _, item := range result.Items {
		if !item.Success {
			continue
		}
		switch item.ValidationStatus {
		case models.StatusOK:
			ok++
		case models.StatusWarning:
			warn++
		case models.StatusError:
			errs++
		}
	}
	fmt.Fprintf(&b, "\nValidation: %d OK, %d WARNING, %d ERROR\n", ok, warn, errs)
	fmt.Fprintf(&b, "Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))

	return b.String()
}

// ReportSubject is the one-line summary used as the mail subject.
func ReportSubject(result *models.BatchResult) string {
	return fmt.Sprintf("GST ledger batch %s: %d/%d succeeded",
		shortBatchID(result), result.Succeeded, result.Total)
}

func shortBatchID(result *models.BatchResult) string {
	id := result.BatchID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func describeItem(item models.ItemResult) string {
	label := item.InvoiceID
	if label == "" {
		label = item.DocumentNumber
	}
	switch {
	case item.Success:
		return fmt.Sprintf("✓ %s row %d (%s, %d lines)",
			label, item.LedgerRow, item.ValidationStatus, item.LineCount)
	case item.Duplicate:
		return fmt.Sprintf("≡ %s duplicate of %s at row %d",
			label, item.DuplicateOf, item.DuplicateRow)
	default:
		return fmt.Sprintf("✗ %s failed at %s: %s", label, item.Stage, item.Err)
	}
}
