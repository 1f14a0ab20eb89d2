package models

import "strings"

// ValidationStatus is the overall verdict for one document.
type ValidationStatus string

const (
	StatusOK      ValidationStatus = "OK"
	StatusWarning ValidationStatus = "WARNING"
	StatusError   ValidationStatus = "ERROR"
)

// AllPassedRemark is written to the ledger when a document has no findings.
const AllPassedRemark = "All validations passed"

// ValidationResult carries every finding for one document. Findings are
// data, not errors: a document with ERROR status still flows through the
// pipeline and is persisted with its remarks.
type ValidationResult struct {
	Status   ValidationStatus `json:"status"`
	Errors   []string         `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Remarks renders the findings as a single ledger cell.
func (r ValidationResult) Remarks() string {
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		return AllPassedRemark
	}
	var parts []string
	if len(r.Errors) > 0 {
		parts = append(parts, "ERRORS: "+strings.Join(r.Errors, "; "))
	}
	if len(r.Warnings) > 0 {
		parts = append(parts, "WARNINGS: "+strings.Join(r.Warnings, "; "))
	}
	return strings.Join(parts, " | ")
}
