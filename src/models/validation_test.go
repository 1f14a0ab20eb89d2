package models

import (
	"encoding/json"
	"testing"
)

func TestRemarksAllPassed(t *testing.T) {
	r := ValidationResult{Status: StatusOK}
	if r.Remarks() != AllPassedRemark {
		t.Fatalf("expected %q, got %q", AllPassedRemark, r.Remarks())
	}
}

func TestRemarksLabelsBlocks(t *testing.T) {
	r := ValidationResult{
		Status:   StatusError,
		Errors:   []string{"first", "second"},
		Warnings: []string{"third"},
	}
	want := "ERRORS: first; second | WARNINGS: third"
	if got := r.Remarks(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRemarksWarningsOnly(t *testing.T) {
	r := ValidationResult{Status: StatusWarning, Warnings: []string{"w"}}
	if got := r.Remarks(); got != "WARNINGS: w" {
		t.Fatalf("expected warnings-only remark, got %q", got)
	}
}

func TestFlexStringAcceptsNumbersAndNull(t *testing.T) {
	var raw RawInvoice
	payload := `{"invoice_number":"INV-1","invoice_value":1770.5,"taxable_total":"1500.00","total_tax":null}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.InvoiceValue != "1770.5" {
		t.Errorf("numeric field: got %q, want %q", raw.InvoiceValue, "1770.5")
	}
	if raw.TaxableTotal != "1500.00" {
		t.Errorf("string field: got %q, want %q", raw.TaxableTotal, "1500.00")
	}
	if raw.TotalTax != "" {
		t.Errorf("null field: got %q, want empty", raw.TotalTax)
	}
}
