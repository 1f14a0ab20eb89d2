package jsonparser

import (
	"testing"
)

const fencedDocument = "Here is the extracted invoice:\n```json\n" + `{
  "invoice_number": "INV-2024-077",
  "invoice_date": "2024-02-20",
  "document_type": "Tax Invoice",
  "seller_name": "Mysore Metalworks",
  "seller_gstin": "29AAACB2230M1ZP",
  "seller_state_code": "29",
  "buyer_name": "Deccan Traders",
  "buyer_gstin": "27AABCT3518Q1ZV",
  "supply_type": "inter-state",
  "invoice_value": 1770,
  "taxable_total": "1500.00",
  "total_tax": 270,
  "igst_total": 270,
  "line_items": [
    {"description": "Steel shafts", "hsn_sac_code": "7228", "quantity": 20, "taxable_value": 1000, "igst_rate": 18, "igst_amount": 180, "line_total": 1180},
    {"description": "Coupling sleeves", "hsn_sac_code": "8483", "quantity": 8, "taxable_value": 500, "igst_rate": 18, "igst_amount": 90, "line_total": 590}
  ]
}` + "\n```\nLet me know if anything is unclear."

func TestParseFencedJSON(t *testing.T) {
	raw, err := NewParser(nil).Parse(fencedDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if raw.InvoiceNumber != "INV-2024-077" {
		t.Errorf("invoice number: got %q", raw.InvoiceNumber)
	}
	if raw.InvoiceValue != "1770" {
		t.Errorf("numeric invoice value should decode as text: got %q", raw.InvoiceValue)
	}
	if raw.TaxableTotal != "1500.00" {
		t.Errorf("quoted total: got %q", raw.TaxableTotal)
	}
	if len(raw.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(raw.LineItems))
	}
	if raw.LineItems[0].IGSTAmount != "180" {
		t.Errorf("line igst amount: got %q", raw.LineItems[0].IGSTAmount)
	}
}

func TestParseRejectsTextWithoutObject(t *testing.T) {
	if _, err := NewParser(nil).Parse("no structured data here"); err == nil {
		t.Fatal("expected an error for text without a JSON object")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := NewParser(nil).Parse(`{"invoice_number": }`); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
