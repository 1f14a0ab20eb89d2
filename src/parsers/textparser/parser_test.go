package textparser

import (
	"testing"
)

const sampleText = `TAX INVOICE

Invoice No: INV-2024-001
Invoice Date: 15/01/2024
Supply Type: Intra-State
Reverse Charge: No
Place of Supply: 27-Maharashtra

Seller: Bharat Components Pvt Ltd
GSTIN: 27AAPFU0939F1ZV
State Code: 27

Buyer: Deccan Traders
Buyer GSTIN: 27AABCT3518Q1ZV
Buyer State Code: 27

Vehicle No: MH12AB1234
E-Way Bill No: 123456789012

| Sr | Item Code | Description | HSN | Qty | Unit | Rate | Discount | Taxable | IGST % | IGST Amt | CGST % | CGST Amt | SGST % | SGST Amt | Total |
| 1 | BRG-100 | Bearing assembly | 8482 | 10 | NOS | 100.00 | 0.00 | 1000.00 | 0 | 0.00 | 9 | 90.00 | 9 | 90.00 | 1180.00 |
| 2 | BRK-220 | Mounting bracket | 7326 | 5 | NOS | 100.00 | 0.00 | 500.00 | 0 | 0.00 | 9 | 45.00 | 9 | 45.00 | 590.00 |

Taxable Total: 1500.00
CGST Total: 135.00
SGST Total: 135.00
IGST Total: 0.00
Total Tax: 270.00
Invoice Value: 1770.00
`

func TestParseLabeledText(t *testing.T) {
	raw, err := NewParser(nil).Parse(sampleText)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	checks := []struct {
		name, got, want string
	}{
		{"invoice number", string(raw.InvoiceNumber), "INV-2024-001"},
		{"invoice date", string(raw.InvoiceDate), "15/01/2024"},
		{"document type", string(raw.DocumentType), "Tax Invoice"},
		{"seller name", string(raw.SellerName), "Bharat Components Pvt Ltd"},
		{"seller gstin", string(raw.SellerGSTIN), "27AAPFU0939F1ZV"},
		{"seller state", string(raw.SellerStateCode), "27"},
		{"buyer name", string(raw.BuyerName), "Deccan Traders"},
		{"buyer gstin", string(raw.BuyerGSTIN), "27AABCT3518Q1ZV"},
		{"buyer state", string(raw.BuyerStateCode), "27"},
		{"place of supply", string(raw.PlaceOfSupply), "27-Maharashtra"},
		{"supply type", string(raw.SupplyType), "Intra-State"},
		{"reverse charge", string(raw.ReverseCharge), "No"},
		{"vehicle number", string(raw.VehicleNumber), "MH12AB1234"},
		{"eway bill", string(raw.EwayBillNumber), "123456789012"},
		{"taxable total", string(raw.TaxableTotal), "1500.00"},
		{"cgst total", string(raw.CGSTTotal), "135.00"},
		{"sgst total", string(raw.SGSTTotal), "135.00"},
		{"igst total", string(raw.IGSTTotal), "0.00"},
		{"total tax", string(raw.TotalTax), "270.00"},
		{"invoice value", string(raw.InvoiceValue), "1770.00"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestParseLineItemTable(t *testing.T) {
	raw, err := NewParser(nil).Parse(sampleText)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(raw.LineItems) != 2 {
		t.Fatalf("expected 2 line items (header row skipped), got %d", len(raw.LineItems))
	}

	first := raw.LineItems[0]
	if first.ItemCode != "BRG-100" || first.Description != "Bearing assembly" {
		t.Errorf("first item mismatch: %+v", first)
	}
	if first.TaxableValue != "1000.00" || first.CGSTAmount != "90.00" || first.SGSTAmount != "90.00" {
		t.Errorf("first item amounts mismatch: %+v", first)
	}
	if raw.LineItems[1].HSNCode != "7326" {
		t.Errorf("second item HSN: got %q, want %q", raw.LineItems[1].HSNCode, "7326")
	}
}

func TestParseDetectsBannerDocumentType(t *testing.T) {
	text := "BILL OF SUPPLY\nInvoice No: BOS-9\nGSTIN: 27AAPFU0939F1ZV\n"
	raw, err := NewParser(nil).Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if raw.DocumentType != "Bill of Supply" {
		t.Fatalf("document type: got %q, want %q", raw.DocumentType, "Bill of Supply")
	}
}

func TestParseToleratesMissingFields(t *testing.T) {
	raw, err := NewParser(nil).Parse("Invoice No: INV-7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if raw.InvoiceNumber != "INV-7" {
		t.Fatalf("invoice number: got %q", raw.InvoiceNumber)
	}
	if raw.SellerGSTIN != "" || len(raw.LineItems) != 0 {
		t.Fatalf("missing fields should stay empty, got %+v", raw)
	}
}
