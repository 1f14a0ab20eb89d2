package processors

import (
	"testing"

	"github.com/taxops/gstledger/src/models"
)

func fpHeader(number, date, gstin string) *models.InvoiceHeader {
	return &models.InvoiceHeader{
		InvoiceNumber: number,
		InvoiceDate:   date,
		SellerGSTIN:   gstin,
	}
}

func TestFingerprintIgnoresSeparatorAndCaseNoise(t *testing.T) {
	base := Fingerprint(fpHeader("INV-2024-001", "15/01/2024", "27AAPFU0939F1ZV"))

	variants := []*models.InvoiceHeader{
		fpHeader("inv/2024/001", "15/01/2024", "27AAPFU0939F1ZV"),
		fpHeader("INV 2024 001", "15/01/2024", "27AAPFU0939F1ZV"),
		fpHeader("inv_2024_001", "15/01/2024", "27aapfu0939f1zv"),
		fpHeader("  INV-2024-001  ", "15/01/2024", " 27AAPFU0939F1ZV "),
	}
	for i, h := range variants {
		if got := Fingerprint(h); got != base {
			t.Fatalf("variant %d: fingerprint %s != base %s (number=%q gstin=%q)",
				i, got, base, h.InvoiceNumber, h.SellerGSTIN)
		}
	}
}

func TestFingerprintAcceptsBothDateLayouts(t *testing.T) {
	slash := Fingerprint(fpHeader("INV-1", "15/01/2024", "27AAPFU0939F1ZV"))
	iso := Fingerprint(fpHeader("INV-1", "2024-01-15", "27AAPFU0939F1ZV"))
	if slash != iso {
		t.Fatalf("date layouts should agree: %s vs %s", slash, iso)
	}
}

func TestFingerprintUnparseableDateFallsBackToEmptyKey(t *testing.T) {
	bogus := Fingerprint(fpHeader("INV-1", "Jan 15th 2024", "27AAPFU0939F1ZV"))
	empty := Fingerprint(fpHeader("INV-1", "", "27AAPFU0939F1ZV"))
	if bogus != empty {
		t.Fatalf("unparseable date should normalize like a missing one: %s vs %s", bogus, empty)
	}
}

func TestFingerprintDistinguishesDocuments(t *testing.T) {
	a := Fingerprint(fpHeader("INV-2024-001", "15/01/2024", "27AAPFU0939F1ZV"))
	b := Fingerprint(fpHeader("INV-2024-002", "15/01/2024", "27AAPFU0939F1ZV"))
	c := Fingerprint(fpHeader("INV-2024-001", "16/01/2024", "27AAPFU0939F1ZV"))
	d := Fingerprint(fpHeader("INV-2024-001", "15/01/2024", "29AAACB2230M1ZP"))

	if a == b || a == c || a == d {
		t.Fatalf("distinct documents collided: a=%s b=%s c=%s d=%s", a, b, c, d)
	}
}

func TestFingerprintShape(t *testing.T) {
	fp := Fingerprint(fpHeader("INV-2024-001", "15/01/2024", "27AAPFU0939F1ZV"))
	if len(fp) != FingerprintLength {
		t.Fatalf("expected %d characters, got %d (%s)", FingerprintLength, len(fp), fp)
	}
	for _, r := range fp {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("fingerprint %s contains non-hex character %q", fp, r)
		}
	}
}

func TestNormalizeInvoiceNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"INV-2024-001", "INV-2024-001"},
		{"inv/2024/001", "INV-2024-001"},
		{"INV 2024 001", "INV-2024-001"},
		{"inv_2024__001", "INV-2024-001"},
		{"  INV - 2024 / 001 ", "INV-2024-001"},
	}
	for _, c := range cases {
		if got := NormalizeInvoiceNumber(c.in); got != c.want {
			t.Errorf("NormalizeInvoiceNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeGSTIN(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"27AAPFU0939F1ZV", "27AAPFU0939F1ZV"},
		{" 27aapfu0939f1zv ", "27AAPFU0939F1ZV"},
		{"27-AAPFU 0939.F1ZV", "27AAPFU0939F1ZV"},
	}
	for _, c := range cases {
		if got := NormalizeGSTIN(c.in); got != c.want {
			t.Errorf("NormalizeGSTIN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
