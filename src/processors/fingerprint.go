package processors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/utils"
)

// FingerprintLength is the number of hex characters kept from the digest.
// 64 bits of collision resistance is plenty at ledger scale and keeps the
// column readable in a spreadsheet.
const FingerprintLength = 16

// Whitespace and the separators -, _, / are interchangeable in invoice
// numbers as OCR reads them; every run collapses to a single dash.
var separatorRuns = regexp.MustCompile(`[\s\-_/]+`)

// Fingerprint derives the stable identity key of a document from seller
// GSTIN, invoice number and invoice date. The same invoice re-extracted with
// cosmetic differences (case, spacing, separator choice) lands on the same
// key; two different invoices never share one in practice.
func Fingerprint(header *models.InvoiceHeader) string {
	seller := NormalizeGSTIN(header.SellerGSTIN)
	number := NormalizeInvoiceNumber(header.InvoiceNumber)
	date := utils.NormalizeDateKey(header.InvoiceDate)

	input := fmt.Sprintf("%s|%s|%s", seller, number, date)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:FingerprintLength]
}

// NormalizeGSTIN uppercases and strips everything that is not a letter or
// digit. OCR likes to insert spaces and dots into registration numbers.
func NormalizeGSTIN(gstin string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(gstin)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeInvoiceNumber trims, uppercases and collapses separator runs so
// "INV-2024-001", "inv/2024/001" and "INV 2024 001" all agree.
func NormalizeInvoiceNumber(num string) string {
	n := strings.ToUpper(strings.TrimSpace(num))
	return separatorRuns.ReplaceAllString(n, "-")
}
