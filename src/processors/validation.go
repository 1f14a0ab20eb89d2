package processors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/utils"
)

// Tolerances for amount reconciliation. Totals that differ by less than half
// a rupee are treated as equal; beyond that, a difference within one percent
// of the header total is rounding noise, anything larger is an error.
var (
	AbsoluteTolerance = decimal.NewFromFloat(0.50)
	PercentTolerance  = decimal.NewFromFloat(1.0)

	oneHundred = decimal.NewFromInt(100)
)

// Supply classifications recognized in the free-text supply-type field.
const (
	supplyIntra   = "intra"
	supplyInter   = "inter"
	supplyUnknown = "unknown"
)

// Standard GSTIN layout: state code, PAN, entity number, the literal Z,
// checksum character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

type InvoiceValidator struct{}

func NewInvoiceValidator() *InvoiceValidator { return &InvoiceValidator{} }

// Validate runs every consistency check against a parsed document and
// returns the combined verdict. It is pure: no storage, no clock, and it
// never fails. Findings are data, not errors; a document with ERROR status
// still flows on to the ledger carrying its remarks.
func (v *InvoiceValidator) Validate(header *models.InvoiceHeader, lines []models.LineItem) models.ValidationResult {
	var result models.ValidationResult

	// 1. Sum the line items once; both reconciliations need the totals.
	lineTaxable := decimal.Zero
	lineTax := decimal.Zero
	for _, line := range lines {
		lineTaxable = lineTaxable.Add(line.TaxableValue)
		lineTax = lineTax.Add(line.IGSTAmount).Add(line.CGSTAmount).Add(line.SGSTAmount)
	}

	// 2. Taxable-value reconciliation: header total vs line items.
	v.reconcileTotal(&result, "taxable value", header.TaxableTotal, lineTaxable)

	// 3. Tax-amount reconciliation.
	v.reconcileTotal(&result, "tax amount", header.TotalTax, lineTax)

	// 4. Tax-type consistency against the declared supply type.
	v.checkTaxTypes(&result, header)

	// 5. Per-line rate arithmetic.
	v.checkLineRates(&result, lines)

	// 6. Identity hygiene on the seller's GSTIN.
	v.checkIdentity(&result, header)

	switch {
	case len(result.Errors) > 0:
		result.Status = models.StatusError
	case len(result.Warnings) > 0:
		result.Status = models.StatusWarning
	default:
		result.Status = models.StatusOK
	}
	return result
}

// reconcileTotal applies the tolerance ladder to one declared/computed pair.
// Differences at or under the absolute tolerance are silently accepted. The
// relative difference is measured against the declared header total; a zero
// header total leaves it at zero, which downgrades the finding to a warning.
func (v *InvoiceValidator) reconcileTotal(result *models.ValidationResult, what string, declared, computed decimal.Decimal) {
	diff := declared.Sub(computed).Abs()
	if diff.LessThanOrEqual(AbsoluteTolerance) {
		return
	}

	pct := decimal.Zero
	if !declared.IsZero() {
		pct = diff.Div(declared.Abs()).Mul(oneHundred)
	}

	msg := fmt.Sprintf("header %s %s does not match line item total %s (difference %s)",
		what, declared.StringFixed(2), computed.StringFixed(2), diff.StringFixed(2))
	if pct.LessThanOrEqual(PercentTolerance) {
		result.Warnings = append(result.Warnings, msg+", likely rounding")
	} else {
		result.Errors = append(result.Errors, msg)
	}
}

func (v *InvoiceValidator) checkTaxTypes(result *models.ValidationResult, header *models.InvoiceHeader) {
	igst := header.IGSTTotal.GreaterThan(decimal.Zero)
	cgst := header.CGSTTotal.GreaterThan(decimal.Zero)
	sgst := header.SGSTTotal.GreaterThan(decimal.Zero)

	switch classifySupply(header.SupplyType) {
	case supplyIntra:
		if igst {
			result.Errors = append(result.Errors, "intra-state supply must not carry IGST")
		}
		if !cgst && !sgst {
			result.Errors = append(result.Errors, "intra-state supply must have CGST and SGST")
		} else if cgst != sgst {
			result.Warnings = append(result.Warnings, "intra-state supply has only one of CGST and SGST")
		}
	case supplyInter:
		if cgst || sgst {
			result.Errors = append(result.Errors, "inter-state supply must not carry CGST or SGST")
		}
		if !igst {
			result.Errors = append(result.Errors, "inter-state supply must have IGST")
		}
	}

	// Regardless of what the supply type claims, IGST never coexists with
	// CGST/SGST on one document. A duplicate finding here is acceptable.
	if igst && (cgst || sgst) {
		result.Errors = append(result.Errors, "IGST and CGST/SGST present on the same document")
	}
}

// checkLineRates verifies taxable value times declared rate against the
// actual tax charged, line by line. Findings are warnings only: per-line
// rounding is too noisy to block a document on.
func (v *InvoiceValidator) checkLineRates(result *models.ValidationResult, lines []models.LineItem) {
	for _, line := range lines {
		actualTax := line.IGSTAmount.Add(line.CGSTAmount).Add(line.SGSTAmount)
		if actualTax.IsZero() || line.TaxableValue.IsZero() {
			continue // exempt or zero-rated line
		}
		rate := line.CGSTRate.Add(line.SGSTRate)
		if line.IGSTAmount.GreaterThan(decimal.Zero) {
			rate = line.IGSTRate
		}
		if rate.IsZero() {
			continue // no declared rate to check against
		}
		expected := line.TaxableValue.Mul(rate).Div(oneHundred)
		if expected.Sub(actualTax).Abs().GreaterThan(AbsoluteTolerance) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: tax %s does not match %s%% of taxable value %s (expected %s)",
					line.LineNumber, actualTax.StringFixed(2), rate.String(),
					line.TaxableValue.StringFixed(2), expected.StringFixed(2)))
		}
	}
}

// checkIdentity flags structurally implausible seller GSTINs and state-code
// mismatches. Warnings only: OCR mangles registration numbers routinely and
// a human reviews the remarks column anyway.
func (v *InvoiceValidator) checkIdentity(result *models.ValidationResult, header *models.InvoiceHeader) {
	gstin := NormalizeGSTIN(header.SellerGSTIN)
	if gstin == "" {
		return
	}
	if !gstinPattern.MatchString(gstin) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("seller GSTIN %s does not look structurally valid", gstin))
		return
	}
	prefix := utils.GSTINStateCode(gstin)
	name, ok := utils.StateName(prefix)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("seller GSTIN state prefix %s is not a notified state code", prefix))
		return
	}
	if sc := strings.TrimSpace(header.SellerStateCode); sc != "" && sc != prefix {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("seller state code %s does not match GSTIN state prefix %s (%s)", sc, prefix, name))
	}
}

// classifySupply normalizes the free-text supply type down to its letters
// and looks for the intra/inter marker.
func classifySupply(supplyType string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(supplyType) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	switch {
	case strings.Contains(s, "intra"):
		return supplyIntra
	case strings.Contains(s, "inter"):
		return supplyInter
	default:
		return supplyUnknown
	}
}
