package textparser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/taxops/gstledger/src/models"
)

// Labeled-field patterns for the header block. Anchoring at line start keeps
// "GSTIN:" from swallowing "Buyer GSTIN:" lines and "Date:" from swallowing
// "Due Date:".
var (
	reInvoiceNumber = regexp.MustCompile(`(?im)^\s*invoice\s*(?:no|number|#)\.?\s*[:\-]\s*(.+)$`)
	reInvoiceDate   = regexp.MustCompile(`(?im)^\s*(?:invoice\s*)?date\s*[:\-]\s*(.+)$`)
	reDocumentType  = regexp.MustCompile(`(?im)^\s*document\s*type\s*[:\-]\s*(.+)$`)

	reSellerName  = regexp.MustCompile(`(?im)^\s*seller(?:\s*name)?\s*[:\-]\s*(.+)$`)
	reSellerGSTIN = regexp.MustCompile(`(?im)^\s*(?:seller\s*)?gstin\s*[:\-]\s*(.+)$`)
	reSellerState = regexp.MustCompile(`(?im)^\s*(?:seller\s*)?state\s*code\s*[:\-]\s*(.+)$`)

	reBuyerName  = regexp.MustCompile(`(?im)^\s*buyer(?:\s*name)?\s*[:\-]\s*(.+)$`)
	reBuyerGSTIN = regexp.MustCompile(`(?im)^\s*buyer\s*gstin\s*[:\-]\s*(.+)$`)
	reBuyerState = regexp.MustCompile(`(?im)^\s*buyer\s*state\s*code\s*[:\-]\s*(.+)$`)

	reShipToName  = regexp.MustCompile(`(?im)^\s*ship\s*to(?:\s*name)?\s*[:\-]\s*(.+)$`)
	reShipToState = regexp.MustCompile(`(?im)^\s*ship\s*to\s*state\s*code\s*[:\-]\s*(.+)$`)

	rePlaceOfSupply = regexp.MustCompile(`(?im)^\s*place\s*of\s*supply\s*[:\-]\s*(.+)$`)
	reSupplyType    = regexp.MustCompile(`(?im)^\s*supply\s*type\s*[:\-]\s*(.+)$`)
	reReverseCharge = regexp.MustCompile(`(?im)^\s*reverse\s*charge\s*[:\-]\s*(.+)$`)

	reVehicleNumber = regexp.MustCompile(`(?im)^\s*vehicle\s*(?:no\.?|number)?\s*[:\-]\s*(.+)$`)
	reEwayBill      = regexp.MustCompile(`(?im)^\s*e[-\s]?way\s*bill(?:\s*(?:no\.?|number))?\s*[:\-]\s*(.+)$`)

	reTaxableTotal = regexp.MustCompile(`(?im)^\s*taxable\s*(?:total|value|amount)\s*[:\-]\s*(.+)$`)
	reCGSTTotal    = regexp.MustCompile(`(?im)^\s*(?:total\s*)?cgst(?:\s*total|\s*amount)?\s*[:\-]\s*(.+)$`)
	reSGSTTotal    = regexp.MustCompile(`(?im)^\s*(?:total\s*)?sgst(?:\s*total|\s*amount)?\s*[:\-]\s*(.+)$`)
	reIGSTTotal    = regexp.MustCompile(`(?im)^\s*(?:total\s*)?igst(?:\s*total|\s*amount)?\s*[:\-]\s*(.+)$`)
	reTotalTax     = regexp.MustCompile(`(?im)^\s*(?:total\s*tax|tax\s*total)\s*[:\-]\s*(.+)$`)
	reInvoiceValue = regexp.MustCompile(`(?im)^\s*(?:invoice\s*value|grand\s*total)\s*[:\-]\s*(.+)$`)
)

// Document type banners recognized when no explicit label is present, in
// lookup order. "Tax Invoice" must come last: a credit note's banner usually
// contains the words "tax invoice" somewhere too.
var documentBanners = []struct {
	marker, docType string
}{
	{"BILL OF SUPPLY", "Bill of Supply"},
	{"CREDIT NOTE", "Credit Note"},
	{"DEBIT NOTE", "Debit Note"},
	{"DELIVERY CHALLAN", "Delivery Challan"},
	{"TAX INVOICE", "Tax Invoice"},
}

// TextParser reads the labeled plain-text layout produced by the extraction
// stage: one "Label: value" field per line plus a pipe-separated line-item
// table. Missing fields stay empty; they are the validator's problem, not a
// parse failure.
type TextParser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *TextParser {
	if log == nil {
		log = slog.Default()
	}
	return &TextParser{log: log}
}

func (p *TextParser) Parse(text string) (*models.RawInvoice, error) {
	raw := &models.RawInvoice{
		InvoiceNumber:   firstMatch(reInvoiceNumber, text),
		InvoiceDate:     firstMatch(reInvoiceDate, text),
		DocumentType:    firstMatch(reDocumentType, text),
		SellerName:      firstMatch(reSellerName, text),
		SellerGSTIN:     firstMatch(reSellerGSTIN, text),
		SellerStateCode: firstMatch(reSellerState, text),
		BuyerName:       firstMatch(reBuyerName, text),
		BuyerGSTIN:      firstMatch(reBuyerGSTIN, text),
		BuyerStateCode:  firstMatch(reBuyerState, text),
		ShipToName:      firstMatch(reShipToName, text),
		ShipToStateCode: firstMatch(reShipToState, text),
		PlaceOfSupply:   firstMatch(rePlaceOfSupply, text),
		SupplyType:      firstMatch(reSupplyType, text),
		ReverseCharge:   firstMatch(reReverseCharge, text),
		VehicleNumber:   firstMatch(reVehicleNumber, text),
		EwayBillNumber:  firstMatch(reEwayBill, text),
		InvoiceValue:    firstMatch(reInvoiceValue, text),
		TaxableTotal:    firstMatch(reTaxableTotal, text),
		TotalTax:        firstMatch(reTotalTax, text),
		IGSTTotal:       firstMatch(reIGSTTotal, text),
		CGSTTotal:       firstMatch(reCGSTTotal, text),
		SGSTTotal:       firstMatch(reSGSTTotal, text),
	}

	if raw.DocumentType == "" {
		raw.DocumentType = models.FlexString(detectDocumentType(text))
	}

	raw.LineItems = p.parseLineItems(text)
	return raw, nil
}

// parseLineItems collects every line that looks like a row of the item
// table: at least 16 pipe-separated cells whose first cell is the printed
// serial number. Markdown-style leading/trailing pipes are tolerated, and
// header or ruler rows fail the serial check and are skipped.
func (p *TextParser) parseLineItems(text string) []models.RawLineItem {
	var items []models.RawLineItem
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") < 15 {
			continue
		}
		cells := splitRow(line)
		if len(cells) < 16 {
			p.log.Debug("text parser: skipping short item row", "cells", len(cells))
			continue
		}
		if _, err := strconv.Atoi(cells[0]); err != nil {
			continue // table header or ruler row
		}
		items = append(items, models.RawLineItem{
			ItemCode:     models.FlexString(cells[1]),
			Description:  models.FlexString(cells[2]),
			HSNCode:      models.FlexString(cells[3]),
			Quantity:     models.FlexString(cells[4]),
			Unit:         models.FlexString(cells[5]),
			UnitPrice:    models.FlexString(cells[6]),
			Discount:     models.FlexString(cells[7]),
			TaxableValue: models.FlexString(cells[8]),
			IGSTRate:     models.FlexString(cells[9]),
			IGSTAmount:   models.FlexString(cells[10]),
			CGSTRate:     models.FlexString(cells[11]),
			CGSTAmount:   models.FlexString(cells[12]),
			SGSTRate:     models.FlexString(cells[13]),
			SGSTAmount:   models.FlexString(cells[14]),
			LineTotal:    models.FlexString(cells[15]),
		})
	}
	return items
}

func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func firstMatch(re *regexp.Regexp, text string) models.FlexString {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return models.FlexString(strings.TrimSpace(m[1]))
	}
	return ""
}

func detectDocumentType(text string) string {
	upper := strings.ToUpper(text)
	for _, banner := range documentBanners {
		if strings.Contains(upper, banner.marker) {
			return banner.docType
		}
	}
	return ""
}
