package services

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/taxops/gstledger/src/models"
)

// rowFromHeader renders a header into the core ledger columns. The two
// validation columns are left empty; the writer stamps them.
func rowFromHeader(h *models.InvoiceHeader) []string {
	return []string{
		h.InvoiceNumber,
		h.InvoiceDate,
		h.DocumentType,
		h.SellerName,
		h.SellerGSTIN,
		h.SellerStateCode,
		h.BuyerName,
		h.BuyerGSTIN,
		h.BuyerStateCode,
		h.ShipToName,
		h.ShipToStateCode,
		h.PlaceOfSupply,
		h.SupplyType,
		h.ReverseCharge,
		money(h.InvoiceValue),
		money(h.TaxableTotal),
		money(h.TotalTax),
		money(h.IGSTTotal),
		money(h.CGSTTotal),
		money(h.SGSTTotal),
		h.VehicleNumber,
		h.EwayBillNumber,
	}
}

// rowsFromLines renders line items, each row prefixed with the parent
// document's identity so the sheet is self-describing.
func rowsFromLines(h *models.InvoiceHeader, lines []models.LineItem) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			h.InvoiceNumber,
			h.InvoiceDate,
			h.SellerGSTIN,
			strconv.Itoa(l.LineNumber),
			l.ItemCode,
			l.Description,
			l.HSNCode,
			l.Quantity.String(),
			l.Unit,
			money(l.UnitPrice),
			money(l.Discount),
			money(l.TaxableValue),
			l.IGSTRate.String(),
			money(l.IGSTAmount),
			l.CGSTRate.String(),
			money(l.CGSTAmount),
			l.SGSTRate.String(),
			money(l.SGSTAmount),
			money(l.LineTotal),
		})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
