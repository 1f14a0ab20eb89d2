package parsers

import (
	"strings"

	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/utils"
)

// MapRawInvoice converts the text-typed raw record into the typed header and
// line items. Numeric fields parse defensively: a malformed amount becomes
// zero, never an error, and line numbers are assigned by position.
func MapRawInvoice(raw *models.RawInvoice) (*models.InvoiceHeader, []models.LineItem) {
	header := &models.InvoiceHeader{
		InvoiceNumber:   clean(raw.InvoiceNumber),
		InvoiceDate:     clean(raw.InvoiceDate),
		DocumentType:    clean(raw.DocumentType),
		SellerName:      clean(raw.SellerName),
		SellerGSTIN:     clean(raw.SellerGSTIN),
		SellerStateCode: clean(raw.SellerStateCode),
		BuyerName:       clean(raw.BuyerName),
		BuyerGSTIN:      clean(raw.BuyerGSTIN),
		BuyerStateCode:  clean(raw.BuyerStateCode),
		ShipToName:      clean(raw.ShipToName),
		ShipToStateCode: clean(raw.ShipToStateCode),
		PlaceOfSupply:   clean(raw.PlaceOfSupply),
		SupplyType:      clean(raw.SupplyType),
		ReverseCharge:   clean(raw.ReverseCharge),
		InvoiceValue:    utils.ParseAmount(string(raw.InvoiceValue)),
		TaxableTotal:    utils.ParseAmount(string(raw.TaxableTotal)),
		TotalTax:        utils.ParseAmount(string(raw.TotalTax)),
		IGSTTotal:       utils.ParseAmount(string(raw.IGSTTotal)),
		CGSTTotal:       utils.ParseAmount(string(raw.CGSTTotal)),
		SGSTTotal:       utils.ParseAmount(string(raw.SGSTTotal)),
		VehicleNumber:   clean(raw.VehicleNumber),
		EwayBillNumber:  clean(raw.EwayBillNumber),
	}

	lines := make([]models.LineItem, 0, len(raw.LineItems))
	for i, rl := range raw.LineItems {
		lines = append(lines, models.LineItem{
			LineNumber:   i + 1,
			ItemCode:     clean(rl.ItemCode),
			Description:  clean(rl.Description),
			HSNCode:      clean(rl.HSNCode),
			Quantity:     utils.ParseAmount(string(rl.Quantity)),
			Unit:         clean(rl.Unit),
			UnitPrice:    utils.ParseAmount(string(rl.UnitPrice)),
			Discount:     utils.ParseAmount(string(rl.Discount)),
			TaxableValue: utils.ParseAmount(string(rl.TaxableValue)),
			IGSTRate:     utils.ParseRate(string(rl.IGSTRate)),
			IGSTAmount:   utils.ParseAmount(string(rl.IGSTAmount)),
			CGSTRate:     utils.ParseRate(string(rl.CGSTRate)),
			CGSTAmount:   utils.ParseAmount(string(rl.CGSTAmount)),
			SGSTRate:     utils.ParseRate(string(rl.SGSTRate)),
			SGSTAmount:   utils.ParseAmount(string(rl.SGSTAmount)),
			LineTotal:    utils.ParseAmount(string(rl.LineTotal)),
		})
	}
	return header, lines
}

func clean(f models.FlexString) string {
	return strings.TrimSpace(string(f))
}
