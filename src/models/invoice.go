package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FlexString decodes a JSON string, number, bool or null into a plain string.
// Extraction models are inconsistent about quoting numeric fields, so the
// boundary accepts both and the mappers parse defensively afterwards.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

// RawInvoice is an invoice exactly as the extraction stage produced it.
// Every field is text; nothing is trusted or normalized yet.
type RawInvoice struct {
	InvoiceNumber   FlexString    `json:"invoice_number"`
	InvoiceDate     FlexString    `json:"invoice_date"`
	DocumentType    FlexString    `json:"document_type"` // e.g. "Tax Invoice", "Bill of Supply"
	SellerName      FlexString    `json:"seller_name"`
	SellerGSTIN     FlexString    `json:"seller_gstin"`
	SellerStateCode FlexString    `json:"seller_state_code"`
	BuyerName       FlexString    `json:"buyer_name"`
	BuyerGSTIN      FlexString    `json:"buyer_gstin"`
	BuyerStateCode  FlexString    `json:"buyer_state_code"`
	ShipToName      FlexString    `json:"ship_to_name"`
	ShipToStateCode FlexString    `json:"ship_to_state_code"`
	PlaceOfSupply   FlexString    `json:"place_of_supply"`
	SupplyType      FlexString    `json:"supply_type"` // "intra-state" or "inter-state", free text
	ReverseCharge   FlexString    `json:"reverse_charge"`
	InvoiceValue    FlexString    `json:"invoice_value"`
	TaxableTotal    FlexString    `json:"taxable_total"`
	TotalTax        FlexString    `json:"total_tax"`
	IGSTTotal       FlexString    `json:"igst_total"`
	CGSTTotal       FlexString    `json:"cgst_total"`
	SGSTTotal       FlexString    `json:"sgst_total"`
	VehicleNumber   FlexString    `json:"vehicle_number"`
	EwayBillNumber  FlexString    `json:"eway_bill_number"`
	LineItems       []RawLineItem `json:"line_items"`
}

type RawLineItem struct {
	ItemCode     FlexString `json:"item_code"`
	Description  FlexString `json:"description"`
	HSNCode      FlexString `json:"hsn_sac_code"` // HSN for goods, SAC for services
	Quantity     FlexString `json:"quantity"`
	Unit         FlexString `json:"unit"`
	UnitPrice    FlexString `json:"unit_price"`
	Discount     FlexString `json:"discount"`
	TaxableValue FlexString `json:"taxable_value"`
	IGSTRate     FlexString `json:"igst_rate"`
	IGSTAmount   FlexString `json:"igst_amount"`
	CGSTRate     FlexString `json:"cgst_rate"`
	CGSTAmount   FlexString `json:"cgst_amount"`
	SGSTRate     FlexString `json:"sgst_rate"`
	SGSTAmount   FlexString `json:"sgst_amount"`
	LineTotal    FlexString `json:"line_total"`
}

// InvoiceHeader is the parsed, typed form of a document header. Amounts are
// decimals; a field the parser could not read is the zero value, never an
// error.
type InvoiceHeader struct {
	InvoiceNumber   string
	InvoiceDate     string // as extracted; normalized only for fingerprinting
	DocumentType    string
	SellerName      string
	SellerGSTIN     string
	SellerStateCode string
	BuyerName       string
	BuyerGSTIN      string
	BuyerStateCode  string
	ShipToName      string
	ShipToStateCode string
	PlaceOfSupply   string
	SupplyType      string
	ReverseCharge   string
	InvoiceValue    decimal.Decimal
	TaxableTotal    decimal.Decimal
	TotalTax        decimal.Decimal
	IGSTTotal       decimal.Decimal
	CGSTTotal       decimal.Decimal
	SGSTTotal       decimal.Decimal
	VehicleNumber   string
	EwayBillNumber  string
}

// LineItem is one taxable line of an invoice. Order within the parent
// document is significant and is preserved through to the ledger.
type LineItem struct {
	LineNumber   int
	ItemCode     string
	Description  string
	HSNCode      string
	Quantity     decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	TaxableValue decimal.Decimal
	IGSTRate     decimal.Decimal
	IGSTAmount   decimal.Decimal
	CGSTRate     decimal.Decimal
	CGSTAmount   decimal.Decimal
	SGSTRate     decimal.Decimal
	SGSTAmount   decimal.Decimal
	LineTotal    decimal.Decimal
}

// ParsedInvoice bundles the typed header with its ordered line items and the
// validation verdict computed at parse time.
type ParsedInvoice struct {
	Header     *InvoiceHeader
	Lines      []LineItem
	Validation ValidationResult
}

// PageMetadata describes one extracted page of a document image set.
type PageMetadata struct {
	Page       int     `json:"page"`
	Source     string  `json:"source"`
	Characters int     `json:"characters"`
	Confidence float64 `json:"confidence"`
}
