package ledger

// Sheet (table) names within one ledger workbook or database.
const (
	SheetInvoices     = "Invoices"
	SheetLineItems    = "Line_Items"
	SheetSellers      = "Sellers"
	SheetHSNCodes     = "HSN_Codes"
	SheetDuplicateLog = "Duplicate_Log"
)

// HeaderColumns is the core invoice schema in ledger order. Column positions
// are the contract with every spreadsheet formula and report built on top of
// the ledger; they never change, they only grow at the end.
var HeaderColumns = []string{
	"Invoice_Number",
	"Invoice_Date",
	"Document_Type",
	"Seller_Name",
	"Seller_GSTIN",
	"Seller_State_Code",
	"Buyer_Name",
	"Buyer_GSTIN",
	"Buyer_State_Code",
	"Ship_To_Name",
	"Ship_To_State_Code",
	"Place_Of_Supply",
	"Supply_Type",
	"Reverse_Charge",
	"Invoice_Value",
	"Taxable_Total",
	"Total_Tax",
	"IGST_Total",
	"CGST_Total",
	"SGST_Total",
	"Vehicle_Number",
	"EWay_Bill_Number",
	"Validation_Status",
	"Validation_Remarks",
}

// ExtendedColumns continues HeaderColumns with the audit block. The writer
// resolves these by NAME, never by position, so reordering or extending this
// list cannot silently corrupt older ledgers.
var ExtendedColumns = []string{
	"Uploaded_At",
	"Uploaded_By",
	"Extraction_Model",
	"Model_Version",
	"Processing_Seconds",
	"Page_Count",
	"Correction_Flag",
	"Corrected_Fields",
	"Correction_Payload",
	"Fingerprint",
	"Duplicate_Status",
	"Confidence_Overall",
	"Confidence_Invoice_Number",
	"Confidence_Date",
	"Confidence_Seller_GSTIN",
	"Confidence_Amounts",
	"Confidence_Line_Items",
}

// LineItemColumns is the line-item sheet schema. The first three columns
// carry the parent document's identity so each row is self-describing.
var LineItemColumns = []string{
	"Invoice_Number",
	"Invoice_Date",
	"Seller_GSTIN",
	"Line_Number",
	"Item_Code",
	"Description",
	"HSN_SAC_Code",
	"Quantity",
	"Unit",
	"Unit_Price",
	"Discount",
	"Taxable_Value",
	"IGST_Rate",
	"IGST_Amount",
	"CGST_Rate",
	"CGST_Amount",
	"SGST_Rate",
	"SGST_Amount",
	"Line_Total",
}

// Auxiliary catalog and audit sheets.
var (
	SellerColumns       = []string{"GSTIN", "Name", "State_Code", "First_Seen", "Last_Seen", "Invoice_Count"}
	HSNColumns          = []string{"HSN_SAC_Code", "Description", "First_Seen", "Occurrences"}
	DuplicateLogColumns = []string{"Logged_At", "Fingerprint", "Invoice_Number", "Seller_GSTIN", "Matched_Row", "Batch_ID"}
)

// Fixed 1-based positions within the core schema.
const (
	ColInvoiceNumber     = 1
	ColValidationStatus  = 23
	ColValidationRemarks = 24
)

func HeaderWidth() int   { return len(HeaderColumns) }
func ExtendedWidth() int { return len(HeaderColumns) + len(ExtendedColumns) }
func LineItemWidth() int { return len(LineItemColumns) }

var extendedIndex = func() map[string]int {
	m := make(map[string]int, len(ExtendedColumns))
	for i, name := range ExtendedColumns {
		m[name] = len(HeaderColumns) + i + 1
	}
	return m
}()

// ExtendedColumnIndex resolves an audit column name to its 1-based ledger
// position.
func ExtendedColumnIndex(name string) (int, bool) {
	idx, ok := extendedIndex[name]
	return idx, ok
}

// FingerprintColumn is the 1-based ledger column holding the dedup key.
func FingerprintColumn() int {
	idx, _ := ExtendedColumnIndex("Fingerprint")
	return idx
}

// ExtendedHeaderRow is the full 41-column header row written to new ledgers.
func ExtendedHeaderRow() []string {
	row := make([]string, 0, ExtendedWidth())
	row = append(row, HeaderColumns...)
	row = append(row, ExtendedColumns...)
	return row
}

// Sheets maps every sheet to its header row; backends use it to create
// missing sheets on open. New ledgers are always created with the full
// extended invoice schema.
func Sheets() map[string][]string {
	return map[string][]string{
		SheetInvoices:     ExtendedHeaderRow(),
		SheetLineItems:    LineItemColumns,
		SheetSellers:      SellerColumns,
		SheetHSNCodes:     HSNColumns,
		SheetDuplicateLog: DuplicateLogColumns,
	}
}
