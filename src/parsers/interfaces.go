package parsers

import (
	"github.com/taxops/gstledger/src/models"
)

// Validator is the consistency-check dependency of DocumentParser.
// This interface is satisfied by processors.InvoiceValidator.
type Validator interface {
	Validate(header *models.InvoiceHeader, lines []models.LineItem) models.ValidationResult
}
