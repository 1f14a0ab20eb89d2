package parsers

import (
	"github.com/taxops/gstledger/src/models"
)

// Parser turns one document's extracted text into a raw invoice record.
// Implementations are per extraction source; they never validate and never
// touch storage.
type Parser interface {
	Parse(text string) (*models.RawInvoice, error)
}
