package parsers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/taxops/gstledger/src/models"
)

// ErrNoInvoiceData is returned when the source parser produced a record with
// no invoice number, no seller GSTIN and no line items. Such a document is a
// parse failure, not a validation finding.
var ErrNoInvoiceData = errors.New("no invoice data recognized in document text")

// DocumentParser is the parsing collaborator of the batch pipeline: it runs
// the source parser, maps the raw record into typed form and attaches the
// validation verdict unchanged.
type DocumentParser struct {
	source    Parser
	validator Validator
	log       *slog.Logger
}

func NewDocumentParser(source Parser, validator Validator, log *slog.Logger) *DocumentParser {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentParser{source: source, validator: validator, log: log}
}

// ParseWithValidation turns extracted text into a validated invoice.
func (p *DocumentParser) ParseWithValidation(text string) (*models.ParsedInvoice, error) {
	raw, err := p.source.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	header, lines := MapRawInvoice(raw)
	if header.InvoiceNumber == "" && header.SellerGSTIN == "" && len(lines) == 0 {
		return nil, ErrNoInvoiceData
	}

	result := p.validator.Validate(header, lines)
	p.log.Debug("parsed document",
		"invoiceNumber", header.InvoiceNumber,
		"lineItems", len(lines),
		"validationStatus", result.Status)

	return &models.ParsedInvoice{Header: header, Lines: lines, Validation: result}, nil
}
