package jsonparser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taxops/gstledger/src/models"
)

// JSONParser reads the structured JSON layout produced by extraction models
// that support it. The document object may be wrapped in prose or a markdown
// code fence; everything outside the outermost braces is discarded.
type JSONParser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *JSONParser {
	if log == nil {
		log = slog.Default()
	}
	return &JSONParser{log: log}
}

func (p *JSONParser) Parse(text string) (*models.RawInvoice, error) {
	payload, ok := extractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("json parser: no JSON object found in document text")
	}

	var raw models.RawInvoice
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("json parser: failed to decode document: %w", err)
	}

	p.log.Debug("json parser: decoded document", "invoiceNumber", raw.InvoiceNumber, "lineItems", len(raw.LineItems))
	return &raw, nil
}

// extractJSONObject slices the text between the first '{' and the last '}'.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
