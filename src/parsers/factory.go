package parsers

import (
	"fmt"
	"log/slog"

	"github.com/taxops/gstledger/src/parsers/jsonparser"
	"github.com/taxops/gstledger/src/parsers/textparser"
)

// GetParser selects the source parser matching the configured extraction
// output format.
func GetParser(source string, log *slog.Logger) (Parser, error) {
	switch source {
	case "text":
		return textparser.NewParser(log), nil
	case "json":
		return jsonparser.NewParser(log), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
