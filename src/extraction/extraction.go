// Package extraction defines the boundary to the OCR/vision stage. The
// pipeline only ever sees extracted text; how that text was produced is an
// external concern behind this interface.
package extraction

import (
	"context"

	"github.com/taxops/gstledger/src/models"
)

// Result is the output of extracting one document's image set. Confidence is
// nil when the engine reports no per-field scores.
type Result struct {
	Text         string
	Pages        []models.PageMetadata
	Model        string
	ModelVersion string
	Confidence   *models.ConfidenceScores
}

// Service extracts the text of one document from its ordered page images.
// The call blocks until the backing engine answers; the pipeline imposes no
// timeout or retry of its own.
type Service interface {
	Extract(ctx context.Context, imagePaths []string) (*Result, error)
}
