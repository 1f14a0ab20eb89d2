package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/security/validation"
)

// SidecarExtractor reads pre-extracted OCR text from "<image>.txt" sidecar
// files laid down by the upstream OCR run. It lets the pipeline operate on
// directories of scans without a live OCR dependency.
type SidecarExtractor struct {
	log *slog.Logger
}

func NewSidecarExtractor(log *slog.Logger) *SidecarExtractor {
	if log == nil {
		log = slog.Default()
	}
	return &SidecarExtractor{log: log}
}

func (e *SidecarExtractor) Extract(ctx context.Context, imagePaths []string) (*Result, error) {
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("no page images supplied")
	}

	var pageTexts []string
	var pages []models.PageMetadata

	for i, imagePath := range imagePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := validation.ValidateImageFile(imagePath); err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", i+1, imagePath, err)
		}

		sidecar := imagePath + ".txt"
		data, err := os.ReadFile(sidecar)
		if err != nil {
			return nil, fmt.Errorf("page %d: missing extraction sidecar %s: %w", i+1, sidecar, err)
		}

		text := string(data)
		pageTexts = append(pageTexts, text)
		pages = append(pages, models.PageMetadata{
			Page:       i + 1,
			Source:     imagePath,
			Characters: len(text),
		})
	}

	e.log.Debug("sidecar extraction complete", "pages", len(pages))
	return &Result{
		Text:  strings.Join(pageTexts, "\n\n"),
		Pages: pages,
		Model: "sidecar",
	}, nil
}
