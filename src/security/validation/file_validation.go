package validation

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// AllowedImageContentTypes is a map for quick lookup of detected MIME types
// accepted as scanned invoice pages. PDF is allowed because suppliers send
// digital invoices as often as photographs. application/octet-stream covers
// TIFF scans, which the sniffer cannot name; the extraction stage will fail
// on anything that is not actually a document.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/webp":               true,
	"image/bmp":                true,
	"application/pdf":          true,
	"application/octet-stream": true,
	"text/plain":               false, // a sidecar text file passed by mistake
	"text/html":                false,
}

// ValidateImageFile checks the actual content signature (magic bytes) of one
// page file. It returns the detected content type and an error if the file
// is missing or is not a plausible document image.
func ValidateImageFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	buffer := make([]byte, 512) // Read first 512 bytes for MIME detection
	n, err := f.Read(buffer)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read image file for content type checking: %w", err)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0]) // Normalize (e.g. "text/plain; charset=utf-8")

	if allowed, exists := AllowedImageContentTypes[detectedContentType]; !exists || !allowed {
		return detectedContentType, fmt.Errorf("detected file content type '%s' is not consistent with a scanned document", detectedContentType)
	}
	return detectedContentType, nil
}
