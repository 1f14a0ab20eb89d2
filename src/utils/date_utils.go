package utils

import (
	"strings"
	"time"
)

// The two date layouts accepted for fingerprinting: day-first with slashes
// and ISO with dashes. Anything else is treated as unknown.
var fingerprintLayouts = []string{"02/01/2006", "2006-01-02"}

// NormalizeDateKey converts an extracted invoice date to the canonical
// YYYYMMDD key used in fingerprints. Unrecognized input yields the empty
// string so fingerprinting still proceeds on the remaining fields.
func NormalizeDateKey(dateStr string) string {
	s := strings.TrimSpace(dateStr)
	for _, layout := range fingerprintLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("20060102")
		}
	}
	return ""
}
