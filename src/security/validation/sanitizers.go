package validation

import (
	"strings"
	"unicode"
)

// SanitizeForFormulaInjection prepends a single quote if the string starts with a formula character.
// This makes most spreadsheet software treat it as text.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > 0 {
		firstChar := rune(trimmed[0])
		if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' || firstChar == '\t' || firstChar == '\r' {
			return "'" + s // Prepend to the original string 's', not 'trimmed' to preserve original spacing if intended
		}
	}
	return s
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return. OCR output is full of stray
// control bytes that would otherwise end up in ledger cells.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}
