package services

import "errors"

var (
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrParsingFailed     = errors.New("parsing failed")
	ErrLedgerWriteFailed = errors.New("ledger write failed")
)
