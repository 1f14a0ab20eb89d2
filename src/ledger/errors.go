package ledger

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid ledger input")
	ErrLedgerFull         = errors.New("ledger row capacity reached")
	ErrVerificationFailed = errors.New("ledger write verification failed")
)
