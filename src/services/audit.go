package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/taxops/gstledger/src/ledger"
	"github.com/taxops/gstledger/src/models"
)

type auditServiceImpl struct {
	writer *ledger.Writer
	log    *slog.Logger
}

func NewAuditService(writer *ledger.Writer, log *slog.Logger) AuditService {
	if log == nil {
		log = slog.Default()
	}
	return &auditServiceImpl{writer: writer, log: log}
}

func (s *auditServiceImpl) RecordDuplicateAttempt(ctx context.Context, attempt models.DuplicateAttempt) error {
	row := []string{
		attempt.LoggedAt.Format(time.RFC3339),
		attempt.Fingerprint,
		attempt.InvoiceNumber,
		attempt.SellerGSTIN,
		strconv.Itoa(attempt.MatchedRow),
		attempt.BatchID,
	}
	at, err := s.writer.AppendRow(ctx, ledger.SheetDuplicateLog, row)
	if err != nil {
		return fmt.Errorf("recording duplicate attempt: %w", err)
	}
	s.log.Debug("duplicate attempt logged", "fingerprint", attempt.Fingerprint, "row", at)
	return nil
}
