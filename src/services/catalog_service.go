package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/taxops/gstledger/src/ledger"
	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/security/validation"
	"github.com/taxops/gstledger/src/utils"
)

const (
	DefaultCatalogCacheExpiration = 15 * time.Minute
	catalogCacheCleanupInterval   = 30 * time.Minute
)

// Cache key formats.
const (
	ckSeller = "catalog_seller_%s"
	ckHSN    = "catalog_hsn_%s"
)

const catalogDateLayout = "2006-01-02"

type sellerEntry struct {
	row  int
	name string
}

type hsnEntry struct {
	row int
}

type catalogServiceImpl struct {
	grid   ledger.Grid
	writer *ledger.Writer
	memo   *cache.Cache
	log    *slog.Logger
}

// NewCatalogService maintains the Sellers and HSN_Codes sheets. Row lookups
// are memoized so repeat sellers within a run cost one scan, not one per
// document.
func NewCatalogService(grid ledger.Grid, writer *ledger.Writer, cacheExpiry time.Duration, log *slog.Logger) CatalogService {
	if cacheExpiry <= 0 {
		cacheExpiry = DefaultCatalogCacheExpiration
	}
	if log == nil {
		log = slog.Default()
	}
	return &catalogServiceImpl{
		grid:   grid,
		writer: writer,
		memo:   cache.New(cacheExpiry, catalogCacheCleanupInterval),
		log:    log,
	}
}

func (s *catalogServiceImpl) RecordDocument(ctx context.Context, header *models.InvoiceHeader, lines []models.LineItem) error {
	if header == nil {
		return nil
	}
	if header.SellerGSTIN != "" {
		if err := s.upsertSeller(ctx, header); err != nil {
			return fmt.Errorf("updating seller catalog: %w", err)
		}
	}
	for _, line := range lines {
		if line.HSNCode == "" {
			continue
		}
		if err := s.upsertHSN(ctx, line); err != nil {
			return fmt.Errorf("updating HSN catalog: %w", err)
		}
	}
	return nil
}

func (s *catalogServiceImpl) SellerName(ctx context.Context, gstin string) (string, bool) {
	if gstin == "" {
		return "", false
	}
	key := fmt.Sprintf(ckSeller, gstin)
	if v, found := s.memo.Get(key); found {
		if entry := v.(sellerEntry); entry.name != "" {
			return entry.name, true
		}
	}
	row, err := s.findRow(ctx, ledger.SheetSellers, gstin)
	if err != nil || row == 0 {
		return "", false
	}
	name, err := s.grid.Cell(ctx, ledger.SheetSellers, row, 2)
	if err != nil {
		return "", false
	}
	s.memo.Set(key, sellerEntry{row: row, name: name}, cache.DefaultExpiration)
	return name, name != ""
}

func (s *catalogServiceImpl) upsertSeller(ctx context.Context, header *models.InvoiceHeader) error {
	gstin := header.SellerGSTIN
	today := time.Now().UTC().Format(catalogDateLayout)

	key := fmt.Sprintf(ckSeller, gstin)
	var row int
	if v, found := s.memo.Get(key); found {
		row = v.(sellerEntry).row
	} else {
		r, err := s.findRow(ctx, ledger.SheetSellers, gstin)
		if err != nil {
			return err
		}
		row = r
	}

	if row == 0 {
		name := cleanCatalogCell(header.SellerName)
		state := header.SellerStateCode
		if state == "" {
			state = utils.GSTINStateCode(gstin)
		}
		at, err := s.writer.AppendRow(ctx, ledger.SheetSellers, []string{gstin, name, state, today, today, "1"})
		if err != nil {
			return err
		}
		s.log.Debug("new seller cataloged", "gstin", gstin, "row", at)
		s.memo.Set(key, sellerEntry{row: at, name: name}, cache.DefaultExpiration)
		return nil
	}

	existing, err := s.readRow(ctx, ledger.SheetSellers, row, len(ledger.SellerColumns))
	if err != nil {
		return err
	}
	count, _ := strconv.Atoi(existing[5])
	if existing[1] == "" {
		existing[1] = cleanCatalogCell(header.SellerName)
	}
	existing[4] = today
	existing[5] = strconv.Itoa(count + 1)
	if err := s.grid.WriteRows(ctx, ledger.SheetSellers, row, [][]string{existing}); err != nil {
		return err
	}
	s.memo.Set(key, sellerEntry{row: row, name: existing[1]}, cache.DefaultExpiration)
	return nil
}

func (s *catalogServiceImpl) upsertHSN(ctx context.Context, line models.LineItem) error {
	code := line.HSNCode
	today := time.Now().UTC().Format(catalogDateLayout)

	key := fmt.Sprintf(ckHSN, code)
	var row int
	if v, found := s.memo.Get(key); found {
		row = v.(hsnEntry).row
	} else {
		r, err := s.findRow(ctx, ledger.SheetHSNCodes, code)
		if err != nil {
			return err
		}
		row = r
	}

	if row == 0 {
		at, err := s.writer.AppendRow(ctx, ledger.SheetHSNCodes,
			[]string{code, cleanCatalogCell(line.Description), today, "1"})
		if err != nil {
			return err
		}
		s.memo.Set(key, hsnEntry{row: at}, cache.DefaultExpiration)
		return nil
	}

	existing, err := s.readRow(ctx, ledger.SheetHSNCodes, row, len(ledger.HSNColumns))
	if err != nil {
		return err
	}
	count, _ := strconv.Atoi(existing[3])
	if existing[1] == "" {
		existing[1] = cleanCatalogCell(line.Description)
	}
	existing[3] = strconv.Itoa(count + 1)
	if err := s.grid.WriteRows(ctx, ledger.SheetHSNCodes, row, [][]string{existing}); err != nil {
		return err
	}
	s.memo.Set(key, hsnEntry{row: row}, cache.DefaultExpiration)
	return nil
}

// findRow scans the key column (always column 1) below the header.
func (s *catalogServiceImpl) findRow(ctx context.Context, sheet, value string) (int, error) {
	cells, err := s.grid.Column(ctx, sheet, 1)
	if err != nil {
		return 0, err
	}
	for i, v := range cells {
		if i == 0 {
			continue
		}
		if v == value {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (s *catalogServiceImpl) readRow(ctx context.Context, sheet string, row, width int) ([]string, error) {
	out := make([]string, width)
	for col := 1; col <= width; col++ {
		v, err := s.grid.Cell(ctx, sheet, row, col)
		if err != nil {
			return nil, err
		}
		out[col-1] = v
	}
	return out, nil
}

// cleanCatalogCell applies the same hygiene as the append path; catalog
// updates write through the grid directly.
func cleanCatalogCell(v string) string {
	return validation.SanitizeForFormulaInjection(validation.StripUnprintable(v))
}
