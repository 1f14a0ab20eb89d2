package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taxops/gstledger/src/extraction"
	"github.com/taxops/gstledger/src/ledger"
	"github.com/taxops/gstledger/src/ledger/memstore"
	"github.com/taxops/gstledger/src/ledger/sheetstore"
	"github.com/taxops/gstledger/src/ledger/sqlitestore"
	"github.com/taxops/gstledger/src/parsers"
	"github.com/taxops/gstledger/src/processors"
	"github.com/taxops/gstledger/src/services"
)

var (
	manifestFlag    string
	dirFlag         string
	backendFlag     string
	ledgerPathFlag  string
	skipDedupFlag   bool
	dryRunFlag      bool
	emailReportFlag bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract, validate and append a batch of invoice documents",
	Long: `Process runs the full ingestion pipeline over a batch of documents.
Each document is an ordered set of page images with extracted-text
sidecars next to them. Documents come either from a YAML manifest or
from a directory whose subdirectories each hold one document's pages.

The batch report is written to stdout; logs go to stderr.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&manifestFlag, "manifest", "", "YAML manifest listing documents and their page images")
	processCmd.Flags().StringVar(&dirFlag, "dir", "", "directory of per-document subdirectories of page images")
	processCmd.Flags().StringVar(&backendFlag, "backend", "", "ledger backend, xlsx or sqlite (default from LEDGER_BACKEND)")
	processCmd.Flags().StringVar(&ledgerPathFlag, "ledger", "", "ledger file path (default from LEDGER_PATH)")
	processCmd.Flags().BoolVar(&skipDedupFlag, "skip-dedup", false, "append documents without the duplicate check")
	processCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "run the pipeline against an in-memory ledger that is discarded on exit")
	processCmd.Flags().BoolVar(&emailReportFlag, "email-report", false, "send the batch report with the configured email provider")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	initRuntime()

	jobs, err := loadJobs()
	if err != nil {
		return err
	}
	log.Info("Batch loaded", "documents", len(jobs))

	grid, closeGrid, err := openGrid()
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer closeGrid()

	log.Info("Initializing services...")
	writer := ledger.NewWriter(grid, cfg.LedgerMaxRows, log)
	var dedup *ledger.DedupIndex
	if skipDedupFlag {
		log.Warn("Duplicate check disabled for this batch")
	} else {
		dedup = ledger.NewDedupIndex(grid, log)
	}

	source, err := parsers.GetParser(cfg.ParserSource, log)
	if err != nil {
		return err
	}
	parser := parsers.NewDocumentParser(source, processors.NewInvoiceValidator(), log)
	extractor := extraction.NewSidecarExtractor(log)
	catalog := services.NewCatalogService(grid, writer, cfg.CatalogCacheExpiry, log)
	audit := services.NewAuditService(writer, log)
	batch := services.NewBatchService(extractor, parser, writer, dedup, catalog, audit, cfg.Operator, log)

	result, err := batch.ProcessBatch(cmd.Context(), jobs, func(index, total int, id string) {
		log.Info("Processing document", "index", index, "total", total, "document", id)
	})
	if err != nil {
		return err
	}

	report := services.RenderBatchReport(result)
	fmt.Fprint(cmd.OutOrStdout(), report)

	if emailReportFlag {
		dispatcher := services.NewReportDispatcher(cfg, log)
		if err := dispatcher.DispatchReport(cmd.Context(), services.ReportSubject(result), report); err != nil {
			log.Error("Report dispatch failed", "error", err)
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total)
	}
	return nil
}

// openGrid picks the ledger backend. The returned func releases it and is
// safe to call even for the in-memory store.
func openGrid() (ledger.Grid, func(), error) {
	if dryRunFlag {
		log.Info("Dry run: appending to an in-memory ledger")
		return memstore.New(ledger.Sheets()), func() {}, nil
	}

	backend := cfg.LedgerBackend
	if backendFlag != "" {
		backend = backendFlag
	}
	path := cfg.LedgerPath
	if ledgerPathFlag != "" {
		path = ledgerPathFlag
	}

	switch backend {
	case "xlsx":
		store, err := sheetstore.Open(path, ledger.Sheets())
		if err != nil {
			return nil, nil, err
		}
		log.Info("Ledger opened", "backend", "xlsx", "path", path)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("Closing ledger", "error", err)
			}
		}, nil
	case "sqlite":
		store, err := sqlitestore.Open(path, ledger.Sheets())
		if err != nil {
			return nil, nil, err
		}
		log.Info("Ledger opened", "backend", "sqlite", "path", path)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("Closing ledger", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}
