package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taxops/gstledger/src/models"
	"github.com/taxops/gstledger/src/parsers"
	"github.com/taxops/gstledger/src/processors"
	"github.com/taxops/gstledger/src/utils"
)

var sourceFlag string

var validateCmd = &cobra.Command{
	Use:   "validate <extracted-text-file>",
	Short: "Parse one extracted document and print its validation verdict",
	Long: `Validate parses a single already-extracted document (the text a
sidecar file would hold, or the JSON an extraction API returns) and
prints the parsed identity, the validation verdict and the fingerprint
the ledger would record. It touches no ledger.

Exits non-zero when the document fails validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&sourceFlag, "source", "", "input format, text or json (default from PARSER_SOURCE)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	initRuntime()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	sourceName := cfg.ParserSource
	if sourceFlag != "" {
		sourceName = sourceFlag
	}
	source, err := parsers.GetParser(sourceName, log)
	if err != nil {
		return err
	}
	parser := parsers.NewDocumentParser(source, processors.NewInvoiceValidator(), log)

	parsed, err := parser.ParseWithValidation(string(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	header := parsed.Header
	fmt.Fprintf(out, "Document:    %s dated %s\n", header.InvoiceNumber, header.InvoiceDate)
	fmt.Fprintf(out, "Seller:      %s  %s%s\n", header.SellerName, header.SellerGSTIN, stateSuffix(header.SellerStateCode))
	fmt.Fprintf(out, "Buyer:       %s  %s%s\n", header.BuyerName, header.BuyerGSTIN, stateSuffix(header.BuyerStateCode))
	fmt.Fprintf(out, "Supply:      %s, value %s\n", header.SupplyType, header.InvoiceValue.StringFixed(2))
	fmt.Fprintf(out, "Line items:  %d\n", len(parsed.Lines))
	fmt.Fprintf(out, "Fingerprint: %s\n", processors.Fingerprint(header))
	fmt.Fprintf(out, "Status:      %s\n", parsed.Validation.Status)
	fmt.Fprintf(out, "Remarks:     %s\n", parsed.Validation.Remarks())

	if parsed.Validation.Status == models.StatusError {
		return fmt.Errorf("document %s failed validation", header.InvoiceNumber)
	}
	return nil
}

func stateSuffix(code string) string {
	if name, ok := utils.StateName(code); ok {
		return fmt.Sprintf(" (%s)", name)
	}
	return ""
}
