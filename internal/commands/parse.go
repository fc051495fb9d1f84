package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/bank_reconciliation/internal/core/statement"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
)

func newParseCommand() *cobra.Command {
	var locale string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <statement>",
		Short: "Parse a CSV or OFX/QFX statement and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parseStatementFile(args[0], dateparse.ParseLocale(locale))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printParseResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "day/month order for ambiguous dates (US or EU)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parse result as JSON")

	return cmd
}

func parseStatementFile(path string, locale dateparse.Locale) (*statement.ParseResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	result, err := statement.Parse(content, filepath.Base(path), statement.Options{Locale: locale})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

func printParseResult(out io.Writer, result *statement.ParseResult) error {
	fmt.Fprintf(out, "format: %s, entries: %d, skipped: %d\n", result.Format, len(result.Entries), len(result.Skipped))
	if result.Meta.LedgerBalance != nil {
		fmt.Fprintf(out, "ledger balance: %s\n", result.Meta.LedgerBalance.StringFixed(2))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tDATE\tAMOUNT\tDESCRIPTION")
	for _, e := range result.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Line, e.Date.Format("2006-01-02"), e.Amount.StringFixed(2), e.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range result.Skipped {
		fmt.Fprintf(out, "skipped line %d: %s\n", s.Line, s.Reason)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
