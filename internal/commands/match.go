package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	"github.com/SscSPs/bank_reconciliation/internal/platform/config"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
)

const offlineAccountID = "offline"

func newMatchCommand() *cobra.Command {
	var locale string
	var threshold float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match <statement> <ledger.csv>",
		Short: "Run the matching engine of a statement against a ledger export",
		Long: "Scores every statement entry against the ledger export and prints the decision the\n" +
			"server would take. The ledger CSV needs the columns transaction_id,date,description,amount.\n" +
			"Matching policy is read from the same RECON_* environment keys as the server.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			engine := matching.NewEngine(cfg.MatchingConfig())
			if threshold <= 0 {
				threshold = engine.Config().AutoMatchThreshold
			}
			if threshold > 1 {
				return fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
			}

			dateLocale := cfg.DateLocale
			if locale != "" {
				dateLocale = dateparse.ParseLocale(locale)
			}
			parsed, err := parseStatementFile(args[0], dateLocale)
			if err != nil {
				return err
			}
			txns, err := readLedgerCSV(args[1], offlineAccountID, dateLocale)
			if err != nil {
				return err
			}

			session, err := domain.NewReconciliationSession("offline", "offline", offlineAccountID,
				time.Now().UTC(), decimal.Zero, decimal.Zero, parsed.Entries, "cli", time.Now().UTC())
			if err != nil {
				return err
			}
			result := engine.AutoMatch(session, txns, threshold)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result.Decisions)
			}
			return printDecisions(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "day/month order for ambiguous dates (US or EU, defaults to RECON_DATE_LOCALE)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "auto-match threshold (defaults to RECON_AUTO_MATCH_THRESHOLD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print decisions as JSON")

	return cmd
}

func printDecisions(out io.Writer, result matching.AutoMatchResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tAMOUNT\tDECISION\tBEST\tSCORE\tDESCRIPTION")
	counts := map[matching.DecisionKind]int{}
	for _, d := range result.Decisions {
		counts[d.Kind]++
		best, score := "-", "-"
		if d.Best != nil {
			best = d.Best.TransactionID
			score = fmt.Sprintf("%.4f", d.Best.Score)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", d.Entry.Line, d.Entry.Amount.StringFixed(2), d.Kind, best, score, d.Entry.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "auto: %d, suggest: %d, no match: %d\n",
		counts[matching.DecisionAuto], counts[matching.DecisionSuggest], counts[matching.DecisionNoMatch])
	return nil
}
