package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
)

var ledgerColumns = []string{"transaction_id", "date", "description", "amount"}

// readLedgerCSV loads ledger transactions exported as transaction_id,date,description,amount,
// with amounts signed the way the bank shows them. Every row is assigned to accountID.
func readLedgerCSV(path, accountID string, locale dateparse.Locale) ([]domain.LedgerTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range ledgerColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("ledger header must contain %s", strings.Join(ledgerColumns, ","))
		}
	}

	var txns []domain.LedgerTransaction
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		date, ok := dateparse.Parse(rec[index["date"]], locale)
		if !ok {
			return nil, fmt.Errorf("ledger line %d: unparseable date %q", line, rec[index["date"]])
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[index["amount"]]))
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: invalid amount %q", line, rec[index["amount"]])
		}
		txns = append(txns, domain.LedgerTransaction{
			TransactionID: strings.TrimSpace(rec[index["transaction_id"]]),
			AccountID:     accountID,
			Date:          date,
			Description:   rec[index["description"]],
			Amount:        amount,
		})
	}
	return txns, nil
}
