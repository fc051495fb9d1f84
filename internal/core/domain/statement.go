package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankEntry is one line of an external bank statement. Immutable once parsed.
type BankEntry struct {
	EntryID     string          `json:"entryID"`
	Date        time.Time       `json:"date"` // calendar date, UTC midnight
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // positive = credit/deposit, negative = debit/withdrawal
	Reference   string          `json:"reference,omitempty"`
	RawRow      string          `json:"rawRow"`
	Line        int             `json:"line"` // 1-based line (CSV) or transaction ordinal (OFX) in the source file
}

// StatementMeta carries statement-level facts some formats embed (OFX does, CSV usually does not).
type StatementMeta struct {
	Currency       string           `json:"currency,omitempty"`
	PeriodStart    *time.Time       `json:"periodStart,omitempty"`
	PeriodEnd      *time.Time       `json:"periodEnd,omitempty"`
	LedgerBalance  *decimal.Decimal `json:"ledgerBalance,omitempty"`
	BalanceAsOf    *time.Time       `json:"balanceAsOf,omitempty"`
	BankAccountRef string           `json:"bankAccountRef,omitempty"`
}

// SumEntries returns the signed total of the given entries.
func SumEntries(entries []BankEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
