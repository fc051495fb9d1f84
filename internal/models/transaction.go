package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// LedgerTransaction is a row of the ledger_transactions view: a posted transaction
// line joined with its journal (for date and description) and account (for type).
// Amount is unsigned; TransactionType and AccountType give its direction.
type LedgerTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	WorkplaceID     string          `db:"workplace_id"`
	AccountID       string          `db:"account_id"`
	AccountType     AccountType     `db:"account_type"`
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	Description     string          `db:"description"`
	Notes           string          `db:"notes"`
	IsReconciled    bool            `db:"is_reconciled"`
}
