package domain

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

// LedgerTransaction is the read model of one posted transaction line on a reconcilable account,
// as seen by the reconciliation engine. Amount is signed from the bank's point of view:
// positive is money in (deposit), negative is money out (withdrawal).
type LedgerTransaction struct {
	TransactionID string          `json:"transactionID"`
	JournalID     string          `json:"journalID"`
	WorkplaceID   string          `json:"workplaceID"`
	AccountID     string          `json:"accountID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	IsReconciled  bool            `json:"isReconciled"`
}
