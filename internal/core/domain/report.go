package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchedEntry is a bank entry together with its match and, unless bank-only, the linked ledger transaction.
type MatchedEntry struct {
	Entry       BankEntry          `json:"entry"`
	Match       Match              `json:"match"`
	Transaction *LedgerTransaction `json:"transaction,omitempty"`
}

// ReconciliationReport summarises a session. BalanceDiscrepancy is
// closing - (opening + matched total); zero when within epsilon.
type ReconciliationReport struct {
	SessionID          string          `json:"sessionID"`
	WorkplaceID        string          `json:"workplaceID"`
	AccountID          string          `json:"accountID"`
	Status             SessionStatus   `json:"status"`
	StatementDate      time.Time       `json:"statementDate"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	ClosingBalance     decimal.Decimal `json:"closingBalance"`
	StatementTotal     decimal.Decimal `json:"statementTotal"`
	MatchedTotal       decimal.Decimal `json:"matchedTotal"`
	UnmatchedTotal     decimal.Decimal `json:"unmatchedTotal"`
	ExpectedClosing    decimal.Decimal `json:"expectedClosing"`
	BalanceDiscrepancy decimal.Decimal `json:"balanceDiscrepancy"`
	IsBalanced         bool            `json:"isBalanced"`
	TotalEntries       int             `json:"totalEntries"`
	MatchedCount       int             `json:"matchedCount"`
	UnmatchedCount     int             `json:"unmatchedCount"`
	AutoMatchCount     int             `json:"autoMatchCount"`
	ManualMatchCount   int             `json:"manualMatchCount"`
	BankOnlyCount      int             `json:"bankOnlyCount"`
	MatchedEntries     []MatchedEntry  `json:"matchedEntries"`
	UnmatchedEntries   []BankEntry     `json:"unmatchedEntries"`
}
