package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankEntry is the JSONB shape of one statement line inside reconciliation_sessions.entries.
type BankEntry struct {
	EntryID     string          `json:"entry_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	RawRow      string          `json:"raw_row"`
	Line        int             `json:"line"`
}

// StatementMeta is the JSONB shape of reconciliation_sessions.meta.
type StatementMeta struct {
	Currency       string           `json:"currency,omitempty"`
	PeriodStart    string           `json:"period_start,omitempty"`
	PeriodEnd      string           `json:"period_end,omitempty"`
	LedgerBalance  *decimal.Decimal `json:"ledger_balance,omitempty"`
	BalanceAsOf    string           `json:"balance_as_of,omitempty"`
	BankAccountRef string           `json:"bank_account_ref,omitempty"`
}

// ReconciliationSession is a row of reconciliation_sessions.
type ReconciliationSession struct {
	SessionID            string          `db:"session_id"`
	WorkplaceID          string          `db:"workplace_id"`
	AccountID            string          `db:"account_id"`
	StatementDate        time.Time       `db:"statement_date"`
	OpeningBalance       decimal.Decimal `db:"opening_balance"`
	ClosingBalance       decimal.Decimal `db:"closing_balance"`
	SourceFilename       string          `db:"source_filename"`
	StatementFingerprint string          `db:"statement_fingerprint"`
	Meta                 StatementMeta   `db:"meta"`
	Entries              []BankEntry     `db:"entries"`
	Status               string          `db:"status"`
	MatchedCount         int             `db:"matched_count"`
	UnmatchedCount       int             `db:"unmatched_count"`
	CompletedAt          *time.Time      `db:"completed_at"`
	Version              int             `db:"version"`
	AuditFields
}

// ReconciliationMatch is a row of reconciliation_matches.
type ReconciliationMatch struct {
	MatchID       string    `db:"match_id"`
	SessionID     string    `db:"session_id"`
	BankEntryID   string    `db:"bank_entry_id"`
	TransactionID *string   `db:"transaction_id"`
	Confidence    float64   `db:"confidence"`
	MatchType     string    `db:"match_type"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
}

// AuditEvent is a row of audit_events.
type AuditEvent struct {
	EventID     string         `db:"event_id"`
	WorkplaceID string         `db:"workplace_id"`
	SessionID   string         `db:"session_id"`
	Action      string         `db:"action"`
	ActorID     string         `db:"actor_id"`
	Details     map[string]any `db:"details"`
	OccurredAt  time.Time      `db:"occurred_at"`
}
