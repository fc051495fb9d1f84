package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a reconciliation session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED" // terminal
)

// MatchType records how a match was confirmed.
type MatchType string

const (
	MatchAuto   MatchType = "AUTO"
	MatchManual MatchType = "MANUAL"
)

// Match pairs one bank entry with one ledger transaction inside a session.
// A nil TransactionID marks a bank-only entry acknowledged without a ledger counterpart.
type Match struct {
	MatchID       string    `json:"matchID"`
	SessionID     string    `json:"sessionID"`
	BankEntryID   string    `json:"bankEntryID"`
	TransactionID *string   `json:"transactionID,omitempty"`
	Confidence    float64   `json:"confidence"`
	MatchType     MatchType `json:"matchType"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// IsBankOnly reports whether the match has no ledger transaction.
func (m Match) IsBankOnly() bool {
	return m.TransactionID == nil
}

// ReconciliationSession is the unit of work for reconciling one statement of one account.
// Entries keep upload order and are never removed; Matches holds the active pairings.
type ReconciliationSession struct {
	SessionID            string          `json:"sessionID"`
	WorkplaceID          string          `json:"workplaceID"`
	AccountID            string          `json:"accountID"`
	StatementDate        time.Time       `json:"statementDate"`
	OpeningBalance       decimal.Decimal `json:"openingBalance"`
	ClosingBalance       decimal.Decimal `json:"closingBalance"`
	SourceFilename       string          `json:"sourceFilename"`
	StatementFingerprint string          `json:"statementFingerprint"`
	Meta                 StatementMeta   `json:"meta"`
	Entries              []BankEntry     `json:"entries"`
	Matches              []Match         `json:"matches"`
	Status               SessionStatus   `json:"status"`
	MatchedCount         int             `json:"matchedCount"`
	UnmatchedCount       int             `json:"unmatchedCount"`
	CompletedAt          *time.Time      `json:"completedAt,omitempty"`
	Version              int             `json:"version"`
	AuditFields
}

// NewReconciliationSession builds an in-progress session over the parsed entries.
func NewReconciliationSession(sessionID, workplaceID, accountID string, statementDate time.Time,
	opening, closing decimal.Decimal, entries []BankEntry, userID string, now time.Time) (*ReconciliationSession, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: statement has no entries", apperrors.ErrValidation)
	}
	s := &ReconciliationSession{
		SessionID:      sessionID,
		WorkplaceID:    workplaceID,
		AccountID:      accountID,
		StatementDate:  statementDate,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Entries:        entries,
		Matches:        []Match{},
		Status:         SessionInProgress,
		Version:        1,
		AuditFields:    NewAuditFields(userID, now),
	}
	s.Recount()
	return s, nil
}

// EnsureMutable returns ErrInvalidState unless the session is in progress.
func (s *ReconciliationSession) EnsureMutable() error {
	if s.Status != SessionInProgress {
		return fmt.Errorf("%w: session %s is %s", apperrors.ErrInvalidState, s.SessionID, s.Status)
	}
	return nil
}

// EnsureDeletable returns ErrInvalidState for completed sessions.
func (s *ReconciliationSession) EnsureDeletable() error {
	if s.Status == SessionCompleted {
		return fmt.Errorf("%w: completed session %s cannot be deleted", apperrors.ErrInvalidState, s.SessionID)
	}
	return nil
}

// FindEntry returns the bank entry with the given ID.
func (s *ReconciliationSession) FindEntry(entryID string) (BankEntry, bool) {
	for _, e := range s.Entries {
		if e.EntryID == entryID {
			return e, true
		}
	}
	return BankEntry{}, false
}

// MatchForEntry returns the active match of a bank entry, if any.
func (s *ReconciliationSession) MatchForEntry(entryID string) (Match, bool) {
	for _, m := range s.Matches {
		if m.BankEntryID == entryID {
			return m, true
		}
	}
	return Match{}, false
}

// MatchByID looks up an active match.
func (s *ReconciliationSession) MatchByID(matchID string) (Match, bool) {
	for _, m := range s.Matches {
		if m.MatchID == matchID {
			return m, true
		}
	}
	return Match{}, false
}

// IsTransactionMatched reports whether a ledger transaction is already claimed in this session.
func (s *ReconciliationSession) IsTransactionMatched(transactionID string) bool {
	for _, m := range s.Matches {
		if m.TransactionID != nil && *m.TransactionID == transactionID {
			return true
		}
	}
	return false
}

// AddMatch records m after checking the session state and both sides of the pairing.
func (s *ReconciliationSession) AddMatch(m Match) error {
	if err := s.EnsureMutable(); err != nil {
		return err
	}
	if _, ok := s.FindEntry(m.BankEntryID); !ok {
		return fmt.Errorf("%w: bank entry %s not in session %s", apperrors.ErrNotFound, m.BankEntryID, s.SessionID)
	}
	if existing, ok := s.MatchForEntry(m.BankEntryID); ok {
		return fmt.Errorf("%w: bank entry %s (match %s)", apperrors.ErrAlreadyMatched, m.BankEntryID, existing.MatchID)
	}
	if m.TransactionID != nil && s.IsTransactionMatched(*m.TransactionID) {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyMatched, *m.TransactionID)
	}
	m.SessionID = s.SessionID
	s.Matches = append(s.Matches, m)
	s.Recount()
	return nil
}

// RemoveMatch drops an active match and returns it, putting its bank entry back in the unmatched pool.
func (s *ReconciliationSession) RemoveMatch(matchID string) (Match, error) {
	if err := s.EnsureMutable(); err != nil {
		return Match{}, err
	}
	for i, m := range s.Matches {
		if m.MatchID == matchID {
			s.Matches = append(s.Matches[:i:i], s.Matches[i+1:]...)
			s.Recount()
			return m, nil
		}
	}
	return Match{}, fmt.Errorf("%w: match %s not in session %s", apperrors.ErrNotFound, matchID, s.SessionID)
}

// Complete moves the session to its terminal state.
func (s *ReconciliationSession) Complete(userID string, now time.Time) error {
	if err := s.EnsureMutable(); err != nil {
		return err
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
	s.Touch(userID, now)
	return nil
}

// Recount refreshes MatchedCount and UnmatchedCount from Entries and Matches.
func (s *ReconciliationSession) Recount() {
	s.MatchedCount = len(s.Matches)
	s.UnmatchedCount = len(s.Entries) - len(s.Matches)
}

// UnmatchedEntries returns entries without an active match, in statement order.
func (s *ReconciliationSession) UnmatchedEntries() []BankEntry {
	matched := make(map[string]struct{}, len(s.Matches))
	for _, m := range s.Matches {
		matched[m.BankEntryID] = struct{}{}
	}
	out := make([]BankEntry, 0, len(s.Entries)-len(matched))
	for _, e := range s.Entries {
		if _, ok := matched[e.EntryID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// MatchedTransactionIDs lists the ledger transactions claimed by this session.
func (s *ReconciliationSession) MatchedTransactionIDs() []string {
	ids := make([]string, 0, len(s.Matches))
	for _, m := range s.Matches {
		if m.TransactionID != nil {
			ids = append(ids, *m.TransactionID)
		}
	}
	return ids
}

// PeriodBounds returns the earliest and latest entry dates.
func (s *ReconciliationSession) PeriodBounds() (time.Time, time.Time) {
	var from, to time.Time
	for i, e := range s.Entries {
		if i == 0 || e.Date.Before(from) {
			from = e.Date
		}
		if i == 0 || e.Date.After(to) {
			to = e.Date
		}
	}
	return from, to
}
