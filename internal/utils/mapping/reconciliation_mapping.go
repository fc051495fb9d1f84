package mapping

import (
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/models"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// ToModelBankEntries converts entries to their JSONB shape
func ToModelBankEntries(ds []domain.BankEntry) []models.BankEntry {
	ms := make([]models.BankEntry, len(ds))
	for i, d := range ds {
		ms[i] = models.BankEntry{
			EntryID:     d.EntryID,
			Date:        d.Date.Format(dateLayout),
			Description: d.Description,
			Amount:      d.Amount,
			Reference:   d.Reference,
			RawRow:      d.RawRow,
			Line:        d.Line,
		}
	}
	return ms
}

// ToDomainBankEntries converts stored entries back. Entries were validated on upload,
// so an unreadable date can only come from a damaged row and is left zero.
func ToDomainBankEntries(ms []models.BankEntry) []domain.BankEntry {
	ds := make([]domain.BankEntry, len(ms))
	for i, m := range ms {
		var date time.Time
		if t := parseDate(m.Date); t != nil {
			date = *t
		}
		ds[i] = domain.BankEntry{
			EntryID:     m.EntryID,
			Date:        date,
			Description: m.Description,
			Amount:      m.Amount,
			Reference:   m.Reference,
			RawRow:      m.RawRow,
			Line:        m.Line,
		}
	}
	return ds
}

// ToModelStatementMeta converts statement metadata to its JSONB shape
func ToModelStatementMeta(d domain.StatementMeta) models.StatementMeta {
	return models.StatementMeta{
		Currency:       d.Currency,
		PeriodStart:    formatDate(d.PeriodStart),
		PeriodEnd:      formatDate(d.PeriodEnd),
		LedgerBalance:  d.LedgerBalance,
		BalanceAsOf:    formatDate(d.BalanceAsOf),
		BankAccountRef: d.BankAccountRef,
	}
}

// ToDomainStatementMeta converts stored metadata back
func ToDomainStatementMeta(m models.StatementMeta) domain.StatementMeta {
	return domain.StatementMeta{
		Currency:       m.Currency,
		PeriodStart:    parseDate(m.PeriodStart),
		PeriodEnd:      parseDate(m.PeriodEnd),
		LedgerBalance:  m.LedgerBalance,
		BalanceAsOf:    parseDate(m.BalanceAsOf),
		BankAccountRef: m.BankAccountRef,
	}
}

// ToModelReconciliationSession converts a domain session to its row. Matches are stored separately.
func ToModelReconciliationSession(d domain.ReconciliationSession) models.ReconciliationSession {
	return models.ReconciliationSession{
		SessionID:            d.SessionID,
		WorkplaceID:          d.WorkplaceID,
		AccountID:            d.AccountID,
		StatementDate:        d.StatementDate,
		OpeningBalance:       d.OpeningBalance,
		ClosingBalance:       d.ClosingBalance,
		SourceFilename:       d.SourceFilename,
		StatementFingerprint: d.StatementFingerprint,
		Meta:                 ToModelStatementMeta(d.Meta),
		Entries:              ToModelBankEntries(d.Entries),
		Status:               string(d.Status),
		MatchedCount:         d.MatchedCount,
		UnmatchedCount:       d.UnmatchedCount,
		CompletedAt:          d.CompletedAt,
		Version:              d.Version,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationSession converts a session row and its match rows
func ToDomainReconciliationSession(m models.ReconciliationSession, matches []models.ReconciliationMatch) domain.ReconciliationSession {
	return domain.ReconciliationSession{
		SessionID:            m.SessionID,
		WorkplaceID:          m.WorkplaceID,
		AccountID:            m.AccountID,
		StatementDate:        m.StatementDate,
		OpeningBalance:       m.OpeningBalance,
		ClosingBalance:       m.ClosingBalance,
		SourceFilename:       m.SourceFilename,
		StatementFingerprint: m.StatementFingerprint,
		Meta:                 ToDomainStatementMeta(m.Meta),
		Entries:              ToDomainBankEntries(m.Entries),
		Matches:              ToDomainMatches(matches),
		Status:               domain.SessionStatus(m.Status),
		MatchedCount:         m.MatchedCount,
		UnmatchedCount:       m.UnmatchedCount,
		CompletedAt:          m.CompletedAt,
		Version:              m.Version,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMatch converts a domain Match to a model ReconciliationMatch
func ToModelMatch(d domain.Match) models.ReconciliationMatch {
	return models.ReconciliationMatch{
		MatchID:       d.MatchID,
		SessionID:     d.SessionID,
		BankEntryID:   d.BankEntryID,
		TransactionID: d.TransactionID,
		Confidence:    d.Confidence,
		MatchType:     string(d.MatchType),
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainMatches converts match rows, never returning nil
func ToDomainMatches(ms []models.ReconciliationMatch) []domain.Match {
	ds := make([]domain.Match, len(ms))
	for i, m := range ms {
		ds[i] = domain.Match{
			MatchID:       m.MatchID,
			SessionID:     m.SessionID,
			BankEntryID:   m.BankEntryID,
			TransactionID: m.TransactionID,
			Confidence:    m.Confidence,
			MatchType:     domain.MatchType(m.MatchType),
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		}
	}
	return ds
}

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		EventID:     d.EventID,
		WorkplaceID: d.WorkplaceID,
		SessionID:   d.SessionID,
		Action:      string(d.Action),
		ActorID:     d.ActorID,
		Details:     d.Details,
		OccurredAt:  d.OccurredAt,
	}
}
