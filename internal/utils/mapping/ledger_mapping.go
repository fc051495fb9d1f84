package mapping

import (
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/models"
	"github.com/SscSPs/bank_reconciliation/internal/utils/accounting"
)

// ToDomainLedgerTransaction converts a ledger view row, signing the amount as the bank statement shows it.
// Notes are used when the journal carries no description.
func ToDomainLedgerTransaction(m models.LedgerTransaction) (domain.LedgerTransaction, error) {
	amount, err := accounting.StatementSignedAmount(m.Amount,
		domain.TransactionType(m.TransactionType), domain.AccountType(m.AccountType))
	if err != nil {
		return domain.LedgerTransaction{}, err
	}
	description := m.Description
	if description == "" {
		description = m.Notes
	}
	return domain.LedgerTransaction{
		TransactionID: m.TransactionID,
		JournalID:     m.JournalID,
		WorkplaceID:   m.WorkplaceID,
		AccountID:     m.AccountID,
		Date:          calendarDate(m.TransactionDate),
		Description:   description,
		Amount:        amount,
		IsReconciled:  m.IsReconciled,
	}, nil
}

// calendarDate keeps the date as read. transaction_date is already a DATE in the
// workplace's zone, so converting to UTC first could shift it by a day.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
