// Package reporting derives reconciliation reports from session state.
package reporting

import (
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultBalanceEpsilon is the largest discrepancy still reported as balanced.
var DefaultBalanceEpsilon = decimal.NewFromFloat(0.005)

// Generate builds the report for a session in either state. linked holds the
// ledger transactions referenced by the session's matches, keyed by ID; missing
// entries simply leave MatchedEntry.Transaction nil. Output depends only on the inputs.
func Generate(session *domain.ReconciliationSession, linked map[string]domain.LedgerTransaction, epsilon decimal.Decimal) domain.ReconciliationReport {
	matchByEntry := make(map[string]domain.Match, len(session.Matches))
	for _, m := range session.Matches {
		matchByEntry[m.BankEntryID] = m
	}

	rep := domain.ReconciliationReport{
		SessionID:        session.SessionID,
		WorkplaceID:      session.WorkplaceID,
		AccountID:        session.AccountID,
		Status:           session.Status,
		StatementDate:    session.StatementDate,
		CompletedAt:      session.CompletedAt,
		OpeningBalance:   session.OpeningBalance,
		ClosingBalance:   session.ClosingBalance,
		StatementTotal:   decimal.Zero,
		MatchedTotal:     decimal.Zero,
		UnmatchedTotal:   decimal.Zero,
		TotalEntries:     len(session.Entries),
		MatchedEntries:   []domain.MatchedEntry{},
		UnmatchedEntries: []domain.BankEntry{},
	}

	for _, e := range session.Entries {
		rep.StatementTotal = rep.StatementTotal.Add(e.Amount)
		m, ok := matchByEntry[e.EntryID]
		if !ok {
			rep.UnmatchedTotal = rep.UnmatchedTotal.Add(e.Amount)
			rep.UnmatchedEntries = append(rep.UnmatchedEntries, e)
			continue
		}

		rep.MatchedTotal = rep.MatchedTotal.Add(e.Amount)
		me := domain.MatchedEntry{Entry: e, Match: m}
		if m.TransactionID != nil {
			if txn, found := linked[*m.TransactionID]; found {
				me.Transaction = &txn
			}
		} else {
			rep.BankOnlyCount++
		}
		switch m.MatchType {
		case domain.MatchAuto:
			rep.AutoMatchCount++
		case domain.MatchManual:
			rep.ManualMatchCount++
		}
		rep.MatchedEntries = append(rep.MatchedEntries, me)
	}

	rep.MatchedCount = len(rep.MatchedEntries)
	rep.UnmatchedCount = len(rep.UnmatchedEntries)
	rep.ExpectedClosing = rep.OpeningBalance.Add(rep.MatchedTotal)
	rep.BalanceDiscrepancy = Discrepancy(rep.OpeningBalance, rep.MatchedTotal, rep.ClosingBalance, epsilon)
	rep.IsBalanced = rep.BalanceDiscrepancy.IsZero()
	return rep
}

// Discrepancy is closing - (opening + matched), or zero when its magnitude is within epsilon.
func Discrepancy(opening, matched, closing, epsilon decimal.Decimal) decimal.Decimal {
	d := closing.Sub(opening.Add(matched))
	if d.Abs().LessThanOrEqual(epsilon) {
		return decimal.Zero
	}
	return d
}
