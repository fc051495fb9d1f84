package domain

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newTestSession(t *testing.T) *ReconciliationSession {
	t.Helper()
	entries := []BankEntry{
		{EntryID: "e1", Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Description: "Microsoft 365", Amount: decimal.RequireFromString("-299.99")},
		{EntryID: "e2", Date: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), Description: "Client deposit", Amount: decimal.RequireFromString("750.00")},
		{EntryID: "e3", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Description: "Bank fee", Amount: decimal.RequireFromString("-5.00")},
	}
	s, err := NewReconciliationSession("s1", "w1", "a1", testNow, decimal.NewFromInt(1000), decimal.NewFromInt(1445),
		entries, "u1", testNow)
	require.NoError(t, err)
	return s
}

func TestNewReconciliationSession(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, SessionInProgress, s.Status)
	assert.Equal(t, 0, s.MatchedCount)
	assert.Equal(t, 3, s.UnmatchedCount)
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "u1", s.CreatedBy)

	_, err := NewReconciliationSession("s2", "w1", "a1", testNow, decimal.Zero, decimal.Zero, nil, "u1", testNow)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAddMatch_ConservesEntries(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.AddMatch(Match{MatchID: "m1", BankEntryID: "e1", TransactionID: strPtr("t1"), MatchType: MatchAuto}))
	require.NoError(t, s.AddMatch(Match{MatchID: "m2", BankEntryID: "e3", MatchType: MatchManual}))

	assert.Equal(t, 2, s.MatchedCount)
	assert.Equal(t, 1, s.UnmatchedCount)
	assert.Equal(t, len(s.Entries), s.MatchedCount+s.UnmatchedCount)
	assert.Equal(t, "s1", s.Matches[0].SessionID)
	assert.Equal(t, []string{"t1"}, s.MatchedTransactionIDs())

	unmatched := s.UnmatchedEntries()
	require.Len(t, unmatched, 1)
	assert.Equal(t, "e2", unmatched[0].EntryID)
}

func TestAddMatch_RejectsDoubleMatching(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddMatch(Match{MatchID: "m1", BankEntryID: "e1", TransactionID: strPtr("t1")}))

	err := s.AddMatch(Match{MatchID: "m2", BankEntryID: "e1", TransactionID: strPtr("t2")})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMatched)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = s.AddMatch(Match{MatchID: "m3", BankEntryID: "e2", TransactionID: strPtr("t1")})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMatched)

	err = s.AddMatch(Match{MatchID: "m4", BankEntryID: "nope", TransactionID: strPtr("t9")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, 1, s.MatchedCount)
}

func TestRemoveMatch_RestoresState(t *testing.T) {
	s := newTestSession(t)
	before := s.UnmatchedCount

	require.NoError(t, s.AddMatch(Match{MatchID: "m1", BankEntryID: "e2", TransactionID: strPtr("t7")}))
	removed, err := s.RemoveMatch("m1")
	require.NoError(t, err)

	assert.Equal(t, "t7", *removed.TransactionID)
	assert.Equal(t, before, s.UnmatchedCount)
	assert.False(t, s.IsTransactionMatched("t7"))
	assert.Empty(t, s.Matches)

	_, err = s.RemoveMatch("m1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestComplete_IsTerminal(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddMatch(Match{MatchID: "m1", BankEntryID: "e1", TransactionID: strPtr("t1")}))

	later := testNow.Add(time.Hour)
	require.NoError(t, s.Complete("u2", later))
	assert.Equal(t, SessionCompleted, s.Status)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, later, *s.CompletedAt)
	assert.Equal(t, "u2", s.LastUpdatedBy)

	assert.ErrorIs(t, s.Complete("u2", later), apperrors.ErrInvalidState)
	assert.ErrorIs(t, s.AddMatch(Match{MatchID: "m2", BankEntryID: "e2"}), apperrors.ErrValidation)
	_, err := s.RemoveMatch("m1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.ErrorIs(t, s.EnsureDeletable(), apperrors.ErrInvalidState)
}

func TestPeriodBounds(t *testing.T) {
	s := newTestSession(t)
	from, to := s.PeriodBounds()
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), to)
}

func TestAccountIsReconcilable(t *testing.T) {
	assert.True(t, Account{AccountType: Asset, IsActive: true}.IsReconcilable())
	assert.True(t, Account{AccountType: Liability, IsActive: true}.IsReconcilable())
	assert.False(t, Account{AccountType: Expense, IsActive: true}.IsReconcilable())
	assert.False(t, Account{AccountType: Asset, IsActive: false}.IsReconcilable())
}

func TestSumEntries(t *testing.T) {
	s := newTestSession(t)
	assert.True(t, decimal.RequireFromString("445.01").Equal(SumEntries(s.Entries)))
}
