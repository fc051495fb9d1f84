package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
)

// memoryStore keeps sessions and the ledger together so that claiming a
// transaction in a session flips the same is_reconciled flag the ledger reader sees.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.ReconciliationSession
	txns     map[string]domain.LedgerTransaction

	// beforeUpdate runs inside UpdateSession before the version check.
	beforeUpdate func(stored *domain.ReconciliationSession)
}

func newMemoryStore(txns ...domain.LedgerTransaction) *memoryStore {
	s := &memoryStore{
		sessions: map[string]domain.ReconciliationSession{},
		txns:     map[string]domain.LedgerTransaction{},
	}
	for _, t := range txns {
		s.txns[t.TransactionID] = t
	}
	return s
}

var (
	_ portsrepo.ReconciliationRepositoryFacade = (*memoryStore)(nil)
	_ portsrepo.LedgerReader                   = (*memoryStore)(nil)
)

func cloneSession(s domain.ReconciliationSession) domain.ReconciliationSession {
	s.Entries = append([]domain.BankEntry(nil), s.Entries...)
	s.Matches = append([]domain.Match{}, s.Matches...)
	return s
}

func (s *memoryStore) reconciled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txns[id].IsReconciled
}

func (s *memoryStore) FindSessionByID(_ context.Context, workplaceID, sessionID string) (*domain.ReconciliationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[sessionID]
	if !ok || stored.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	c := cloneSession(stored)
	return &c, nil
}

func (s *memoryStore) ListSessions(_ context.Context, workplaceID string, accountID *string, limit int, _ *string) ([]domain.ReconciliationSession, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReconciliationSession
	for _, stored := range s.sessions {
		if stored.WorkplaceID != workplaceID || (accountID != nil && stored.AccountID != *accountID) {
			continue
		}
		out = append(out, cloneSession(stored))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memoryStore) FindSessionByFingerprint(_ context.Context, workplaceID, accountID, fingerprint string) (*domain.ReconciliationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.sessions {
		if stored.WorkplaceID == workplaceID && stored.AccountID == accountID && stored.StatementFingerprint == fingerprint {
			c := cloneSession(stored)
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memoryStore) claim(matches []domain.Match) error {
	for _, m := range matches {
		if m.TransactionID == nil {
			continue
		}
		t, ok := s.txns[*m.TransactionID]
		if !ok {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, *m.TransactionID)
		}
		if t.IsReconciled {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyMatched, t.TransactionID)
		}
	}
	for _, m := range matches {
		if m.TransactionID != nil {
			t := s.txns[*m.TransactionID]
			t.IsReconciled = true
			s.txns[t.TransactionID] = t
		}
	}
	return nil
}

func (s *memoryStore) release(matches []domain.Match) {
	for _, m := range matches {
		if m.TransactionID != nil {
			t := s.txns[*m.TransactionID]
			t.IsReconciled = false
			s.txns[t.TransactionID] = t
		}
	}
}

func (s *memoryStore) SaveSession(_ context.Context, session domain.ReconciliationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.SessionID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := s.claim(session.Matches); err != nil {
		return err
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (s *memoryStore) UpdateSession(_ context.Context, session domain.ReconciliationSession, change portsrepo.SessionChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.SessionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if s.beforeUpdate != nil {
		s.beforeUpdate(&stored)
		s.sessions[session.SessionID] = stored
	}
	if stored.Status != change.ExpectedStatus || stored.Version != change.ExpectedVersion {
		return fmt.Errorf("%w: session %s changed", apperrors.ErrConflict, session.SessionID)
	}
	s.release(change.RemovedMatches)
	if err := s.claim(change.AddedMatches); err != nil {
		s.claimBack(change.RemovedMatches)
		return err
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

// claimBack undoes release after a failed update.
func (s *memoryStore) claimBack(matches []domain.Match) {
	for _, m := range matches {
		if m.TransactionID != nil {
			t := s.txns[*m.TransactionID]
			t.IsReconciled = true
			s.txns[t.TransactionID] = t
		}
	}
}

func (s *memoryStore) DeleteSession(_ context.Context, session domain.ReconciliationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.SessionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != domain.SessionInProgress {
		return apperrors.ErrConflict
	}
	s.release(stored.Matches)
	delete(s.sessions, session.SessionID)
	return nil
}

func (s *memoryStore) ListCandidateTransactions(_ context.Context, workplaceID, accountID string, from, to time.Time) ([]domain.LedgerTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerTransaction
	for _, t := range s.txns {
		if t.WorkplaceID != workplaceID || t.AccountID != accountID || t.IsReconciled {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

func (s *memoryStore) FindLedgerTransactionsByIDs(_ context.Context, workplaceID string, ids []string) (map[string]domain.LedgerTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.LedgerTransaction, len(ids))
	for _, id := range ids {
		if t, ok := s.txns[id]; ok && t.WorkplaceID == workplaceID {
			out[id] = t
		}
	}
	return out, nil
}
