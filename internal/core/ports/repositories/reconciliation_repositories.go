package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
)

// SessionChange describes one mutation of a persisted session. The write only
// applies if the stored session still has ExpectedStatus and ExpectedVersion.
type SessionChange struct {
	ExpectedStatus  domain.SessionStatus
	ExpectedVersion int
	AddedMatches    []domain.Match
	RemovedMatches  []domain.Match
}

// ReconciliationSessionReader defines read operations for reconciliation sessions
type ReconciliationSessionReader interface {
	// FindSessionByID retrieves a session with its entries and active matches.
	FindSessionByID(ctx context.Context, workplaceID, sessionID string) (*domain.ReconciliationSession, error)

	// ListSessions retrieves sessions of a workplace, newest first, using token-based pagination.
	// accountID is optional. It returns the sessions, a token for the next page, and an error.
	ListSessions(ctx context.Context, workplaceID string, accountID *string, limit int, nextToken *string) ([]domain.ReconciliationSession, *string, error)

	// FindSessionByFingerprint retrieves the session created from identical statement bytes for the account, if any.
	FindSessionByFingerprint(ctx context.Context, workplaceID, accountID, fingerprint string) (*domain.ReconciliationSession, error)
}

// ReconciliationSessionWriter defines write operations for reconciliation sessions.
// Each call is atomic: session row, match rows and the ledger's reconciled flags change together.
type ReconciliationSessionWriter interface {
	// SaveSession persists a new session and its initial matches, claiming their ledger transactions.
	SaveSession(ctx context.Context, session domain.ReconciliationSession) error

	// UpdateSession applies change and stores the session with its version bumped.
	// Returns apperrors.ErrConflict if the stored status or version moved, and
	// apperrors.ErrAlreadyMatched if an added match claims a transaction that is already reconciled.
	UpdateSession(ctx context.Context, session domain.ReconciliationSession, change SessionChange) error

	// DeleteSession removes an in-progress session and releases every transaction it claimed.
	DeleteSession(ctx context.Context, session domain.ReconciliationSession) error
}

// ReconciliationRepositoryFacade combines all reconciliation-related repository interfaces
type ReconciliationRepositoryFacade interface {
	ReconciliationSessionReader
	ReconciliationSessionWriter
}
