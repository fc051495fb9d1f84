package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	"github.com/SscSPs/bank_reconciliation/internal/dto"
)

// ReconciliationReaderSvc defines read operations over reconciliation sessions
type ReconciliationReaderSvc interface {
	// GetSession retrieves a session with its entries and matches.
	GetSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationSession, error)

	// ListSessions retrieves a page of sessions and the token for the next page.
	ListSessions(ctx context.Context, workplaceID, userID string, params dto.ListSessionsParams) ([]domain.ReconciliationSession, *string, error)

	// GetSuggestions ranks candidates for every unmatched entry without changing the session.
	GetSuggestions(ctx context.Context, workplaceID, sessionID, userID string) ([]matching.Decision, error)

	// GetReport builds the report of a session in any status.
	GetReport(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error)
}

// ReconciliationWriterSvc defines the operations that change a session
type ReconciliationWriterSvc interface {
	// UploadStatement parses a statement file and opens a session for it, optionally auto-matching.
	UploadStatement(ctx context.Context, workplaceID, userID string, req dto.UploadStatementRequest) (*dto.UploadStatementResult, error)

	// CreateSession opens a session for already parsed entries.
	CreateSession(ctx context.Context, workplaceID, userID string, req dto.CreateSessionRequest) (*domain.ReconciliationSession, error)

	// AutoMatch confirms every unambiguous pairing at or above threshold (nil uses the configured one).
	AutoMatch(ctx context.Context, workplaceID, sessionID, userID string, threshold *float64) (*domain.ReconciliationSession, []domain.Match, error)

	// Match confirms a manual pairing of a bank entry with a ledger transaction.
	Match(ctx context.Context, workplaceID, sessionID, userID, bankEntryID, transactionID string) (*domain.Match, error)

	// MatchBankOnly resolves a bank entry that has no ledger counterpart.
	MatchBankOnly(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.Match, error)

	// Unmatch removes a match, releasing its transaction.
	Unmatch(ctx context.Context, workplaceID, sessionID, userID, matchID string) (*domain.ReconciliationSession, error)

	// UnmatchEntry removes the match of a bank entry.
	UnmatchEntry(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.ReconciliationSession, error)

	// CompleteSession freezes the session and returns its final report.
	CompleteSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error)

	// DeleteSession discards an in-progress session.
	DeleteSession(ctx context.Context, workplaceID, sessionID, userID string) error
}

// ReconciliationSvcFacade combines all reconciliation service interfaces
type ReconciliationSvcFacade interface {
	ReconciliationReaderSvc
	ReconciliationWriterSvc
}
