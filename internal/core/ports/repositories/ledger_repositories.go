package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
)

// LedgerReader is the read-only view of posted ledger transactions used for matching.
type LedgerReader interface {
	// ListCandidateTransactions returns unreconciled transactions of an account dated within [from, to].
	ListCandidateTransactions(ctx context.Context, workplaceID, accountID string, from, to time.Time) ([]domain.LedgerTransaction, error)

	// FindLedgerTransactionsByIDs returns the transactions found, keyed by ID. Missing IDs are omitted.
	FindLedgerTransactionsByIDs(ctx context.Context, workplaceID string, transactionIDs []string) (map[string]domain.LedgerTransaction, error)
}

// LedgerRepositoryFacade is what services depend on for ledger data.
type LedgerRepositoryFacade interface {
	LedgerReader
}
