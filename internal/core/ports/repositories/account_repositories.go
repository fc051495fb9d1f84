package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountRepositoryFacade is what services depend on for accounts.
type AccountRepositoryFacade interface {
	AccountReader
}
