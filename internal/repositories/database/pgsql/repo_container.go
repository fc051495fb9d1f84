package pgsql

import (
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		WorkplaceRepo:      newPgxWorkplaceRepository(dbPool),
		LedgerRepo:         newPgxLedgerRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		AuditRepo:          newPgxAuditRepository(dbPool),
	}
}
