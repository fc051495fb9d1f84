package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation/internal/models"
	"github.com/SscSPs/bank_reconciliation/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository reads posted transaction lines through the ledger_transactions view.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerSelectQuery = `
SELECT transaction_id, journal_id, workplace_id, account_id, account_type, transaction_type,
       amount, transaction_date, description, notes, is_reconciled
FROM ledger_transactions
`

func (r *PgxLedgerRepository) ListCandidateTransactions(ctx context.Context, workplaceID, accountID string, from, to time.Time) ([]domain.LedgerTransaction, error) {
	query := ledgerSelectQuery + `
		WHERE workplace_id = $1 AND account_id = $2 AND NOT is_reconciled
		  AND transaction_date BETWEEN $3::date AND $4::date
		ORDER BY transaction_date, transaction_id;
	`
	return r.collect(ctx, query, workplaceID, accountID, from, to)
}

func (r *PgxLedgerRepository) FindLedgerTransactionsByIDs(ctx context.Context, workplaceID string, transactionIDs []string) (map[string]domain.LedgerTransaction, error) {
	out := make(map[string]domain.LedgerTransaction, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}
	query := ledgerSelectQuery + `WHERE workplace_id = $1 AND transaction_id = ANY($2);`
	txns, err := r.collect(ctx, query, workplaceID, transactionIDs)
	if err != nil {
		return nil, err
	}
	for _, t := range txns {
		out[t.TransactionID] = t
	}
	return out, nil
}

func (r *PgxLedgerRepository) collect(ctx context.Context, query string, args ...any) ([]domain.LedgerTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger transactions", err)
	}
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerTransaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect ledger transaction rows", err)
	}

	txns := make([]domain.LedgerTransaction, 0, len(modelTxns))
	for _, m := range modelTxns {
		t, err := mapping.ToDomainLedgerTransaction(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to sign ledger transaction "+m.TransactionID, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}
