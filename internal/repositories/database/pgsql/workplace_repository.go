package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation/internal/models"
	"github.com/SscSPs/bank_reconciliation/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkplaceRepository struct {
	BaseRepository
}

// newPgxWorkplaceRepository creates a new repository for workplace data.
func newPgxWorkplaceRepository(pool *pgxpool.Pool) portsrepo.WorkplaceRepositoryFacade {
	return &PgxWorkplaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkplaceRepository implements portsrepo.WorkplaceRepositoryFacade
var _ portsrepo.WorkplaceRepositoryFacade = (*PgxWorkplaceRepository)(nil)

var fullWorkplaceSelectQuery = `
SELECT
	w.workplace_id, w.name, w.is_active,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM workplaces w
`

func (r *PgxWorkplaceRepository) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	rows, err := r.Pool.Query(ctx, fullWorkplaceSelectQuery+`WHERE w.workplace_id = $1`, workplaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workplace "+workplaceID, err)
	}
	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Workplace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect workplace row", err)
	}
	workplace := mapping.ToDomainWorkplace(model)
	return &workplace, nil
}

// FindUserWorkplaceRole returns ErrNotFound when the user is not a member.
func (r *PgxWorkplaceRepository) FindUserWorkplaceRole(ctx context.Context, userID, workplaceID string) (*domain.UserWorkplace, error) {
	query := `
		SELECT user_id, workplace_id, role, joined_at
		FROM user_workplaces
		WHERE user_id = $1 AND workplace_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, workplaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query membership of user "+userID, err)
	}
	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.UserWorkplace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect membership row", err)
	}
	membership := mapping.ToDomainUserWorkplace(model)
	return &membership, nil
}
