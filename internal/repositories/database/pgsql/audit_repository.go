package pgsql

import (
	"context"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditEventWriter {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditEventWriter = (*PgxAuditRepository)(nil)

// SaveAuditEvent appends one event. Events are never updated.
func (r *PgxAuditRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	if m.Details == nil {
		m.Details = map[string]any{}
	}
	query := `
		INSERT INTO audit_events (event_id, workplace_id, session_id, action, actor_id, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EventID,
		m.WorkplaceID,
		m.SessionID,
		m.Action,
		m.ActorID,
		m.Details,
		m.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save audit event "+m.EventID, err)
	}
	return nil
}
