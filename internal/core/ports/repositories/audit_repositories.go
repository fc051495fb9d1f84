package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
)

// AuditEventWriter appends audit events.
type AuditEventWriter interface {
	SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error
}
