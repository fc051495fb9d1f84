package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation/internal/utils"
)

// AuditSink receives audit events of reconciliation mutations.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// auditSink stores events and mirrors them to product analytics when configured.
type auditSink struct {
	repo    portsrepo.AuditEventWriter
	posthog *utils.PosthogClientWrapper
}

// NewAuditSink creates an AuditSink. Either argument may be nil.
func NewAuditSink(repo portsrepo.AuditEventWriter, posthogClient *utils.PosthogClientWrapper) AuditSink {
	return &auditSink{repo: repo, posthog: posthogClient}
}

func (a *auditSink) Record(ctx context.Context, event domain.AuditEvent) error {
	if a.posthog.IsInitialized() {
		props := make(map[string]any, len(event.Details)+2)
		for k, v := range event.Details {
			props[k] = v
		}
		props["workplace_id"] = event.WorkplaceID
		props["session_id"] = event.SessionID
		a.posthog.Enqueue(event.ActorID, string(event.Action), props)
	}
	if a.repo == nil {
		return nil
	}
	if err := a.repo.SaveAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("saving audit event %s: %w", event.Action, err)
	}
	return nil
}
