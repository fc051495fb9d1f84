package domain

import "time"

// AuditAction names an auditable reconciliation event.
type AuditAction string

const (
	AuditSessionCreated   AuditAction = "reconciliation.session_created"
	AuditAutoMatched      AuditAction = "reconciliation.auto_matched"
	AuditMatched          AuditAction = "reconciliation.matched"
	AuditUnmatched        AuditAction = "reconciliation.unmatched"
	AuditSessionCompleted AuditAction = "reconciliation.session_completed"
	AuditSessionDeleted   AuditAction = "reconciliation.session_deleted"
)

// AuditEvent is an append-only record of a mutation made by the reconciliation engine.
type AuditEvent struct {
	EventID     string         `json:"eventID"`
	WorkplaceID string         `json:"workplaceID"`
	SessionID   string         `json:"sessionID"`
	Action      AuditAction    `json:"action"`
	ActorID     string         `json:"actorID"`
	Details     map[string]any `json:"details,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}
