package models

import "time"

// Workplace is a row of the workplaces table.
type Workplace struct {
	WorkplaceID string `db:"workplace_id"`
	Name        string `db:"name"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// UserWorkplace is a row of user_workplaces.
type UserWorkplace struct {
	UserID      string    `db:"user_id"`
	WorkplaceID string    `db:"workplace_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
