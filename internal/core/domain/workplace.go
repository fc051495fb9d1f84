package domain

import "time"

// Workplace is the tenant boundary. Every account, ledger transaction and
// reconciliation session belongs to exactly one workplace.
type Workplace struct {
	WorkplaceID string `json:"workplaceID"` // Primary Key (e.g., UUID)
	Name        string `json:"name"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// UserWorkplaceRole defines the possible roles a user can have within a workplace.
type UserWorkplaceRole string

const (
	RoleAdmin    UserWorkplaceRole = "ADMIN"
	RoleMember   UserWorkplaceRole = "MEMBER"
	RoleReadOnly UserWorkplaceRole = "READONLY" // Users with read-only access to workplace data
	RoleRemoved  UserWorkplaceRole = "REMOVED"  // For users who have been removed from the workplace
)

// UserWorkplace represents the membership of a User in a Workplace.
type UserWorkplace struct {
	UserID      string            `json:"userID"`      // FK -> users.user_id
	WorkplaceID string            `json:"workplaceID"` // FK -> workplaces.workplace_id
	Role        UserWorkplaceRole `json:"role"`        // Role of the user in this specific workplace
	JoinedAt    time.Time         `json:"joinedAt"`
}
