package models

import "time"

// Hierarchy levels of the canonical system roles. Lower means more privileged,
// by convention only: a level never grants permissions on its own.
const (
	LevelAdmin   = 1
	LevelOrg     = 2
	LevelCompany = 3
	LevelHR      = 4
	LevelUser    = 5

	// LevelCustomDefault is used for custom roles created without an explicit level.
	LevelCustomDefault = 99
	// LevelMin and LevelMax bound any hierarchy level.
	LevelMin = 1
	LevelMax = 99
)

// Role represents a role in the role-based access control (RBAC) system.
// Roles are collections of permissions that can be assigned to users.
// Examples include the "admin", "hr" and "user" system roles or a custom "auditor" role.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "admin", "user"). Compared case-sensitively.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// Icon is the name of the icon shown by the role management screen.
	Icon string `gorm:"size:100" json:"icon"`
	// HierarchyLevel ranks the role, 1 being the most privileged.
	HierarchyLevel int `gorm:"not null;default:99" json:"hierarchy_level"`
	// IsSystem indicates a built-in role that cannot be deleted, renamed or re-leveled.
	IsSystem bool `gorm:"default:false" json:"is_system"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

// IsAdminTier reports whether holders of this role bypass tenant scoping.
// Only system roles qualify, a custom role at level 1 stays tenant-scoped.
func (r Role) IsAdminTier() bool {
	return r.IsSystem && r.HierarchyLevel == LevelAdmin
}
