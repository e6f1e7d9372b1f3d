package models

import "time"

// Permission represents a specific permission in the authorization system.
// Permissions are seeded from a static catalog and assigned to roles, which are then assigned to users.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique permission identifier (e.g., "view_staff", "approve_time_off").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Resource is the noun this permission gates (e.g., "staff", "payroll").
	// It references Resource.Slug.
	Resource string `gorm:"size:100;not null;index" json:"resource"`
	// Action is the verb allowed on the resource (e.g., "view", "create", "approve_time_off").
	Action string `gorm:"size:50;not null" json:"action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description"`
	// SortOrder orders permissions inside their resource group.
	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
