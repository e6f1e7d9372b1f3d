package models

import "time"

// Organization is the top level tenant.
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;size:150;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Organization model.
func (Organization) TableName() string {
	return "organizations"
}

// Company belongs to exactly one organization.
type Company struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	OrgID        uint         `gorm:"not null;index" json:"org_id"`
	Organization Organization `gorm:"foreignKey:OrgID;constraint:OnDelete:CASCADE" json:"-"`
	Name         string       `gorm:"size:150;not null" json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the database table name for the Company model.
func (Company) TableName() string {
	return "companies"
}
