package models

import "time"

// Resource carries the display metadata of a permission group.
type Resource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"unique;size:100;not null" json:"slug"`
	Icon        string    `gorm:"size:100" json:"icon"`
	Description string    `gorm:"size:255" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Resource model.
func (Resource) TableName() string {
	return "resources"
}
