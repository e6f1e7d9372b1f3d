package models

import "time"

// Staff is an employee record. It is tenant-scoped: rows with a nil OrgID are global.
type Staff struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	OrgID          *uint      `gorm:"index" json:"org_id"`
	CompanyID      *uint      `gorm:"index" json:"company_id"`
	UserID         *uint64    `gorm:"index" json:"user_id"`
	EmployeeNumber string     `gorm:"size:50" json:"employee_number"`
	FirstName      string     `gorm:"size:100;not null" json:"first_name"`
	LastName       string     `gorm:"size:100;not null" json:"last_name"`
	Email          string     `gorm:"size:255" json:"email"`
	Position       string     `gorm:"size:150" json:"position"`
	HiredAt        *time.Time `json:"hired_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the database table name for the Staff model.
func (Staff) TableName() string {
	return "staff"
}
