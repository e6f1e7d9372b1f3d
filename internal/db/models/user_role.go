package models

import "time"

// UserRole represents the many-to-many relationship between users and roles.
// A user's effective permissions are the union over all of its roles.
type UserRole struct {
	// UserID is the ID of the user holding the role.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the assigned role.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the role was assigned (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
