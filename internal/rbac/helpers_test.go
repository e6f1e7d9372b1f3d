package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	hrmsdb "github.com/hrmsuite/hrms/internal/db"
	"github.com/hrmsuite/hrms/internal/db/models"
)

// setupTestDB creates a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := hrmsdb.OpenMemory()
	require.NoError(t, err, "failed to create test database")

	return db
}

// setupSeededDB creates a database holding the full catalog.
func setupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := setupTestDB(t)

	_, err := Seed(context.Background(), db)
	require.NoError(t, err, "failed to seed test database")

	return db
}

func rolePermissionNames(t *testing.T, db *gorm.DB, roleName string) []string {
	t.Helper()

	var names []string

	err := db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.name = ?", roleName).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	require.NoError(t, err)

	return names
}

func mustRole(t *testing.T, db *gorm.DB, name string) models.Role {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("name = ?", name).First(&role).Error)

	return role
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", Active: true}
	require.NoError(t, db.Create(&user).Error)

	return user
}
