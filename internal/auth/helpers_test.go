package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	hrmsdb "github.com/hrmsuite/hrms/internal/db"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
)

func setupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := hrmsdb.OpenMemory()
	require.NoError(t, err, "failed to create test database")

	_, err = rbac.Seed(context.Background(), db)
	require.NoError(t, err, "failed to seed test database")

	return db
}

func uintPtr(v uint) *uint { return &v }

// createUserWithRoles creates an active user holding the named roles.
func createUserWithRoles(t *testing.T, db *gorm.DB, username string, orgID, companyID *uint, roles ...string) models.User {
	t.Helper()

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Active:    true,
		OrgID:     orgID,
		CompanyID: companyID,
	}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, rbac.NewRoleService(db).AssignToUser(context.Background(), user.ID, roles, 0))

	return user
}

// createRole creates a custom role holding exactly permissions.
func createRole(t *testing.T, db *gorm.DB, name string, level int, permissions ...string) models.Role {
	t.Helper()

	ctx := context.Background()
	svc := rbac.NewRoleService(db)

	role, err := svc.Create(ctx, rbac.RoleInput{Name: name, HierarchyLevel: level})
	require.NoError(t, err)
	require.NoError(t, svc.SyncPermissions(ctx, role.ID, permissions))

	return *role
}

func loadPrincipal(t *testing.T, db *gorm.DB, userID uint64) *Principal {
	t.Helper()

	p, err := NewService(db).LoadPrincipal(context.Background(), userID)
	require.NoError(t, err)

	return p
}
