package rbac

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrmsuite/hrms/internal/db/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	first, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(Permissions), first.PermissionsCreated)
	assert.Equal(t, len(SystemRoles)+len(LegacyAliases), first.RolesCreated)
	assert.Equal(t, len(LegacyAliases), first.AliasesCopied)

	type idName struct {
		ID   uint
		Name string
	}

	var (
		permsBefore []models.Permission
		rolesBefore []idName
	)

	require.NoError(t, db.Order("id").Find(&permsBefore).Error)
	require.NoError(t, db.Table("roles").Select("id, name").Order("id").Scan(&rolesBefore).Error)

	var linksBefore int64
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&linksBefore).Error)

	second, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, second.PermissionsCreated)
	assert.Zero(t, second.PermissionsUpdated)
	assert.Zero(t, second.RolesCreated)
	assert.Zero(t, second.AliasesCopied)

	var (
		permsAfter []models.Permission
		rolesAfter []idName
	)

	require.NoError(t, db.Order("id").Find(&permsAfter).Error)
	require.NoError(t, db.Table("roles").Select("id, name").Order("id").Scan(&rolesAfter).Error)

	var linksAfter int64
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&linksAfter).Error)

	require.Len(t, permsAfter, len(permsBefore))

	for i := range permsBefore {
		assert.Equal(t, permsBefore[i].ID, permsAfter[i].ID)
		assert.Equal(t, permsBefore[i].Name, permsAfter[i].Name)
	}

	assert.Equal(t, rolesBefore, rolesAfter)
	assert.Equal(t, linksBefore, linksAfter)
}

func TestSeedSystemRoles(t *testing.T) {
	db := setupSeededDB(t)

	levels := map[string]int{
		RoleAdmin: 1, RoleOrg: 2, RoleCompany: 3, RoleHR: 4, RoleUser: 5,
	}

	for name, level := range levels {
		role := mustRole(t, db, name)
		assert.True(t, role.IsSystem, name)
		assert.Equal(t, level, role.HierarchyLevel, name)
	}

	assert.Len(t, rolePermissionNames(t, db, RoleAdmin), len(Permissions))

	for alias, canonical := range LegacyAliases {
		role := mustRole(t, db, alias)
		assert.True(t, role.IsSystem, alias)
		assert.Equal(t, levels[canonical], role.HierarchyLevel, alias)
		assert.Equal(t, rolePermissionNames(t, db, canonical), rolePermissionNames(t, db, alias), alias)
	}
}

func TestSeedAliasIsSnapshot(t *testing.T) {
	ctx := context.Background()
	db := setupSeededDB(t)
	roles := NewRoleService(db)

	hr := mustRole(t, db, RoleHR)
	original := rolePermissionNames(t, db, RoleHR)
	require.Contains(t, original, PermEditStaff)

	require.NoError(t, roles.SyncPermissions(ctx, hr.ID, []string{}))

	// runtime edits do not reach the alias
	assert.Equal(t, original, rolePermissionNames(t, db, "hr_officer"))

	officer := mustRole(t, db, "hr_officer")
	require.NoError(t, roles.SyncPermissions(ctx, officer.ID, []string{PermDeleteStaff, PermViewStaff}))

	// a redeploy keeps both edits
	report, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, report.AliasesCopied)

	assert.Empty(t, rolePermissionNames(t, db, RoleHR))
	assert.Equal(t, []string{PermDeleteStaff, PermViewStaff}, rolePermissionNames(t, db, "hr_officer"))
}

func TestSeedCopiesMissingAlias(t *testing.T) {
	ctx := context.Background()
	db := setupSeededDB(t)
	roles := NewRoleService(db)

	hr := mustRole(t, db, RoleHR)
	require.NoError(t, roles.SyncPermissions(ctx, hr.ID, []string{PermViewStaff}))

	officer := mustRole(t, db, "hr_officer")
	require.NoError(t, db.Where("role_id = ?", officer.ID).Delete(&models.RolePermission{}).Error)
	require.NoError(t, db.Delete(&officer).Error)

	// a recreated alias takes the canonical set of the moment
	report, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AliasesCopied)
	assert.Equal(t, 1, report.RolesCreated)
	assert.Equal(t, []string{PermViewStaff}, rolePermissionNames(t, db, "hr_officer"))
}

func TestSeedKeepsUnknownPermissionsAndRestoresMetadata(t *testing.T) {
	ctx := context.Background()
	db := setupSeededDB(t)

	extra := models.Permission{Name: "legacy_export", Resource: "reports", Action: "legacy_export"}
	require.NoError(t, db.Create(&extra).Error)

	var viewStaff models.Permission
	require.NoError(t, db.Where("name = ?", PermViewStaff).First(&viewStaff).Error)
	require.NoError(t, db.Model(&viewStaff).Update("description", "changed").Error)

	report, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PermissionsUpdated)

	var reloaded models.Permission
	require.NoError(t, db.Where("name = ?", PermViewStaff).First(&reloaded).Error)
	assert.Equal(t, viewStaff.ID, reloaded.ID)
	assert.Equal(t, "View staff records", reloaded.Description)

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Where("name = ?", "legacy_export").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// admin always holds the full set, including rows outside the catalog; its alias keeps
	// the snapshot taken when it was created
	assert.Contains(t, rolePermissionNames(t, db, RoleAdmin), "legacy_export")
	assert.NotContains(t, rolePermissionNames(t, db, "administrator"), "legacy_export")
}

func TestSeedRepairsTamperedSystemRole(t *testing.T) {
	ctx := context.Background()
	db := setupSeededDB(t)

	require.NoError(t, db.Model(&models.Role{}).Where("name = ?", RoleHR).
		Updates(map[string]any{"is_system": false, "hierarchy_level": 40}).Error)

	_, err := Seed(ctx, db)
	require.NoError(t, err)

	hr := mustRole(t, db, RoleHR)
	assert.True(t, hr.IsSystem)
	assert.Equal(t, models.LevelHR, hr.HierarchyLevel)
}

func TestCatalogDefaultsExist(t *testing.T) {
	names := allNames()

	for _, rs := range SystemRoles {
		for _, p := range rs.Defaults {
			assert.Contains(t, names, p, "default of %s", rs.Name)
		}
	}

	for alias, canonical := range LegacyAliases {
		found := false

		for _, rs := range SystemRoles {
			if rs.Name == canonical {
				found = true
			}
		}

		assert.True(t, found, alias)
	}
}

// The callers log the outcome of Seed and Create, the service itself stays silent.
func TestSeedAndCreateDoNotLog(t *testing.T) {
	var buf bytes.Buffer

	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	ctx := context.Background()
	db := setupTestDB(t)

	_, err := Seed(ctx, db)
	require.NoError(t, err)

	_, err = NewRoleService(db).Create(ctx, RoleInput{Name: "auditor"})
	require.NoError(t, err)

	assert.Empty(t, buf.String())
}
