package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/db/models"
)

// SeedReport summarizes what a seed run changed.
type SeedReport struct {
	PermissionsCreated int
	PermissionsUpdated int
	RolesCreated       int
	AliasesCopied      int
}

// Seed upserts the resource and permission catalog and the system roles. It is idempotent
// and runs as a startup migration step.
//
// Permissions are matched by name and never deleted. The admin role always holds every
// permission. Other canonical roles receive their defaults only when created, later edits
// survive re-seeding. A legacy alias gets a snapshot of its canonical role's set when the
// alias is created; afterwards both roles are edited independently.
func Seed(ctx context.Context, db *gorm.DB) (SeedReport, error) {
	var report SeedReport

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedResources(tx); err != nil {
			return err
		}

		if err := seedPermissions(tx, &report); err != nil {
			return err
		}

		for _, rs := range SystemRoles {
			if err := seedSystemRole(tx, rs, &report); err != nil {
				return err
			}
		}

		return seedAliases(tx, &report)
	})
	if err != nil {
		return SeedReport{}, err
	}

	return report, nil
}

func seedResources(tx *gorm.DB) error {
	for _, rs := range Resources {
		var res models.Resource

		err := tx.Where("slug = ?", rs.Slug).First(&res).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		res.Slug = rs.Slug
		res.Name = rs.Name
		res.Icon = rs.Icon
		res.Description = rs.Description
		res.SortOrder = rs.SortOrder

		if err := tx.Save(&res).Error; err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", rs.Slug, err)
		}
	}

	return nil
}

func seedPermissions(tx *gorm.DB, report *SeedReport) error {
	for _, ps := range Permissions {
		var perm models.Permission

		err := tx.Where("name = ?", ps.Name).First(&perm).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			perm = models.Permission{
				Name:        ps.Name,
				Resource:    ps.Resource,
				Action:      ps.Action,
				Description: ps.Description,
				SortOrder:   ps.SortOrder,
			}

			if err := tx.Create(&perm).Error; err != nil {
				return fmt.Errorf("failed to create permission %s: %w", ps.Name, err)
			}

			report.PermissionsCreated++
		case err != nil:
			return err
		default:
			if perm.Resource == ps.Resource && perm.Action == ps.Action &&
				perm.Description == ps.Description && perm.SortOrder == ps.SortOrder {
				continue
			}

			err := tx.Model(&perm).Updates(map[string]any{
				"resource":    ps.Resource,
				"action":      ps.Action,
				"description": ps.Description,
				"sort_order":  ps.SortOrder,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update permission %s: %w", ps.Name, err)
			}

			report.PermissionsUpdated++
		}
	}

	return nil
}

func seedSystemRole(tx *gorm.DB, rs RoleSeed, report *SeedReport) error {
	role, created, err := ensureSystemRole(tx, rs.Name, rs.HierarchyLevel, rs.Description, rs.Icon)
	if err != nil {
		return err
	}

	if created {
		report.RolesCreated++
	}

	switch {
	case rs.Defaults == nil:
		// every permission, including ones added to the catalog since the last run
		var ids []uint
		if err := tx.Model(&models.Permission{}).Pluck("id", &ids).Error; err != nil {
			return err
		}

		return replacePermissions(tx, role.ID, ids)
	case created:
		ids, err := permissionIDs(tx, rs.Defaults)
		if err != nil {
			return fmt.Errorf("defaults of role %s: %w", rs.Name, err)
		}

		return replacePermissions(tx, role.ID, ids)
	default:
		return nil
	}
}

func seedAliases(tx *gorm.DB, report *SeedReport) error {
	aliases := make([]string, 0, len(LegacyAliases))
	for alias := range LegacyAliases {
		aliases = append(aliases, alias)
	}

	sort.Strings(aliases)

	for _, alias := range aliases {
		var canonical models.Role
		if err := tx.Where("name = ?", LegacyAliases[alias]).First(&canonical).Error; err != nil {
			return fmt.Errorf("canonical role of alias %s: %w", alias, err)
		}

		role, created, err := ensureSystemRole(tx, alias, canonical.HierarchyLevel,
			"Legacy alias of "+canonical.Name, canonical.Icon)
		if err != nil {
			return err
		}

		if !created {
			continue
		}

		report.RolesCreated++

		var ids []uint
		if err := tx.Model(&models.RolePermission{}).
			Where("role_id = ?", canonical.ID).
			Pluck("permission_id", &ids).Error; err != nil {
			return err
		}

		if err := replacePermissions(tx, role.ID, ids); err != nil {
			return err
		}

		report.AliasesCopied++
	}

	return nil
}

// ensureSystemRole creates the role if missing and pins is_system and the hierarchy level.
func ensureSystemRole(tx *gorm.DB, name string, level int, description, icon string) (*models.Role, bool, error) {
	var role models.Role

	err := tx.Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = models.Role{
			Name:           name,
			HierarchyLevel: level,
			Description:    description,
			Icon:           icon,
			IsSystem:       true,
		}

		if err := tx.Create(&role).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create role %s: %w", name, err)
		}

		return &role, true, nil
	}

	if err != nil {
		return nil, false, err
	}

	if !role.IsSystem || role.HierarchyLevel != level {
		if err := tx.Model(&role).Updates(map[string]any{
			"is_system":       true,
			"hierarchy_level": level,
		}).Error; err != nil {
			return nil, false, err
		}
	}

	return &role, false, nil
}
