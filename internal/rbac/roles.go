package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrmsuite/hrms/internal/apperr"
	"github.com/hrmsuite/hrms/internal/db/models"
)

// RoleService manages roles, their permission sets and user assignments.
type RoleService struct {
	db *gorm.DB
}

// NewRoleService creates a new role service.
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleInput holds the fields of a new role.
type RoleInput struct {
	Name           string
	Description    string
	Icon           string
	HierarchyLevel int // 0 means models.LevelCustomDefault
}

// RoleUpdate holds the fields to change; nil fields are left alone.
type RoleUpdate struct {
	Name           *string
	Description    *string
	Icon           *string
	HierarchyLevel *int
}

// RoleDetail is a role with its flat permission names and the number of users holding it.
type RoleDetail struct {
	models.Role
	Permissions []string `json:"permissions"`
	UsersCount  int64    `json:"users_count"`
}

// Create stores a new custom role. Roles created here are never system roles.
func (s *RoleService) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("invalid role").WithField("name", "required")
	}

	level := in.HierarchyLevel
	if level == 0 {
		level = models.LevelCustomDefault
	}

	if err := checkLevel(level); err != nil {
		return nil, err
	}

	role := models.Role{
		Name:           name,
		Description:    in.Description,
		Icon:           in.Icon,
		HierarchyLevel: level,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, name, 0)
		if err != nil {
			return err
		}

		if taken {
			return ErrRoleNameTaken
		}

		return tx.Create(&role).Error
	})
	if err != nil {
		return nil, translateNameErr(err)
	}

	return &role, nil
}

// Update changes a role. Name and hierarchy level of system roles are fixed,
// submitting their current value is accepted.
func (s *RoleService) Update(ctx context.Context, id uint, in RoleUpdate) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findRole(tx, id, &role); err != nil {
			return err
		}

		updates := map[string]any{}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)

			if name != role.Name {
				if role.IsSystem {
					return ErrSystemRoleImmutable
				}

				if name == "" {
					return apperr.Validation("invalid role").WithField("name", "required")
				}

				taken, err := nameTaken(tx, name, role.ID)
				if err != nil {
					return err
				}

				if taken {
					return ErrRoleNameTaken
				}

				updates["name"] = name
			}
		}

		if in.HierarchyLevel != nil && *in.HierarchyLevel != role.HierarchyLevel {
			if role.IsSystem {
				return ErrSystemRoleImmutable
			}

			if err := checkLevel(*in.HierarchyLevel); err != nil {
				return err
			}

			updates["hierarchy_level"] = *in.HierarchyLevel
		}

		if in.Description != nil {
			updates["description"] = *in.Description
		}

		if in.Icon != nil {
			updates["icon"] = *in.Icon
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&role).Updates(updates).Error; err != nil {
			return err
		}

		return findRole(tx, id, &role)
	})
	if err != nil {
		return nil, translateNameErr(err)
	}

	return &role, nil
}

// Delete removes a custom role together with its permission links and user assignments.
// Users still holding the role silently lose it; the count is logged.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	var (
		role     models.Role
		affected int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findRole(tx, id, &role); err != nil {
			return err
		}

		if role.IsSystem {
			return ErrSystemRoleDelete
		}

		res := tx.Where("role_id = ?", id).Delete(&models.UserRole{})
		if res.Error != nil {
			return res.Error
		}

		affected = res.RowsAffected

		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&role).Error
	})
	if err != nil {
		return err
	}

	if affected > 0 {
		log.Warn().Str("role", role.Name).Int64("users", affected).Msg("deleted role was still assigned")
	}

	return nil
}

// SyncPermissions replaces the whole permission set of a role. Unknown names reject the
// request as a whole and an empty list clears the set.
func (s *RoleService) SyncPermissions(ctx context.Context, id uint, names []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := findRole(tx, id, &role); err != nil {
			return err
		}

		ids, err := permissionIDs(tx, names)
		if err != nil {
			return err
		}

		return replacePermissions(tx, role.ID, ids)
	})
}

// Get returns a role with its permission names.
func (s *RoleService) Get(ctx context.Context, id uint) (*RoleDetail, error) {
	db := s.db.WithContext(ctx)

	var role models.Role
	if err := findRole(db, id, &role); err != nil {
		return nil, err
	}

	details, err := s.details(db, []models.Role{role})
	if err != nil {
		return nil, err
	}

	return &details[0], nil
}

// GetByName returns a role by its exact name.
func (s *RoleService) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, err
	}

	return &role, nil
}

// List returns all roles ordered by hierarchy level, then name.
func (s *RoleService) List(ctx context.Context) ([]RoleDetail, error) {
	db := s.db.WithContext(ctx)

	var roles []models.Role
	if err := db.Order("hierarchy_level ASC").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return s.details(db, roles)
}

// AssignToUser replaces all roles of a user with the named roles. Roles ranked above
// minLevel (a smaller hierarchy level) are refused; pass 0 to allow every role.
func (s *RoleService) AssignToUser(ctx context.Context, userID uint64, names []string, minLevel int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return ErrUserNotFound
		}

		names = dedupe(names)

		var roles []models.Role
		if len(names) > 0 {
			if err := tx.Where("name IN ?", names).Find(&roles).Error; err != nil {
				return err
			}
		}

		if len(roles) != len(names) {
			found := make([]string, 0, len(roles))
			for _, r := range roles {
				found = append(found, r.Name)
			}

			verr := apperr.Validation("unknown roles")
			for _, n := range missing(names, found) {
				verr.WithField("roles", "unknown role: "+n)
			}

			return verr
		}

		for _, r := range roles {
			if r.HierarchyLevel < minLevel {
				return ErrRoleAboveActor
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		for _, r := range roles {
			if err := tx.Omit(clause.Associations).
				Create(&models.UserRole{UserID: userID, RoleID: r.ID}).Error; err != nil {
				return fmt.Errorf("failed to assign role %s: %w", r.Name, err)
			}
		}

		return nil
	})
}

func (s *RoleService) details(db *gorm.DB, roles []models.Role) ([]RoleDetail, error) {
	out := make([]RoleDetail, 0, len(roles))
	if len(roles) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}

	var links []struct {
		RoleID uint
		Name   string
	}

	err := db.Table("role_permissions").
		Select("role_permissions.role_id, permissions.name").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", ids).
		Order("permissions.name ASC").
		Scan(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	var counts []struct {
		RoleID uint
		Total  int64
	}

	err = db.Table("user_roles").
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", ids).
		Group("role_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count role users: %w", err)
	}

	perms := make(map[uint][]string, len(roles))
	for _, l := range links {
		perms[l.RoleID] = append(perms[l.RoleID], l.Name)
	}

	users := make(map[uint]int64, len(counts))
	for _, c := range counts {
		users[c.RoleID] = c.Total
	}

	for _, r := range roles {
		names := perms[r.ID]
		if names == nil {
			names = []string{}
		}

		out = append(out, RoleDetail{Role: r, Permissions: names, UsersCount: users[r.ID]})
	}

	return out, nil
}

func findRole(db *gorm.DB, id uint, role *models.Role) error {
	err := db.First(role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoleNotFound
	}

	return err
}

// translateNameErr maps a unique index violation, e.g. a concurrent create of the same
// name, to ErrRoleNameTaken.
func translateNameErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrRoleNameTaken
	}

	return err
}

func nameTaken(db *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64

	q := db.Model(&models.Role{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func checkLevel(level int) error {
	if level < models.LevelMin || level > models.LevelMax {
		return apperr.Validation("invalid role").
			WithField("hierarchy_level", fmt.Sprintf("must be between %d and %d", models.LevelMin, models.LevelMax))
	}

	return nil
}

// permissionIDs resolves names to ids, failing with every unknown name at once.
func permissionIDs(db *gorm.DB, names []string) ([]uint, error) {
	names = dedupe(names)
	if len(names) == 0 {
		return nil, nil
	}

	var perms []models.Permission
	if err := db.Where("name IN ?", names).Find(&perms).Error; err != nil {
		return nil, err
	}

	if len(perms) != len(names) {
		found := make([]string, 0, len(perms))
		for _, p := range perms {
			found = append(found, p.Name)
		}

		verr := apperr.Validation("unknown permissions")
		for _, n := range missing(names, found) {
			verr.WithField("permissions", "unknown permission: "+n)
		}

		return nil, verr
	}

	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	return ids, nil
}

// replacePermissions must run inside a transaction.
func replacePermissions(tx *gorm.DB, roleID uint, permIDs []uint) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if len(permIDs) == 0 {
		return nil
	}

	links := make([]models.RolePermission, 0, len(permIDs))
	for _, id := range permIDs {
		links = append(links, models.RolePermission{RoleID: roleID, PermissionID: id})
	}

	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to store role permissions: %w", err)
	}

	return nil
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}

	return out
}

func missing(want, found []string) []string {
	var out []string

	for _, n := range want {
		if !slices.Contains(found, n) {
			out = append(out, n)
		}
	}

	return out
}
