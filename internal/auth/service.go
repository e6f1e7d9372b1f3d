package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/db/models"
)

// Service is the authorization gate.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if a user has a specific permission through any of its roles.
func (s *Service) HasPermission(ctx context.Context, userID uint64, permission string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	p := NewPrincipal(models.User{ID: userID}, nil, perms)

	for _, perm := range permissions {
		if p.Can(perm) {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks if a user has all of the given permissions.
func (s *Service) HasAllPermissions(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return true, nil
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	p := NewPrincipal(models.User{ID: userID}, nil, perms)

	for _, perm := range permissions {
		if !p.Can(perm) {
			return false, nil
		}
	}

	return true, nil
}

// GetUserPermissions returns the distinct permission names granted by all roles of a user.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	var permissions []string

	err := s.db.WithContext(ctx).Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// LoadPrincipal loads an active user with its roles and effective permissions.
func (s *Service) LoadPrincipal(ctx context.Context, userID uint64) (*Principal, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles := user.Roles
	user.Roles = nil

	return NewPrincipal(user, roles, perms), nil
}

// Authorize returns ErrPermissionDenied unless the principal holds permission.
func (s *Service) Authorize(p *Principal, permission string) error {
	allowed := p.Can(permission)
	observeDecision(allowed)

	if !allowed {
		ev := log.Warn().Str("permission", permission)
		if p != nil {
			ev = ev.Uint64("userID", p.ID())
		}

		ev.Msg("user lacks required permission")

		return ErrPermissionDenied
	}

	return nil
}

// AuthorizeAny returns ErrPermissionDenied unless the principal holds one of permissions.
func (s *Service) AuthorizeAny(p *Principal, permissions ...string) error {
	for _, perm := range permissions {
		if p.Can(perm) {
			observeDecision(true)
			return nil
		}
	}

	observeDecision(false)

	ev := log.Warn().Strs("permissions", permissions)
	if p != nil {
		ev = ev.Uint64("userID", p.ID())
	}

	ev.Msg("user lacks required permissions")

	return ErrPermissionDenied
}
