package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
)

// ErrBootstrapIncomplete is returned when the users table is empty and the bootstrap
// account is not fully configured.
var ErrBootstrapIncomplete = errors.New("bootstrap admin username, email and password are required")

func seed(ctx context.Context, cfg config.Bootstrap, db *gorm.DB) error {
	report, err := rbac.Seed(ctx, db)
	if err != nil {
		return err
	}

	log.Info().
		Int("permissionsCreated", report.PermissionsCreated).
		Int("permissionsUpdated", report.PermissionsUpdated).
		Int("rolesCreated", report.RolesCreated).
		Int("aliasesCopied", report.AliasesCopied).
		Msg("permission catalog seeded")

	created, err := bootstrapAdmin(ctx, cfg, db)
	if err != nil {
		return err
	}

	if created {
		log.Warn().Str("username", cfg.AdminUsername).Msg("bootstrap admin created, change its password")
	}

	return nil
}

// bootstrapAdmin creates the admin account if no user exists yet.
func bootstrapAdmin(ctx context.Context, cfg config.Bootstrap, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count users")
	}

	if count > 0 {
		return false, nil
	}

	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, ErrBootstrapIncomplete
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := auth.NewLocalProvider(tx).CreateUser(ctx, auth.NewUser{
			Username:  cfg.AdminUsername,
			Email:     cfg.AdminEmail,
			Password:  cfg.AdminPassword,
			FirstName: "System",
			LastName:  "Administrator",
		})
		if err != nil {
			return err
		}

		return rbac.NewRoleService(tx).AssignToUser(ctx, user.ID, []string{rbac.RoleAdmin}, 0)
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to create bootstrap admin")
	}

	return true, nil
}
