package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/db/models"
)

// LocalProvider handles local database authentication and account creation.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// NewUser holds the fields of a local account.
type NewUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	OrgID     *uint
	CompanyID *uint
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}

// CreateUser creates a new active local user without roles.
func (p *LocalProvider) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	db := p.db.WithContext(ctx)

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	var count int64

	err := db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if count > 0 {
		return nil, ErrUserNameOrEmailExists
	}

	hashedPassword, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:    true,
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		OrgID:     in.OrgID,
		CompanyID: in.CompanyID,
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
