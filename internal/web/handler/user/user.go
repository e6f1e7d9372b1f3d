// Package user provides the user endpoints: listing within the caller's tenant, account
// creation and role assignment.
package user

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

const (
	// Path is the base path for user management, relative to the API group.
	Path = "/users"

	// MePath returns the calling user.
	MePath = "/me"
)

type createRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=100"`
	Email     string   `json:"email" validate:"required,email,max=255"`
	Password  string   `json:"password" validate:"required,min=8,max=128"`
	FirstName string   `json:"first_name" validate:"max=100"`
	LastName  string   `json:"last_name" validate:"max=100"`
	OrgID     *uint    `json:"org_id"`
	CompanyID *uint    `json:"company_id"`
	Roles     []string `json:"roles" validate:"dive,required"`
}

type assignRequest struct {
	Roles []string `json:"roles" validate:"required,dive,required"`
}

// Me is the response of the /me endpoint.
type Me struct {
	User        models.User `json:"user"`
	Roles       []string    `json:"roles"`
	Permissions []string    `json:"permissions"`
	AdminTier   bool        `json:"admin_tier"`
}

// Service provides user operations.
type Service struct {
	db    *gorm.DB
	gate  *auth.Service
	roles *rbac.RoleService
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.gate = gate
	s.roles = rbac.NewRoleService(db)

	router.Get(MePath, s.Me)
	router.Get(Path,
		auth.RequirePermission(gate, rbac.PermViewUsers),
		s.List,
	)
	router.Post(Path,
		auth.RequirePermission(gate, rbac.PermCreateUsers),
		s.Create,
	)
	router.Get(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermViewUsers),
		s.Get,
	)
	router.Post(Path+"/:id/roles",
		auth.RequirePermission(gate, rbac.PermAssignRoles),
		s.AssignRoles,
	)
}

// Me returns the calling user with its roles and effective permissions.
func (s *Service) Me(c *fiber.Ctx) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return auth.ErrUnauthenticated
	}

	return handler.OK(c, Me{
		User:        p.User,
		Roles:       p.RoleNames(),
		Permissions: p.Permissions(),
		AdminTier:   p.IsAdminTier(),
	})
}

// List shows users of the caller's tenant with pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	page, perPage := handler.PageQuery(c)

	var (
		users []models.User
		total int64
		tx    = s.db.WithContext(c.UserContext()).Model(&models.User{}).
			Scopes(auth.Scope(auth.PrincipalFrom(c), "users"))
	)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like,
		)
	}

	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	meta := rbac.NewPageMeta(page, perPage, total)

	if err := tx.Preload("Roles").Order("id ASC").
		Limit(meta.PerPage).Offset(meta.Offset()).
		Find(&users).Error; err != nil {
		return err
	}

	return handler.Page(c, users, meta)
}

// Get returns one user with its roles. Users of other tenants are refused with 403.
func (s *Service) Get(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	return handler.OK(c, user)
}

// Create creates a local user inside the caller's tenant, optionally with roles.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p := auth.PrincipalFrom(c)
	ctx := c.UserContext()

	orgID, companyID, err := s.gate.ResolveTenant(ctx, p, req.OrgID, req.CompanyID)
	if err != nil {
		return err
	}

	if len(req.Roles) > 0 {
		if err := s.gate.Authorize(p, rbac.PermAssignRoles); err != nil {
			return err
		}
	}

	var user *models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := auth.NewLocalProvider(tx).CreateUser(ctx, auth.NewUser{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			OrgID:     orgID,
			CompanyID: companyID,
		})
		if err != nil {
			return err
		}

		if err := rbac.NewRoleService(tx).AssignToUser(ctx, created.ID, req.Roles, minLevel(p)); err != nil {
			return err
		}

		user = created

		return tx.Preload("Roles").First(user, created.ID).Error
	})
	if err != nil {
		return err
	}

	log.Info().Str("username", user.Username).Uint64("by", p.ID()).Msg("user created")

	return handler.Created(c, user)
}

// AssignRoles replaces the roles of a user.
func (s *Service) AssignRoles(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p := auth.PrincipalFrom(c)
	ctx := c.UserContext()

	// a caller can not demote someone ranked above itself
	if !p.IsAdminTier() {
		for _, r := range user.Roles {
			if r.HierarchyLevel < p.TopLevel() {
				return rbac.ErrRoleAboveActor
			}
		}
	}

	if err := s.roles.AssignToUser(ctx, user.ID, req.Roles, minLevel(p)); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Preload("Roles").First(user, user.ID).Error; err != nil {
		return err
	}

	log.Info().Uint64("user", user.ID).Strs("roles", req.Roles).Uint64("by", p.ID()).Msg("roles assigned")

	return handler.OK(c, user)
}

func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return nil, err
	}

	var user models.User

	err = s.db.WithContext(c.UserContext()).Preload("Roles").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := auth.CheckScope(auth.PrincipalFrom(c), user.OrgID, user.CompanyID); err != nil {
		return nil, err
	}

	return &user, nil
}

// minLevel is the most privileged level the caller may hand out.
func minLevel(p *auth.Principal) int {
	if p.IsAdminTier() {
		return 0
	}

	return p.TopLevel()
}
