// Package role provides the role management endpoints.
package role

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/apperr"
	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/report"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Path is the base path of the role endpoints, relative to the API group.
const Path = "/roles"

type createRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=255"`
	Icon           string `json:"icon" validate:"max=100"`
	HierarchyLevel int    `json:"hierarchy_level" validate:"omitempty,min=1,max=99"`
}

type updateRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Description    *string `json:"description" validate:"omitempty,max=255"`
	Icon           *string `json:"icon" validate:"omitempty,max=100"`
	HierarchyLevel *int    `json:"hierarchy_level" validate:"omitempty,min=1,max=99"`
}

type syncRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,required"`
}

// Service provides CRUD operations for roles.
type Service struct {
	roles    *rbac.RoleService
	registry *rbac.Registry
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.roles = rbac.NewRoleService(db)
	s.registry = rbac.NewRegistry(db)

	router.Get(Path,
		auth.RequirePermission(gate, rbac.PermViewRoles),
		s.List,
	)
	router.Post(Path,
		auth.RequirePermission(gate, rbac.PermCreateRoles),
		s.Create,
	)
	// registered before :id so the literal segment wins
	router.Get(Path+"/matrix.xlsx",
		auth.RequirePermission(gate, rbac.PermViewRoles),
		auth.RequirePermission(gate, rbac.PermExportReports),
		s.Matrix,
	)
	router.Get(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermViewRoles),
		s.Get,
	)
	router.Put(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermEditRoles),
		s.Update,
	)
	router.Delete(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermDeleteRoles),
		s.Delete,
	)
	router.Post(Path+"/:id/permissions/sync",
		auth.RequirePermission(gate, rbac.PermEditRoles),
		s.Sync,
	)
}

// List returns all roles with their permissions and user counts.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.roles.List(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, roles)
}

// Get returns one role with its flat permission names.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	role, err := s.roles.Get(c.UserContext(), uint(id))
	if err != nil {
		return err
	}

	return handler.OK(c, role)
}

// Create stores a new custom role.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := guardLevel(auth.PrincipalFrom(c), req.HierarchyLevel); err != nil {
		return err
	}

	role, err := s.roles.Create(c.UserContext(), rbac.RoleInput{
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		HierarchyLevel: req.HierarchyLevel,
	})
	if err != nil {
		return err
	}

	log.Info().Str("role", role.Name).Uint64("by", auth.PrincipalFrom(c).ID()).Msg("role created")

	return handler.Created(c, role)
}

// Update changes name, description, icon or level of a role.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var req updateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := s.guardRole(c, uint(id)); err != nil {
		return err
	}

	if req.HierarchyLevel != nil {
		if err := guardLevel(auth.PrincipalFrom(c), *req.HierarchyLevel); err != nil {
			return err
		}
	}

	role, err := s.roles.Update(c.UserContext(), uint(id), rbac.RoleUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		HierarchyLevel: req.HierarchyLevel,
	})
	if err != nil {
		return err
	}

	return handler.OK(c, role)
}

// Delete removes a custom role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err := s.guardRole(c, uint(id)); err != nil {
		return err
	}

	if err := s.roles.Delete(c.UserContext(), uint(id)); err != nil {
		return err
	}

	return handler.Message(c, "role deleted")
}

// Sync replaces the permission set of a role and returns the updated role.
func (s *Service) Sync(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var req syncRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := s.guardRole(c, uint(id)); err != nil {
		return err
	}

	if err := s.guardGrant(c, req.Permissions); err != nil {
		return err
	}

	if err := s.roles.SyncPermissions(c.UserContext(), uint(id), req.Permissions); err != nil {
		return err
	}

	role, err := s.roles.Get(c.UserContext(), uint(id))
	if err != nil {
		return err
	}

	log.Info().Str("role", role.Name).Int("permissions", len(role.Permissions)).
		Uint64("by", auth.PrincipalFrom(c).ID()).Msg("role permissions synced")

	return handler.OK(c, role)
}

// Matrix exports the role by permission matrix as a spreadsheet.
func (s *Service) Matrix(c *fiber.Ctx) error {
	roles, err := s.roles.List(c.UserContext())
	if err != nil {
		return err
	}

	perms, err := s.registry.ListAll(c.UserContext())
	if err != nil {
		return err
	}

	data, err := report.RoleMatrix(roles, perms)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="role-matrix-%s.xlsx"`, time.Now().UTC().Format("20060102")))

	return c.Send(data)
}

// guardRole refuses changes to roles ranked above the caller.
func (s *Service) guardRole(c *fiber.Ctx, id uint) error {
	role, err := s.roles.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return guardLevel(auth.PrincipalFrom(c), role.HierarchyLevel)
}

// guardGrant refuses known permissions the caller does not hold itself. Unknown names are
// left to SyncPermissions, which rejects them as a validation error.
func (s *Service) guardGrant(c *fiber.Ctx, names []string) error {
	p := auth.PrincipalFrom(c)
	if p.IsAdminTier() {
		return nil
	}

	catalog, err := s.registry.ListAll(c.UserContext())
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(catalog))
	for _, perm := range catalog {
		known[perm.Name] = true
	}

	var denied []string

	for _, name := range names {
		if known[name] && !p.Can(name) {
			denied = append(denied, name)
		}
	}

	if len(denied) == 0 {
		return nil
	}

	verr := apperr.Forbidden(rbac.ErrPermissionNotHeld.Message)
	for _, name := range denied {
		verr.WithField("permissions", "not held: "+name)
	}

	return verr
}

// guardLevel refuses levels above the caller's own top level. Admin tier callers may use
// any level; 0 stands for the custom default and is always allowed.
func guardLevel(p *auth.Principal, level int) error {
	if level == 0 || p.IsAdminTier() {
		return nil
	}

	if level < p.TopLevel() {
		return rbac.ErrRoleAboveActor
	}

	return nil
}
