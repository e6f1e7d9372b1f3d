// Package permission serves the read-only permission catalog.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Path is the base path of the permission endpoints, relative to the API group.
const Path = "/permissions"

// Service serves the permission registry.
type Service struct {
	registry *rbac.Registry
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.registry = rbac.NewRegistry(db)

	view := auth.RequirePermission(gate, rbac.PermViewPermissions)

	router.Get(Path, view, s.List)
	router.Get(Path+"/grouped", view, s.Grouped)
}

// List returns a page of permissions, optionally filtered by module and search term.
func (s *Service) List(c *fiber.Ctx) error {
	page, perPage := handler.PageQuery(c)

	perms, meta, err := s.registry.List(c.UserContext(), rbac.ListFilter{
		Module:  c.Query("module"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return err
	}

	return handler.Page(c, perms, meta)
}

// Grouped returns all permissions grouped by resource.
func (s *Service) Grouped(c *fiber.Ctx) error {
	groups, err := s.registry.GroupByResource(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, groups)
}
