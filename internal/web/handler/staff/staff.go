// Package staff provides the tenant-scoped staff endpoints.
package staff

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/apperr"
	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Path is the base path of the staff endpoints, relative to the API group.
const Path = "/staff"

// ErrStaffNotFound is returned for unknown staff ids.
var ErrStaffNotFound = apperr.NotFound("staff member")

type createRequest struct {
	EmployeeNumber string     `json:"employee_number" validate:"max=50"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"required,max=100"`
	Email          string     `json:"email" validate:"omitempty,email,max=255"`
	Position       string     `json:"position" validate:"max=150"`
	HiredAt        *time.Time `json:"hired_at"`
	UserID         *uint64    `json:"user_id"`
	OrgID          *uint      `json:"org_id"`
	CompanyID      *uint      `json:"company_id"`
}

type updateRequest struct {
	EmployeeNumber *string    `json:"employee_number" validate:"omitempty,max=50"`
	FirstName      *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string    `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Position       *string    `json:"position" validate:"omitempty,max=150"`
	HiredAt        *time.Time `json:"hired_at"`
}

// Service provides staff operations.
type Service struct {
	db   *gorm.DB
	gate *auth.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.gate = gate

	router.Get(Path,
		auth.RequirePermission(gate, rbac.PermViewStaff),
		s.List,
	)
	router.Post(Path,
		auth.RequirePermission(gate, rbac.PermCreateStaff),
		s.Create,
	)
	router.Get(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermViewStaff),
		s.Get,
	)
	router.Put(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermEditStaff),
		s.Update,
	)
	router.Delete(Path+"/:id",
		auth.RequirePermission(gate, rbac.PermDeleteStaff),
		s.Delete,
	)
}

// List returns a page of staff visible to the caller.
func (s *Service) List(c *fiber.Ctx) error {
	page, perPage := handler.PageQuery(c)

	var (
		staff []models.Staff
		total int64
		tx    = s.db.WithContext(c.UserContext()).Model(&models.Staff{}).
			Scopes(auth.Scope(auth.PrincipalFrom(c), "staff"))
	)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(employee_number) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like,
		)
	}

	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	meta := rbac.NewPageMeta(page, perPage, total)

	if err := tx.Order("last_name ASC").Order("first_name ASC").Order("id ASC").
		Limit(meta.PerPage).Offset(meta.Offset()).
		Find(&staff).Error; err != nil {
		return err
	}

	return handler.Page(c, staff, meta)
}

// Get returns one staff member.
func (s *Service) Get(c *fiber.Ctx) error {
	member, err := s.load(c)
	if err != nil {
		return err
	}

	return handler.OK(c, member)
}

// Create stores a staff member. The tenant defaults to the caller's own; a company
// implies its organization.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p := auth.PrincipalFrom(c)

	orgID, companyID, err := s.gate.ResolveTenant(c.UserContext(), p, req.OrgID, req.CompanyID)
	if err != nil {
		return err
	}

	if req.UserID != nil {
		if err := s.checkLinkedUser(c, p, *req.UserID); err != nil {
			return err
		}
	}

	member := models.Staff{
		OrgID:          orgID,
		CompanyID:      companyID,
		UserID:         req.UserID,
		EmployeeNumber: strings.TrimSpace(req.EmployeeNumber),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Position:       req.Position,
		HiredAt:        req.HiredAt,
	}

	if err := s.db.WithContext(c.UserContext()).Create(&member).Error; err != nil {
		return err
	}

	return handler.Created(c, member)
}

// checkLinkedUser refuses linking a staff record to an unknown user or to a user outside
// the caller's scope.
func (s *Service) checkLinkedUser(c *fiber.Ctx, p *auth.Principal, id uint64) error {
	var user models.User

	err := s.db.WithContext(c.UserContext()).Select("id", "org_id", "company_id").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validation("invalid user").WithField("user_id", "user does not exist")
	}

	if err != nil {
		return err
	}

	return auth.CheckScope(p, user.OrgID, user.CompanyID)
}

// Update changes the personal fields of a staff member. The tenant can not be changed.
func (s *Service) Update(c *fiber.Ctx) error {
	member, err := s.loadWritable(c)
	if err != nil {
		return err
	}

	var req updateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	updates := map[string]any{}

	for column, value := range map[string]*string{
		"employee_number": req.EmployeeNumber,
		"first_name":      req.FirstName,
		"last_name":       req.LastName,
		"email":           req.Email,
		"position":        req.Position,
	} {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}

	if req.HiredAt != nil {
		updates["hired_at"] = *req.HiredAt
	}

	if len(updates) > 0 {
		db := s.db.WithContext(c.UserContext())

		if err := db.Model(member).Updates(updates).Error; err != nil {
			return err
		}

		if err := db.First(member, member.ID).Error; err != nil {
			return err
		}
	}

	return handler.OK(c, member)
}

// Delete removes a staff member.
func (s *Service) Delete(c *fiber.Ctx) error {
	member, err := s.loadWritable(c)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(c.UserContext()).Delete(member).Error; err != nil {
		return err
	}

	return handler.Message(c, "staff member deleted")
}

// load fetches the staff member of the id parameter. Rows of other tenants are refused
// with 403, not hidden.
func (s *Service) load(c *fiber.Ctx) (*models.Staff, error) {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return nil, err
	}

	var member models.Staff

	err = s.db.WithContext(c.UserContext()).First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := auth.CheckScope(auth.PrincipalFrom(c), member.OrgID, member.CompanyID); err != nil {
		return nil, err
	}

	return &member, nil
}

// loadWritable is load for changes: global rows are read-only below the admin tier.
func (s *Service) loadWritable(c *fiber.Ctx) (*models.Staff, error) {
	member, err := s.load(c)
	if err != nil {
		return nil, err
	}

	if !auth.CanWriteTenant(auth.PrincipalFrom(c), member.OrgID, member.CompanyID) {
		return nil, auth.ErrOutOfScope
	}

	return member, nil
}
