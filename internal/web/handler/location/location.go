// Package location provides the document location endpoints.
package location

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/apperr"
	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	locationctl "github.com/hrmsuite/hrms/internal/db/controller/location"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/storage"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Path is the base path of the document location endpoints, relative to the API group.
const Path = "/document-locations"

type configRequest struct {
	Root      string `json:"root" validate:"max=255"`
	Bucket    string `json:"bucket" validate:"max=63"`
	Region    string `json:"region" validate:"max=50"`
	Endpoint  string `json:"endpoint" validate:"max=255"`
	AccessKey string `json:"access_key" validate:"max=128"`
	SecretKey string `json:"secret_key" validate:"max=256"`
	Prefix    string `json:"prefix" validate:"max=255"`
	Insecure  bool   `json:"insecure"`
}

type createRequest struct {
	Name         string        `json:"name" validate:"required,max=150"`
	LocationType string        `json:"location_type" validate:"required,oneof=local wasabi s3"`
	IsDefault    bool          `json:"is_default"`
	Config       configRequest `json:"config"`
	OrgID        *uint         `json:"org_id"`
	CompanyID    *uint         `json:"company_id"`
}

// Service provides document location operations.
type Service struct {
	db       *gorm.DB
	gate     *auth.Service
	backends *storage.Factory
}

// Init registers routes. backends checks that a new location can actually be opened.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service,
	backends *storage.Factory,
) {
	if router == nil || cfg == nil || db == nil || backends == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.gate = gate
	s.backends = backends

	manage := auth.RequirePermission(gate, rbac.PermManageDocumentLocations)

	router.Get(Path,
		auth.RequireAnyPermission(gate, rbac.PermManageDocumentLocations, rbac.PermUploadDocuments),
		s.List,
	)
	router.Post(Path, manage, s.Create)
	router.Delete(Path+"/:id", manage, s.Delete)
}

// List returns the locations visible to the caller.
func (s *Service) List(c *fiber.Ctx) error {
	locations, err := locationctl.GetAll(s.db.WithContext(c.UserContext()).
		Scopes(auth.Scope(auth.PrincipalFrom(c), "document_locations")))
	if err != nil {
		return err
	}

	return handler.OK(c, locations)
}

// Create stores a new location. Only the admin tier may point a local location at its own
// root directory.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p := auth.PrincipalFrom(c)

	if req.Config.Root != "" && !p.IsAdminTier() {
		return apperr.Forbidden("only administrators may set a storage root").
			WithField("config.root", "not allowed")
	}

	orgID, companyID, err := s.gate.ResolveTenant(c.UserContext(), p, req.OrgID, req.CompanyID)
	if err != nil {
		return err
	}

	loc := models.DocumentLocation{
		OrgID:        orgID,
		CompanyID:    companyID,
		Name:         req.Name,
		LocationType: models.LocationType(req.LocationType),
		IsDefault:    req.IsDefault,
		Config: datatypes.NewJSONType(models.LocationConfig{
			Root:      req.Config.Root,
			Bucket:    req.Config.Bucket,
			Region:    req.Config.Region,
			Endpoint:  req.Config.Endpoint,
			AccessKey: req.Config.AccessKey,
			SecretKey: req.Config.SecretKey,
			Prefix:    req.Config.Prefix,
			Insecure:  req.Config.Insecure,
		}),
	}

	if _, err := s.backends.Open(&loc); err != nil {
		return err
	}

	if err := locationctl.Create(s.db.WithContext(c.UserContext()), &loc); err != nil {
		return err
	}

	log.Info().Uint64("location", loc.ID).Str("type", string(loc.LocationType)).
		Uint64("by", p.ID()).Msg("document location created")

	return handler.Created(c, loc)
}

// Delete removes a location that holds no documents.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	db := s.db.WithContext(c.UserContext())
	p := auth.PrincipalFrom(c)

	loc, err := locationctl.Get(db, id)
	if err != nil {
		return err
	}

	if !auth.CanWriteTenant(p, loc.OrgID, loc.CompanyID) {
		return auth.ErrOutOfScope
	}

	if err := locationctl.Delete(db, id); err != nil {
		return err
	}

	return handler.Message(c, "document location deleted")
}
