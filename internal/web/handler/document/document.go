// Package document provides upload, listing, download and deletion of documents.
package document

import (
	"errors"
	"mime"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
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

const (
	// Path is the base path of the document endpoints, relative to the API group.
	Path = "/documents"

	// FormFile is the multipart field carrying the uploaded file.
	FormFile = "file"
)

var (
	// ErrDocumentNotFound is returned for unknown document ids.
	ErrDocumentNotFound = apperr.NotFound("document")

	// ErrStaffNotFound is returned when an upload references an unknown staff member.
	ErrStaffNotFound = apperr.NotFound("staff member")
)

// Service provides document operations.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	gate     *auth.Service
	backends *storage.Factory
	now      func() time.Time
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service,
	backends *storage.Factory,
) {
	if router == nil || cfg == nil || db == nil || backends == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.gate = gate
	s.backends = backends
	s.now = time.Now

	view := auth.RequirePermission(gate, rbac.PermViewDocuments)

	router.Get(Path, view, s.List)
	router.Post(Path, auth.RequirePermission(gate, rbac.PermUploadDocuments), s.Upload)
	router.Get(Path+"/:id", view, s.Get)
	router.Get(Path+"/:id/download", view, s.Download)
	router.Delete(Path+"/:id", auth.RequirePermission(gate, rbac.PermDeleteDocuments), s.Delete)
}

// List returns a page of documents visible to the caller, optionally of one staff member.
func (s *Service) List(c *fiber.Ctx) error {
	page, perPage := handler.PageQuery(c)

	var (
		docs  []models.Document
		total int64
		tx    = s.db.WithContext(c.UserContext()).Model(&models.Document{}).
			Scopes(auth.Scope(auth.PrincipalFrom(c), "documents"))
	)

	if staffID := c.QueryInt("staff_id"); staffID > 0 {
		tx = tx.Where("staff_id = ?", staffID)
	}

	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	meta := rbac.NewPageMeta(page, perPage, total)

	if err := tx.Order("id DESC").Limit(meta.PerPage).Offset(meta.Offset()).Find(&docs).Error; err != nil {
		return err
	}

	return handler.Page(c, docs, meta)
}

// Get returns the metadata of one document.
func (s *Service) Get(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return err
	}

	return handler.OK(c, doc)
}

// Upload stores the multipart file in the resolved location and records it.
//
// The location is the location_id form value when given, else the most specific default
// of the document's tenant. A staff_id attaches the document to that staff member and
// makes the staff member's tenant the document's tenant.
func (s *Service) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := auth.PrincipalFrom(c)
	db := s.db.WithContext(ctx)

	file, err := c.FormFile(FormFile)
	if err != nil {
		return apperr.Validation(handler.InvalidDataMsg).WithField(FormFile, "is required")
	}

	if file.Size > int64(s.cfg.Storage.MaxUploadSize) {
		return apperr.Validation(handler.InvalidDataMsg).
			WithField(FormFile, "may not be greater than "+strconv.Itoa(s.cfg.Storage.MaxUploadSize)+" bytes")
	}

	orgID, err := formUint(c, "org_id")
	if err != nil {
		return err
	}

	companyID, err := formUint(c, "company_id")
	if err != nil {
		return err
	}

	var staffID *uint64

	if raw := c.FormValue("staff_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apperr.Validation(handler.InvalidDataMsg).WithField("staff_id", "must be a positive integer")
		}

		var member models.Staff
		if err := db.First(&member, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}

			return err
		}

		if err := auth.CheckScope(p, member.OrgID, member.CompanyID); err != nil {
			return err
		}

		staffID = &member.ID

		if orgID == nil && companyID == nil {
			orgID, companyID = member.OrgID, member.CompanyID
		}
	}

	orgID, companyID, err = s.gate.ResolveTenant(ctx, p, orgID, companyID)
	if err != nil {
		return err
	}

	loc, err := s.resolveLocation(c, p, orgID, companyID)
	if err != nil {
		return err
	}

	backend, err := s.backends.Open(loc)
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(file.Filename))
	}

	doc := models.Document{
		OrgID:       orgID,
		CompanyID:   companyID,
		StaffID:     staffID,
		LocationID:  loc.ID,
		Name:        filepath.Base(file.Filename),
		ObjectKey:   storage.NewObjectKey(file.Filename, s.now()),
		ContentType: contentType,
		Size:        file.Size,
		UploadedBy:  p.ID(),
	}

	if err := backend.Put(ctx, doc.ObjectKey, src, file.Size, contentType); err != nil {
		return err
	}

	if err := db.Omit("Location").Create(&doc).Error; err != nil {
		if delErr := backend.Delete(ctx, doc.ObjectKey); delErr != nil {
			log.Error().Err(delErr).Str("key", doc.ObjectKey).Msg("failed to remove orphaned upload")
		}

		return err
	}

	log.Info().Uint64("document", doc.ID).Uint64("location", loc.ID).Int64("size", doc.Size).
		Uint64("by", p.ID()).Msg("document uploaded")

	return handler.Created(c, doc)
}

// Download streams the document content.
func (s *Service) Download(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return err
	}

	backend, err := s.backends.Open(&doc.Location)
	if err != nil {
		return err
	}

	r, err := backend.Get(c.UserContext(), doc.ObjectKey)
	if err != nil {
		return err
	}

	if doc.ContentType != "" {
		c.Set(fiber.HeaderContentType, doc.ContentType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}

	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))

	// the response closes r once it was written
	return c.SendStream(r, int(doc.Size))
}

// Delete removes the document record and its content.
func (s *Service) Delete(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return err
	}

	if !auth.CanWriteTenant(auth.PrincipalFrom(c), doc.OrgID, doc.CompanyID) {
		return auth.ErrOutOfScope
	}

	if err := s.db.WithContext(c.UserContext()).Delete(&models.Document{}, doc.ID).Error; err != nil {
		return err
	}

	backend, err := s.backends.Open(&doc.Location)
	if err == nil {
		err = backend.Delete(c.UserContext(), doc.ObjectKey)
	}

	if err != nil {
		log.Error().Err(err).Uint64("document", doc.ID).Str("key", doc.ObjectKey).
			Msg("document record deleted but content could not be removed")
	}

	return handler.Message(c, "document deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Document, error) {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return nil, err
	}

	var doc models.Document

	err = s.db.WithContext(c.UserContext()).Preload("Location").First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := auth.CheckScope(auth.PrincipalFrom(c), doc.OrgID, doc.CompanyID); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *Service) resolveLocation(c *fiber.Ctx, p *auth.Principal, orgID, companyID *uint) (*models.DocumentLocation, error) {
	db := s.db.WithContext(c.UserContext())

	raw := c.FormValue("location_id")
	if raw == "" {
		return locationctl.ResolveDefault(db, orgID, companyID)
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(handler.InvalidDataMsg).WithField("location_id", "must be a positive integer")
	}

	loc, err := locationctl.Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := auth.CheckScope(p, loc.OrgID, loc.CompanyID); err != nil {
		return nil, err
	}

	return loc, nil
}

func formUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.FormValue(key)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, apperr.Validation(handler.InvalidDataMsg).WithField(key, "must be a positive integer")
	}

	out := uint(v)

	return &out, nil
}
