// Package rbac holds the permission registry, role management and the catalog seed.
package rbac

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/db/models"
)

const (
	// DefaultPerPage is used when a list request omits per_page.
	DefaultPerPage = 15
	// MaxPerPage caps per_page.
	MaxPerPage = 100
)

// Registry is the read side of the permission catalog.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates a new permission registry.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// ListFilter narrows a paginated permission listing.
type ListFilter struct {
	Module  string // resource slug
	Search  string // matched against name and description
	Page    int
	PerPage int
}

// PageMeta describes the page returned by a paginated list.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// NewPageMeta clamps page and perPage and computes the last page.
func NewPageMeta(page, perPage int, total int64) PageMeta {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage == 0 {
		lastPage = 1
	}

	if page < 1 {
		page = 1
	}

	return PageMeta{CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
}

// Offset of the first row of the page.
func (m PageMeta) Offset() int {
	return (m.CurrentPage - 1) * m.PerPage
}

// ResourceGroup bundles resource metadata with its ordered permissions.
type ResourceGroup struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Icon        string              `json:"icon"`
	Description string              `json:"description"`
	SortOrder   int                 `json:"sort_order"`
	Permissions []models.Permission `json:"permissions"`
}

// ListAll returns every permission ordered by resource, sort order and action.
func (r *Registry) ListAll(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission

	err := r.db.WithContext(ctx).
		Order("resource ASC").Order("sort_order ASC").Order("action ASC").
		Find(&perms).Error

	return perms, err
}

// FindByName returns the permission with the given name.
func (r *Registry) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission

	err := r.db.WithContext(ctx).Where("name = ?", name).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPermissionNotFound
	}

	if err != nil {
		return nil, err
	}

	return &perm, nil
}

// List returns one page of permissions matching the filter.
func (r *Registry) List(ctx context.Context, f ListFilter) ([]models.Permission, PageMeta, error) {
	var (
		perms []models.Permission
		total int64
		q     = r.db.WithContext(ctx).Model(&models.Permission{})
	)

	if f.Module != "" {
		q = q.Where("resource = ?", f.Module)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageMeta{}, err
	}

	meta := NewPageMeta(f.Page, f.PerPage, total)

	err := q.Order("resource ASC").Order("sort_order ASC").Order("action ASC").
		Limit(meta.PerPage).Offset(meta.Offset()).
		Find(&perms).Error
	if err != nil {
		return nil, PageMeta{}, err
	}

	return perms, meta, nil
}

// GroupByResource returns the permission tree used by the role editor.
// Groups follow the resource sort order; permissions inside a group follow sort_order, then action.
// Permissions whose resource has no metadata row are grouped under their bare slug at the end.
func (r *Registry) GroupByResource(ctx context.Context) ([]ResourceGroup, error) {
	var (
		resources []models.Resource
		perms     []models.Permission
		db        = r.db.WithContext(ctx)
	)

	if err := db.Order("sort_order ASC").Order("slug ASC").Find(&resources).Error; err != nil {
		return nil, err
	}

	if err := db.Order("sort_order ASC").Order("action ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	groups := make([]ResourceGroup, 0, len(resources))
	index := make(map[string]int, len(resources))

	for _, res := range resources {
		index[res.Slug] = len(groups)
		groups = append(groups, ResourceGroup{
			Name:        res.Name,
			Slug:        res.Slug,
			Icon:        res.Icon,
			Description: res.Description,
			SortOrder:   res.SortOrder,
			Permissions: []models.Permission{},
		})
	}

	for _, p := range perms {
		i, ok := index[p.Resource]
		if !ok {
			i = len(groups)
			index[p.Resource] = i
			groups = append(groups, ResourceGroup{Name: p.Resource, Slug: p.Resource, Permissions: []models.Permission{}})
		}

		groups[i].Permissions = append(groups[i].Permissions, p)
	}

	return groups, nil
}
