// Package location provides CRUD operations for document storage locations.
package location

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/db/models"
)

const (
	companyQueryPattern = "company_id = ?"
	orgOnlyQueryPattern = "org_id = ? AND company_id IS NULL"
	globalQueryPattern  = "org_id IS NULL AND company_id IS NULL"
)

// Get retrieves a location by its ID.
// db may carry a tenant scope, an out of scope row is reported as not found.
func Get(db *gorm.DB, id uint64) (*models.DocumentLocation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var loc models.DocumentLocation

	result := db.First(&loc, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}

		return nil, result.Error
	}

	return &loc, nil
}

// GetAll retrieves all locations visible through db.
func GetAll(db *gorm.DB) ([]models.DocumentLocation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var locations []models.DocumentLocation

	if err := db.Order("id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}

	return locations, nil
}

// Create stores a new location. A new default replaces the previous default of the same tenant level.
func Create(db *gorm.DB, loc *models.DocumentLocation) error {
	if db == nil {
		return ErrDBNil
	}

	if loc.Name == "" {
		return ErrLocationNameEmpty
	}

	switch loc.LocationType {
	case models.LocationLocal, models.LocationWasabi, models.LocationS3:
	default:
		return ErrUnknownLocationType
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if loc.IsDefault {
			if err := sameLevel(tx.Model(&models.DocumentLocation{}), loc.OrgID, loc.CompanyID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(loc).Error
	})
}

// Delete deletes a location by ID. Locations still referenced by documents are kept.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	db = db.Session(&gorm.Session{})

	var count int64
	if err := db.Model(&models.Document{}).Where("location_id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrLocationInUse
	}

	result := db.Delete(&models.DocumentLocation{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// ResolveDefault returns the most specific default location for a tenant:
// the company default, then the organization default, then the global one.
func ResolveDefault(db *gorm.DB, orgID, companyID *uint) (*models.DocumentLocation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	db = db.Session(&gorm.Session{})

	var candidates []*gorm.DB

	if companyID != nil {
		candidates = append(candidates, db.Where(companyQueryPattern, *companyID))
	}

	if orgID != nil {
		candidates = append(candidates, db.Where(orgOnlyQueryPattern, *orgID))
	}

	candidates = append(candidates, db.Where(globalQueryPattern))

	for _, q := range candidates {
		var loc models.DocumentLocation

		err := q.Where("is_default = ?", true).Order("id DESC").First(&loc).Error
		if err == nil {
			return &loc, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, ErrNoDefaultLocation
}

func sameLevel(q *gorm.DB, orgID, companyID *uint) *gorm.DB {
	switch {
	case companyID != nil:
		return q.Where(companyQueryPattern, *companyID)
	case orgID != nil:
		return q.Where(orgOnlyQueryPattern, *orgID)
	default:
		return q.Where(globalQueryPattern)
	}
}
