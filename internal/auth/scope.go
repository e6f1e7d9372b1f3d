package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/apperr"
	"github.com/hrmsuite/hrms/internal/db/models"
)

// ScopeQuery restricts q to the rows the principal's tenant may see. table qualifies the
// org_id and company_id columns and may be empty for single-table queries.
//
// Admin tier principals see everything. Everybody else sees global rows (no org and no
// company) plus the rows of their organization, or of their company when company-scoped.
// A principal without any tenant sees global rows only.
func ScopeQuery(q *gorm.DB, p *Principal, table string) *gorm.DB {
	if p.IsAdminTier() {
		return q
	}

	orgCol, companyCol := "org_id", "company_id"
	if table != "" {
		orgCol, companyCol = table+".org_id", table+".company_id"
	}

	global := "(" + orgCol + " IS NULL AND " + companyCol + " IS NULL)"

	switch {
	case p.User.CompanyID != nil && p.User.OrgID != nil:
		return q.Where("(("+orgCol+" = ? AND "+companyCol+" = ?) OR "+global+")",
			*p.User.OrgID, *p.User.CompanyID)
	case p.User.CompanyID != nil:
		return q.Where("("+companyCol+" = ? OR "+global+")", *p.User.CompanyID)
	case p.User.OrgID != nil:
		return q.Where("("+orgCol+" = ? OR "+global+")", *p.User.OrgID)
	default:
		return q.Where(global)
	}
}

// Scope returns ScopeQuery as a gorm scope function.
func Scope(p *Principal, table string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return ScopeQuery(q, p, table)
	}
}

// InScope reports whether a row with the given tenant columns is visible to the principal.
// It mirrors ScopeQuery for a single, already loaded row.
func InScope(p *Principal, orgID, companyID *uint) bool {
	if p.IsAdminTier() {
		return true
	}

	if orgID == nil && companyID == nil {
		return true
	}

	switch {
	case p.User.CompanyID != nil:
		if companyID == nil || *companyID != *p.User.CompanyID {
			return false
		}

		return p.User.OrgID == nil || (orgID != nil && *orgID == *p.User.OrgID)
	case p.User.OrgID != nil:
		return orgID != nil && *orgID == *p.User.OrgID
	default:
		return false
	}
}

// CheckScope returns ErrOutOfScope when the row is not visible to the principal.
func CheckScope(p *Principal, orgID, companyID *uint) error {
	if !InScope(p, orgID, companyID) {
		return ErrOutOfScope
	}

	return nil
}

// CanWriteTenant reports whether the principal may create a row for the given tenant.
// Only admin tier principals may create global rows or rows of other tenants.
func CanWriteTenant(p *Principal, orgID, companyID *uint) bool {
	if p.IsAdminTier() {
		return true
	}

	if orgID == nil && companyID == nil {
		return false
	}

	return InScope(p, orgID, companyID)
}

// DefaultTenant returns the principal's own tenant when a write names none.
// Admin tier principals keep the empty tenant and create global rows.
func DefaultTenant(p *Principal, orgID, companyID *uint) (*uint, *uint) {
	if orgID == nil && companyID == nil && !p.IsAdminTier() {
		return p.User.OrgID, p.User.CompanyID
	}

	return orgID, companyID
}

// ResolveTenant prepares the tenant columns of a new row: it applies DefaultTenant,
// derives the organization from the company and checks the principal may write there.
func (s *Service) ResolveTenant(ctx context.Context, p *Principal, orgID, companyID *uint) (*uint, *uint, error) {
	orgID, companyID = DefaultTenant(p, orgID, companyID)

	if companyID != nil {
		var company models.Company

		err := s.db.WithContext(ctx).First(&company, *companyID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Validation("invalid tenant").WithField("company_id", "unknown company")
		}

		if err != nil {
			return nil, nil, err
		}

		if orgID != nil && *orgID != company.OrgID {
			return nil, nil, apperr.Validation("invalid tenant").
				WithField("org_id", "company belongs to another organization")
		}

		org := company.OrgID
		orgID = &org
	}

	if !CanWriteTenant(p, orgID, companyID) {
		return nil, nil, ErrOutOfScope
	}

	return orgID, companyID, nil
}
