package auth

import (
	"slices"

	"github.com/hrmsuite/hrms/internal/db/models"
)

// Principal is an authenticated user with its roles and memoized permission set.
type Principal struct {
	User  models.User
	Roles []models.Role
	perms map[string]struct{}
}

// NewPrincipal builds a principal from a user, its roles and the union of their permissions.
func NewPrincipal(user models.User, roles []models.Role, permissions []string) *Principal {
	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		perms[p] = struct{}{}
	}

	return &Principal{User: user, Roles: roles, perms: perms}
}

// ID returns the user id.
func (p *Principal) ID() uint64 {
	return p.User.ID
}

// Can reports whether permission is in the union of the principal's role permissions.
func (p *Principal) Can(permission string) bool {
	if p == nil {
		return false
	}

	_, ok := p.perms[permission]

	return ok
}

// Permissions returns the sorted effective permission names.
func (p *Principal) Permissions() []string {
	out := make([]string, 0, len(p.perms))
	for name := range p.perms {
		out = append(out, name)
	}

	slices.Sort(out)

	return out
}

// RoleNames returns the names of the principal's roles.
func (p *Principal) RoleNames() []string {
	out := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		out = append(out, r.Name)
	}

	return out
}

// IsAdminTier reports whether the principal holds a level 1 system role and bypasses tenant scope.
func (p *Principal) IsAdminTier() bool {
	if p == nil {
		return false
	}

	for _, r := range p.Roles {
		if r.IsAdminTier() {
			return true
		}
	}

	return false
}

// TopLevel returns the most privileged hierarchy level among the principal's roles.
// Principals without roles get models.LevelMax.
func (p *Principal) TopLevel() int {
	top := models.LevelMax

	for _, r := range p.Roles {
		if r.HierarchyLevel < top {
			top = r.HierarchyLevel
		}
	}

	return top
}
