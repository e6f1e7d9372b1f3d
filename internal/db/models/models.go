package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&Organization{},
		&Company{},
		&Resource{},
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&UserRole{},
		&Staff{},
		&DocumentLocation{},
		&Document{},
	}
}
