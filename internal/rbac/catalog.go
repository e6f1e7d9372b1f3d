package rbac

import "github.com/hrmsuite/hrms/internal/db/models"

// ResourceSeed is one permission group of the catalog.
type ResourceSeed struct {
	Slug        string
	Name        string
	Icon        string
	Description string
	SortOrder   int
}

// PermissionSeed is one permission of the catalog.
type PermissionSeed struct {
	Name        string
	Resource    string
	Action      string
	Description string
	SortOrder   int
}

// RoleSeed describes a canonical system role.
type RoleSeed struct {
	Name           string
	HierarchyLevel int
	Description    string
	Icon           string
	// Defaults are granted when the role is first created. nil means every permission.
	Defaults []string
}

// Resources is the resource catalog.
var Resources = []ResourceSeed{
	{"staff", "Staff", "users", "Employee records", 10},
	{"attendance", "Attendance", "clock", "Clock-in and timesheets", 20},
	{"time_off", "Time off", "calendar", "Leave requests and balances", 30},
	{"payroll", "Payroll", "wallet", "Payroll runs and payslips", 40},
	{"recruitment", "Recruitment", "briefcase", "Jobs and candidates", 50},
	{"contracts", "Contracts", "file-signature", "Employment contracts", 60},
	{"assets", "Assets", "laptop", "Company assets and assignments", 70},
	{"documents", "Documents", "folder", "Uploaded documents and storage locations", 80},
	{"reports", "Reports", "chart-bar", "Dashboards and exports", 90},
	{"users", "Users", "user-cog", "Login accounts", 100},
	{"roles", "Roles", "shield", "Roles and their permissions", 110},
	{"permissions", "Permissions", "key", "Permission catalog", 120},
	{"organizations", "Organizations", "building", "Tenant organizations", 130},
	{"companies", "Companies", "city", "Companies of an organization", 140},
	{"settings", "Settings", "cog", "Application settings", 150},
}

// Permissions is the authoritative permission catalog. Seeding upserts it by name
// and never removes permissions missing from it.
var Permissions = []PermissionSeed{
	{PermViewStaff, "staff", "view", "View staff records", 1},
	{PermCreateStaff, "staff", "create", "Create staff records", 2},
	{PermEditStaff, "staff", "edit", "Edit staff records", 3},
	{PermDeleteStaff, "staff", "delete", "Delete staff records", 4},

	{"view_attendance", "attendance", "view", "View attendance", 1},
	{"create_attendance", "attendance", "create", "Record attendance", 2},
	{"edit_attendance", "attendance", "edit", "Correct attendance", 3},
	{"delete_attendance", "attendance", "delete", "Delete attendance", 4},

	{"view_time_off", "time_off", "view", "View time off requests", 1},
	{"create_time_off", "time_off", "create", "Request time off", 2},
	{"edit_time_off", "time_off", "edit", "Edit time off requests", 3},
	{"delete_time_off", "time_off", "delete", "Delete time off requests", 4},
	{PermApproveTimeOff, "time_off", "approve_time_off", "Approve or reject time off", 5},

	{"view_payroll", "payroll", "view", "View payroll", 1},
	{"create_payroll", "payroll", "create", "Create payroll entries", 2},
	{"edit_payroll", "payroll", "edit", "Edit payroll entries", 3},
	{"delete_payroll", "payroll", "delete", "Delete payroll entries", 4},
	{PermGeneratePayroll, "payroll", "generate_payroll", "Run payroll generation", 5},
	{"approve_payroll", "payroll", "approve_payroll", "Approve a payroll run", 6},

	{"view_recruitment", "recruitment", "view", "View jobs and candidates", 1},
	{"create_recruitment", "recruitment", "create", "Create jobs and candidates", 2},
	{"edit_recruitment", "recruitment", "edit", "Edit jobs and candidates", 3},
	{"delete_recruitment", "recruitment", "delete", "Delete jobs and candidates", 4},

	{"view_contracts", "contracts", "view", "View contracts", 1},
	{"create_contracts", "contracts", "create", "Create contracts", 2},
	{"edit_contracts", "contracts", "edit", "Edit contracts", 3},
	{"delete_contracts", "contracts", "delete", "Delete contracts", 4},

	{"view_assets", "assets", "view", "View assets", 1},
	{"create_assets", "assets", "create", "Create assets", 2},
	{"edit_assets", "assets", "edit", "Edit assets", 3},
	{"delete_assets", "assets", "delete", "Delete assets", 4},
	{"assign_assets", "assets", "assign_assets", "Assign assets to staff", 5},

	{PermViewDocuments, "documents", "view", "View and download documents", 1},
	{PermUploadDocuments, "documents", "upload", "Upload documents", 2},
	{PermDeleteDocuments, "documents", "delete", "Delete documents", 3},
	{PermManageDocumentLocations, "documents", "manage_locations", "Manage document storage locations", 4},

	{"view_reports", "reports", "view", "View dashboards", 1},
	{PermExportReports, "reports", "export", "Export reports", 2},

	{PermViewUsers, "users", "view", "View users", 1},
	{PermCreateUsers, "users", "create", "Create users", 2},
	{"edit_users", "users", "edit", "Edit users", 3},
	{"delete_users", "users", "delete", "Delete users", 4},
	{PermAssignRoles, "users", "assign_roles", "Assign roles to users", 5},

	{PermViewRoles, "roles", "view", "View roles", 1},
	{PermCreateRoles, "roles", "create", "Create roles", 2},
	{PermEditRoles, "roles", "edit", "Edit roles and their permissions", 3},
	{PermDeleteRoles, "roles", "delete", "Delete custom roles", 4},

	{PermViewPermissions, "permissions", "view", "View the permission catalog", 1},

	{"view_organizations", "organizations", "view", "View organizations", 1},
	{"create_organizations", "organizations", "create", "Create organizations", 2},
	{"edit_organizations", "organizations", "edit", "Edit organizations", 3},
	{"delete_organizations", "organizations", "delete", "Delete organizations", 4},

	{"view_companies", "companies", "view", "View companies", 1},
	{"create_companies", "companies", "create", "Create companies", 2},
	{"edit_companies", "companies", "edit", "Edit companies", 3},
	{"delete_companies", "companies", "delete", "Delete companies", 4},

	{"view_settings", "settings", "view", "View settings", 1},
	{"edit_settings", "settings", "edit", "Edit settings", 2},
}

// SystemRoles are the canonical roles in hierarchy order.
var SystemRoles = []RoleSeed{
	{
		Name:           RoleAdmin,
		HierarchyLevel: models.LevelAdmin,
		Description:    "Full access across all tenants",
		Icon:           "crown",
	},
	{
		Name:           RoleOrg,
		HierarchyLevel: models.LevelOrg,
		Description:    "Organization administrator",
		Icon:           "building",
		Defaults: except(allNames(),
			PermCreateRoles, PermEditRoles, PermDeleteRoles,
			"create_organizations", "edit_organizations", "delete_organizations",
			"edit_settings",
		),
	},
	{
		Name:           RoleCompany,
		HierarchyLevel: models.LevelCompany,
		Description:    "Company administrator",
		Icon:           "city",
		Defaults: except(allNames(),
			PermCreateRoles, PermEditRoles, PermDeleteRoles,
			"view_organizations", "create_organizations", "edit_organizations", "delete_organizations",
			"create_companies", "delete_companies",
			"view_settings", "edit_settings",
		),
	},
	{
		Name:           RoleHR,
		HierarchyLevel: models.LevelHR,
		Description:    "Human resources officer",
		Icon:           "id-badge",
		Defaults: []string{
			PermViewStaff, PermCreateStaff, PermEditStaff, PermDeleteStaff,
			"view_attendance", "create_attendance", "edit_attendance", "delete_attendance",
			"view_time_off", "create_time_off", "edit_time_off", "delete_time_off", PermApproveTimeOff,
			"view_recruitment", "create_recruitment", "edit_recruitment", "delete_recruitment",
			"view_contracts", "create_contracts", "edit_contracts", "delete_contracts",
			"view_payroll", "view_assets", "view_reports", "view_companies",
			PermViewDocuments, PermUploadDocuments, PermViewUsers,
		},
	},
	{
		Name:           RoleUser,
		HierarchyLevel: models.LevelUser,
		Description:    "Employee self service",
		Icon:           "user",
		Defaults: []string{
			"view_attendance", "create_attendance",
			"view_time_off", "create_time_off",
			"view_payroll",
			PermViewDocuments, PermUploadDocuments,
		},
	},
}

// LegacyAliases maps legacy role names to their canonical role. An alias receives a copy of
// the canonical permission set once, when the seed creates it. Later edits to either role
// never reach the other.
var LegacyAliases = map[string]string{
	"administrator": RoleAdmin,
	"organisation":  RoleOrg,
	"manager":       RoleCompany,
	"hr_officer":    RoleHR,
	"staff":         RoleUser,
	"staff_member":  RoleUser,
}

func allNames() []string {
	out := make([]string, 0, len(Permissions))
	for _, p := range Permissions {
		out = append(out, p.Name)
	}

	return out
}

func except(names []string, drop ...string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}

	out := make([]string, 0, len(names))

	for _, n := range names {
		if _, ok := skip[n]; !ok {
			out = append(out, n)
		}
	}

	return out
}
