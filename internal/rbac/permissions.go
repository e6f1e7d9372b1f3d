package rbac

// Permission names used by route guards. The seed catalog defines their resource and action.
const (
	PermViewStaff   = "view_staff"
	PermCreateStaff = "create_staff"
	PermEditStaff   = "edit_staff"
	PermDeleteStaff = "delete_staff"

	PermApproveTimeOff  = "approve_time_off"
	PermGeneratePayroll = "generate_payroll"

	PermViewDocuments           = "view_documents"
	PermUploadDocuments         = "upload_documents"
	PermDeleteDocuments         = "delete_documents"
	PermManageDocumentLocations = "manage_document_locations"

	PermViewUsers   = "view_users"
	PermCreateUsers = "create_users"
	PermAssignRoles = "assign_roles"

	PermViewRoles   = "view_roles"
	PermCreateRoles = "create_roles"
	PermEditRoles   = "edit_roles"
	PermDeleteRoles = "delete_roles"

	PermViewPermissions = "view_permissions"
	PermExportReports   = "export_reports"
)

// Canonical system role names.
const (
	RoleAdmin   = "admin"
	RoleOrg     = "org"
	RoleCompany = "company"
	RoleHR      = "hr"
	RoleUser    = "user"
)
