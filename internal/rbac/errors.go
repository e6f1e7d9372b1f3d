package rbac

import "github.com/hrmsuite/hrms/internal/apperr"

var (
	// ErrRoleNotFound is returned when a role id or name does not exist.
	ErrRoleNotFound = apperr.NotFound("role")
	// ErrPermissionNotFound is returned when a permission name does not exist.
	ErrPermissionNotFound = apperr.NotFound("permission")
	// ErrUserNotFound is returned when roles are assigned to an unknown user.
	ErrUserNotFound = apperr.NotFound("user")
	// ErrRoleNameTaken is returned when creating or renaming a role to an existing name.
	ErrRoleNameTaken = apperr.Conflict("role name already exists")
	// ErrSystemRoleImmutable is returned when renaming or re-leveling a system role.
	ErrSystemRoleImmutable = apperr.Forbidden("system roles can not be renamed or re-leveled")
	// ErrSystemRoleDelete is returned when deleting a system role.
	ErrSystemRoleDelete = apperr.Forbidden("system roles can not be deleted")
	// ErrRoleAboveActor is returned when assigning a role more privileged than the actor's own.
	ErrRoleAboveActor = apperr.Forbidden("can not assign a role above your own hierarchy level")
	// ErrPermissionNotHeld is returned when granting a permission the actor does not hold.
	ErrPermissionNotHeld = apperr.Forbidden("can not grant a permission you do not hold")
)
