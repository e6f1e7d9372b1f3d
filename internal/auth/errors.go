package auth

import "github.com/hrmsuite/hrms/internal/apperr"

var (
	// ErrUnauthenticated is returned when a request carries no usable bearer token.
	ErrUnauthenticated = apperr.Unauthorized("authentication required")

	// ErrInvalidToken is returned for tokens with a bad signature, issuer or expiry.
	ErrInvalidToken = apperr.Unauthorized("invalid or expired token")

	// ErrTokenRevoked is returned for tokens that were logged out.
	ErrTokenRevoked = apperr.Unauthorized("token has been revoked")

	// ErrInvalidCredentials is returned when username or password do not match.
	// Unknown users get the same error so usernames can not be probed.
	ErrInvalidCredentials = apperr.Unauthorized("invalid username or password")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = apperr.Forbidden("user account is disabled")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	ErrUserNameOrEmailExists = apperr.Conflict("user with username or email already exists")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = apperr.NotFound("user")

	// ErrPermissionDenied is returned by the gate when the principal lacks a permission.
	ErrPermissionDenied = apperr.Forbidden("you don't have permission to access this resource")

	// ErrOutOfScope is returned when a record belongs to another tenant.
	ErrOutOfScope = apperr.Forbidden("record is outside your tenant scope")
)
