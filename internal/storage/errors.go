package storage

import "github.com/hrmsuite/hrms/internal/apperr"

var (
	// ErrObjectNotFound is returned when a key does not exist in the backend.
	ErrObjectNotFound = apperr.NotFound("document content")

	// ErrInvalidKey is returned for keys that are empty or escape the location root.
	ErrInvalidKey = apperr.Validation("invalid object key")

	// ErrUnknownLocationType is returned by the factory for an unsupported location_type.
	ErrUnknownLocationType = apperr.Validation("unknown location type")

	// ErrMissingRoot is returned when a local location has no root and no default is configured.
	ErrMissingRoot = apperr.Validation("storage location has no root directory")

	// ErrMissingBucket is returned when an object store location has no bucket configured.
	ErrMissingBucket = apperr.Validation("storage location has no bucket")

	// ErrMissingCredentials is returned when an object store location has no access keys.
	ErrMissingCredentials = apperr.Validation("storage location has no credentials")
)
