package location

import (
	"errors"

	"github.com/hrmsuite/hrms/internal/apperr"
)

var (
	// ErrLocationNotFound is returned when a location is not found.
	ErrLocationNotFound = apperr.NotFound("document location")
	// ErrLocationNameEmpty is returned when attempting to create a location with an empty name.
	ErrLocationNameEmpty = apperr.Validation("location name cannot be empty").WithField("name", "required")
	// ErrUnknownLocationType is returned for a location_type other than local, wasabi or s3.
	ErrUnknownLocationType = apperr.Validation("unknown location type").WithField("location_type", "must be local, wasabi or s3")
	// ErrLocationInUse is returned when deleting a location that still stores documents.
	ErrLocationInUse = apperr.Conflict("document location still stores documents")
	// ErrNoDefaultLocation is returned when neither the tenant nor the global scope has a default location.
	ErrNoDefaultLocation = apperr.NotFound("default document location")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)
