package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrTokenSecretTooShort error if auth.tokenSecret is shorter than MinTokenSecretLen.
	ErrTokenSecretTooShort = errors.New("toml config auth.tokenSecret is too short")

	// ErrUnknownGormEngine error if db.gormEngine is not one of mysql, postgres, sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")
)
