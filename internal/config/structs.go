package config

import (
	"time"

	"github.com/hrmsuite/hrms/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Bootstrap Bootstrap
	Storage   Storage
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds to report 503 on /checkalive before shutdown
	URL            string // public base url
	AllowOrigins   string // CORS origins for the admin frontend, comma separated
}

// Auth holds API token settings.
type Auth struct {
	TokenSecret string        // HMAC secret used to sign API tokens
	TokenTTL    time.Duration // token lifetime
	Issuer      string
}

// Bootstrap describes the admin account created on an empty users table.
type Bootstrap struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Storage holds defaults for document storage backends.
type Storage struct {
	LocalRoot     string // base directory for "local" document locations
	MaxUploadSize int    // bytes
}
