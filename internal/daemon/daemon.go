// Package daemon assembles database, permission catalog, token store and web service.
package daemon

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/config"
	hrmsdb "github.com/hrmsuite/hrms/internal/db"
	"github.com/hrmsuite/hrms/internal/web"
	"github.com/hrmsuite/hrms/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves the API until a termination signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	log.Info().Int("port", d.cfg.Webserver.Port).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New prepares the database and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := Prepare(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	store, err := session.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db, store, nil),
	}, nil
}

// Prepare opens and migrates the database, seeds the permission catalog and creates the
// bootstrap administrator on an empty users table.
func Prepare(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := hrmsdb.OpenAndMigrate(cfg)
	if err != nil {
		return nil, err
	}

	if err := seed(ctx, cfg.Bootstrap, db); err != nil {
		return nil, err
	}

	return db, nil
}
