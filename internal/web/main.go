// Package web wires the fiber application: middleware, health and metrics endpoints and
// the JSON API handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	fiberlog "github.com/hrmsuite/hrms/internal/logger/adapter/fiber"
	"github.com/hrmsuite/hrms/internal/storage"
	"github.com/hrmsuite/hrms/internal/web/handler"
	"github.com/hrmsuite/hrms/internal/web/handler/document"
	"github.com/hrmsuite/hrms/internal/web/handler/location"
	"github.com/hrmsuite/hrms/internal/web/handler/login"
	"github.com/hrmsuite/hrms/internal/web/handler/logout"
	"github.com/hrmsuite/hrms/internal/web/handler/permission"
	"github.com/hrmsuite/hrms/internal/web/handler/role"
	"github.com/hrmsuite/hrms/internal/web/handler/staff"
	"github.com/hrmsuite/hrms/internal/web/handler/user"
)

const (
	// CheckAlivePath reports 200 while serving and 503 while draining.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// uploads travel as multipart bodies, leave room for the envelope
	bodyLimitSlack = 1 << 20
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	gate         *auth.Service
	tokens       *auth.TokenService
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown drains and stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetAlive switches the checkalive status.
func (s *Service) SetAlive(alive bool) {
	s.alive.Store(alive)
}

// New creates a new web service. store keeps revoked tokens, fs backs local document
// locations (nil means the OS filesystem).
func New(cfg *config.Config, db *gorm.DB, store fiber.Storage, fs afero.Fs) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Storage.MaxUploadSize + bodyLimitSlack,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{Config: cfg.Log, CheckAliveURI: CheckAlivePath}))

	if cfg.Webserver.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Webserver.AllowOrigins,
			AllowHeaders: fiber.HeaderAuthorization + ", " + fiber.HeaderContentType,
		}))
	}

	gate := auth.NewService(db)
	tokens := auth.NewTokenService(cfg.Auth, store)
	backends := storage.NewFactory(cfg.Storage, fs)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		gate:         gate,
		tokens:       tokens,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath)

	// login is the only public API route, it has to be registered before the token middleware
	new(login.Service).Init(api, cfg, db, tokens)

	api.Use(auth.Authenticate(tokens, gate))

	new(logout.Service).Init(api, tokens)

	for _, h := range []handler.Service{
		new(permission.Service),
		new(role.Service),
		new(user.Service),
		new(staff.Service),
	} {
		h.Init(api, cfg, db, gate)
	}

	new(location.Service).Init(api, cfg, db, gate, backends)
	new(document.Service).Init(api, cfg, db, gate, backends)

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}
