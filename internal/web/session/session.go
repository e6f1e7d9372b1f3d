// Package session provides the storage behind API sessions: the ids of revoked tokens
// are kept there until the tokens expire.
package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/dsn"
)

// Table holds the revoked token ids in SQL backed stores.
const Table = "revoked_tokens"

// ErrUnsupportedEngine is returned for a database engine without a session store.
var ErrUnsupportedEngine = errors.New("no session store for database engine")

// New opens the session store next to the configured database. SQLite setups keep revoked
// tokens in memory, they are forgotten on restart.
func New(cfg *config.Config) (fiber.Storage, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         Table,
		}), nil
	case config.EnginePostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.URI(cfg),
			Table:         Table,
		}), nil
	case config.EngineSQLite:
		log.Warn().Msg("sqlite engine: revoked tokens are kept in memory only")

		return memory.New(), nil
	default:
		return nil, errors.Wrap(ErrUnsupportedEngine, cfg.DB.GormEngine)
	}
}
