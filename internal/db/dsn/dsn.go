// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hrmsuite/hrms/internal/config"
)

// Create builds the Data Source Name of the configured engine.
func Create(cfg *config.Config) string {
	db := cfg.DB

	switch db.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case config.EngineSQLite:
		if db.Extras == "" {
			return db.Name
		}

		return db.Name + "?" + db.Extras
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		)
	}
}

// URI builds a postgres connection URI, used by the postgres token store.
func URI(cfg *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DB.User, cfg.DB.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port),
		Path:   "/" + cfg.DB.Name,
	}

	if cfg.DB.Extras != "" {
		u.RawQuery = strings.Join(strings.Fields(cfg.DB.Extras), "&")
	}

	return u.String()
}
