// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/dsn"
	"github.com/hrmsuite/hrms/internal/db/models"
)

// Open connects to the database selected by cfg.DB.GormEngine.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}
	if cfg.DevMode {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DB.GormEngine == config.EngineSQLite {
		// sqlite allows one writer, serialize through a single connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql.DB")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate registers the custom join tables and runs AutoMigrate for every model.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Roles", &models.UserRole{}); err != nil {
		return errors.Wrap(err, "failed to setup user_roles join table")
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	for _, stmt := range binaryCollations(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "failed to pin column collation")
		}
	}

	return nil
}

// binaryCollations returns the statements making role names case-sensitive. MySQL compares
// with the server's case-insensitive default collation otherwise; sqlite and postgres
// already compare bytes.
func binaryCollations(dialect string) []string {
	if dialect != config.EngineMySQL {
		return nil
	}

	return []string{
		"ALTER TABLE roles MODIFY name varchar(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}

// OpenMemory returns a migrated in-memory sqlite database. Used by tests.
func OpenMemory() (*gorm.DB, error) {
	return OpenAndMigrate(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite, Name: ":memory:"}})
}

// OpenAndMigrate opens the database and migrates the schema.
func OpenAndMigrate(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
