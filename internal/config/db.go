package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // mysql, postgres or sqlite
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, file path for sqlite
	Extras     string // engine specific DSN parameters
}
