package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrmsuite/hrms/internal/config"
)

func TestCreate(t *testing.T) {
	base := config.DB{Host: "db", Port: 3306, User: "hrms", Password: "pw", Name: "hrms"}

	testCases := []struct {
		name   string
		engine string
		extras string
		want   string
	}{
		{
			name:   "mysql",
			engine: config.EngineMySQL,
			extras: "parseTime=True",
			want:   "hrms:pw@tcp(db:3306)/hrms?parseTime=True",
		},
		{
			name:   "postgres",
			engine: config.EnginePostgres,
			extras: "sslmode=disable",
			want:   "host=db port=3306 user=hrms password=pw dbname=hrms sslmode=disable",
		},
		{
			name:   "sqlite",
			engine: config.EngineSQLite,
			want:   "hrms",
		},
		{
			name:   "sqlite with pragmas",
			engine: config.EngineSQLite,
			extras: "_pragma=foreign_keys(1)",
			want:   "hrms?_pragma=foreign_keys(1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := base
			db.GormEngine = tc.engine
			db.Extras = tc.extras

			assert.Equal(t, tc.want, Create(&config.Config{DB: db}))
		})
	}
}

func TestURI(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		Host: "db", Port: 5432, User: "hrms", Password: "p@ss", Name: "hrms", Extras: "sslmode=disable",
	}}

	assert.Equal(t, "postgres://hrms:p%40ss@db:5432/hrms?sslmode=disable", URI(cfg))
}
