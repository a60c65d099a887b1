package app

import (
	"github.com/medcampus/medcampus/internal/store"
	"github.com/medcampus/medcampus/internal/store/postgres"
	"github.com/medcampus/medcampus/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.AcademicStore, error) {
	if store.DetectType(dsn) == store.DBTypePostgres {
		return postgres.NewPostgresStore(dsn, migrationsDir)
	}
	return sqlite.NewSQLiteStore(dsn, migrationsDir)
}
