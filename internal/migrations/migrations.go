package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations brings the users schema up to date at startup.
func RunMigrations(db *sql.DB, logger *zap.SugaredLogger, migrationsDir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Infof("Migrations applied from %s", migrationsDir)
	return nil
}
