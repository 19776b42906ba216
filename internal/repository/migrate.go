package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// RunMigrations applies any pending schema migrations. Applying is idempotent:
// the library tracks the schema version in the database and re-running against
// an up-to-date schema is a no-op.
func RunMigrations(dbConn, migrationsPath string, log *logrus.Logger) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbConn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("Database schema already up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Infof("Database schema migrated to version %d (dirty=%v)", version, dirty)
	return nil
}
