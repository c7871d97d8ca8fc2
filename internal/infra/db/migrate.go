package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"enrollment-sync/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationSet names the schema owned by one service.
type MigrationSet string

const (
	EnrollmentMigrations MigrationSet = "enrollment"
	AuthorityMigrations  MigrationSet = "authority"
)

// Migrate applies every pending migration of set. Each set records its
// version in its own table.
func Migrate(cfg config.DBConfig, set MigrationSet, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(set))
	if err != nil {
		return fmt.Errorf("failed to open %s migrations: %w", set, err)
	}

	dsn := cfg.BuildDSN() + "&x-migrations-table=schema_migrations_" + string(set)
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("failed to close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run %s migrations: %w", set, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrations completed", "set", set, "version", version, "dirty", dirty)
	return nil
}
