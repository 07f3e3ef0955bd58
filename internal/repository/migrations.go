package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded schema (runs, telegram settings) to databaseURL.
// A dirty database left by an interrupted run is forced back one version and retried once.
func RunMigrations(databaseURL string, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = up(m)
	var dirtyErr migrate.ErrDirty
	if errors.As(err, &dirtyErr) {
		forceVersion := max(dirtyErr.Version-1, 0)
		logger.Warn("database schema is dirty, forcing previous version",
			zap.Int("dirty_version", dirtyErr.Version),
			zap.Int("force_version", forceVersion),
		)
		if ferr := m.Force(forceVersion); ferr != nil {
			return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
		}
		err = up(m)
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if version, _, verr := m.Version(); verr == nil {
		logger.Info("database schema up to date", zap.Uint("version", version))
	}

	return nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
