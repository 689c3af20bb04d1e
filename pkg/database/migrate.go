package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending "up" migration found at sourceURL
// (e.g. "file://migrations") over a dedicated connection that is closed
// before returning.
func RunMigrations(databaseURL, sourceURL string, logger *slog.Logger) error {
	// "pgx" is registered by the pgx stdlib package
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := migrationDB.Ping(); err != nil {
		_ = migrationDB.Close()
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		_ = migrationDB.Close()
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		_ = migrationDB.Close()
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Warn("Migration source error", slog.String("error", sourceErr.Error()))
	}
	if dbErr != nil {
		logger.Warn("Migration database error", slog.String("error", dbErr.Error()))
	}

	switch {
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info("No new migrations to apply.")
	case upErr != nil:
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	default:
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
