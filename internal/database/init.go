package database

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/config"
)

// Initialize creates a database connection pool and applies migrations when configured to
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.RunMigrations {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	version, err := db.MigrationVersion(ctx)
	if err != nil {
		logger.WithError(err).Warn("Could not read schema version")
	} else if version == 0 {
		logger.Warn("No migrations have been applied. Run `forecast migrate`.")
	} else {
		logger.WithField("schema_version", version).Info("Database ready")
	}

	return db, nil
}
