package migrate

import (
	"context"
	"fmt"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/pressly/goose/v3"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite databases are migrated from the models
// because the SQL files are Postgres-only.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	meta := map[string]any{"env": cfg.App.Env, "sqlite": cfg.FeatureFlags.UseSQLite}
	ctx = logg.WithFields(ctx, meta)

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "running model migrations (dev auto-run)")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.Tables()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite: %w", err)
		}
		logg.Info(ctx, "model migrations completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	runner, err := NewRunner(sqlDB, goose.DialectPostgres, Embedded(), logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := runner.Up(ctx); err != nil {
		return err
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
