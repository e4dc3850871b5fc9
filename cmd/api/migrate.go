package main

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
)

func runMigrate(parent context.Context) error {
	ctx, stop, cfg, logger, err := bootstrap(parent)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate only applies to the postgres store, got %q", cfg.Store.Driver)
	}

	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("schema is up to date")
	return nil
}
