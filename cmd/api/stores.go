package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/mongodb"
)

type stores struct {
	Leads         entity.LeadRepositoryInterface
	Notifications entity.NotificationRepositoryInterface
	Logs          entity.LogRepositoryInterface
	Ping          func(ctx context.Context) error
	Close         func() error
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewDBConnection(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return &stores{
			Leads:         database.NewLeadRepository(db),
			Notifications: database.NewNotificationRepository(db),
			Logs:          database.NewLogRepository(db),
			Ping:          db.PingContext,
			Close:         db.Close,
		}, nil

	case config.DriverMongo:
		client, mdb, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))
		return &stores{
			Leads:         mongodb.NewLeadRepository(mdb),
			Notifications: mongodb.NewNotificationRepository(mdb),
			Logs:          mongodb.NewLogRepository(mdb),
			Ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:         func() error { return client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			Leads:         memory.NewLeadStore(),
			Notifications: memory.NewNotificationStore(),
			Logs:          memory.NewLogStore(),
			Ping:          func(context.Context) error { return nil },
			Close:         func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
