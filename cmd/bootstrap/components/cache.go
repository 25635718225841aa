package components

import (
	"context"
	"log/slog"

	"pinecove/internal/infra/cache"
	"pinecove/internal/infra/syncer"
	"pinecove/internal/pkg/config"
	"pinecove/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const refreshQueueSize = 64

var CacheModule = fx.Module("cache",
	fx.Provide(
		fx.Annotate(
			NewCache,
			fx.As(new(usecase.CalendarCache)),
			fx.As(new(usecase.AvailabilityCache)),
		),
		fx.Annotate(
			NewSyncWorker,
			fx.As(new(usecase.SyncQueue)),
		),
	),
)

func NewCache(client *redis.Client, cfg config.Config, logger *slog.Logger) *cache.Cache {
	return cache.New(client, cfg.Cache.CalendarTTL, cfg.Cache.AvailabilityTTL, logger)
}

// NewSyncWorker runs the background calendar refresher for the lifetime of the
// application; jobs in flight are drained on shutdown.
func NewSyncWorker(lc fx.Lifecycle, calendarCache usecase.CalendarCache, logger *slog.Logger) *syncer.Worker {
	worker := syncer.NewWorker(calendarCache, refreshQueueSize, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			worker.Stop()
			return nil
		},
	})

	return worker
}
