package position

import (
	"context"
	"log/slog"

	"farmradar/config"
	"farmradar/internal/domain/constants"
	"farmradar/internal/domain/lifecycle"
	"farmradar/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// StoreParams holds dependencies for the PositionStore, injected by Fx.
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewStore creates a PositionStore based on configuration.
func NewStore(params StoreParams) (repository.PositionStore, error) {
	cfg := params.Config.Proximity

	switch cfg.StoreProvider {
	case constants.PositionStoreProviderMemory:
		params.Logger.Info("Using in-memory position store",
			slog.Duration("staleness_window", cfg.StalenessWindow),
		)

		return NewMemoryStore(cfg.StalenessWindow, cfg.GridCellSizeKm), nil

	case constants.PositionStoreProviderRedis:
		if params.Config.Redis == nil {
			return nil, errors.New("redis configuration is required for redis position store")
		}

		client := redis.NewClient(&redis.Options{
			Addr:     params.Config.Redis.Addr,
			Password: params.Config.Redis.Password,
			DB:       params.Config.Redis.DB,
		})

		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				if err := client.Ping(ctx).Err(); err != nil {
					return errors.Wrap(err, "failed to ping redis")
				}

				return nil
			},
			OnStop: func(context.Context) error {
				params.Logger.Info("Closing redis position store")

				return errors.WithStack(client.Close())
			},
		})

		params.Logger.Info("Using redis position store",
			slog.String("addr", params.Config.Redis.Addr),
			slog.Duration("staleness_window", cfg.StalenessWindow),
		)

		return NewRedisStore(client, cfg.StalenessWindow), nil

	default:
		return nil, errors.Errorf("unknown position store provider: %s", cfg.StoreProvider)
	}
}
