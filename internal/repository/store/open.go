package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aaronjt12/bw-sms-backend/internal/config"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	"github.com/aaronjt12/bw-sms-backend/internal/repository/postgres"
	"github.com/aaronjt12/bw-sms-backend/internal/repository/redis"
)

// Open connects the configured document store driver
func Open(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverNone:
		logger.Warn().Msg("document store disabled; notifications will not be logged")
		return repository.NewNoopStore(), nil

	case config.DriverRedis:
		s, err := redis.NewStore(ctx, redis.Config{
			URL:          cfg.RedisURL,
			KeyPrefix:    cfg.KeyPrefix,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     20,
			MinIdleConns: 2,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Str("driver", cfg.Driver).Str("channel", s.NotificationsChannel()).Msg("document store connected")
		return s, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info().Str("driver", cfg.Driver).Msg("document store connected")
		return postgres.NewStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
