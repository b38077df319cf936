package di

import (
	"context"

	"cw-forecast/config"
	"cw-forecast/dao/redis"
	"cw-forecast/db"
	"cw-forecast/logger"
)

// InvalidateForecasts drops the cached forecasts of city so the next request is
// computed from the refreshed history. It returns how many entries were removed.
func InvalidateForecasts(ctx context.Context, client db.RedisClient, city string, log logger.Logger) (int, error) {
	dao := redis.NewRedisForecastDAO(client)
	keys, err := dao.ListCachedKeys(ctx, city)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := dao.DeleteForecasts(ctx, city); err != nil {
		return 0, err
	}
	log.Infof("Dropped %d cached forecasts of %s", len(keys), city)
	return len(keys), nil
}

// InvalidateConfiguredCache connects to the configured Redis, when enabled, and
// invalidates the forecasts of city.
func InvalidateConfiguredCache(ctx context.Context, cfg *config.Config, city string, log logger.Logger) error {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := db.NewGoRedisClientFromOptions(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
	defer func() { _ = client.Close() }()
	_, err := InvalidateForecasts(ctx, client, city, log)
	return err
}
