package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cw-forecast/db"
	"cw-forecast/models"
)

// FORECAST_KEY_FORMAT caches a forecast per city and first forecast day.
const FORECAST_KEY_FORMAT = "forecast_v1:%s_%s"

// ErrCacheMiss is returned when no cached forecast exists.
var ErrCacheMiss = errors.New("forecast not cached")

// RedisForecastDAO caches forecast responses in Redis.
type RedisForecastDAO struct {
	client db.RedisClient
}

// NewRedisForecastDAO initializes a RedisForecastDAO with the Redis client.
func NewRedisForecastDAO(client db.RedisClient) *RedisForecastDAO {
	return &RedisForecastDAO{client: client}
}

// CityKey normalizes a city name for use in keys.
func CityKey(city string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "-")
}

func forecastKey(city string, start time.Time) string {
	return fmt.Sprintf(FORECAST_KEY_FORMAT, CityKey(city), models.Day(start).Format(models.DateLayout))
}

// SetForecast caches resp for the horizon starting at start.
func (dao *RedisForecastDAO) SetForecast(ctx context.Context, city string, start time.Time, resp *models.ForecastResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast for %s: %w", city, err)
	}
	if err := dao.client.Set(ctx, forecastKey(city, start), string(data), ttl); err != nil {
		return fmt.Errorf("failed to set forecast in redis: %w", err)
	}
	return nil
}

// GetForecast returns the cached forecast, or ErrCacheMiss.
func (dao *RedisForecastDAO) GetForecast(ctx context.Context, city string, start time.Time) (*models.ForecastResponse, error) {
	str, err := dao.client.Get(ctx, forecastKey(city, start))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s from %s", ErrCacheMiss, city, start.Format(models.DateLayout))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast from redis: %w", err)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal([]byte(str), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast JSON: %w", err)
	}
	return &resp, nil
}

// ListCachedKeys returns every cached forecast key for city.
func (dao *RedisForecastDAO) ListCachedKeys(ctx context.Context, city string) ([]string, error) {
	keys, err := dao.client.Keys(ctx, fmt.Sprintf(FORECAST_KEY_FORMAT, CityKey(city), "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list forecast keys: %w", err)
	}
	return keys, nil
}

// DeleteForecasts drops all cached forecasts of city.
func (dao *RedisForecastDAO) DeleteForecasts(ctx context.Context, city string) error {
	keys, err := dao.ListCachedKeys(ctx, city)
	if err != nil {
		return err
	}
	if err := dao.client.Del(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete forecasts of %s: %w", city, err)
	}
	return nil
}
