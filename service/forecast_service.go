package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cw-forecast/dao/redis"
	"cw-forecast/forecast"
	"cw-forecast/logger"
	"cw-forecast/models"
	"cw-forecast/util"
)

// ForecastServiceDeps are the collaborators of a ForecastService. Cache, Publisher and
// Archiver are optional.
type ForecastServiceDeps struct {
	Engine    *forecast.RolloutEngine
	Model     forecast.DemandModel
	History   HistoryRepository
	Weather   WeatherSource
	Cache     ForecastCache
	CacheTTL  time.Duration
	Publisher ForecastPublisher
	Archiver  ReportArchiver
	Locations []models.Location
	Logger    logger.Logger

	Now   func() time.Time
	NewID func() string
}

// ForecastService produces the 7-day demand forecast of a configured city.
type ForecastService struct {
	deps      ForecastServiceDeps
	locations map[string]models.Location
	log       logger.Logger
}

// NewForecastService validates deps and fills the optional ones.
func NewForecastService(deps ForecastServiceDeps) (*ForecastService, error) {
	if deps.Engine == nil || deps.Model == nil || deps.History == nil || deps.Weather == nil {
		return nil, errors.New("forecast service needs an engine, a model, a history repository and a weather source")
	}
	if len(deps.Locations) == 0 {
		return nil, errors.New("forecast service needs at least one location")
	}
	if deps.Publisher == nil {
		deps.Publisher = NoopPublisher{}
	}
	if deps.Archiver == nil {
		deps.Archiver = NoopArchiver{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	locations := make(map[string]models.Location, len(deps.Locations))
	for _, loc := range deps.Locations {
		locations[strings.ToLower(loc.City)] = loc
	}
	return &ForecastService{
		deps:      deps,
		locations: locations,
		log:       logger.Component(deps.Logger, "forecast_service"),
	}, nil
}

// Cities lists the configured city names in configuration order.
func (s *ForecastService) Cities() []string {
	out := make([]string, len(s.deps.Locations))
	for i, loc := range s.deps.Locations {
		out[i] = loc.City
	}
	return out
}

// Location resolves a city name. The empty name is the first configured city.
func (s *ForecastService) Location(city string) (models.Location, error) {
	if strings.TrimSpace(city) == "" {
		return s.deps.Locations[0], nil
	}
	loc, ok := s.locations[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return models.Location{}, fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	return loc, nil
}

// Forecast returns the forecast for the 7 days after the last recorded day of city,
// served from the cache when a fresh entry exists.
func (s *ForecastService) Forecast(ctx context.Context, city string) (*models.ForecastResponse, error) {
	return s.run(ctx, city, true)
}

// Refresh regenerates the forecast of city, bypassing the cache read.
func (s *ForecastService) Refresh(ctx context.Context, city string) (*models.ForecastResponse, error) {
	return s.run(ctx, city, false)
}

func (s *ForecastService) run(ctx context.Context, city string, useCache bool) (*models.ForecastResponse, error) {
	loc, err := s.Location(city)
	if err != nil {
		return nil, err
	}
	log := s.log.WithField("city", loc.City)

	tail, err := s.deps.History.Tail(ctx, loc.City, forecast.HistoryLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHistoryUnavailable, err)
	}
	seed, err := forecast.NewHistoryWindow(tail)
	if err != nil {
		return nil, err
	}
	start := models.NextDay(seed.LastDate())
	end := start.AddDate(0, 0, forecast.Horizon-1)

	if useCache && s.deps.Cache != nil {
		cached, err := s.deps.Cache.GetForecast(ctx, loc.City, start)
		switch {
		case err == nil:
			log.Debugf("Serving cached forecast %s", cached.ForecastID)
			return cached, nil
		case errors.Is(err, redis.ErrCacheMiss):
		default:
			log.WithError(err).Warnf("Forecast cache read failed")
		}
	}

	weather, err := s.deps.Weather.DailyForecast(ctx, loc, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherUnavailable, err)
	}

	result, err := s.deps.Engine.Rollout(seed, weather, s.deps.Model)
	if err != nil {
		return nil, err
	}
	if err := forecast.Validate(result, seed.LastDate()); err != nil {
		return nil, err
	}

	resp := &models.ForecastResponse{
		ForecastID:  s.deps.NewID(),
		City:        loc.City,
		GeneratedAt: s.deps.Now().UTC(),
		Forecast:    result.View(),
	}
	log.Infof("Generated forecast %s for %s..%s", resp.ForecastID,
		start.Format(models.DateLayout), end.Format(models.DateLayout))

	s.distribute(ctx, log, start, resp)
	return resp, nil
}

// distribute caches, publishes and archives resp. None of these can fail the request.
func (s *ForecastService) distribute(ctx context.Context, log logger.Logger, start time.Time, resp *models.ForecastResponse) {
	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetForecast(ctx, resp.City, start, resp, s.deps.CacheTTL); err != nil {
			log.WithError(err).Warnf("Failed to cache forecast %s", resp.ForecastID)
		}
	}

	if err := s.deps.Publisher.Publish(ctx, resp); err != nil {
		log.WithError(err).Warnf("Failed to publish forecast %s", resp.ForecastID)
	}

	if !s.deps.Archiver.Enabled() {
		return
	}
	workbook, err := util.BuildForecastWorkbook(resp)
	if err != nil {
		log.WithError(err).Warnf("Failed to build report for forecast %s", resp.ForecastID)
		return
	}
	key, err := s.deps.Archiver.Archive(ctx, resp, workbook)
	if err != nil {
		log.WithError(err).Warnf("Failed to archive report for forecast %s", resp.ForecastID)
		return
	}
	if key != "" {
		log.Debugf("Archived report %s", key)
	}
}
