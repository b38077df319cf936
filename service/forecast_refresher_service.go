package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cw-forecast/logger"
	"cw-forecast/models"
)

const refreshJobName = "forecast-refresh"

// ForecastRefresher is the part of ForecastService the refresher drives.
type ForecastRefresher interface {
	Cities() []string
	Refresh(ctx context.Context, city string) (*models.ForecastResponse, error)
}

// ForecastRefresherService periodically regenerates the forecast of every configured
// city so that API requests are served from a warm cache.
type ForecastRefresherService struct {
	forecasts ForecastRefresher
	scheduler Scheduler
	log       logger.Logger
}

// NewForecastRefresherService constructs a refresher with dependencies.
func NewForecastRefresherService(forecasts ForecastRefresher, scheduler Scheduler, log logger.Logger) *ForecastRefresherService {
	if log == nil {
		log = logger.Discard()
	}
	return &ForecastRefresherService{
		forecasts: forecasts,
		scheduler: scheduler,
		log:       logger.Component(log, "forecast_refresher"),
	}
}

// StartPeriodicJob registers RefreshAll with the scheduler at the given interval.
func (r *ForecastRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) error {
	return r.scheduler.Schedule(ctx, refreshJobName, interval, r.RefreshAll)
}

// Stop stops the underlying scheduler.
func (r *ForecastRefresherService) Stop() {
	r.scheduler.Stop()
}

// RefreshAll refreshes every city. A failing city does not stop the others; all
// failures are returned joined.
func (r *ForecastRefresherService) RefreshAll(ctx context.Context) error {
	cities := r.forecasts.Cities()
	r.log.Infof("Refreshing forecasts for %d cities", len(cities))

	var errs []error
	refreshed := 0
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		resp, err := r.forecasts.Refresh(ctx, city)
		if err != nil {
			r.log.WithField("city", city).WithError(err).Warnf("Refresh failed")
			errs = append(errs, fmt.Errorf("%s: %w", city, err))
			continue
		}
		refreshed++
		r.log.WithField("city", city).Debugf("Refreshed forecast %s", resp.ForecastID)
	}

	r.log.Infof("Refreshed %d/%d cities", refreshed, len(cities))
	return errors.Join(errs...)
}
