package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"cw-forecast/api"
	"cw-forecast/api/openmeteo"
	"cw-forecast/config"
	csvdao "cw-forecast/dao/csv"
	"cw-forecast/dao/postgres"
	"cw-forecast/dao/redis"
	"cw-forecast/db"
	"cw-forecast/forecast"
	"cw-forecast/logger"
	"cw-forecast/models"
	"cw-forecast/predictor"
	"cw-forecast/server"
	"cw-forecast/server/handlers"
	services "cw-forecast/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                   *config.Config
	Logger                   logger.Logger
	History                  services.HistoryRepository
	Weather                  openmeteo.OpenMeteoAPI
	Model                    *predictor.DemandNetwork
	RedisClient              db.RedisClient
	ForecastDao              *redis.RedisForecastDAO
	Publisher                services.ForecastPublisher
	ForecastService          *services.ForecastService
	ForecastRefresherService *services.ForecastRefresherService
	ForecastHandler          *handlers.ForecastHandler
	MuxRouter                *mux.Router
	Router                   *server.Router
	ForecastHttpServer       *server.ForecastHttpServer

	closers []func()
}

// NewContainer initializes and wires up all dependencies. Optional backends (Redis,
// Kafka, MinIO, the scheduler) are only connected when enabled in cfg.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *Container, err error) {
	log.Infof("Initializing container - env: %s", cfg.App.Env)
	c := &Container{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if c.History, err = NewHistoryRepository(ctx, cfg, log); err != nil {
		return nil, err
	}
	if closer, ok := c.History.(interface{ Close() }); ok {
		c.closers = append(c.closers, closer.Close)
	}
	c.Weather = NewWeatherSource(cfg, log)

	if c.Model, err = predictor.LoadDemandNetwork(cfg.Forecast.ModelPath); err != nil {
		return nil, fmt.Errorf("loading model (run cmd/train-model first): %w", err)
	}
	log.Infof("Loaded model %s (test MAE %.2f)", cfg.Forecast.ModelPath, c.Model.Metrics().TestMAE)

	weekend, err := cfg.Weekend()
	if err != nil {
		return nil, err
	}

	var cache services.ForecastCache
	if cfg.Redis.Enabled {
		client := db.NewGoRedisClientFromOptions(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		c.closers = append(c.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr(), err)
		}
		c.RedisClient = client
		c.ForecastDao = redis.NewRedisForecastDAO(client)
		cache = c.ForecastDao
	}

	c.Publisher = services.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher, err := services.NewKafkaForecastPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MaxRetries, log)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = publisher.Close() })
		c.Publisher = publisher
		log.Infof("Publishing forecasts to kafka topic %s", cfg.Kafka.Topic)
	}

	var archiver services.ReportArchiver = services.NoopArchiver{}
	if cfg.Minio.Enabled {
		if archiver, err = services.NewMinioReportArchiver(cfg.Minio.Endpoint, cfg.Minio.AccessKey,
			cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL, log); err != nil {
			return nil, err
		}
		log.Infof("Archiving reports to bucket %s", cfg.Minio.Bucket)
	}

	locations := make([]models.Location, len(cfg.Cities))
	for i, city := range cfg.Cities {
		locations[i] = city.Location()
	}

	c.ForecastService, err = services.NewForecastService(services.ForecastServiceDeps{
		Engine:    forecast.NewRolloutEngine(forecast.NewFeatureBuilder(weekend)),
		Model:     c.Model,
		History:   c.History,
		Weather:   c.Weather,
		Cache:     cache,
		CacheTTL:  cfg.Forecast.CacheTTL,
		Publisher: c.Publisher,
		Archiver:  archiver,
		Locations: locations,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Scheduler.Enabled {
		scheduler := services.NewCronScheduler(cfg.Scheduler.Timeout, log)
		c.ForecastRefresherService = services.NewForecastRefresherService(c.ForecastService, scheduler, log)
		c.closers = append(c.closers, c.ForecastRefresherService.Stop)
	}

	c.ForecastHandler = handlers.NewForecastHandler(c.ForecastService, log)
	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.ForecastHandler, c.MuxRouter,
		server.LoggingMiddleware(log),
		server.RateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.Burst)),
	)
	c.ForecastHttpServer = server.NewForecastHttpServer(c.Router, c.MuxRouter, cfg.App.Port, cfg.App.ShutdownTimeout, log)

	return c, nil
}

// Close releases every connection the container opened, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// NewHistoryRepository builds the history backend selected by history.backend.
func NewHistoryRepository(ctx context.Context, cfg *config.Config, log logger.Logger) (services.HistoryRepository, error) {
	if cfg.History.Backend == "postgres" {
		repo, err := postgres.NewHistoryRepository(ctx, cfg.Postgres.DSN(), log)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		log.Infof("Using postgres history at %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
		return repo, nil
	}

	files := make(map[string]string, len(cfg.Cities))
	for _, city := range cfg.Cities {
		file := city.HistoryFile
		if file == "" {
			file = strings.ToLower(strings.ReplaceAll(city.Name, " ", "_")) + "_history.csv"
		}
		files[city.Name] = file
	}
	log.Infof("Using csv history in %s", cfg.History.CSVDir)
	return csvdao.NewHistoryRepository(cfg.History.CSVDir, files), nil
}

// NewWeatherSource returns the Open-Meteo client, or the fixture-backed mock when
// open_meteo.use_mock is set.
func NewWeatherSource(cfg *config.Config, log logger.Logger) openmeteo.OpenMeteoAPI {
	if cfg.OpenMeteo.UseMock {
		log.Infof("Using mock open-meteo api")
		return openmeteo.NewOpenMeteoApiClientMock(
			config.GetResourcePath(config.OPEN_METEO_FORECAST_RESOURCE),
			config.GetResourcePath(config.OPEN_METEO_ARCHIVE_RESOURCE),
		)
	}

	log.Infof("Using open-meteo api at %s", cfg.OpenMeteo.ForecastURL)
	burst := int(cfg.OpenMeteo.RateLimit)
	if burst < 1 {
		burst = 1
	}
	forecastClient := api.NewHTTPClient(cfg.OpenMeteo.ForecastURL).
		WithTimeout(cfg.OpenMeteo.Timeout).
		WithRateLimit(cfg.OpenMeteo.RateLimit, burst)
	archiveClient := api.NewHTTPClient(cfg.OpenMeteo.ArchiveURL).
		WithTimeout(cfg.OpenMeteo.Timeout).
		WithRateLimit(cfg.OpenMeteo.RateLimit, burst)
	return openmeteo.NewOpenMeteoApiClient(forecastClient, archiveClient)
}
