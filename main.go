package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cw-forecast/config"
	"cw-forecast/di"
	"cw-forecast/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "development").Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("app", cfg.App.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer container.Close()

	if refresher := container.ForecastRefresherService; refresher != nil {
		log.Infof("Warming forecast cache")
		if err := refresher.RefreshAll(ctx); err != nil {
			log.WithError(err).Warnf("Initial refresh incomplete")
		}
		if err := refresher.StartPeriodicJob(ctx, cfg.Scheduler.RefreshInterval); err != nil {
			log.Fatalf("Failed to schedule refresher: %v", err)
		}
	}

	if err := container.ForecastHttpServer.Start(ctx); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}
