// Command forecast prints the 7-day demand forecast of a city without starting the
// server. Nothing is cached or published.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"cw-forecast/config"
	"cw-forecast/di"
	"cw-forecast/forecast"
	"cw-forecast/logger"
	"cw-forecast/models"
	"cw-forecast/predictor"
	services "cw-forecast/service"
	"cw-forecast/util"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default: config.yaml in the usual locations)")
		city       = flag.String("city", "", "city to forecast (default: first configured city)")
		modelPath  = flag.String("model", "", "model artifact (default: forecast.model_path)")
		asJSON     = flag.Bool("json", false, "print the forecast as JSON")
		mock       = flag.Bool("mock-weather", false, "use the bundled weather fixture instead of Open-Meteo")
	)
	flag.Parse()

	cfg, err := config.LoadPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *modelPath != "" {
		cfg.Forecast.ModelPath = *modelPath
	}
	if *mock {
		cfg.OpenMeteo.UseMock = true
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("cmd", "forecast")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, *city, *asJSON); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, city string, asJSON bool) error {
	weekend, err := cfg.Weekend()
	if err != nil {
		return err
	}
	model, err := predictor.LoadDemandNetwork(cfg.Forecast.ModelPath)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	history, err := di.NewHistoryRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := history.(interface{ Close() }); ok {
		defer closer.Close()
	}

	locations := make([]models.Location, len(cfg.Cities))
	for i, c := range cfg.Cities {
		locations[i] = c.Location()
	}
	svc, err := services.NewForecastService(services.ForecastServiceDeps{
		Engine:    forecast.NewRolloutEngine(forecast.NewFeatureBuilder(weekend)),
		Model:     model,
		History:   history,
		Weather:   di.NewWeatherSource(cfg, log),
		Locations: locations,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	resp, err := svc.Forecast(ctx, city)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return util.WriteForecastTable(os.Stdout, resp)
}
