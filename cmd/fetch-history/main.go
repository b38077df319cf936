// Command fetch-history downloads daily archive weather for a city, attaches a
// simulated demand to every day and stores the result in the history backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"cw-forecast/config"
	"cw-forecast/di"
	"cw-forecast/logger"
	"cw-forecast/models"
	"cw-forecast/simulator"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default: config.yaml in the usual locations)")
		city       = flag.String("city", "", "city to fetch (default: first configured city)")
		startFlag  = flag.String("start", "", "first day, YYYY-MM-DD (default: one year before -end)")
		endFlag    = flag.String("end", "", "last day, YYYY-MM-DD (default: yesterday)")
		seed       = flag.Uint64("seed", 42, "seed of the demand simulator")
	)
	flag.Parse()

	cfg, err := config.LoadPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("cmd", "fetch-history")

	cityCfg := cfg.DefaultCity()
	if *city != "" {
		var ok bool
		if cityCfg, ok = cfg.City(*city); !ok {
			log.Fatalf("Unknown city %q", *city)
		}
	}

	end := models.Day(time.Now()).AddDate(0, 0, -1)
	if *endFlag != "" {
		if end, err = models.ParseDay(*endFlag); err != nil {
			log.Fatalf("Invalid -end: %v", err)
		}
	}
	start := end.AddDate(-1, 0, 1)
	if *startFlag != "" {
		if start, err = models.ParseDay(*startFlag); err != nil {
			log.Fatalf("Invalid -start: %v", err)
		}
	}
	if start.After(end) {
		log.Fatalf("-start %s is after -end %s", start.Format(models.DateLayout), end.Format(models.DateLayout))
	}

	weekend, err := cfg.Weekend()
	if err != nil {
		log.Fatalf("Invalid weekend: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	weather := di.NewWeatherSource(cfg, log)
	days, err := weather.DailyArchive(ctx, cityCfg.Location(), start, end)
	if err != nil {
		log.Fatalf("Fetching archive weather: %v", err)
	}
	observed := simulator.SimulateDemand(days, weekend, *seed)

	history, err := di.NewHistoryRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Opening history: %v", err)
	}
	if closer, ok := history.(interface{ Close() }); ok {
		defer closer.Close()
	}
	if err := history.Append(ctx, cityCfg.Name, observed); err != nil {
		log.Fatalf("Storing history: %v", err)
	}
	if err := di.InvalidateConfiguredCache(ctx, cfg, cityCfg.Name, log); err != nil {
		log.WithError(err).Warnf("Cached forecasts of %s may be stale", cityCfg.Name)
	}

	fmt.Printf("Stored %d days of %s history (%s..%s)\n", len(observed), cityCfg.Name,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
}
