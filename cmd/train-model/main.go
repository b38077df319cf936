// Command train-model fits the demand network on a city's history, prints its test
// error next to the naive baselines and saves the model artifact.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"cw-forecast/config"
	"cw-forecast/di"
	"cw-forecast/forecast"
	"cw-forecast/logger"
	"cw-forecast/predictor"
)

func main() {
	defaults := predictor.DefaultTrainOptions()
	var (
		configPath = flag.String("config", "", "config file (default: config.yaml in the usual locations)")
		city       = flag.String("city", "", "city whose history trains the model (default: first configured city)")
		out        = flag.String("out", "", "model output path (default: forecast.model_path)")
		days       = flag.Int("days", 3650, "most recent days of history to use")
		hidden     = flag.String("hidden", "32,16", "comma separated hidden layer widths")
		epochs     = flag.Int("epochs", defaults.Config.Epochs, "training epochs")
		testFrac   = flag.Float64("test-fraction", defaults.TestFraction, "held out fraction of the most recent rows")
		seed       = flag.Uint64("seed", defaults.Seed, "weight initialization and shuffling seed")
	)
	flag.Parse()

	cfg, err := config.LoadPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("cmd", "train-model")

	cityCfg := cfg.DefaultCity()
	if *city != "" {
		var ok bool
		if cityCfg, ok = cfg.City(*city); !ok {
			log.Fatalf("Unknown city %q", *city)
		}
	}
	weekend, err := cfg.Weekend()
	if err != nil {
		log.Fatalf("Invalid weekend: %v", err)
	}
	widths, err := parseWidths(*hidden)
	if err != nil {
		log.Fatalf("Invalid -hidden: %v", err)
	}

	ctx := context.Background()
	history, err := di.NewHistoryRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Opening history: %v", err)
	}
	if closer, ok := history.(interface{ Close() }); ok {
		defer closer.Close()
	}
	series, err := history.Tail(ctx, cityCfg.Name, *days)
	if err != nil {
		log.Fatalf("Loading history: %v", err)
	}

	vectors, targets, err := forecast.BuildTrainingSet(series, forecast.NewFeatureBuilder(weekend))
	if err != nil {
		log.Fatalf("Building training set: %v", err)
	}
	log.Infof("Training on %d rows from %d days of %s history", len(vectors), len(series), cityCfg.Name)

	opts := defaults
	opts.Hidden = widths
	opts.TestFraction = *testFrac
	opts.Seed = *seed
	opts.Config.Epochs = *epochs

	model, valCurve, err := predictor.TrainDemandNetwork(vectors, targets, opts)
	if err != nil {
		log.Fatalf("Training: %v", err)
	}
	if len(valCurve) > 0 {
		log.Debugf("Final epoch validation MAE %.3f", valCurve[len(valCurve)-1])
	}

	path := *out
	if path == "" {
		path = cfg.Forecast.ModelPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("Creating model dir: %v", err)
	}
	if err := model.Save(path); err != nil {
		log.Fatalf("Saving model: %v", err)
	}

	metrics := model.Metrics()
	baselines := predictor.EvaluateBaselines(vectors[metrics.TrainRows:], targets[metrics.TrainRows:])

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "model\t%s\n", path)
	fmt.Fprintf(tw, "train rows\t%d\n", metrics.TrainRows)
	fmt.Fprintf(tw, "test rows\t%d\n", metrics.TestRows)
	fmt.Fprintf(tw, "test MAE (network)\t%.2f\n", metrics.TestMAE)
	fmt.Fprintf(tw, "test MAE (lag_1)\t%.2f\n", baselines.Lag1MAE)
	fmt.Fprintf(tw, "test MAE (lag_7)\t%.2f\n", baselines.Lag7MAE)
	tw.Flush()
}

func parseWidths(s string) ([]int, error) {
	var widths []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("bad layer width %q", part)
		}
		widths = append(widths, w)
	}
	return widths, nil
}
