// spx-grid generates the canonical trading-time grid for a date range and
// persists it as CSV and Parquet artifacts for inspection.
//
// Usage:
//
//	go run cmd/spx-grid/main.go -start 2023-01-01 -end 2023-12-31 -dir data/grid
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"spxalign/internal/calendar"
	"spxalign/internal/config"
	"spxalign/internal/grid"
	"spxalign/internal/store"
	"spxalign/internal/util"
)

func main() {
	startDate := flag.String("start", "", "start date YYYY-MM-DD (required)")
	endDate := flag.String("end", "", "end date YYYY-MM-DD (required)")
	dir := flag.String("dir", "", "artifact output directory (default: config grid_artifact_dir)")
	cfgPath := flag.String("config", "config/spxalign.yaml", "path to YAML config")
	flag.Parse()

	if *startDate == "" || *endDate == "" {
		flag.Usage()
		os.Exit(2)
	}

	path := *cfgPath
	if p := os.Getenv("SPXALIGN_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	start, err := grid.ParseDate(*startDate)
	if err != nil {
		log.Fatalf("bad -start: %v", err)
	}
	end, err := grid.ParseDate(*endDate)
	if err != nil {
		log.Fatalf("bad -end: %v", err)
	}

	var provider calendar.SessionProvider
	if cfg.Calendar.Provider == "alpaca" {
		a := cfg.Calendar.Alpaca
		provider = calendar.NewAlpacaProvider(a.APIKey, a.APISecret, a.BaseURL)
	} else {
		provider, err = calendar.NewStaticProvider(cfg.Calendar.MarketHolidays)
		if err != nil {
			log.Fatalf("configuring static calendar: %v", err)
		}
	}

	gen, err := grid.NewGenerator(provider,
		cfg.SpxDayTime.EarlyCloseDays,
		cfg.SpxDayTime.SpecialHolidays,
		cfg.SpxDayTime.ValidTimes,
		logger)
	if err != nil {
		log.Fatalf("configuring grid generator: %v", err)
	}

	g, err := gen.Build(context.Background(), start, end)
	if err != nil {
		log.Fatalf("building grid: %v", err)
	}

	target := *dir
	if target == "" {
		target = cfg.Output.GridArtifactDir
	}
	if target == "" {
		log.Fatal("no artifact directory: pass -dir or set output.grid_artifact_dir")
	}

	if err := store.NewGridStore(target).Save(g); err != nil {
		log.Fatalf("saving grid artifact: %v", err)
	}
	logger.Info("grid artifact saved", "dir", target, "points", g.Len())
}
