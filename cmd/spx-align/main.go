// spx-align filters and pads SPX option trade CSVs against the canonical
// trading-time grid.
//
// Usage:
//
//	go run cmd/spx-align/main.go -src data/in -out data/out -start 2023-01-01 -end 2023-12-31
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"spxalign/internal/calendar"
	"spxalign/internal/config"
	"spxalign/internal/grid"
	"spxalign/internal/runner"
	"spxalign/internal/store"
	"spxalign/internal/util"
)

func main() {
	srcDir := flag.String("src", "", "directory containing input CSV files (required)")
	outDir := flag.String("out", "", "directory for processed output files (required)")
	startDate := flag.String("start", "", "start date YYYY-MM-DD (required)")
	endDate := flag.String("end", "", "end date YYYY-MM-DD (required)")
	cfgPath := flag.String("config", "config/spxalign.yaml", "path to YAML config")
	reportDB := flag.String("report", "", "optional SQLite path for the per-file run report")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *srcDir == "" || *outDir == "" || *startDate == "" || *endDate == "" {
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

	level := cfg.Logging.Level
	if *debug {
		level = "debug"
	}
	logger := util.NewLogger(level)
	util.SetDefault(logger)

	start, err := grid.ParseDate(*startDate)
	if err != nil {
		log.Fatalf("bad -start: %v", err)
	}
	end, err := grid.ParseDate(*endDate)
	if err != nil {
		log.Fatalf("bad -end: %v", err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatalf("configuring calendar provider: %v", err)
	}

	gen, err := grid.NewGenerator(provider,
		cfg.SpxDayTime.EarlyCloseDays,
		cfg.SpxDayTime.SpecialHolidays,
		cfg.SpxDayTime.ValidTimes,
		logger)
	if err != nil {
		log.Fatalf("configuring grid generator: %v", err)
	}

	ctx := context.Background()

	// The grid is built once and shared read-only by every worker. A grid
	// failure aborts the job: every file depends on it.
	g, err := gen.Build(ctx, start, end)
	if err != nil {
		log.Fatalf("building grid: %v", err)
	}

	if dir := cfg.Output.GridArtifactDir; dir != "" {
		if err := store.NewGridStore(dir).Save(g); err != nil {
			log.Fatalf("saving grid artifact: %v", err)
		}
		logger.Info("grid artifact saved", "dir", dir, "points", g.Len())
	}

	var runs *store.RunStore
	if *reportDB != "" {
		runs, err = store.NewRunStore(*reportDB)
		if err != nil {
			log.Fatalf("opening run report: %v", err)
		}
		defer runs.Close()
	}

	r := runner.New(g, start, end, *srcDir, *outDir, cfg.Job.MaxWorkers, runs, logger)
	summary, err := r.Run(ctx)
	if err != nil {
		log.Fatalf("job failed: %v", err)
	}

	if summary.Failed > 0 {
		logger.Warn("job finished with failures",
			"processed", summary.Processed, "failed", summary.Failed)
		os.Exit(1)
	}
}

// newProvider selects the session provider from config.
func newProvider(cfg *config.Config) (calendar.SessionProvider, error) {
	switch cfg.Calendar.Provider {
	case "alpaca":
		a := cfg.Calendar.Alpaca
		return calendar.NewAlpacaProvider(a.APIKey, a.APISecret, a.BaseURL), nil
	default:
		return calendar.NewStaticProvider(cfg.Calendar.MarketHolidays)
	}
}
