package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"LiquidityLens/internal/collector"
	"LiquidityLens/internal/config"
	"LiquidityLens/internal/field"
	"LiquidityLens/internal/notifier"
	"LiquidityLens/internal/predictor"
	"LiquidityLens/internal/recorder"
	"LiquidityLens/internal/scheduler"
	"LiquidityLens/internal/tracker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] LiquidityLens starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewHeatmapAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = &collector.MockFetcher{Price: 50000}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Span)

	// Init numeric backend and predictor
	var backend field.Backend
	if cfg.Prediction.Backend == "parallel" {
		backend = field.NewParallelBackend(0)
	} else {
		backend = field.ScalarBackend{}
	}
	pred := predictor.New(backend)
	log.Printf("[INFO] numeric backend: %s", backend.Name())

	// Init signal tracker
	tr, err := tracker.NewTracker(cfg.Prediction.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init signal tracker: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, pred, tr, tn, rec, cfg.DataSource.Symbol, cfg.Prediction.PathCount)
	if err := sched.RegisterAll(cfg.Schedule.PredictCron, cfg.Schedule.SummaryCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing prediction task now")
		go sched.RunPredictNow()
	}

	log.Println("[INFO] LiquidityLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] LiquidityLens stopped")
}
