package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"LiquidityLens/internal/collector"
	"LiquidityLens/internal/model"
	"LiquidityLens/internal/notifier"
	"LiquidityLens/internal/obm"
	"LiquidityLens/internal/pathfinder"
	"LiquidityLens/internal/predictor"
	"LiquidityLens/internal/recorder"
	"LiquidityLens/internal/tracker"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Predictor *predictor.Predictor
	Tracker   *tracker.Tracker
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Symbol    string
	PathCount int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, pred *predictor.Predictor,
	tr *tracker.Tracker, tn *notifier.TelegramNotifier, rec recorder.Recorder,
	symbol string, pathCount int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Predictor: pred,
		Tracker:   tr,
		Notifier:  tn,
		Recorder:  rec,
		Symbol:    symbol,
		PathCount: pathCount,
		Ctx:       ctx,
	}
}

// RegisterAll registers the prediction and summary tasks.
func (s *Scheduler) RegisterAll(predictCron, summaryCron string) error {
	if _, err := s.Cron.AddFunc(predictCron, func() { s.predictTask(false) }); err != nil {
		return fmt.Errorf("register predict task: %w", err)
	}
	if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunPredictNow executes the prediction task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunPredictNow() {
	s.predictTask(true)
}

// predictTask runs one full collect/predict/detect cycle. Reports are only
// pushed for verbose runs (manual triggers); scheduled runs alert on new
// signals and record silently otherwise.
func (s *Scheduler) predictTask(verbose bool) {
	log.Println("[INFO] running prediction task")
	candles, heatmap, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] collect: %v", err)
		if verbose {
			s.trySend(fmt.Sprintf("❌ data collection failed: %v", err))
		}
		return
	}

	pred := s.Predictor.Predict(candles, heatmap, s.PathCount)
	series := obm.Detect(heatmap)

	if err := s.Recorder.RecordRun(buildRunSnapshot(s.Symbol, candles, heatmap, pred)); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	s.handleSignals(series)

	if verbose {
		s.trySend(notifier.FormatPredictionReport(s.Symbol, pred))
	}
}

// handleSignals finds the most recent detected signal, records it, and
// alerts if the tracker considers it new.
func (s *Scheduler) handleSignals(series *model.OBMSeries) {
	if series.Empty() {
		return
	}
	for i := len(series.Signals) - 1; i >= 0; i-- {
		if series.Signals[i] == model.SignalNone {
			continue
		}
		sig := series.Signals[i]
		at := series.Timestamps[i]
		strength := series.SignalStrengths[i]

		if !s.Tracker.ShouldNotify(sig, at, strength) {
			return
		}
		log.Printf("[INFO] new %s signal at %d, strength %.0f", sig, at, strength)
		if err := s.Recorder.RecordSignal(&recorder.SignalEvent{
			Symbol:    s.Symbol,
			Timestamp: at,
			Signal:    sig,
			Strength:  strength,
			OBMValue:  series.Values[i],
			Trend:     series.TrendStrength[i],
		}); err != nil {
			log.Printf("[ERROR] record signal: %v", err)
		}
		s.trySend(notifier.FormatSignalAlert(s.Symbol, sig, at, strength, series.Values[i], series.TrendStrength[i]))
		return
	}
}

// trySend delivers a message with retry; failures are logged, never fatal.
func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func (s *Scheduler) summaryTask() {
	log.Println("[INFO] running summary task")
	state := s.Tracker.GetState()
	s.trySend(notifier.FormatSummary(s.Symbol, &state))
}

// HandleCommand responds to Telegram commands.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/predict":
		go s.RunPredictNow()
		return "⏳ prediction run started"
	case "/status":
		state := s.Tracker.GetState()
		return notifier.FormatSummary(s.Symbol, &state)
	case "/help":
		return "/predict - run a prediction now\n/status - last signal state\n/help - this message"
	default:
		return ""
	}
}

func buildRunSnapshot(symbol string, candles []model.Candlestick, h *model.Heatmap, pred *model.Prediction) *recorder.RunSnapshot {
	snap := &recorder.RunSnapshot{
		Symbol:       symbol,
		PathCount:    len(pred.Paths),
		Backend:      pred.Backend,
		UsedFallback: pred.UsedFallback,
		Volatility:   pathfinder.Volatility(candles),
	}
	if len(candles) > 0 {
		snap.CurrentPrice = candles[0].Close
	}
	if h.Len() > 0 {
		snap.HorizonStart = h.Timestamps[0]
		snap.HorizonEnd = h.Timestamps[h.Len()-1]
	}
	for i, path := range pred.Paths {
		if len(path) == 0 {
			continue
		}
		sum := recorder.PathSummary{
			PathIndex:  i,
			EntryPrice: path[0].Price,
			FinalPrice: path[len(path)-1].Price,
		}
		var res float64
		for _, p := range path {
			res += p.Resistance
		}
		sum.MeanResistance = res / float64(len(path))
		if scores := pred.ConfidenceScores[i]; len(scores) > 0 {
			var c float64
			for _, v := range scores {
				c += v
			}
			sum.MeanConfidence = c / float64(len(scores))
		}
		snap.PathSummaries = append(snap.PathSummaries, sum)
	}
	return snap
}
