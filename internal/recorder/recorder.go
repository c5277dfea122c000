package recorder

import "LiquidityLens/internal/model"

// RunSnapshot holds the summary of one prediction run.
type RunSnapshot struct {
	Symbol        string
	PathCount     int
	Backend       string
	UsedFallback  bool
	Volatility    float64
	CurrentPrice  float64
	HorizonStart  int64
	HorizonEnd    int64
	PathSummaries []PathSummary
}

// PathSummary condenses one predicted path for storage.
type PathSummary struct {
	PathIndex      int
	EntryPrice     float64
	FinalPrice     float64
	MeanResistance float64
	MeanConfidence float64
}

// SignalEvent holds one detected OBM signal.
type SignalEvent struct {
	Symbol    string
	Timestamp int64
	Signal    model.SignalType
	Strength  float64
	OBMValue  float64
	Trend     float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	RecordSignal(evt *SignalEvent) error
	Close() error
}
