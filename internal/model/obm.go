package model

// SignalType classifies a detected order-book-momentum event.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalNone SignalType = "NONE"
)

// ForecastLag is the number of leading oscillator points without a forecast.
const ForecastLag = 3

// OBMSeries is the full order-book-momentum detector output. All slices are
// parallel and have length T-1 for a heatmap of T timestamps. The first
// ForecastLag entries of Forecast are NaN (no history to forecast from).
// Built once per heatmap; immutable.
type OBMSeries struct {
	Timestamps      []int64
	Values          []float64
	TrendStrength   []float64
	Forecast        []float64
	Signals         []SignalType
	SignalStrengths []float64
}

// Empty reports whether the detector produced no output (input too short).
func (s *OBMSeries) Empty() bool { return s == nil || len(s.Timestamps) == 0 }
