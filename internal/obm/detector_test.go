package obm

import (
	"math"
	"testing"

	"LiquidityLens/internal/model"
)

// imbalanceHeatmap builds a 10-level heatmap whose per-row pressure
// imbalance equals the given targets: volume mass is placed symmetrically
// around the middle so the distance weights cancel.
func imbalanceHeatmap(imbalances []float64) *model.Heatmap {
	const levels = 10
	h := &model.Heatmap{
		Timestamps:  make([]int64, len(imbalances)),
		PriceLevels: make([]float64, levels),
		Rows:        make([]model.HeatmapRow, len(imbalances)),
	}
	for j := 0; j < levels; j++ {
		h.PriceLevels[j] = 100 + float64(j)
	}
	for i, imb := range imbalances {
		h.Timestamps[i] = int64(1700000000 + i*60)
		vols := make([]float64, levels)
		vols[4] = (1 + imb) / 2  // buy side, one step below middle
		vols[6] = -(1 - imb) / 2 // sell side, one step above middle
		h.Rows[i] = model.HeatmapRow{Volumes: vols}
	}
	return h
}

func rampImbalances(n int, from, to float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

func TestDetect_ShortHeatmap(t *testing.T) {
	series := Detect(imbalanceHeatmap(rampImbalances(9, -0.5, 0.5)))
	if !series.Empty() {
		t.Fatalf("expected empty series for 9 rows, got %d values", len(series.Values))
	}
	if series.Values == nil || series.Signals == nil {
		t.Error("empty series should carry non-nil empty slices")
	}
}

func TestDetect_Lengths(t *testing.T) {
	h := imbalanceHeatmap(rampImbalances(30, -0.8, 0.8))
	series := Detect(h)

	n := h.Len() - 1
	if len(series.Timestamps) != n {
		t.Fatalf("expected %d timestamps, got %d", n, len(series.Timestamps))
	}
	for name, l := range map[string]int{
		"values":    len(series.Values),
		"trend":     len(series.TrendStrength),
		"forecast":  len(series.Forecast),
		"signals":   len(series.Signals),
		"strengths": len(series.SignalStrengths),
	} {
		if l != n {
			t.Errorf("%s: expected length %d, got %d", name, n, l)
		}
	}

	for i := 0; i < model.ForecastLag; i++ {
		if !math.IsNaN(series.Forecast[i]) {
			t.Errorf("forecast[%d] should be NaN, got %f", i, series.Forecast[i])
		}
	}
	for i := model.ForecastLag; i < n; i++ {
		if math.IsNaN(series.Forecast[i]) {
			t.Errorf("forecast[%d] should be defined", i)
		}
	}
}

func TestDetect_DeadBookIsSilent(t *testing.T) {
	h := imbalanceHeatmap(make([]float64, 20))
	for i := range h.Rows {
		h.Rows[i] = model.HeatmapRow{Volumes: make([]float64, 10)}
	}
	series := Detect(h)
	for i, v := range series.Values {
		if v != 0 {
			t.Errorf("values[%d]: expected 0 for a dead book, got %f", i, v)
		}
	}
	for i, s := range series.Signals {
		if s != model.SignalNone {
			t.Errorf("signals[%d]: expected NONE, got %s", i, s)
		}
	}
}

func TestDetect_BuyOnZeroCross(t *testing.T) {
	h := imbalanceHeatmap(rampImbalances(30, -0.8, 0.8))
	series := Detect(h)

	buyIdx := -1
	for i, s := range series.Signals {
		switch s {
		case model.SignalBuy:
			if buyIdx >= 0 {
				t.Fatalf("expected exactly one BUY, found another at %d (first at %d)", i, buyIdx)
			}
			buyIdx = i
		case model.SignalSell:
			t.Fatalf("unexpected SELL at %d for a monotone bullish ramp", i)
		}
	}
	if buyIdx < 0 {
		t.Fatal("expected one BUY signal on the zero crossing")
	}
	if s := series.SignalStrengths[buyIdx]; s <= 0 || s > 100 {
		t.Errorf("BUY strength out of (0, 100]: %f", s)
	}
	for i := buyIdx + 1; i <= buyIdx+5 && i < len(series.Signals); i++ {
		if series.Signals[i] != model.SignalNone {
			t.Errorf("signal at %d violates the cooldown after BUY at %d", i, buyIdx)
		}
	}
}

func TestDetect_CooldownHolds(t *testing.T) {
	// Oscillating book: plenty of crossings, cooldown must still space
	// every pair of emitted signals.
	imbs := make([]float64, 60)
	for i := range imbs {
		imbs[i] = 0.8 * math.Sin(float64(i)/3)
	}
	series := Detect(imbalanceHeatmap(imbs))

	last := -100
	for i, s := range series.Signals {
		if s == model.SignalNone {
			continue
		}
		if i-last <= 5 {
			t.Errorf("signals at %d and %d within cooldown", last, i)
		}
		last = i
	}
}

func TestDetect_Idempotent(t *testing.T) {
	h := imbalanceHeatmap(rampImbalances(25, 0.6, -0.6))
	a := Detect(h)
	b := Detect(h)
	for i := range a.Values {
		if a.Values[i] != b.Values[i] || a.TrendStrength[i] != b.TrendStrength[i] {
			t.Fatalf("rerun differs at index %d", i)
		}
		if a.Signals[i] != b.Signals[i] {
			t.Fatalf("signals differ at index %d", i)
		}
	}
}

func TestRowImbalance(t *testing.T) {
	tests := []struct {
		name    string
		volumes []float64
		want    float64
	}{
		{"dead row", []float64{0, 0, 0, 0}, 0},
		{"all buy side", []float64{5, 5, 0, 0}, 1},
		{"all sell side", []float64{0, 0, 5, 5}, -1},
	}
	for _, tt := range tests {
		if got := rowImbalance(tt.volumes); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestRegressionSlope(t *testing.T) {
	if got := regressionSlope([]float64{1, 2, 3, 4}); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected slope 1, got %f", got)
	}
	if got := regressionSlope([]float64{5, 5, 5}); got != 0 {
		t.Errorf("expected slope 0 for flat series, got %f", got)
	}
	if got := regressionSlope([]float64{7}); got != 0 {
		t.Errorf("expected 0 for single point, got %f", got)
	}
}
