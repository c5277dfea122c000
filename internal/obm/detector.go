// Package obm derives an order-book-momentum oscillator from a liquidity
// heatmap and detects discrete BUY/SELL events on it. The pipeline runs in
// stages: distance-weighted pressure imbalance, rate of change, smoothing,
// regression trend, short-horizon forecast, and a stateful signal pass.
package obm

import (
	"math"

	"LiquidityLens/internal/model"
)

const (
	// minHistory is the fewest heatmap rows the detector accepts; anything
	// shorter returns an empty series.
	minHistory = 10

	emaAlpha        = 0.2 // stage 4 smoothing
	imbalanceWeight = 0.3 // raw OBM blend: level imbalance
	changeWeight    = 0.7 // raw OBM blend: imbalance rate of change
	trendFinalBlend = 0.3 // stage 7: trend contribution to the final value
	trendForecast   = 0.5 // stage 6: trend contribution to the forecast
	maxTrendWindow  = 10
	forecastDecay   = 0.5 // exponential weight decay per forecast lag
)

// Detect runs the full oscillator pipeline over a heatmap. The result slices
// are parallel with length T-1 (the first row has no prior to diff against).
// Heatmaps shorter than minHistory rows yield an empty, non-nil series.
func Detect(h *model.Heatmap) *model.OBMSeries {
	if h.Empty() || h.Len() < minHistory {
		return &model.OBMSeries{
			Timestamps:      []int64{},
			Values:          []float64{},
			TrendStrength:   []float64{},
			Forecast:        []float64{},
			Signals:         []model.SignalType{},
			SignalStrengths: []float64{},
		}
	}

	T := h.Len()
	n := T - 1

	// Stages 1-3: distance-weighted imbalance, per-minute rate of change,
	// and the raw oscillator blend.
	raw := make([]float64, n)
	prevImbalance := 0.0
	for i := 1; i < T; i++ {
		imb := rowImbalance(h.Rows[i].Volumes)
		change := 0.0
		if i > 1 {
			dtMin := float64(h.Timestamps[i]-h.Timestamps[i-1]) / 60
			if dtMin < 1 {
				dtMin = 1
			}
			change = (imb - prevImbalance) / dtMin
		}
		raw[i-1] = imbalanceWeight*imb + changeWeight*change
		prevImbalance = imb
	}

	// Stage 4: EMA smoothing seeded with the first raw value.
	smoothed := ema(raw, emaAlpha)

	// Stage 5: rolling OLS slope over raw values.
	window := maxTrendWindow
	if w := n / 3; w < window {
		window = w
	}
	trend := make([]float64, n)
	for i := range raw {
		if window >= 2 && i >= window {
			trend[i] = regressionSlope(raw[i-window+1 : i+1])
		}
	}

	// Stage 6: exponentially weighted average of the previous ForecastLag
	// smoothed values, plus half the trend. NaN while history is short.
	forecast := make([]float64, n)
	for i := range forecast {
		if i < model.ForecastLag {
			forecast[i] = math.NaN()
			continue
		}
		sum, weightSum := 0.0, 0.0
		for lag := 1; lag <= model.ForecastLag; lag++ {
			w := math.Exp(-forecastDecay * float64(lag))
			sum += smoothed[i-lag] * w
			weightSum += w
		}
		forecast[i] = sum/weightSum + trend[i]*trendForecast
	}

	// Stage 7: final oscillator value.
	values := make([]float64, n)
	for i := range values {
		values[i] = smoothed[i] + trend[i]*trendFinalBlend
	}

	signals, strengths := detectSignals(values, trend)

	timestamps := make([]int64, n)
	copy(timestamps, h.Timestamps[1:])

	return &model.OBMSeries{
		Timestamps:      timestamps,
		Values:          values,
		TrendStrength:   trend,
		Forecast:        forecast,
		Signals:         signals,
		SignalStrengths: strengths,
	}
}

// rowImbalance splits the price grid at its middle and sums volume
// magnitudes into buy pressure (below middle) and sell pressure (middle and
// above), weighting each level by its distance from the middle. Returns
// (buy-sell)/(buy+sell), or 0 for a dead row.
func rowImbalance(volumes []float64) float64 {
	middle := len(volumes) / 2
	var buy, sell float64
	for j, v := range volumes {
		weight := 1.0
		if middle > 0 {
			weight = 1 + math.Abs(float64(j-middle))/float64(middle)
		}
		mag := math.Abs(v) * weight
		if j < middle {
			buy += mag
		} else {
			sell += mag
		}
	}
	total := buy + sell
	if total == 0 {
		return 0
	}
	return (buy - sell) / total
}

// ema smooths values with the given alpha, seeded with the first element.
func ema(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// regressionSlope returns the ordinary-least-squares slope of values against
// their indices.
func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
