// Package pathfinder walks least-resistance price trajectories through a
// refractive field. The search is greedy and stepwise: at each timestamp it
// scans a bounded window of price indices around the current position and
// takes the cheapest candidate. It is not a global shortest-path solve; the
// per-step window keeps cost near O(T·radius) and lets a path react to
// realized candle closes as they arrive.
package pathfinder

import (
	"math"
	"time"

	"LiquidityLens/internal/field"
	"LiquidityLens/internal/model"
)

// Cost term weights. Resistance is taken at face value; the rest shape the
// trajectory around it.
const (
	bendWeight       = 0.05 // per index of single-step price jump
	attractionWeight = 0.3  // pull toward the realized market price
	gradientWeight   = 0.1  // preference for descending resistance
	repulsionWeight  = 0.4  // push away from already-computed paths
)

// Volatility estimates price volatility as the standard deviation of absolute
// percentage changes of the closes, clamped to [0.01, 0.5]. Fewer than two
// closes yields the 0.05 default.
func Volatility(candles []model.Candlestick) float64 {
	if len(candles) < 2 {
		return 0.05
	}
	changes := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev == 0 {
			continue
		}
		changes = append(changes, math.Abs((candles[i].Close-prev)/prev))
	}
	if len(changes) == 0 {
		return 0.05
	}
	mean := 0.0
	for _, c := range changes {
		mean += c
	}
	mean /= float64(len(changes))
	variance := 0.0
	for _, c := range changes {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(changes))
	vol := math.Sqrt(variance)
	if vol < 0.01 {
		vol = 0.01
	}
	if vol > 0.5 {
		vol = 0.5
	}
	return vol
}

// FindPath traces one trajectory from the entry point to the last timestamp.
// priorPaths are the finished trajectories of lower-indexed paths; they are
// read for repulsion and never modified. The returned path has exactly
// T - entryPoint.TimeIndex points.
func FindPath(f model.RefractiveField, rm model.ResistanceMap, h *model.Heatmap,
	candles []model.Candlestick, ep model.EntryPoint, priorPaths []model.Path, pathIndex int) model.Path {

	if h.Empty() || len(f) == 0 {
		return model.Path{}
	}
	T := h.Len()
	P := h.Levels()

	volatility := Volatility(candles)
	baseRadius := int(math.Floor(float64(P) * volatility * 0.2))
	if baseRadius < 2 {
		baseRadius = 2
	}

	path := make(model.Path, 0, T-ep.TimeIndex)
	current := ep.PriceIndex
	path = append(path, model.PathPoint{
		Time:       time.Unix(h.Timestamps[ep.TimeIndex], 0).UTC(),
		Price:      h.PriceLevels[current],
		Resistance: f[ep.TimeIndex][current],
	})

	for i := ep.TimeIndex + 1; i < T; i++ {
		actualIdx := -1
		if i < len(candles) {
			actualIdx = model.NearestLevelIndex(h.PriceLevels, candles[i].Close)
		}

		radius := baseRadius
		if actualIdx >= 0 {
			radius += absInt(actualIdx - current)
		}
		lo := clampIndex(current-radius, P)
		hi := clampIndex(current+radius, P)

		best := -1
		bestCost := math.Inf(1)
		for j := lo; j <= hi; j++ {
			if f[i][j] > field.MaxPassable {
				continue
			}
			cost := stepCost(f, rm, i, j, current, actualIdx, P) +
				repulsion(priorPaths, pathIndex, i-ep.TimeIndex, j, h.PriceLevels, P)
			if cost < bestCost {
				best = j
				bestCost = cost
			}
		}
		// Every candidate impassable: hold position rather than fail.
		if best >= 0 {
			current = best
		}

		path = append(path, model.PathPoint{
			Time:       time.Unix(h.Timestamps[i], 0).UTC(),
			Price:      h.PriceLevels[current],
			Resistance: f[i][current],
		})
	}
	return path
}

// stepCost combines optical resistance, bend penalty, market-price attraction
// and gradient preference for candidate index j at timestamp i.
func stepCost(f model.RefractiveField, rm model.ResistanceMap, i, j, current, actualIdx, levels int) float64 {
	cost := f[i][j]
	cost += float64(absInt(j-current)) * bendWeight
	if actualIdx >= 0 {
		cost += attractionWeight * float64(absInt(j-actualIdx)) / float64(levels)
	}
	switch {
	case j > current:
		cost += rm[i][j].GradientUp * gradientWeight
	case j < current:
		cost += rm[i][j].GradientDown * gradientWeight
	}
	return cost
}

// repulsion accumulates the cost of passing close to the same timestamp on
// any already-completed path. offset is the step count from the entry point,
// which indexes the prior paths because all entries share time index 0.
func repulsion(priorPaths []model.Path, pathIndex, offset, j int, levels []float64, P int) float64 {
	if pathIndex < 0 || len(priorPaths) == 0 {
		return 0
	}
	minDist := int(math.Floor(float64(P) / (float64(len(priorPaths)) * 3)))
	if minDist < 1 {
		minDist = 1
	}
	total := 0.0
	for _, other := range priorPaths {
		if offset >= len(other) {
			continue
		}
		otherIdx := model.NearestLevelIndex(levels, other[offset].Price)
		d := absInt(j - otherIdx)
		if d < minDist {
			total += float64(minDist-d) / float64(minDist) * repulsionWeight
		}
	}
	return total
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
