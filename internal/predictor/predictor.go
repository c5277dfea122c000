// Package predictor orchestrates a full prediction run: refractive field,
// entry points, ordered path searches and per-path momentum derivation.
// It owns the backend-failure policy: if the configured numeric backend
// errors, the run silently repeats on the scalar reference backend and the
// result is flagged as a fallback.
package predictor

import (
	"log"
	"math"

	"LiquidityLens/internal/entry"
	"LiquidityLens/internal/field"
	"LiquidityLens/internal/model"
	"LiquidityLens/internal/momentum"
	"LiquidityLens/internal/pathfinder"
)

// Predictor runs predictions with a fixed numeric backend.
type Predictor struct {
	backend field.Backend
}

// New creates a Predictor. A nil backend selects the scalar reference.
func New(b field.Backend) *Predictor {
	if b == nil {
		b = field.ScalarBackend{}
	}
	return &Predictor{backend: b}
}

// Predict runs the whole pipeline for one snapshot. Empty candles or an
// empty heatmap yield an empty, non-nil result; Predict never returns an
// error, the only recoverable failure (backend) is absorbed by fallback.
// pathCount below 1 is clamped to 1.
func (p *Predictor) Predict(candles []model.Candlestick, h *model.Heatmap, pathCount int) *model.Prediction {
	if h.Empty() || len(candles) == 0 {
		return emptyPrediction(p.backend.Name())
	}
	if pathCount < 1 {
		pathCount = 1
	}

	backend := p.backend
	usedFallback := false
	f, err := field.Build(h, backend)
	if err != nil {
		log.Printf("[WARN] %s backend failed, falling back to scalar: %v", backend.Name(), err)
		backend = field.ScalarBackend{}
		usedFallback = true
		// The scalar backend cannot fail.
		f, _ = field.Build(h, backend)
	}
	rm := field.BuildResistanceMap(f, h.PriceLevels)

	entries := entry.Select(h, candles[0].Close, pathCount)

	// Paths must be computed in index order: each search reads only the
	// finished trajectories of lower-indexed paths for repulsion.
	paths := make([]model.Path, 0, len(entries))
	vectors := make([][]model.MomentumVector, 0, len(entries))
	scores := make([][]float64, 0, len(entries))
	for i, ep := range entries {
		path := pathfinder.FindPath(f, rm, h, candles, ep, paths, i)
		paths = append(paths, path)

		mv, cs := momentum.Derive(path)
		vectors = append(vectors, mv)
		scores = append(scores, cs)
	}

	T := h.Len()
	timestamps := make([]int64, T)
	copy(timestamps, h.Timestamps)

	actual := make([]float64, T)
	for i := range actual {
		if i < len(candles) {
			actual[i] = candles[i].Close
		} else {
			actual[i] = math.NaN()
		}
	}

	return &model.Prediction{
		Timestamps:       timestamps,
		ActualPrice:      actual,
		Paths:            paths,
		RefractiveField:  f,
		ResistanceMap:    rm,
		MomentumVectors:  vectors,
		ConfidenceScores: scores,
		Backend:          backend.Name(),
		UsedFallback:     usedFallback,
	}
}

func emptyPrediction(backend string) *model.Prediction {
	return &model.Prediction{
		Timestamps:       []int64{},
		ActualPrice:      []float64{},
		Paths:            []model.Path{},
		RefractiveField:  model.RefractiveField{},
		ResistanceMap:    model.ResistanceMap{},
		MomentumVectors:  [][]model.MomentumVector{},
		ConfidenceScores: [][]float64{},
		Backend:          backend,
	}
}
