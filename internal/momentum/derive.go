// Package momentum derives per-point velocity, acceleration, force and a
// bounded confidence score from a finished path. Velocities are damped by
// the resistance at the segment origin, so motion through thin liquidity
// counts for less.
package momentum

import (
	"math"
	"time"

	"LiquidityLens/internal/model"
)

const (
	// minDtHours floors time deltas to avoid division blowups on
	// duplicate or near-duplicate timestamps.
	minDtHours = 0.001
	// dyScale stretches the display vector vertically so slow drifts
	// remain visible next to dx=1.
	dyScale = 20.0
)

// Derive computes momentum vectors and confidence scores for a path.
// Paths shorter than 3 points have no interior and yield empty collections.
// Boundary handling: the first point carries zero momentum, the last point
// forward-projects the final interior vector. Confidence is always in
// (0.3, 1.0] by construction.
func Derive(path model.Path) ([]model.MomentumVector, []float64) {
	if len(path) < 3 {
		return []model.MomentumVector{}, []float64{}
	}

	vectors := make([]model.MomentumVector, 0, len(path))
	scores := make([]float64, 0, len(path))

	vectors = append(vectors, model.MomentumVector{
		Time:  path[0].Time,
		Price: path[0].Price,
	})
	scores = append(scores, 0.5)

	prevDirection := math.NaN()
	lastScore := 0.5

	for i := 1; i < len(path)-1; i++ {
		dt1 := hoursBetween(path[i-1].Time, path[i].Time)
		dt2 := hoursBetween(path[i].Time, path[i+1].Time)

		v1 := (path[i].Price - path[i-1].Price) / (dt1 * path[i-1].Resistance)
		v2 := (path[i+1].Price - path[i].Price) / (dt2 * path[i].Resistance)
		accel := (v2 - v1) / (dt1 + dt2)
		force := accel * path[i].Resistance

		dx, dy := 1.0, v2*dyScale
		direction := math.Atan2(dy, dx)

		vectors = append(vectors, model.MomentumVector{
			Time:      path[i].Time,
			Price:     path[i].Price,
			DX:        dx,
			DY:        dy,
			Magnitude: math.Hypot(dx, dy),
			Direction: direction,
			Force:     force,
		})

		forceConsistency := 0.5
		if !math.IsNaN(prevDirection) {
			forceConsistency = math.Abs(math.Cos(prevDirection - direction))
		}
		speedFactor := 1 / path[i].Resistance
		gradientStability := math.Exp(-2 * math.Abs(force))
		score := 0.3 + 0.7*(0.4*forceConsistency+0.3*speedFactor+0.3*gradientStability)

		scores = append(scores, score)
		lastScore = score
		prevDirection = direction
	}

	// Final point: forward-project the last interior vector instead of
	// recomputing from a missing i+1.
	last := vectors[len(vectors)-1]
	vectors = append(vectors, model.MomentumVector{
		Time:      path[len(path)-1].Time,
		Price:     path[len(path)-1].Price,
		DX:        last.DX,
		DY:        last.DY,
		Magnitude: last.Magnitude,
		Direction: last.Direction,
		Force:     last.Force,
	})
	scores = append(scores, lastScore)

	return vectors, scores
}

func hoursBetween(a, b time.Time) float64 {
	dt := b.Sub(a).Hours()
	if dt < minDtHours {
		dt = minDtHours
	}
	return dt
}
