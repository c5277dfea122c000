package model

import "time"

// EntryPoint is the starting coordinate for one independent path search.
// TimeIndex is always 0 in the current pipeline. Never mutated after selection.
type EntryPoint struct {
	Price      float64
	PriceIndex int
	TimeIndex  int
}

// PathPoint is one step of a predicted price trajectory.
type PathPoint struct {
	Time       time.Time
	Price      float64
	Resistance float64
}

// Path is an ordered trajectory, one point per timestamp from the entry
// point's time index to the end of the heatmap. Append-only during
// construction, immutable afterwards; later paths read earlier paths for
// repulsion but never mutate them.
type Path []PathPoint

// MomentumVector describes the local motion of a path at one point.
// DX/DY form the display vector; Direction is atan2(DY, DX) in radians.
type MomentumVector struct {
	Time      time.Time
	Price     float64
	DX        float64
	DY        float64
	Magnitude float64
	Direction float64
	Force     float64
}

// Prediction is the aggregate result consumed by the rendering layer.
// Paths, MomentumVectors and ConfidenceScores are parallel per path index.
type Prediction struct {
	Timestamps       []int64
	ActualPrice      []float64
	Paths            []Path
	RefractiveField  RefractiveField
	ResistanceMap    ResistanceMap
	MomentumVectors  [][]MomentumVector
	ConfidenceScores [][]float64
	Backend          string
	UsedFallback     bool
}
