package model

// RefractiveField is a T×P matrix of resistance values derived from a heatmap.
// Values lie in [1, 3]: 1 means maximal liquidity (least resistance), values
// near 3 mean no liquidity. Cells above the impassable cutoff are excluded
// from path search. Immutable once built; shared read-only across path searches.
type RefractiveField [][]float64

// ResistanceCell carries one field cell together with its local price-axis
// gradients. GradientDown is the backward first difference, GradientUp the
// forward one; both are 0 at the respective grid boundary.
type ResistanceCell struct {
	Price        float64
	Resistance   float64
	GradientUp   float64
	GradientDown float64
}

// ResistanceMap is the T×P gradient-annotated view of a RefractiveField.
// Derived once per field; immutable.
type ResistanceMap [][]ResistanceCell
