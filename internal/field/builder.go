// Package field converts an order-book heatmap into a refractive-index
// field: a per-timestamp, per-price-level resistance scalar plus its local
// gradients along the price axis. Each row is normalized independently, so
// a quiet hour cannot flatten the field of a busy one.
package field

import (
	"fmt"

	"LiquidityLens/internal/model"
)

// MaxPassable is the resistance cutoff. Cells above it represent extremely
// low liquidity and are excluded from path search.
const MaxPassable = 3.0

// Build derives the refractive field for a heatmap using the given backend.
// An empty heatmap yields an empty field, not an error. Deterministic:
// each row is a pure function of that row's volumes.
func Build(h *model.Heatmap, b Backend) (model.RefractiveField, error) {
	if h.Empty() {
		return model.RefractiveField{}, nil
	}
	out := make(model.RefractiveField, len(h.Rows))
	for t, row := range h.Rows {
		rs, err := b.Resistances(row.Volumes)
		if err != nil {
			return nil, fmt.Errorf("%s backend row %d: %w", b.Name(), t, err)
		}
		out[t] = rs
	}
	return out, nil
}

// BuildResistanceMap annotates a refractive field with forward/backward
// first differences along the price axis. Gradients default to 0 at the
// grid boundaries.
func BuildResistanceMap(f model.RefractiveField, levels []float64) model.ResistanceMap {
	out := make(model.ResistanceMap, len(f))
	for t, row := range f {
		cells := make([]model.ResistanceCell, len(row))
		for j, r := range row {
			cell := model.ResistanceCell{Resistance: r}
			if j < len(levels) {
				cell.Price = levels[j]
			}
			if j > 0 {
				cell.GradientDown = row[j] - row[j-1]
			}
			if j < len(row)-1 {
				cell.GradientUp = row[j+1] - row[j]
			}
			cells[j] = cell
		}
		out[t] = cells
	}
	return out
}
