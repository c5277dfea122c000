// Package entry chooses the starting coordinates for path searches: evenly
// spaced prices across the grid, pushed apart by a bounded repulsion
// relaxation, with the current market price always represented.
package entry

import (
	"math"

	"LiquidityLens/internal/model"
)

// maxRelaxIterations bounds the repulsion fixed-point iteration.
const maxRelaxIterations = 20

// MinSeparation returns the minimum index distance entry points should keep
// from each other for the given grid width and path count.
func MinSeparation(levels, pathCount int) int {
	if pathCount < 1 {
		return 1
	}
	sep := int(math.Floor(float64(levels) / (float64(pathCount) * 1.5)))
	if sep < 1 {
		sep = 1
	}
	return sep
}

// Select picks pathCount entry points across the heatmap's price grid.
// pathCount == 1 yields exactly the market-price point (nearest grid index to
// firstClose). For larger counts, points start evenly spaced by price, are
// relaxed apart until all pairwise distances reach MinSeparation or the
// iteration cap is hit, and the middle point is replaced by the market-price
// point when no relaxed point lands near it. All entry points use time index 0.
func Select(h *model.Heatmap, firstClose float64, pathCount int) []model.EntryPoint {
	if h.Empty() || pathCount < 1 {
		return nil
	}
	levels := h.PriceLevels
	marketIdx := model.NearestLevelIndex(levels, firstClose)

	if pathCount == 1 {
		return []model.EntryPoint{{Price: levels[marketIdx], PriceIndex: marketIdx}}
	}

	points := spreadEvenly(levels, pathCount)
	minSep := MinSeparation(len(levels), pathCount)

	for i := 0; i < maxRelaxIterations; i++ {
		var moved bool
		points, moved = relaxOnce(points, minSep, levels)
		if !moved {
			break
		}
	}

	if !hasPointNear(points, marketIdx, minSep) {
		mid := pathCount / 2
		points[mid] = model.EntryPoint{Price: levels[marketIdx], PriceIndex: marketIdx}
	}
	return points
}

// spreadEvenly places pathCount points at linearly interpolated prices across
// [minPrice, maxPrice], each snapped to its nearest grid index.
func spreadEvenly(levels []float64, pathCount int) []model.EntryPoint {
	minPrice, maxPrice := levels[0], levels[len(levels)-1]
	points := make([]model.EntryPoint, pathCount)
	for i := 0; i < pathCount; i++ {
		target := minPrice + (maxPrice-minPrice)*float64(i)/float64(pathCount-1)
		idx := model.NearestLevelIndex(levels, target)
		points[i] = model.EntryPoint{Price: levels[idx], PriceIndex: idx}
	}
	return points
}

// relaxOnce performs one full pass of pairwise repulsion and reports whether
// any point moved. Points closer than minSep are pushed apart proportionally
// to the outstanding overlap, clamped to the grid, and their prices refreshed
// from the new indices. Pure: the input slice is not modified.
func relaxOnce(points []model.EntryPoint, minSep int, levels []float64) ([]model.EntryPoint, bool) {
	out := make([]model.EntryPoint, len(points))
	copy(out, points)
	moved := false

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			d := out[j].PriceIndex - out[i].PriceIndex
			if d < 0 {
				d = -d
			}
			if d >= minSep {
				continue
			}
			force := float64(minSep-d) / float64(minSep)
			shift := int(math.Round(force * float64(minSep) / 2))
			if shift < 1 {
				shift = 1
			}
			lo, hi := i, j
			if out[j].PriceIndex < out[i].PriceIndex {
				lo, hi = j, i
			}
			newLo := clampIndex(out[lo].PriceIndex-shift, len(levels))
			newHi := clampIndex(out[hi].PriceIndex+shift, len(levels))
			if newLo != out[lo].PriceIndex || newHi != out[hi].PriceIndex {
				moved = true
			}
			out[lo].PriceIndex = newLo
			out[hi].PriceIndex = newHi
			out[lo].Price = levels[out[lo].PriceIndex]
			out[hi].Price = levels[out[hi].PriceIndex]
		}
	}
	return out, moved
}

// SeparationViolations sums, over all pairs, how far below minSep each
// pairwise index distance falls. Zero means fully separated.
func SeparationViolations(points []model.EntryPoint, minSep int) int {
	total := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := points[j].PriceIndex - points[i].PriceIndex
			if d < 0 {
				d = -d
			}
			if d < minSep {
				total += minSep - d
			}
		}
	}
	return total
}

func hasPointNear(points []model.EntryPoint, idx, minSep int) bool {
	for _, p := range points {
		d := p.PriceIndex - idx
		if d < 0 {
			d = -d
		}
		if d <= minSep {
			return true
		}
	}
	return false
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
