package model

// Candlestick represents a single closed candle. Open/High/Low/Volume are
// carried for the fetch layer; the prediction core only reads Timestamp and Close.
type Candlestick struct {
	Timestamp int64 // unix seconds
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// HeatmapRow holds the signed order-book volume at each price level for one
// timestamp. Negative values are asks, positive are bids; the prediction core
// uses magnitudes only.
type HeatmapRow struct {
	Volumes []float64
}

// Heatmap is a liquidity snapshot series over a fixed price grid.
// Invariants: Timestamps strictly increasing, PriceLevels strictly increasing,
// len(Rows) == len(Timestamps), and every row has len(PriceLevels) volumes.
type Heatmap struct {
	Timestamps  []int64
	PriceLevels []float64
	Rows        []HeatmapRow
}

// Len returns the number of timestamps (T).
func (h *Heatmap) Len() int { return len(h.Timestamps) }

// Levels returns the number of price levels (P).
func (h *Heatmap) Levels() int { return len(h.PriceLevels) }

// Empty reports whether the heatmap carries no usable data.
func (h *Heatmap) Empty() bool {
	return h == nil || len(h.Timestamps) == 0 || len(h.PriceLevels) == 0 || len(h.Rows) == 0
}

// NearestLevelIndex maps a price to the closest grid index by linear scan.
// Ties resolve to the smallest index. Returns -1 for an empty grid.
func NearestLevelIndex(levels []float64, price float64) int {
	if len(levels) == 0 {
		return -1
	}
	best := 0
	bestDist := abs(levels[0] - price)
	for i := 1; i < len(levels); i++ {
		if d := abs(levels[i] - price); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
