package collector

import (
	"fmt"
	"math"
	"time"

	"LiquidityLens/internal/model"
)

// MockFetcher returns controllable generated data for development and testing.
type MockFetcher struct {
	Price   float64
	Levels  int
	Candles []model.Candlestick
	Heatmap *model.Heatmap
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ string, limit int) ([]model.Candlestick, error) {
	if m.Candles != nil {
		return m.Candles, nil
	}
	return generateMockCandles(m.Price, limit), nil
}

func (m *MockFetcher) FetchHeatmap(_ string, span int) (*model.Heatmap, error) {
	if m.Heatmap != nil {
		return m.Heatmap, nil
	}
	levels := m.Levels
	if levels == 0 {
		levels = 50
	}
	return generateMockHeatmap(m.Price, span, levels), nil
}

func generateMockCandles(basePrice float64, count int) []model.Candlestick {
	start := time.Now().Add(-time.Duration(count) * time.Minute).Unix()
	candles := make([]model.Candlestick, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.002*math.Sin(float64(i)/7))
		candles[i] = model.Candlestick{
			Timestamp: start + int64(i)*60,
			Open:      p * 0.999,
			High:      p * 1.002,
			Low:       p * 0.998,
			Close:     p,
			Volume:    1000,
		}
	}
	return candles
}

func generateMockHeatmap(basePrice float64, span, levels int) *model.Heatmap {
	start := time.Now().Add(-time.Duration(span) * time.Minute).Unix()
	h := &model.Heatmap{
		Timestamps:  make([]int64, span),
		PriceLevels: make([]float64, levels),
		Rows:        make([]model.HeatmapRow, span),
	}
	for j := 0; j < levels; j++ {
		h.PriceLevels[j] = basePrice * (0.95 + 0.1*float64(j)/float64(levels-1))
	}
	mid := levels / 2
	for i := 0; i < span; i++ {
		h.Timestamps[i] = start + int64(i)*60
		vols := make([]float64, levels)
		for j := 0; j < levels; j++ {
			// Liquidity concentrated around the mid price, bids positive.
			dist := float64(j - mid)
			v := 100 * math.Exp(-dist*dist/50)
			if j >= mid {
				v = -v
			}
			vols[j] = v
		}
		h.Rows[i] = model.HeatmapRow{Volumes: vols}
	}
	return h
}

// Collector fetches and validates the candle/heatmap snapshot pair.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Span    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, span int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Span: span}
}

// Collect fetches a heatmap and its candle series, validates the heatmap
// invariants, and aligns candles to the heatmap timestamps. The returned
// candle slice is the aligned prefix: candles[i] closes at heatmap
// timestamp i for every returned element.
func (c *Collector) Collect() ([]model.Candlestick, *model.Heatmap, error) {
	h, err := c.Fetcher.FetchHeatmap(c.Symbol, c.Span)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch heatmap: %w", err)
	}
	if err := validateHeatmap(h); err != nil {
		return nil, nil, fmt.Errorf("heatmap from %s: %w", c.Fetcher.Name(), err)
	}
	candles, err := c.Fetcher.FetchCandles(c.Symbol, c.Span)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch candles: %w", err)
	}
	return alignCandles(candles, h.Timestamps), h, nil
}

// validateHeatmap checks the structural invariants the prediction core
// depends on. An empty heatmap is valid (it produces empty outputs).
func validateHeatmap(h *model.Heatmap) error {
	if h.Empty() {
		return nil
	}
	if len(h.Rows) != len(h.Timestamps) {
		return fmt.Errorf("row count %d does not match timestamp count %d", len(h.Rows), len(h.Timestamps))
	}
	for i := 1; i < len(h.Timestamps); i++ {
		if h.Timestamps[i] <= h.Timestamps[i-1] {
			return fmt.Errorf("timestamps not strictly increasing at index %d", i)
		}
	}
	for i := 1; i < len(h.PriceLevels); i++ {
		if h.PriceLevels[i] <= h.PriceLevels[i-1] {
			return fmt.Errorf("price levels not strictly increasing at index %d", i)
		}
	}
	for i, row := range h.Rows {
		if len(row.Volumes) != len(h.PriceLevels) {
			return fmt.Errorf("row %d has %d volumes, expected %d", i, len(row.Volumes), len(h.PriceLevels))
		}
	}
	return nil
}

// alignCandles returns the longest prefix of heatmap timestamps for which a
// candle with a matching timestamp exists. The path finder treats candle
// index i as the realized close at heatmap row i, so alignment must be a
// prefix, not a sparse match.
func alignCandles(candles []model.Candlestick, timestamps []int64) []model.Candlestick {
	byTime := make(map[int64]model.Candlestick, len(candles))
	for _, c := range candles {
		byTime[c.Timestamp] = c
	}
	aligned := make([]model.Candlestick, 0, len(timestamps))
	for _, ts := range timestamps {
		c, ok := byTime[ts]
		if !ok {
			break
		}
		aligned = append(aligned, c)
	}
	return aligned
}
