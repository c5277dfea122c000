package collector

import "LiquidityLens/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchCandles(symbol string, limit int) ([]model.Candlestick, error)
	FetchHeatmap(symbol string, span int) (*model.Heatmap, error)
	Name() string
}
