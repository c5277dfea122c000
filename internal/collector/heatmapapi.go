package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"LiquidityLens/internal/model"
)

// HeatmapAPIFetcher implements Fetcher against a heatmap dashboard REST API
// that serves bucketed order-book depth history and klines.
type HeatmapAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHeatmapAPIFetcher creates a new fetcher with optional proxy support.
func NewHeatmapAPIFetcher(baseURL, apiKey, proxyURL string) *HeatmapAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HeatmapAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HeatmapAPIFetcher) Name() string { return "heatmap-api" }

// apiCandle is the expected kline JSON shape.
type apiCandle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// apiHeatmap is the expected heatmap JSON shape.
type apiHeatmap struct {
	Timestamps  []int64   `json:"timestamps"`
	PriceLevels []float64 `json:"priceLevels"`
	Heatmap     []struct {
		Volumes []float64 `json:"volumes"`
	} `json:"heatmap"`
}

func (f *HeatmapAPIFetcher) FetchCandles(symbol string, limit int) ([]model.Candlestick, error) {
	endpoint := fmt.Sprintf("%s/api/v1/klines?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), limit)
	body, err := f.get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	var raw []apiCandle
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	candles := make([]model.Candlestick, len(raw))
	for i, c := range raw {
		candles[i] = model.Candlestick{
			Timestamp: c.Timestamp,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
	return candles, nil
}

func (f *HeatmapAPIFetcher) FetchHeatmap(symbol string, span int) (*model.Heatmap, error) {
	endpoint := fmt.Sprintf("%s/api/v1/heatmap?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), span)
	body, err := f.get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch heatmap: %w", err)
	}
	var raw apiHeatmap
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode heatmap: %w", err)
	}
	h := &model.Heatmap{
		Timestamps:  raw.Timestamps,
		PriceLevels: raw.PriceLevels,
		Rows:        make([]model.HeatmapRow, len(raw.Heatmap)),
	}
	for i, row := range raw.Heatmap {
		h.Rows[i] = model.HeatmapRow{Volumes: row.Volumes}
	}
	return h, nil
}

func (f *HeatmapAPIFetcher) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
