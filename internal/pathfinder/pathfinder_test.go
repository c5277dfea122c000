package pathfinder

import (
	"math"
	"testing"

	"LiquidityLens/internal/field"
	"LiquidityLens/internal/model"
)

func buildHeatmap(t *testing.T, rows [][]float64, levels []float64) (*model.Heatmap, model.RefractiveField, model.ResistanceMap) {
	t.Helper()
	h := &model.Heatmap{
		Timestamps:  make([]int64, len(rows)),
		PriceLevels: levels,
		Rows:        make([]model.HeatmapRow, len(rows)),
	}
	for i, r := range rows {
		h.Timestamps[i] = int64(1700000000 + i*3600)
		h.Rows[i] = model.HeatmapRow{Volumes: r}
	}
	f, err := field.Build(h, field.ScalarBackend{})
	if err != nil {
		t.Fatalf("build field: %v", err)
	}
	return h, f, field.BuildResistanceMap(f, levels)
}

func flatCandles(n int, price float64) []model.Candlestick {
	candles := make([]model.Candlestick, n)
	for i := range candles {
		candles[i] = model.Candlestick{Timestamp: int64(1700000000 + i*3600), Close: price}
	}
	return candles
}

func TestVolatility(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		want    float64
		exactly bool
	}{
		{"too few closes", []float64{100}, 0.05, true},
		{"flat series clamps low", []float64{100, 100, 100, 100}, 0.01, true},
		{"wild series clamps high", []float64{100, 500, 10, 800}, 0.5, true},
	}
	for _, tt := range tests {
		candles := make([]model.Candlestick, len(tt.closes))
		for i, c := range tt.closes {
			candles[i] = model.Candlestick{Close: c}
		}
		got := Volatility(candles)
		if tt.exactly && got != tt.want {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestFindPath_LengthInvariant(t *testing.T) {
	rows := make([][]float64, 12)
	for i := range rows {
		rows[i] = []float64{10, 50, 100, 50, 10}
	}
	h, f, rm := buildHeatmap(t, rows, []float64{100, 101, 102, 103, 104})
	candles := flatCandles(12, 102)

	path := FindPath(f, rm, h, candles, model.EntryPoint{Price: 102, PriceIndex: 2}, nil, 0)
	if len(path) != h.Len() {
		t.Fatalf("expected path length %d, got %d", h.Len(), len(path))
	}
	for i, p := range path {
		if p.Resistance < 1 || p.Resistance > 3 {
			t.Errorf("point %d resistance out of range: %f", i, p.Resistance)
		}
	}
}

func TestFindPath_SingleLevelCollapse(t *testing.T) {
	// One price level: no search freedom, every path pins to it.
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = []float64{50}
	}
	h, f, rm := buildHeatmap(t, rows, []float64{100})
	candles := flatCandles(10, 100)

	var paths []model.Path
	for i := 0; i < 3; i++ {
		p := FindPath(f, rm, h, candles, model.EntryPoint{Price: 100, PriceIndex: 0}, paths, i)
		paths = append(paths, p)
	}
	for pi, p := range paths {
		for i, pt := range p {
			if pt.Price != 100 {
				t.Errorf("path %d point %d: expected price 100, got %f", pi, i, pt.Price)
			}
		}
	}
}

func TestFindPath_RoutesAroundCanyon(t *testing.T) {
	// Levels 8..12 form a zero-liquidity canyon between two liquid bands.
	const levels = 21
	priceLevels := make([]float64, levels)
	for j := range priceLevels {
		priceLevels[j] = 100 + float64(j)
	}
	rows := make([][]float64, 15)
	for i := range rows {
		r := make([]float64, levels)
		for j := range r {
			if j >= 8 && j <= 12 {
				r[j] = 0
			} else {
				r[j] = 100
			}
		}
		rows[i] = r
	}
	h, f, rm := buildHeatmap(t, rows, priceLevels)
	candles := flatCandles(15, priceLevels[5])

	lower := FindPath(f, rm, h, candles, model.EntryPoint{Price: priceLevels[2], PriceIndex: 2}, nil, 0)
	upper := FindPath(f, rm, h, candles, model.EntryPoint{Price: priceLevels[18], PriceIndex: 18}, []model.Path{lower}, 1)

	for _, path := range []model.Path{lower, upper} {
		for i, pt := range path {
			j := model.NearestLevelIndex(priceLevels, pt.Price)
			if j >= 8 && j <= 12 {
				t.Errorf("point %d landed inside the canyon at level %d (price %f)", i, j, pt.Price)
			}
		}
	}
}

func TestFindPath_AllImpassableHoldsPosition(t *testing.T) {
	// Hand-built field: everything after the entry row is beyond the
	// passable cutoff, so the path must hold its entry index throughout.
	const levels = 7
	priceLevels := make([]float64, levels)
	for j := range priceLevels {
		priceLevels[j] = 10 + float64(j)
	}
	h := &model.Heatmap{
		Timestamps:  []int64{0, 3600, 7200, 10800},
		PriceLevels: priceLevels,
		Rows:        make([]model.HeatmapRow, 4),
	}
	for i := range h.Rows {
		h.Rows[i] = model.HeatmapRow{Volumes: make([]float64, levels)}
	}
	f := make(model.RefractiveField, 4)
	for i := range f {
		f[i] = make([]float64, levels)
		for j := range f[i] {
			if i == 0 {
				f[i][j] = 1.5
			} else {
				f[i][j] = 4.0
			}
		}
	}
	rm := field.BuildResistanceMap(f, priceLevels)

	path := FindPath(f, rm, h, flatCandles(4, 13), model.EntryPoint{Price: 13, PriceIndex: 3}, nil, 0)
	if len(path) != 4 {
		t.Fatalf("expected 4 points, got %d", len(path))
	}
	for i, pt := range path {
		if pt.Price != 13 {
			t.Errorf("point %d: expected held price 13, got %f", i, pt.Price)
		}
	}
}

func TestFindPath_RepulsionSeparatesPaths(t *testing.T) {
	// Uniform liquidity: without repulsion both paths would converge on
	// the market level; the second must keep some distance at least once.
	const levels = 30
	priceLevels := make([]float64, levels)
	for j := range priceLevels {
		priceLevels[j] = 100 + float64(j)
	}
	rows := make([][]float64, 20)
	for i := range rows {
		r := make([]float64, levels)
		for j := range r {
			r[j] = 100
		}
		rows[i] = r
	}
	h, f, rm := buildHeatmap(t, rows, priceLevels)
	candles := flatCandles(20, 115)

	first := FindPath(f, rm, h, candles, model.EntryPoint{Price: 115, PriceIndex: 15}, nil, 0)
	second := FindPath(f, rm, h, candles, model.EntryPoint{Price: 116, PriceIndex: 16}, []model.Path{first}, 1)

	identical := true
	for i := range second {
		if second[i].Price != first[i].Price {
			identical = false
			break
		}
	}
	if identical {
		t.Error("repulsion should keep the second path off the first path's track")
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	rows := make([][]float64, 10)
	for i := range rows {
		r := make([]float64, 15)
		for j := range r {
			r[j] = math.Abs(math.Sin(float64(i*15+j))) * 100
		}
		rows[i] = r
	}
	priceLevels := make([]float64, 15)
	for j := range priceLevels {
		priceLevels[j] = float64(j + 1)
	}
	h, f, rm := buildHeatmap(t, rows, priceLevels)
	candles := flatCandles(10, 8)

	a := FindPath(f, rm, h, candles, model.EntryPoint{Price: 8, PriceIndex: 7}, nil, 0)
	b := FindPath(f, rm, h, candles, model.EntryPoint{Price: 8, PriceIndex: 7}, nil, 0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical runs", i)
		}
	}
}
