package momentum

import (
	"testing"
	"time"

	"LiquidityLens/internal/model"
)

func makePath(prices []float64, resistance float64) model.Path {
	start := time.Unix(1700000000, 0).UTC()
	path := make(model.Path, len(prices))
	for i, p := range prices {
		path[i] = model.PathPoint{
			Time:       start.Add(time.Duration(i) * time.Hour),
			Price:      p,
			Resistance: resistance,
		}
	}
	return path
}

func TestDerive_ShortPath(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		prices := make([]float64, n)
		vectors, scores := Derive(makePath(prices, 1.5))
		if len(vectors) != 0 || len(scores) != 0 {
			t.Errorf("path length %d: expected empty collections, got %d vectors, %d scores", n, len(vectors), len(scores))
		}
	}
}

func TestDerive_Lengths(t *testing.T) {
	path := makePath([]float64{100, 101, 103, 102, 104, 105}, 1.2)
	vectors, scores := Derive(path)
	if len(vectors) != len(path) {
		t.Fatalf("expected %d vectors, got %d", len(path), len(vectors))
	}
	if len(scores) != len(path) {
		t.Fatalf("expected %d scores, got %d", len(path), len(scores))
	}
}

func TestDerive_ConfidenceBounds(t *testing.T) {
	path := makePath([]float64{100, 150, 90, 200, 50, 300, 100}, 1.1)
	_, scores := Derive(path)
	for i, s := range scores {
		if s <= 0.3 || s > 1.0 {
			t.Errorf("score %d out of (0.3, 1.0]: %f", i, s)
		}
	}
}

func TestDerive_BoundaryPoints(t *testing.T) {
	path := makePath([]float64{100, 102, 104, 106}, 1.0)
	vectors, scores := Derive(path)

	first := vectors[0]
	if first.DX != 0 || first.DY != 0 || first.Magnitude != 0 || first.Force != 0 {
		t.Errorf("first vector should carry zero momentum: %+v", first)
	}

	last := vectors[len(vectors)-1]
	penultimate := vectors[len(vectors)-2]
	if last.Direction != penultimate.Direction || last.Magnitude != penultimate.Magnitude {
		t.Errorf("last vector should duplicate the final interior vector: %+v vs %+v", last, penultimate)
	}
	if scores[len(scores)-1] != scores[len(scores)-2] {
		t.Errorf("last score should reuse the final interior score")
	}
}

func TestDerive_SteadyClimbHasUpwardVectors(t *testing.T) {
	path := makePath([]float64{100, 102, 104, 106, 108}, 1.0)
	vectors, _ := Derive(path)
	for i := 1; i < len(vectors)-1; i++ {
		if vectors[i].DY <= 0 {
			t.Errorf("interior vector %d should point up for a climbing path, DY=%f", i, vectors[i].DY)
		}
		if vectors[i].DX != 1 {
			t.Errorf("interior vector %d: DX should be 1, got %f", i, vectors[i].DX)
		}
	}
}

func TestDerive_ZeroTimeDeltaGuarded(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	path := model.Path{
		{Time: start, Price: 100, Resistance: 1.0},
		{Time: start, Price: 101, Resistance: 1.0}, // duplicate timestamp
		{Time: start.Add(time.Hour), Price: 102, Resistance: 1.0},
	}
	vectors, scores := Derive(path)
	for i, v := range vectors {
		if isNaNOrInf(v.DY) || isNaNOrInf(v.Force) {
			t.Errorf("vector %d has non-finite values: %+v", i, v)
		}
	}
	for i, s := range scores {
		if isNaNOrInf(s) {
			t.Errorf("score %d is non-finite: %f", i, s)
		}
	}
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e308 || v < -1e308
}
