package field

import (
	"math"
	"runtime"
	"sync"
)

// decayRate controls how fast resistance rises as liquidity thins out.
// resistance = 1 + 2*exp(-decayRate*normalized): full liquidity maps to ~1,
// zero liquidity to 3.
const decayRate = 5.0

// Backend computes resistance values for one heatmap row. Implementations
// must be pure: same volumes in, same resistances out, no retained state.
// An accelerated backend that fails is substituted by ScalarBackend at the
// predictor boundary; the algorithm itself never branches on backend type.
type Backend interface {
	Name() string
	Resistances(volumes []float64) ([]float64, error)
}

// ScalarBackend is the reference implementation. It cannot fail.
type ScalarBackend struct{}

func (ScalarBackend) Name() string { return "scalar" }

// Resistances normalizes each volume magnitude against the row maximum and
// maps it to a resistance in [1, 3]. A zero row yields all-3 (no liquidity).
func (ScalarBackend) Resistances(volumes []float64) ([]float64, error) {
	out := make([]float64, len(volumes))
	maxVol := maxAbs(volumes)
	for j, v := range volumes {
		normalized := 0.0
		if maxVol > 0 {
			normalized = math.Abs(v) / maxVol
		}
		out[j] = 1 + math.Exp(-decayRate*normalized)*2
	}
	return out, nil
}

// ParallelBackend computes the same values as ScalarBackend using a pool of
// goroutines per row. Intended for wide price grids; results are bit-identical
// to the reference since every element is computed independently.
type ParallelBackend struct {
	Workers int
}

// NewParallelBackend creates a backend with the given worker count,
// defaulting to GOMAXPROCS when workers <= 0.
func NewParallelBackend(workers int) *ParallelBackend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ParallelBackend{Workers: workers}
}

func (b *ParallelBackend) Name() string { return "parallel" }

func (b *ParallelBackend) Resistances(volumes []float64) ([]float64, error) {
	n := len(volumes)
	if n == 0 {
		return []float64{}, nil
	}
	workers := b.Workers
	if workers > n {
		workers = n
	}
	out := make([]float64, n)
	maxVol := maxAbs(volumes)

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for j := lo; j < hi; j++ {
				normalized := 0.0
				if maxVol > 0 {
					normalized = math.Abs(volumes[j]) / maxVol
				}
				out[j] = 1 + math.Exp(-decayRate*normalized)*2
			}
		}(start, end)
	}
	wg.Wait()
	return out, nil
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
