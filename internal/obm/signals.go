package obm

import (
	"math"

	"LiquidityLens/internal/model"
)

const (
	signalAlphaFirst  = 0.15 // first re-smoothing of the final oscillator
	signalAlphaSecond = 0.25 // second smoothing layered on the first
	divergenceWindow  = 10
	cooldownIndices   = 5

	divergenceFactor = 33.0
	reversalFactor   = 25.0
	zeroCrossFactor  = 20.0
)

// detectSignals runs the stateful signal pass over the final oscillator
// values. The oscillator is double-smoothed and divergences are read as a
// disagreement between the two smoothings of the same series (never against
// price). At most one signal fires per index, long/short position state is
// tracked, and no two signals fire within cooldownIndices of each other.
// Priority per direction: divergence, then reversal, then zero-cross.
func detectSignals(values, trend []float64) ([]model.SignalType, []float64) {
	n := len(values)
	signals := make([]model.SignalType, n)
	strengths := make([]float64, n)
	for i := range signals {
		signals[i] = model.SignalNone
	}
	if n < 3 {
		return signals, strengths
	}

	momentum := ema(values, signalAlphaFirst)
	second := ema(momentum, signalAlphaSecond)

	inLong, inShort := false, false
	lastSignal := -cooldownIndices - 1

	for i := 2; i < n; i++ {
		if i-lastSignal <= cooldownIndices {
			continue
		}

		sig := model.SignalNone
		factor := 0.0
		switch {
		case !inLong && bullishDivergence(momentum, second, i):
			sig, factor = model.SignalBuy, divergenceFactor
		case !inShort && bearishDivergence(momentum, second, i):
			sig, factor = model.SignalSell, divergenceFactor
		case !inLong && bullishReversal(momentum, i):
			sig, factor = model.SignalBuy, reversalFactor
		case !inShort && bearishReversal(momentum, i):
			sig, factor = model.SignalSell, reversalFactor
		case !inLong && crossesUp(momentum, i):
			sig, factor = model.SignalBuy, zeroCrossFactor
		case !inShort && crossesDown(momentum, i):
			sig, factor = model.SignalSell, zeroCrossFactor
		}
		if sig == model.SignalNone {
			continue
		}

		signals[i] = sig
		strengths[i] = signalStrength(values[i], trend[i], factor)
		lastSignal = i
		inLong = sig == model.SignalBuy
		inShort = sig == model.SignalSell
	}
	return signals, strengths
}

// signalStrength blends oscillator magnitude and trend magnitude, scaled by
// the per-trigger factor and capped at 100.
func signalStrength(value, trend, factor float64) float64 {
	s := (math.Abs(value) + math.Abs(trend)*2) * factor
	if s > 100 {
		s = 100
	}
	return s
}

// bullishDivergence: momentum is negative, the second smoothing makes a new
// window low at i, but momentum itself holds above its own window low.
func bullishDivergence(momentum, second []float64, i int) bool {
	lo := i - divergenceWindow + 1
	if lo < 0 {
		lo = 0
	}
	if i-lo < 2 || momentum[i] >= 0 {
		return false
	}
	minSecond, minMomentum := second[lo], momentum[lo]
	for k := lo; k < i; k++ {
		if second[k] < minSecond {
			minSecond = second[k]
		}
		if momentum[k] < minMomentum {
			minMomentum = momentum[k]
		}
	}
	return second[i] <= minSecond && momentum[i] > minMomentum
}

// bearishDivergence mirrors bullishDivergence at a window high.
func bearishDivergence(momentum, second []float64, i int) bool {
	lo := i - divergenceWindow + 1
	if lo < 0 {
		lo = 0
	}
	if i-lo < 2 || momentum[i] <= 0 {
		return false
	}
	maxSecond, maxMomentum := second[lo], momentum[lo]
	for k := lo; k < i; k++ {
		if second[k] > maxSecond {
			maxSecond = second[k]
		}
		if momentum[k] > maxMomentum {
			maxMomentum = momentum[k]
		}
	}
	return second[i] >= maxSecond && momentum[i] < maxMomentum
}

// bullishReversal: momentum troughs below zero and turns back up.
func bullishReversal(momentum []float64, i int) bool {
	return momentum[i] < 0 &&
		momentum[i-1] < momentum[i-2] &&
		momentum[i] > momentum[i-1]
}

// bearishReversal: momentum peaks above zero and turns back down.
func bearishReversal(momentum []float64, i int) bool {
	return momentum[i] > 0 &&
		momentum[i-1] > momentum[i-2] &&
		momentum[i] < momentum[i-1]
}

func crossesUp(momentum []float64, i int) bool {
	return momentum[i-1] <= 0 && momentum[i] > 0
}

func crossesDown(momentum []float64, i int) bool {
	return momentum[i-1] >= 0 && momentum[i] < 0
}
