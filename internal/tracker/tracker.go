// Package tracker decides which detected signals are worth alerting on.
// The detector recomputes the full series every run, so the same BUY shows
// up again and again; the tracker keeps the last notified event on disk and
// lets only genuinely new signals through.
package tracker

import (
	"log"
	"sync"
	"time"

	"LiquidityLens/internal/model"
)

// maxRecentStrengths bounds the rolling strength history kept in state.
const maxRecentStrengths = 12

// Tracker handles signal dedup with concurrency safety.
type Tracker struct {
	mu       sync.Mutex
	state    *model.SignalState
	filePath string
}

// NewTracker creates a Tracker, loading or initializing state from disk.
func NewTracker(filePath string) (*Tracker, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.LastSignal == "" {
		state.LastSignal = model.SignalNone
	}
	return &Tracker{state: state, filePath: filePath}, nil
}

// GetState returns a copy of the current signal state.
func (t *Tracker) GetState() model.SignalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.state
}

// ShouldNotify reports whether a detected signal is new since the last
// notification and, if so, records it. A signal is new when its heatmap
// timestamp is later than the last notified one; a repeat of the same
// direction at the same timestamp is suppressed.
func (t *Tracker) ShouldNotify(sig model.SignalType, at int64, strength float64) bool {
	if sig == model.SignalNone {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if at <= t.state.LastSignalAt && sig == t.state.LastSignal {
		return false
	}
	t.state.LastSignal = sig
	t.state.LastSignalAt = at
	t.state.NotifiedAt = time.Now()
	t.state.RecentStrengths = append(t.state.RecentStrengths, strength)
	if len(t.state.RecentStrengths) > maxRecentStrengths {
		t.state.RecentStrengths = t.state.RecentStrengths[len(t.state.RecentStrengths)-maxRecentStrengths:]
	}
	if err := t.save(); err != nil {
		log.Printf("[WARN] save signal state: %v", err)
	}
	return true
}

func (t *Tracker) save() error {
	return SaveState(t.filePath, t.state)
}
