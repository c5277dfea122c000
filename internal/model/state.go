package model

import "time"

// SignalState tracks the last notified OBM signal across runs, so the bot
// does not re-alert on the same event every recompute.
type SignalState struct {
	LastSignal      SignalType `json:"last_signal"`
	LastSignalAt    int64      `json:"last_signal_at"` // heatmap timestamp of the signal
	NotifiedAt      time.Time  `json:"notified_at"`
	RecentStrengths []float64  `json:"recent_strengths"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
