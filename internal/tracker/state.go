package tracker

import (
	"encoding/json"
	"os"
	"time"

	"LiquidityLens/internal/model"
)

// LoadState reads the signal state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.SignalState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.SignalState{LastSignal: model.SignalNone}, nil
		}
		return nil, err
	}
	var state model.SignalState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the signal state to a JSON file.
func SaveState(filePath string, state *model.SignalState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
