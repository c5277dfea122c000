package notifier

import (
	"fmt"
	"strings"
	"time"

	"LiquidityLens/internal/model"
)

// FormatPredictionReport formats a prediction run into a Telegram message.
func FormatPredictionReport(symbol string, pred *model.Prediction) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔭 <b>LiquidityLens</b> | %s | %s\n\n", symbol, time.Now().Format("2006-01-02 15:04")))

	if len(pred.Paths) == 0 {
		b.WriteString("No paths computed (insufficient data)\n")
		return b.String()
	}

	current := pred.ActualPrice[0]
	b.WriteString(fmt.Sprintf("Current price: %.2f\n", current))
	b.WriteString(fmt.Sprintf("Backend: %s", pred.Backend))
	if pred.UsedFallback {
		b.WriteString(" (fallback)")
	}
	b.WriteString("\n\n📈 <b>Predicted paths:</b>\n")

	for i, path := range pred.Paths {
		if len(path) == 0 {
			continue
		}
		entry := path[0].Price
		final := path[len(path)-1].Price
		drift := 0.0
		if entry != 0 {
			drift = (final - entry) / entry * 100
		}
		conf := meanConfidence(pred.ConfidenceScores[i])
		b.WriteString(fmt.Sprintf("  #%d: %.2f → %.2f (%+.2f%%) conf %.0f%%\n",
			i, entry, final, drift, conf*100))
	}

	return b.String()
}

// FormatSignalAlert formats a detected OBM signal into a Telegram message.
func FormatSignalAlert(symbol string, sig model.SignalType, at int64, strength, obmValue, trend float64) string {
	icon := "🟢"
	if sig == model.SignalSell {
		icon = "🔴"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b> | strength %.0f/100\n\n", icon, symbol, sig, strength))
	b.WriteString(fmt.Sprintf("OBM: %+.4f | trend: %+.4f\n", obmValue, trend))
	b.WriteString(fmt.Sprintf("Signal time: %s\n", time.Unix(at, 0).UTC().Format("2006-01-02 15:04")))
	return b.String()
}

// FormatSummary formats the tracked signal state for the daily summary.
func FormatSummary(symbol string, state *model.SignalState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Daily summary</b> | %s\n\n", symbol))
	if state.LastSignal == model.SignalNone || state.LastSignalAt == 0 {
		b.WriteString("No signals recorded yet\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last signal: %s at %s\n",
		state.LastSignal, time.Unix(state.LastSignalAt, 0).UTC().Format("2006-01-02 15:04")))
	if len(state.RecentStrengths) > 0 {
		sum := 0.0
		for _, s := range state.RecentStrengths {
			sum += s
		}
		b.WriteString(fmt.Sprintf("Average strength: %.0f/100 (%d signals)\n",
			sum/float64(len(state.RecentStrengths)), len(state.RecentStrengths)))
	}
	return b.String()
}

func meanConfidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
