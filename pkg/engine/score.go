package engine

import (
	"fmt"
	"math"
	"strings"
)

// FormatScore renders a white-perspective score the way the side panel
// shows it: pawns with an explicit sign, or a mate distance.
func FormatScore(cp int, mate bool, mateIn int) string {
	if mate {
		return fmt.Sprintf("Mate in %d", mateIn)
	}
	if cp >= 0 {
		return fmt.Sprintf("+%.2f", float64(cp)/100)
	}
	return fmt.Sprintf("%.2f", float64(cp)/100)
}

// WinProb maps centipawns to white's expected score using the usual
// elo logistic.
func WinProb(cp int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(-cp)/400.0))
}

// Thermometer draws the one-line eval bar: a marker on a dashed rail,
// clamped to ±3 pawns.
func Thermometer(cp, width int) string {
	const cpRange = 300
	if width < 3 {
		width = 3
	}
	if cp > cpRange {
		cp = cpRange
	}
	if cp < -cpRange {
		cp = -cpRange
	}
	center := width / 2
	offset := int(math.Round(float64(cp) / cpRange * float64(center)))
	marker := center + offset
	if marker < 0 {
		marker = 0
	}
	if marker >= width {
		marker = width - 1
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		if i == marker {
			b.WriteRune('█')
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte(']')
	return b.String()
}
