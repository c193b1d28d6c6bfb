package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barFilled = "█"
	barEmpty  = "░"

	// minLabelWidth keeps bar labels aligned across rows.
	minLabelWidth = 12
)

// BarItem is one labeled value of a bar chart.
type BarItem struct {
	Label string
	Value float64
}

// BarRow renders a single horizontal bar whose filled length is
// proportional to value/max. Values at or below zero render empty; max at
// or below zero renders an empty track.
func BarRow(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(value / max * float64(width))
		if filled > width {
			filled = width
		}
		if filled == 0 {
			// A positive value always shows at least one cell.
			filled = 1
		}
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// BarChart renders labeled items as aligned horizontal bars scaled against
// the largest value, one row per item.
func BarChart(items []BarItem, barWidth int, style lipgloss.Style) string {
	if len(items) == 0 {
		return ""
	}

	labelWidth := minLabelWidth
	max := 0.0
	for _, it := range items {
		if len(it.Label) > labelWidth {
			labelWidth = len(it.Label)
		}
		if it.Value > max {
			max = it.Value
		}
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		bar := style.Render(BarRow(it.Value, max, barWidth))
		fmt.Fprintf(&b, "%-*s %s %s", labelWidth, it.Label, bar, formatCompact(it.Value))
	}
	return b.String()
}

// formatCompact shortens large magnitudes for axis labels.
func formatCompact(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
