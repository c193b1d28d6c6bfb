package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeatLevel buckets a percentage change for heatmap coloring.
type HeatLevel int

// Heat levels from strong decline to strong gain.
const (
	HeatStrongDown HeatLevel = iota
	HeatDown
	HeatFlat
	HeatUp
	HeatStrongUp
)

// Bucket thresholds in percent. Moves inside ±flatThreshold read as noise.
const (
	flatThreshold   = 0.25
	strongThreshold = 2.0
)

// heatStyles maps each level to its cell style.
var heatStyles = map[HeatLevel]lipgloss.Style{
	HeatStrongDown: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")),
	HeatDown:       lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("95")),
	HeatFlat:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("238")),
	HeatUp:         lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28")),
	HeatStrongUp:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("34")),
}

// HeatCell is one region cell of the heatmap row.
type HeatCell struct {
	Label     string
	Value     float64
	ChangePct float64
}

// LevelFor buckets a percentage change.
func LevelFor(changePct float64) HeatLevel {
	switch {
	case changePct <= -strongThreshold:
		return HeatStrongDown
	case changePct < -flatThreshold:
		return HeatDown
	case changePct <= flatThreshold:
		return HeatFlat
	case changePct < strongThreshold:
		return HeatUp
	default:
		return HeatStrongUp
	}
}

// HeatmapRow renders cells side by side, each colored by its change bucket
// and annotated with value and signed change.
func HeatmapRow(cells []HeatCell) string {
	if len(cells) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		text := fmt.Sprintf(" %s %.0f (%+.1f%%) ", c.Label, c.Value, c.ChangePct)
		parts = append(parts, heatStyles[LevelFor(c.ChangePct)].Render(text))
	}
	return strings.Join(parts, " ")
}
