package charts_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abfi/biolens/internal/charts"
)

func TestSparklineQuantization(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{name: "empty", values: nil, want: ""},
		{name: "single value sits mid-range", values: []float64{5}, want: "▅"},
		{name: "flat series sits mid-range", values: []float64{3, 3, 3}, want: "▅▅▅"},
		{name: "min and max hit the extremes", values: []float64{0, 100}, want: "▁█"},
		{
			name:   "monotonic ramp climbs the glyph ladder",
			values: []float64{0, 1, 2, 3, 4, 5, 6, 7},
			want:   "▁▂▃▄▅▆▇█",
		},
		{name: "negative ranges normalize the same way", values: []float64{-10, -5, 0}, want: "▁▅█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, charts.Sparkline(tt.values))
		})
	}
}

func TestSparklineIsDeterministic(t *testing.T) {
	values := []float64{42.1, 17.3, 88.8, 51.0}
	assert.Equal(t, charts.Sparkline(values), charts.Sparkline(values))
}

func TestBarRowProportionalToMax(t *testing.T) {
	full := charts.BarRow(100, 100, 10)
	assert.Equal(t, 10, strings.Count(full, "█"))

	half := charts.BarRow(50, 100, 10)
	assert.Equal(t, 5, strings.Count(half, "█"))
	assert.Equal(t, 5, strings.Count(half, "░"))

	empty := charts.BarRow(0, 100, 10)
	assert.Equal(t, 0, strings.Count(empty, "█"))
	assert.Equal(t, 10, strings.Count(empty, "░"))
}

func TestBarRowEdgeCases(t *testing.T) {
	assert.Equal(t, "", charts.BarRow(10, 100, 0), "zero width renders nothing")
	assert.Equal(t, 1, strings.Count(charts.BarRow(0.1, 1000, 10), "█"),
		"tiny positive values keep one visible cell")
	assert.Equal(t, 0, strings.Count(charts.BarRow(10, 0, 10), "█"),
		"non-positive max renders an empty track")
	assert.Equal(t, 10, strings.Count(charts.BarRow(200, 100, 10), "█"),
		"values above max clamp to full width")
}

func TestCandleColorKeysOnCloseVersusOpen(t *testing.T) {
	tests := []struct {
		name    string
		candle  charts.OHLC
		bullish bool
	}{
		{name: "close below open is bearish", candle: charts.OHLC{Open: 100, High: 110, Low: 90, Close: 95}, bullish: false},
		{name: "close above open is bullish", candle: charts.OHLC{Open: 95, High: 110, Low: 90, Close: 100}, bullish: true},
		{name: "doji counts as bullish", candle: charts.OHLC{Open: 100, High: 105, Low: 95, Close: 100}, bullish: true},
		// Absolute level must not matter, only the close-open comparison.
		{name: "high-priced bearish candle", candle: charts.OHLC{Open: 9000, High: 9100, Low: 8800, Close: 8900}, bullish: false},
		{name: "negative-spread bullish candle", candle: charts.OHLC{Open: -5, High: 1, Low: -6, Close: -1}, bullish: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bullish, tt.candle.Bullish())
			if tt.bullish {
				assert.Equal(t, charts.BullishStyle, charts.StyleFor(tt.candle))
			} else {
				assert.Equal(t, charts.BearishStyle, charts.StyleFor(tt.candle))
			}
		})
	}
}

func TestCandleChartGeometry(t *testing.T) {
	candles := []charts.OHLC{
		{Open: 10, High: 20, Low: 0, Close: 15},
		{Open: 15, High: 18, Low: 5, Close: 8},
	}
	out := charts.CandleChart(candles, 10)
	require.NotEmpty(t, out)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10, "one line per height row")

	// The full range spans rows, so both body and wick glyphs appear.
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "│")
}

func TestCandleChartEmptyInputs(t *testing.T) {
	assert.Equal(t, "", charts.CandleChart(nil, 10))
	assert.Equal(t, "", charts.CandleChart([]charts.OHLC{{Open: 1, High: 2, Low: 0, Close: 1}}, 0))
}

func TestCandleChartIsDeterministic(t *testing.T) {
	candles := []charts.OHLC{
		{Open: 1200, High: 1260, Low: 1180, Close: 1245},
		{Open: 1245, High: 1250, Low: 1190, Close: 1203},
	}
	assert.Equal(t, charts.CandleChart(candles, 8), charts.CandleChart(candles, 8))
}

func TestHeatLevelBuckets(t *testing.T) {
	tests := []struct {
		change float64
		want   charts.HeatLevel
	}{
		{change: -5.0, want: charts.HeatStrongDown},
		{change: -1.0, want: charts.HeatDown},
		{change: -0.1, want: charts.HeatFlat},
		{change: 0, want: charts.HeatFlat},
		{change: 0.2, want: charts.HeatFlat},
		{change: 1.1, want: charts.HeatUp},
		{change: 2.3, want: charts.HeatStrongUp},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, charts.LevelFor(tt.change), "change %.2f", tt.change)
	}
}

func TestHeatmapRowRendersAllCells(t *testing.T) {
	cells := []charts.HeatCell{
		{Label: "AUS", Value: 1245, ChangePct: 2.3},
		{Label: "SEA", Value: 1203, ChangePct: -0.8},
		{Label: "EU", Value: 1330, ChangePct: 1.1},
	}
	out := charts.HeatmapRow(cells)
	for _, c := range cells {
		assert.Contains(t, out, c.Label)
	}
	assert.Contains(t, out, "+2.3%")
	assert.Contains(t, out, "-0.8%")
	assert.Equal(t, "", charts.HeatmapRow(nil))
}
