package charts

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Candle colors follow trading convention: green up, red down.
var (
	// BullishStyle colors candles that closed at or above their open.
	BullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	// BearishStyle colors candles that closed below their open.
	BearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Candle glyphs: body cell, wick cell, empty cell.
const (
	candleBody  = '█'
	candleWick  = '│'
	candleBlank = ' '
)

// OHLC is one open/high/low/close tuple.
type OHLC struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Bullish reports whether the candle closed at or above its open. Candle
// color is determined by this comparison and nothing else.
func (c OHLC) Bullish() bool {
	return c.Close >= c.Open
}

// StyleFor returns the lipgloss style that colors the candle.
func StyleFor(c OHLC) lipgloss.Style {
	if c.Bullish() {
		return BullishStyle
	}
	return BearishStyle
}

// CandleChart renders candles as a grid of height rows, one column per
// candle, scaling the full [min(low), max(high)] range onto the rows.
// Within a column the body spans the open..close band and wicks extend to
// high and low. Returns "" for empty input or non-positive height.
func CandleChart(candles []OHLC, height int) string {
	if len(candles) == 0 || height <= 0 {
		return ""
	}

	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}

	// row maps a price onto a grid row, row 0 being the top.
	row := func(price float64) int {
		if hi == lo {
			return height / 2
		}
		r := int((hi - price) / (hi - lo) * float64(height))
		if r >= height {
			r = height - 1
		}
		if r < 0 {
			r = 0
		}
		return r
	}

	columns := make([][]rune, len(candles))
	for i, c := range candles {
		col := make([]rune, height)
		for j := range col {
			col[j] = candleBlank
		}

		wickTop, wickBot := row(c.High), row(c.Low)
		for j := wickTop; j <= wickBot; j++ {
			col[j] = candleWick
		}

		bodyTop, bodyBot := row(c.Open), row(c.Close)
		if bodyTop > bodyBot {
			bodyTop, bodyBot = bodyBot, bodyTop
		}
		for j := bodyTop; j <= bodyBot; j++ {
			col[j] = candleBody
		}
		columns[i] = col
	}

	var b strings.Builder
	for j := 0; j < height; j++ {
		if j > 0 {
			b.WriteString("\n")
		}
		for i, c := range candles {
			cell := string(columns[i][j])
			if columns[i][j] == candleBlank {
				b.WriteString(cell)
				continue
			}
			b.WriteString(StyleFor(c).Render(cell))
		}
	}
	return b.String()
}
