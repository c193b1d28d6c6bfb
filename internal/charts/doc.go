// Package charts renders data series into terminal visual encodings:
// sparklines, proportional bars, candlestick charts and heatmap rows.
//
// Renderers are pure: same input, same output. They own no network or
// cache state; callers hand them resolved data. Color styling goes
// through lipgloss so output degrades gracefully on dumb terminals.
package charts
