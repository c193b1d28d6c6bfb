package charts

import "strings"

// sparkGlyphs are the eight block levels, lowest to highest.
var sparkGlyphs = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of block glyphs, each quantized to one
// of eight levels by its normalized position in the [min, max] range of the
// series. A flat series renders at the middle level.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	b.Grow(len(values))
	for _, v := range values {
		b.WriteRune(sparkGlyphs[quantize(v, lo, hi)])
	}
	return b.String()
}

// quantize maps v's position in [lo, hi] onto a glyph index in [0, 7].
func quantize(v, lo, hi float64) int {
	if hi == lo {
		return len(sparkGlyphs) / 2
	}
	idx := int((v - lo) / (hi - lo) * float64(len(sparkGlyphs)))
	if idx >= len(sparkGlyphs) {
		idx = len(sparkGlyphs) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
