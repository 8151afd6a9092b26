package glyph

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// Dump renders a canvas as ASCII art, one line per pixel row. Ink is drawn
// darker the more it covers; empty pixels of the baseline row show as '_'.
func Dump(c *Canvas, baseline int) string {
	const asciiArt = ".++8"
	img := c.Image
	b := img.Bounds()
	var sb strings.Builder
	sb.Grow(b.Dy() * (b.Dx() + 1))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			ch := asciiArt[(0xff-img.GrayAt(x, y).Y)>>6]
			if ch == '.' && y == baseline-1 {
				ch = '_'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Trace writes a canvas to the trace, if tracing is at debug level.
func Trace(c *Canvas, baseline int) {
	if c == nil || tracer().GetTraceLevel() < tracing.LevelDebug {
		return
	}
	tracer().Debugf("glyph 0x%x, %dx%d, spacing %v\n%s", c.Code, c.Width(), c.Height(),
		c.Spacing, Dump(c, baseline))
}
