/*
Package metrics derives the vertical layout shared by all glyph canvases of a
bitmap font.

Two strategies are available. FontGlobal scales the font's ascender and descender
and does not render any glyph. RenderedExtent renders every glyph once and takes
the maximum extent above and below the baseline. Both guarantee

	Height == Ascent + Descent

*/
package metrics

import (
	"fmt"
	"strings"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/raster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.glyphs")
}

// Metrics are the vertical metrics of a bitmap font, in pixels.
type Metrics struct {
	Ascent  uint32
	Descent uint32
	Height  uint32
}

func (m Metrics) String() string {
	return fmt.Sprintf("(ascent %d, descent %d, height %d)", m.Ascent, m.Descent, m.Height)
}

func newMetrics(ascent, descent int64) Metrics {
	if ascent < 0 {
		ascent = 0
	}
	if descent < 0 {
		descent = 0
	}
	return Metrics{
		Ascent:  uint32(ascent),
		Descent: uint32(descent),
		Height:  uint32(ascent + descent),
	}
}

// Strategy selects how metrics are derived.
type Strategy int

// Strategies
const (
	FontGlobal Strategy = iota
	RenderedExtent
)

func (s Strategy) String() string {
	switch s {
	case FontGlobal:
		return "font"
	case RenderedExtent:
		return "glyphs"
	}
	return "unknown"
}

// ParseStrategy maps configuration values "font" and "glyphs" to strategies.
// The empty string selects FontGlobal.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "font", "global":
		return FontGlobal, nil
	case "glyphs", "rendered":
		return RenderedExtent, nil
	}
	return FontGlobal, core.Error(core.EINVALID, "unknown metrics strategy %q", s)
}

// Compute derives metrics with the given strategy. codes is needed for
// RenderedExtent only.
func Compute(e raster.Engine, codes []rune, s Strategy) (Metrics, error) {
	switch s {
	case FontGlobal:
		return FromFont(e)
	case RenderedExtent:
		return FromGlyphs(e, codes)
	}
	return Metrics{}, core.Error(core.EINVALID, "unknown metrics strategy %d", s)
}

// FromFont scales the font's ascender and descender to whole pixels.
func FromFont(e raster.Engine) (Metrics, error) {
	if e == nil {
		return Metrics{}, core.Error(core.EMETRICS, "no rasterizer")
	}
	gm, err := e.GlobalMetrics()
	if err != nil {
		if core.Code(err) == core.EINTERNAL {
			err = core.WrapError(err, core.EMETRICS, "font metrics unavailable")
		}
		return Metrics{}, err
	}
	if gm.UnitsPerEm <= 0 || gm.YScale <= 0 {
		return Metrics{}, core.Error(core.EMETRICS, "font metrics unavailable: units per em %d, scale %d",
			gm.UnitsPerEm, gm.YScale)
	}
	ascent := (int64(gm.Ascender) * gm.YScale / 65536) >> 6
	descent := (-int64(gm.Descender) * gm.YScale / 65536) >> 6
	m := newMetrics(ascent, descent)
	tracer().Debugf("font-global metrics %v", m)
	return m, nil
}

// FromGlyphs renders every code once and takes the maximum extents above and
// below the baseline.
func FromGlyphs(e raster.Engine, codes []rune) (Metrics, error) {
	if e == nil {
		return Metrics{}, core.Error(core.EMETRICS, "no rasterizer")
	}
	var ascent, descent int64
	for _, c := range codes {
		g, err := e.LoadGlyph(c)
		if err != nil {
			if core.Code(err) == core.EINTERNAL {
				err = core.WrapError(err, core.ERASTER, "cannot load glyph 0x%x", c)
			}
			return Metrics{}, err
		}
		if top := int64(g.Top); top > 0 && top > ascent {
			ascent = top
		}
		if g.Rows >= g.Top {
			if d := int64(g.Rows - g.Top); d > descent {
				descent = d
			}
		}
	}
	m := newMetrics(ascent, descent)
	tracer().Debugf("rendered-extent metrics for %d glyphs %v", len(codes), m)
	return m, nil
}
