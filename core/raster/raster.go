/*
Package raster puts a minimal interface in front of glyph rasterizers.

An Engine loads single glyphs at a fixed size and resolution and reports the
font-global vertical metrics. Two backends are provided:

	OpenType   based on golang.org/x/image/font/opentype (default)
	FreeType   based on github.com/golang/freetype/truetype

Both report glyph geometry in the conventions of FreeType's glyph slots: bitmap
dimensions and the bitmap's top row in whole pixels, bearing, advance and outline
width in 26.6 fixed point.

Engines are not safe for concurrent use. Every build creates its own engine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"image"
	"image/draw"
	"strings"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// tracer traces to tracing key 'ejf.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.glyphs")
}

// Glyph is a rasterized glyph.
type Glyph struct {
	Code         rune
	Coverage     *image.Alpha  // Width × Rows, 0 = no ink
	Width        int           // bitmap width in pixels
	Rows         int           // bitmap height in pixels
	Top          int           // distance from baseline to top row, upwards positive
	BearingX     fixed.Int26_6 // horizontal bearing
	Advance      fixed.Int26_6 // horizontal advance
	OutlineWidth fixed.Int26_6 // width of the outline's bounding box
}

// GlobalMetrics are a font's vertical metrics plus the vertical scale of
// an engine.
type GlobalMetrics struct {
	Ascender   int32 // font units, positive above baseline
	Descender  int32 // font units, negative below baseline
	UnitsPerEm int32
	YScale     int64 // 16.16 factor from font units to 26.6 pixels
}

// Engine is a glyph rasterizer for one font at one size.
type Engine interface {
	LoadGlyph(code rune) (Glyph, error)
	GlobalMetrics() (GlobalMetrics, error)
}

// Kind selects a rasterizer backend.
type Kind int

// Rasterizer backends
const (
	OpenType Kind = iota
	FreeType
)

func (k Kind) String() string {
	switch k {
	case OpenType:
		return "opentype"
	case FreeType:
		return "freetype"
	}
	return "unknown"
}

// ParseKind maps configuration values to backends. The empty string selects
// the default backend.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opentype", "sfnt", "x/image":
		return OpenType, nil
	case "freetype", "truetype":
		return FreeType, nil
	}
	return OpenType, core.Error(core.EINVALID, "unknown rasterizer engine %q", s)
}

// ParseHinting maps configuration values to hinting modes. The empty string
// selects full hinting.
func ParseHinting(s string) (xfont.Hinting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return xfont.HintingFull, nil
	case "vertical":
		return xfont.HintingVertical, nil
	case "none":
		return xfont.HintingNone, nil
	}
	return xfont.HintingFull, core.Error(core.EINVALID, "unknown hinting mode %q", s)
}

// DefaultDPI is the resolution used if none is configured.
const DefaultDPI = 72

// Options configure a rasterizer engine.
type Options struct {
	Size    float64 // point size
	DPI     float64 // resolution, DefaultDPI if 0
	Hinting xfont.Hinting
}

func (o Options) dpi() float64 {
	if o.DPI <= 0 {
		return DefaultDPI
	}
	return o.DPI
}

// ppem returns the number of pixels per em in 26.6 fixed point, rounded the
// same way the backends round their face scale.
func (o Options) ppem() fixed.Int26_6 {
	return fixed.Int26_6(0.5 + (o.Size * o.dpi() * 64 / 72))
}

// New creates a rasterizer engine of the given kind.
func New(kind Kind, f *font.ScalableFont, opts Options) (Engine, error) {
	if f == nil || len(f.Binary) == 0 {
		return nil, core.Error(core.ERASTER, "no font to rasterize")
	}
	if opts.Size <= 0 {
		return nil, core.Error(core.ERASTER, "font size must be positive, is %g", opts.Size)
	}
	tracer().Debugf("creating %s rasterizer for %q at %gpt, %g dpi", kind, f.Fontname, opts.Size, opts.dpi())
	switch kind {
	case FreeType:
		return newFreeType(f, opts)
	case OpenType:
		return newOpenType(f, opts)
	}
	return nil, core.Error(core.EINVALID, "unknown rasterizer engine %d", kind)
}

// yScale computes the 16.16 factor converting font units to 26.6 pixels.
func yScale(ppem fixed.Int26_6, upem int32) int64 {
	if upem <= 0 {
		return 0
	}
	return (int64(ppem) << 16) / int64(upem)
}

// extract copies a coverage mask. Backends re-use their mask buffers between
// calls, so the copy has to be done before loading the next glyph.
// dr is the glyph's pixel rectangle relative to the dot at (0,0).
func extract(code rune, dr image.Rectangle, mask image.Image, maskp image.Point) Glyph {
	coverage := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	if mask != nil && !dr.Empty() {
		draw.Draw(coverage, coverage.Bounds(), mask, maskp, draw.Src)
	}
	return Glyph{
		Code:     code,
		Coverage: coverage,
		Width:    dr.Dx(),
		Rows:     dr.Dy(),
		Top:      -dr.Min.Y,
	}
}
