/*
Package glyph composes rasterized glyphs into fixed-height canvases.

Every canvas of a bitmap font has the same height, and all glyphs sit on a
common baseline. A glyph's bitmap is placed horizontally after its left spacing
and followed by its right spacing; spacing is derived from the glyph's bearings
unless overridden. Canvases are light with dark ink, i.e. the rasterizer's
coverage is inverted.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/metrics"
	"github.com/npillmayer/ejfont/core/raster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.glyphs")
}

// Spacing is the horizontal padding left and right of a glyph's bitmap, in pixels.
type Spacing struct {
	Left  uint32
	Right uint32
}

func (sp Spacing) String() string {
	return fmt.Sprintf("(left %d, right %d)", sp.Left, sp.Right)
}

// Overrides replace bearing-derived spacing for one or both sides.
// A nil side keeps the bearing-derived value.
type Overrides struct {
	Left  *uint32
	Right *uint32
}

// Declared returns the spacing a container declares for every character:
// the override, or 0 for a side without override.
func (ov Overrides) Declared() Spacing {
	var sp Spacing
	if ov.Left != nil {
		sp.Left = *ov.Left
	}
	if ov.Right != nil {
		sp.Right = *ov.Right
	}
	return sp
}

// Canvas is a composed glyph.
type Canvas struct {
	Code    rune
	Spacing Spacing
	Image   *image.Gray
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int {
	return c.Image.Bounds().Dx()
}

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int {
	return c.Image.Bounds().Dy()
}

// BearingSpacing derives spacing from a glyph's horizontal bearing and
// advance. Negative values are clamped to 0.
func BearingSpacing(g raster.Glyph) Spacing {
	left := int32(g.BearingX) >> 6
	right := int32(g.Advance-g.BearingX-g.OutlineWidth) >> 6
	if left < 0 {
		left = 0
	}
	if right < 0 {
		right = 0
	}
	return Spacing{Left: uint32(left), Right: uint32(right)}
}

// Render loads the glyph for code and composes it into a canvas of height
// m.Height. Failures of the rasterizer are reported with code core.ERASTER.
func Render(e raster.Engine, code rune, m metrics.Metrics, ov Overrides) (*Canvas, error) {
	if e == nil {
		return nil, core.Error(core.ERASTER, "no rasterizer")
	}
	g, err := e.LoadGlyph(code)
	if err != nil {
		if core.Code(err) == core.EINTERNAL {
			err = core.WrapError(err, core.ERASTER, "cannot load glyph 0x%x", code)
		}
		return nil, err
	}
	return Compose(g, m, ov), nil
}

// Compose paints a rasterized glyph into a new canvas. The glyph's top row is
// placed m.Ascent - g.Top rows below the canvas top; rows and columns falling
// outside the canvas are clipped.
func Compose(g raster.Glyph, m metrics.Metrics, ov Overrides) *Canvas {
	sp := BearingSpacing(g)
	if ov.Left != nil {
		sp.Left = *ov.Left
	}
	if ov.Right != nil {
		sp.Right = *ov.Right
	}
	width := int(sp.Left) + g.Width + int(sp.Right)
	if width < 1 {
		width = 1
	}
	height := int(m.Height)
	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 0xff}), image.Point{}, draw.Src)
	offsetY := int(m.Ascent) - g.Top
	clipped := 0
	for cy := 0; cy < g.Rows; cy++ {
		y := cy + offsetY
		if y < 0 || y >= height {
			clipped++
			continue
		}
		for cx := 0; cx < g.Width; cx++ {
			x := int(sp.Left) + cx
			if x >= width {
				break
			}
			coverage := g.Coverage.AlphaAt(cx, cy).A
			img.Pix[img.PixOffset(x, y)] = 0xff - coverage
		}
	}
	if clipped > 0 {
		tracer().Debugf("glyph 0x%x: %d of %d rows clipped", g.Code, clipped, g.Rows)
	}
	return &Canvas{
		Code:    g.Code,
		Spacing: sp,
		Image:   img,
	}
}

// RGB expands a gray canvas to an opaque RGBA image.
func RGB(img *image.Gray) *image.RGBA {
	rgb := image.NewRGBA(img.Bounds())
	draw.Draw(rgb, rgb.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgb
}
