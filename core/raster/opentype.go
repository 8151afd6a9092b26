package raster

import (
	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type otEngine struct {
	font *font.ScalableFont
	face xfont.Face
	ppem fixed.Int26_6
	opts Options
	buf  sfnt.Buffer
}

func newOpenType(f *font.ScalableFont, opts Options) (*otEngine, error) {
	if f.SFNT == nil {
		return nil, core.Error(core.ERASTER, "font %q is not parsed", f.Fontname)
	}
	face, err := opentype.NewFace(f.SFNT, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     opts.dpi(),
		Hinting: opts.Hinting,
	})
	if err != nil {
		return nil, core.WrapError(err, core.ERASTER, "cannot create face for %q", f.Fontname)
	}
	return &otEngine{
		font: f,
		face: face,
		ppem: opts.ppem(),
		opts: opts,
	}, nil
}

// LoadGlyph rasterizes the glyph for a code point. Code points not covered by
// the font render as the font's .notdef glyph.
func (e *otEngine) LoadGlyph(code rune) (Glyph, error) {
	x, err := e.font.SFNT.GlyphIndex(&e.buf, code)
	if err != nil {
		return Glyph{}, core.WrapError(err, core.ERASTER, "cannot find glyph for 0x%x", code)
	}
	bounds, advance, err := e.font.SFNT.GlyphBounds(&e.buf, x, e.ppem, e.opts.Hinting)
	if err != nil {
		return Glyph{}, core.WrapError(err, core.ERASTER, "cannot load glyph for 0x%x", code)
	}
	// Face.Glyph reports !ok for glyph 0 (.notdef), but still delivers its mask.
	dr, mask, maskp, _, _ := e.face.Glyph(fixed.Point26_6{}, code)
	if mask == nil {
		return Glyph{}, core.Error(core.ERASTER, "cannot rasterize glyph for 0x%x", code)
	}
	g := extract(code, dr, mask, maskp)
	g.BearingX = bounds.Min.X
	g.OutlineWidth = bounds.Max.X - bounds.Min.X
	g.Advance = advance
	if x == 0 {
		tracer().Debugf("font %q has no glyph for 0x%x, using .notdef", e.font.Fontname, code)
	}
	return g, nil
}

// GlobalMetrics reads ascender and descender in font units. sfnt reports them
// scaled only. At a scale of upem/64 pixels per em, the 26.6 values equal the
// font units.
func (e *otEngine) GlobalMetrics() (GlobalMetrics, error) {
	upem := int32(e.font.SFNT.UnitsPerEm())
	if upem <= 0 {
		return GlobalMetrics{}, core.Error(core.EMETRICS, "font %q has no units per em", e.font.Fontname)
	}
	m, err := e.font.SFNT.Metrics(&e.buf, fixed.Int26_6(upem), xfont.HintingNone)
	if err != nil {
		return GlobalMetrics{}, core.WrapError(err, core.EMETRICS, "cannot read metrics of %q", e.font.Fontname)
	}
	return GlobalMetrics{
		Ascender:   int32(m.Ascent),
		Descender:  -int32(m.Descent),
		UnitsPerEm: upem,
		YScale:     yScale(e.ppem, upem),
	}, nil
}

var _ Engine = (*otEngine)(nil)
