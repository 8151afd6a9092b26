package raster

import (
	"github.com/golang/freetype/truetype"
	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type ftEngine struct {
	name string
	ttf  *truetype.Font
	face xfont.Face
	ppem fixed.Int26_6
}

func newFreeType(f *font.ScalableFont, opts Options) (*ftEngine, error) {
	ttf, err := truetype.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.ERASTER, "freetype cannot parse font %q", f.Fontname)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.Size,
		DPI:     opts.dpi(),
		Hinting: opts.Hinting,
	})
	return &ftEngine{
		name: f.Fontname,
		ttf:  ttf,
		face: face,
		ppem: opts.ppem(),
	}, nil
}

// LoadGlyph rasterizes the glyph for a code point. Code points not covered by
// the font render as glyph 0.
func (e *ftEngine) LoadGlyph(code rune) (Glyph, error) {
	bounds, advance, ok := e.face.GlyphBounds(code)
	if !ok {
		return Glyph{}, core.Error(core.ERASTER, "freetype cannot load glyph for 0x%x", code)
	}
	dr, mask, maskp, _, ok := e.face.Glyph(fixed.Point26_6{}, code)
	if !ok {
		return Glyph{}, core.Error(core.ERASTER, "freetype cannot rasterize glyph for 0x%x", code)
	}
	g := extract(code, dr, mask, maskp)
	g.BearingX = bounds.Min.X
	g.OutlineWidth = bounds.Max.X - bounds.Min.X
	g.Advance = advance
	return g, nil
}

// GlobalMetrics reads ascender and descender in font units from a face scaled
// to upem/64 pixels per em.
func (e *ftEngine) GlobalMetrics() (GlobalMetrics, error) {
	upem := e.ttf.FUnitsPerEm()
	if upem <= 0 {
		return GlobalMetrics{}, core.Error(core.EMETRICS, "font %q has no units per em", e.name)
	}
	unscaled := truetype.NewFace(e.ttf, &truetype.Options{
		Size:              float64(upem) / 64,
		DPI:               72,
		Hinting:           xfont.HintingNone,
		GlyphCacheEntries: 1,
	})
	defer unscaled.Close()
	m := unscaled.Metrics()
	return GlobalMetrics{
		Ascender:   int32(m.Ascent),
		Descender:  -int32(m.Descent),
		UnitsPerEm: upem,
		YScale:     yScale(e.ppem, upem),
	}, nil
}

var _ Engine = (*ftEngine)(nil)
