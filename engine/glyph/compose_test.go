package glyph

import (
	"image"
	"strings"
	"testing"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/font"
	"github.com/npillmayer/ejfont/core/metrics"
	"github.com/npillmayer/ejfont/core/raster"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

// block creates a glyph of w×h pixels of full coverage.
func block(code rune, w, h, top int) raster.Glyph {
	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range cov.Pix {
		cov.Pix[i] = 0xff
	}
	return raster.Glyph{
		Code:         code,
		Coverage:     cov,
		Width:        w,
		Rows:         h,
		Top:          top,
		OutlineWidth: fixed.I(w),
		Advance:      fixed.I(w),
	}
}

func u32(n uint32) *uint32 {
	return &n
}

func TestPlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.glyphs")
	defer teardown()
	//
	g := block('x', 2, 2, 3)
	g.BearingX = fixed.I(1)
	g.Advance = fixed.I(4)
	m := metrics.Metrics{Ascent: 5, Descent: 2, Height: 7}
	c := Compose(g, m, Overrides{})
	assert.Equal(t, Spacing{Left: 1, Right: 1}, c.Spacing)
	assert.Equal(t, 4, c.Width())
	assert.Equal(t, 7, c.Height())
	for y := 0; y < 7; y++ {
		for x := 0; x < 4; x++ {
			ink := (x == 1 || x == 2) && (y == 2 || y == 3)
			if ink {
				assert.Equal(t, uint8(0), c.Image.GrayAt(x, y).Y, "expected ink at (%d,%d)", x, y)
			} else {
				assert.Equal(t, uint8(0xff), c.Image.GrayAt(x, y).Y, "expected background at (%d,%d)", x, y)
			}
		}
	}
}

func TestInvertsCoverage(t *testing.T) {
	g := block('x', 1, 1, 1)
	g.Coverage.Pix[0] = 0x40
	c := Compose(g, metrics.Metrics{Ascent: 1, Height: 1}, Overrides{})
	assert.Equal(t, uint8(0xbf), c.Image.GrayAt(0, 0).Y)
}

func TestMinimumWidth(t *testing.T) {
	space := raster.Glyph{Code: ' ', Coverage: image.NewAlpha(image.Rectangle{})}
	c := Compose(space, metrics.Metrics{Ascent: 8, Descent: 2, Height: 10}, Overrides{})
	assert.Equal(t, 1, c.Width(), "zero-width canvas expected to be widened to 1 pixel")
	assert.Equal(t, 10, c.Height())
	//
	c = Compose(space, metrics.Metrics{Ascent: 8, Descent: 2, Height: 10},
		Overrides{Left: u32(0), Right: u32(0)})
	assert.Equal(t, 1, c.Width())
}

func TestClipping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.glyphs")
	defer teardown()
	//
	m := metrics.Metrics{Ascent: 5, Descent: 3, Height: 8}
	for _, top := range []int{-20, -3, 0, 5, 9, 40} {
		g := block('x', 3, 12, top)
		var c *Canvas
		require.NotPanics(t, func() { c = Compose(g, m, Overrides{}) }, "top = %d", top)
		assert.Equal(t, 8, c.Height())
		assert.Equal(t, 8*c.Image.Stride, len(c.Image.Pix))
		offsetY := int(m.Ascent) - top
		for y := 0; y < 8; y++ {
			inside := y >= offsetY && y < offsetY+12
			want := uint8(0xff)
			if inside {
				want = 0
			}
			assert.Equal(t, want, c.Image.GrayAt(0, y).Y, "top = %d, y = %d", top, y)
		}
	}
}

func TestOverridesSupersedeBearings(t *testing.T) {
	g := block('x', 2, 2, 2)
	g.BearingX = fixed.I(3)
	g.Advance = fixed.I(9)
	m := metrics.Metrics{Ascent: 2, Height: 2}
	c := Compose(g, m, Overrides{Left: u32(0), Right: u32(1)})
	assert.Equal(t, Spacing{Left: 0, Right: 1}, c.Spacing)
	assert.Equal(t, 3, c.Width())
	c = Compose(g, m, Overrides{Right: u32(0)})
	assert.Equal(t, Spacing{Left: 3, Right: 0}, c.Spacing)
}

func TestNegativeBearingsClamp(t *testing.T) {
	g := block('j', 4, 2, 2)
	g.BearingX = -fixed.I(2)
	g.Advance = fixed.I(1)
	assert.Equal(t, Spacing{}, BearingSpacing(g))
}

func TestDeclaredSpacing(t *testing.T) {
	assert.Equal(t, Spacing{}, Overrides{}.Declared())
	assert.Equal(t, Spacing{Left: 2, Right: 0}, Overrides{Left: u32(2)}.Declared())
}

type failingEngine struct{}

func (failingEngine) LoadGlyph(code rune) (raster.Glyph, error) {
	return raster.Glyph{}, core.Error(core.ERASTER, "broken")
}

func (failingEngine) GlobalMetrics() (raster.GlobalMetrics, error) {
	return raster.GlobalMetrics{}, nil
}

func TestRenderPropagatesFailure(t *testing.T) {
	_, err := Render(failingEngine{}, 'A', metrics.Metrics{Height: 1}, Overrides{})
	assert.True(t, core.Is(err, core.ERASTER))
	_, err = Render(nil, 'A', metrics.Metrics{Height: 1}, Overrides{})
	assert.True(t, core.Is(err, core.ERASTER))
}

func TestRenderRealFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.glyphs")
	defer teardown()
	//
	tracing.Select("ejf.glyphs").SetTraceLevel(tracing.LevelDebug)
	e, err := raster.New(raster.OpenType, font.FallbackFont(), raster.Options{Size: 16})
	require.NoError(t, err)
	m, err := metrics.FromFont(e)
	require.NoError(t, err)
	for _, r := range "AgÄ ._|" {
		c, err := Render(e, r, m, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, int(m.Height), c.Height(), "glyph %q", r)
		assert.GreaterOrEqual(t, c.Width(), 1, "glyph %q", r)
		Trace(c, int(m.Ascent))
	}
	c, err := Render(e, 'H', m, Overrides{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(Dump(c, int(m.Ascent)), "8"), "expected ink in dump of 'H'")
}

func TestDump(t *testing.T) {
	g := block('x', 1, 1, 1)
	c := Compose(g, metrics.Metrics{Ascent: 2, Descent: 1, Height: 3}, Overrides{Left: u32(1), Right: u32(1)})
	assert.Equal(t, "...\n.8.\n___\n", Dump(c, 3))
}

func TestRGB(t *testing.T) {
	g := block('x', 1, 1, 1)
	c := Compose(g, metrics.Metrics{Ascent: 1, Height: 1}, Overrides{Left: u32(1)})
	rgb := RGB(c.Image)
	assert.True(t, rgb.Opaque())
	assert.Equal(t, c.Image.Bounds(), rgb.Bounds())
	r, gg, b, _ := rgb.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, gg, b})
	r, gg, b, _ = rgb.At(1, 0).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, gg, b})
}
