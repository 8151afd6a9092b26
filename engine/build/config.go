package build

import (
	"fmt"
	"math"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/charset"
	"github.com/npillmayer/ejfont/core/font"
	"github.com/npillmayer/ejfont/core/metrics"
	"github.com/npillmayer/ejfont/core/raster"
	"github.com/npillmayer/ejfont/engine/glyph"
	xfont "golang.org/x/image/font"
)

// Config is the configuration of a single font build. It is read-only during
// a build.
type Config struct {
	Input                 string `koanf:"input"`  // font file path or name
	Output                string `koanf:"output"` // container file path
	Size                  int    `koanf:"size"`   // point size
	CharRange             string `koanf:"char_range"`
	SkipControlCharacters bool   `koanf:"skip_control_characters"`
	AddNullCharacter      bool   `koanf:"add_null_character"`
	DPI                   int    `koanf:"dpi"`
	LeftSpacing           *int   `koanf:"left_spacing"`
	RightSpacing          *int   `koanf:"right_spacing"`
	Engine                string `koanf:"engine"`    // opentype | freetype
	Metrics               string `koanf:"metrics"`   // font | glyphs
	Hinting               string `koanf:"hinting"`   // none | vertical | full
	PNGColor              string `koanf:"png_color"` // rgb | gray
}

func (cfg Config) String() string {
	return fmt.Sprintf("%s@%dpt → %s [%s]", cfg.Input, cfg.Size, cfg.Output, cfg.CharRange)
}

// ColorModel selects the pixel format of glyph images.
type ColorModel int

// Color models
const (
	RGB ColorModel = iota
	Gray
)

// plan holds everything derived from a Config before rendering starts.
type plan struct {
	name      string
	codes     []rune
	raster    raster.Options
	engine    raster.Kind
	strategy  metrics.Strategy
	overrides glyph.Overrides
	color     ColorModel
}

// Validate checks a configuration without touching the file system.
func (cfg Config) Validate() error {
	_, err := cfg.plan()
	return err
}

func (cfg Config) plan() (*plan, error) {
	p := &plan{}
	var err error
	if cfg.Input == "" {
		return nil, core.Error(core.EINVALID, "no input font configured")
	}
	if cfg.Size <= 0 {
		return nil, core.Error(core.EINVALID, "font size must be positive, is %d", cfg.Size)
	}
	if cfg.DPI < 0 {
		return nil, core.Error(core.EINVALID, "resolution must be positive, is %d", cfg.DPI)
	}
	if p.overrides.Left, err = spacing("left", cfg.LeftSpacing); err != nil {
		return nil, err
	}
	if p.overrides.Right, err = spacing("right", cfg.RightSpacing); err != nil {
		return nil, err
	}
	if p.engine, err = raster.ParseKind(cfg.Engine); err != nil {
		return nil, err
	}
	if p.strategy, err = metrics.ParseStrategy(cfg.Metrics); err != nil {
		return nil, err
	}
	var hinting xfont.Hinting
	if hinting, err = raster.ParseHinting(cfg.Hinting); err != nil {
		return nil, err
	}
	if p.color, err = parseColor(cfg.PNGColor); err != nil {
		return nil, err
	}
	if p.name, err = font.NameFromPath(cfg.Output); err != nil {
		return nil, err
	}
	p.codes, err = charset.ParseAndResolve(cfg.CharRange, charset.Options{
		SkipControl: cfg.SkipControlCharacters,
		AddNull:     cfg.AddNullCharacter,
	})
	if err != nil {
		return nil, err
	}
	dpi := cfg.DPI
	if dpi == 0 {
		dpi = raster.DefaultDPI
	}
	p.raster = raster.Options{
		Size:    float64(cfg.Size),
		DPI:     float64(dpi),
		Hinting: hinting,
	}
	return p, nil
}

// MaxSpacing is the largest spacing override accepted, in pixels.
const MaxSpacing = math.MaxUint16

func spacing(side string, n *int) (*uint32, error) {
	if n == nil {
		return nil, nil
	}
	if *n < 0 {
		return nil, core.Error(core.EINVALID, "%s spacing must not be negative, is %d", side, *n)
	}
	if *n > MaxSpacing {
		return nil, core.Error(core.EINVALID, "%s spacing must not exceed %d, is %d", side, MaxSpacing, *n)
	}
	sp := uint32(*n)
	return &sp, nil
}

func parseColor(s string) (ColorModel, error) {
	switch s {
	case "", "rgb", "RGB":
		return RGB, nil
	case "gray", "grey", "Gray":
		return Gray, nil
	}
	return RGB, core.Error(core.EINVALID, "unknown PNG color model %q", s)
}
