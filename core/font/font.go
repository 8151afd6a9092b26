/*
Package font is for loading outline fonts.

A ScalableFont holds the raw bytes of a TrueType or OpenType font file together
with its parsed SFNT container. Rasterizer backends (see package raster) create
their own scaled instances from it, so a ScalableFont itself is never scaled and
may be shared read-only.

Fonts are located either by file path, by file name in the system font
directories, or by the name "Go Sans", which denotes the embedded Go font.
The Go font is also what FallbackFont returns.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer traces to tracing key 'ejf.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.fonts")
}

// ScalableFont is an unscaled outline font.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.WrapError(err, core.EMISSING, "font file not found: %s", fontfile)
		}
		return nil, core.WrapError(err, core.ERASTER, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, core.WrapError(err, core.ERASTER, "cannot parse font file %s", fontfile)
	}
	f.Filepath = fontfile
	tracer().Debugf("loaded font %q from %s", f.Fontname, fontfile)
	return f, nil
}

// ParseOpenTypeFont parses the binary data of a font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// UnitsPerEm returns the number of font units per em.
func (sf *ScalableFont) UnitsPerEm() int {
	if sf == nil || sf.SFNT == nil {
		return 0
	}
	return int(sf.SFNT.UnitsPerEm())
}

// --- Fallback font ---------------------------------------------------------

// FallbackFontName is the name under which the embedded fallback font is known.
const FallbackFontName = "Go Sans"

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: FallbackFontName,
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Names -----------------------------------------------------------------

// NormalizeFontname strips a file extension, replaces spaces by underscores and
// lowercases the result.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}

// NameFromPath derives the name of a bitmap font from the path of its
// container file: the file name without extension, with spaces replaced
// by underscores. Case is preserved.
// A path without a usable file name yields an error with code core.ENAME.
func NameFromPath(path string) (string, error) {
	base := filepath.Base(strings.TrimSpace(path))
	if base == "." || base == string(filepath.Separator) {
		return "", core.Error(core.ENAME, "output path %q has no file name", path)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.ReplaceAll(strings.TrimSpace(stem), " ", "_")
	if stem == "" {
		return "", core.Error(core.ENAME, "output path %q has no file name stem", path)
	}
	return stem, nil
}
