package font

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/ejfont/core"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	e := fmt.Errorf("resource missing: %v", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// Locate finds and loads a font. name is tried
//
//  1. as the name of the embedded fallback font ("Go Sans")
//  2. as a path to a font file
//  3. as a file name in the system font directories
//
// in that order.
func Locate(name string) (*ScalableFont, error) {
	if name == "" {
		return nil, core.Error(core.EMISSING, "no font given")
	}
	if NormalizeFontname(name) == NormalizeFontname(FallbackFontName) {
		tracer().Debugf("using embedded font %s", FallbackFontName)
		return FallbackFont(), nil
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return LoadOpenTypeFont(name)
	}
	if filepath.Base(name) == name { // a plain file name, try system fonts
		fpath, err := findfont.Find(name)
		if err == nil && fpath != "" {
			tracer().Debugf("%s is a system font at %s", name, fpath)
			return LoadOpenTypeFont(fpath)
		}
	}
	tracer().Infof("font %s not found", name)
	return nil, NotFound(name)
}

// SystemFonts lists the paths of all font files in the system font directories.
func SystemFonts() []string {
	return findfont.List()
}
