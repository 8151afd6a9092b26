/*
Package build runs the conversion of an outline font into an EJF container.

A build is strictly sequential:

	parse range → metrics → (render, write) for every character → header

Configuration comes as a Config, usually loaded from a TOML file or from
command-line flags (see Load and FromFlags).
If a build fails after the container file has been created, the partial file
is removed. Every error returned by Build is an *Error naming the input font
and output container; the error code of the failing stage is kept in the
error chain (see core.Code).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package build

import (
	"fmt"
	"image"

	"github.com/npillmayer/ejfont/core/charset"
	"github.com/npillmayer/ejfont/core/font"
	"github.com/npillmayer/ejfont/core/metrics"
	"github.com/npillmayer/ejfont/core/raster"
	"github.com/npillmayer/ejfont/engine/ejf"
	"github.com/npillmayer/ejfont/engine/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.build'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.build")
}

// Result describes a finished container.
type Result struct {
	Height uint32 // canvas height in pixels
	Name   string // font name, derived from the output file name
	Count  int    // number of characters
}

// Error is the error of a failed build.
type Error struct {
	Input  string
	Output string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s → %s: %v", e.Input, e.Output, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Progress is called once per written character. It must not block.
type Progress func(processed, total int)

// Build converts a font as configured. progress may be nil.
func Build(cfg Config, progress Progress) (Result, error) {
	res, err := build(cfg, progress)
	if err != nil {
		tracer().Errorf("build of %s failed: %v", cfg.Output, err)
		return Result{}, &Error{Input: cfg.Input, Output: cfg.Output, Err: err}
	}
	return res, nil
}

func build(cfg Config, progress Progress) (Result, error) {
	p, err := cfg.plan()
	if err != nil {
		return Result{}, err
	}
	f, err := font.Locate(cfg.Input)
	if err != nil {
		return Result{}, err
	}
	tracer().Infof("building %q from font %q at %dpt, %d characters", p.name, f.Fontname,
		cfg.Size, len(p.codes))
	engine, err := raster.New(p.engine, f, p.raster)
	if err != nil {
		return Result{}, err
	}
	m, err := metrics.Compute(engine, p.codes, p.strategy)
	if err != nil {
		return Result{}, err
	}
	tracer().Infof("characters of %q will have a height of %dpx", p.name, m.Height)
	w, err := ejf.Create(cfg.Output)
	if err != nil {
		return Result{}, err
	}
	if err = render(w, engine, p, m, progress); err == nil {
		err = w.Finish(p.name, m.Height)
	}
	if err != nil {
		if e := w.Abort(); e != nil {
			tracer().Errorf("%v", e)
		}
		return Result{}, err
	}
	return Result{Height: m.Height, Name: p.name, Count: len(p.codes)}, nil
}

func render(w *ejf.Writer, e raster.Engine, p *plan, m metrics.Metrics, progress Progress) error {
	declared := p.overrides.Declared()
	total := len(p.codes)
	for i, code := range p.codes {
		c, err := glyph.Render(e, code, m, p.overrides)
		if err != nil {
			tracer().Errorf("cannot render %s", charset.Describe(code))
			return err
		}
		glyph.Trace(c, int(m.Ascent))
		var img image.Image = c.Image
		if p.color == RGB {
			img = glyph.RGB(c.Image)
		}
		if err = w.WriteCharacter(code, img, declared); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}
