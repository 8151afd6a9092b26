package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf"
	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/charset"
	"github.com/npillmayer/ejfont/engine/batch"
	"github.com/npillmayer/ejfont/engine/build"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'ejf.build'
func tracer() tracing.Trace {
	return tracing.Select("ejf.build")
}

// traceKeys are the tracing keys of the ejfont packages.
var traceKeys = []string{"ejf.fonts", "ejf.glyphs", "ejf.container", "ejf.build"}

// buildFlags maps the single-font flags to build configuration keys.
var buildFlags = map[string]string{
	"input":        "input",
	"output":       "output",
	"size":         "size",
	"range":        "char_range",
	"skip-control": "skip_control_characters",
	"add-null":     "add_null_character",
	"dpi":          "dpi",
	"left":         "left_spacing",
	"right":        "right_spacing",
	"engine":       "engine",
	"metrics":      "metrics",
	"hinting":      "hinting",
	"color":        "png_color",
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "", "Trace level [Debug|Info|Error]")
	configFile := flag.String("config", "", "TOML file describing one or more fonts")
	inspect := flag.String("inspect", "", "Inspect an existing EJF container")
	registerBuildFlags(flag.CommandLine)
	flag.Parse()

	// set up configuration and logging
	k := koanf.New(".")
	if *configFile != "" {
		var err error
		if k, err = build.LoadFile(*configFile); err != nil {
			core.UserError(err)
			os.Exit(2)
		}
	}
	if err := initTracing(k, *tlevel); err != nil {
		fmt.Printf("error configuring tracing: %v\n", err)
		os.Exit(1)
	}

	if *inspect != "" {
		os.Exit(inspectContainer(*inspect, flag.Args()))
	}
	cfgs, err := configs(k, *configFile != "")
	if err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	os.Exit(run(cfgs))
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func registerBuildFlags(fs *flag.FlagSet) {
	fs.String("input", "", "Font file path or font name")
	fs.String("output", "", "Output container (.ejf)")
	fs.Int("size", 0, "Font size in points")
	fs.String("range", "", "Character range, e.g. 0x20-0x7f;0xa0-0x100")
	fs.Bool("skip-control", false, "Skip control characters")
	fs.Bool("add-null", false, "Add the null character")
	fs.Int("dpi", 72, "Rendering resolution")
	fs.Int("left", 0, "Left spacing of every character, overrides the font's bearings")
	fs.Int("right", 0, "Right spacing of every character, overrides the font's bearings")
	fs.String("engine", "opentype", "Rasterizer [opentype|freetype]")
	fs.String("metrics", "font", "Source of the line metrics [font|glyphs]")
	fs.String("hinting", "full", "Hinting [none|vertical|full]")
	fs.String("color", "rgb", "PNG color model [rgb|gray]")
}

// initTracing configures the tracers from the "trace" section of k. A
// non-empty level overrides the levels of all ejfont tracers.
func initTracing(k *koanf.Koanf, level string) error {
	conf := koanfadapter.New(k, "", nil)
	conf.InitDefaults()
	if level != "" {
		conf.Set("trace.root", level)
		for _, key := range traceKeys {
			conf.Set("trace."+key, level)
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// configs collects the build configurations, either from a configuration
// file or from the single-font flags.
func configs(k *koanf.Koanf, fromFile bool) ([]build.Config, error) {
	if fromFile {
		flag.Visit(func(f *flag.Flag) {
			if _, ok := buildFlags[f.Name]; ok {
				pterm.Warning.Printf("flag -%s ignored, fonts are read from configuration file\n", f.Name)
			}
		})
		return build.Configs(k)
	}
	cfg, err := build.FromFlags(flag.CommandLine, buildFlags)
	if err != nil {
		return nil, err
	}
	if cfg.Input == "" || cfg.Output == "" {
		return nil, core.Error(core.EMISSING, "need -input and -output, or -config")
	}
	return []build.Config{cfg}, nil
}

// run builds all fonts concurrently, showing a progress bar per font.
func run(cfgs []build.Config) int {
	multi := pterm.DefaultMultiPrinter
	bars := make([]*pterm.ProgressbarPrinter, len(cfgs))
	for i, cfg := range cfgs {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total(cfg)).
			WithTitle(filepath.Base(cfg.Output)).
			WithWriter(multi.NewWriter()).
			Start()
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		bars[i] = bar
	}
	if _, err := multi.Start(); err != nil {
		tracer().Errorf(err.Error())
	}
	outcomes, err := batch.Run(cfgs, func(i int, cfg build.Config) build.Progress {
		bar := bars[i]
		if bar == nil {
			return nil
		}
		return func(processed, total int) {
			bar.Increment()
		}
	})
	for _, bar := range bars {
		if bar != nil {
			_, _ = bar.Stop()
		}
	}
	_, _ = multi.Stop()
	if err != nil {
		core.UserError(err)
		return 2
	}
	for _, o := range outcomes {
		if o.Err != nil {
			pterm.Error.Printf("%s: %s\n", o.Config.Output, core.UserMessage(o.Err))
			tracer().Errorf("%v", o.Err)
			continue
		}
		pterm.Success.Printf("%s: font %q, %d characters, height %d\n",
			o.Config.Output, o.Result.Name, o.Result.Count, o.Result.Height)
	}
	if n := batch.Failed(outcomes); n > 0 {
		pterm.Error.Printf("%d of %d fonts failed\n", n, len(outcomes))
		return 1
	}
	return 0
}

// total is the number of characters a build will render, as far as it can be
// told from its configuration.
func total(cfg build.Config) int {
	codes, err := charset.ParseAndResolve(cfg.CharRange, charset.Options{
		SkipControl: cfg.SkipControlCharacters,
		AddNull:     cfg.AddNullCharacter,
	})
	if err != nil || len(codes) == 0 {
		return 1
	}
	return len(codes)
}
