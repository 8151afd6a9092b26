package build

import (
	"flag"
	"os"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/ejfont/core"
)

// FontsKey is the key of the array of font tables in a batch file.
const FontsKey = "fonts"

// Keys at the top level of a batch file which are not font settings.
var reserved = map[string]bool{FontsKey: true, "trace": true, "tracing": true}

// Defaults returns the default settings of a build.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"dpi":       72,
		"engine":    "opentype",
		"metrics":   "font",
		"hinting":   "full",
		"png_color": "rgb",
	}
}

// LoadFile reads a TOML configuration file.
func LoadFile(path string) (*koanf.Koanf, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, core.WrapError(err, core.EMISSING, "configuration file not found: %s", path)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read configuration file %s", path)
	}
	tracer().Debugf("loaded configuration %s", path)
	return k, nil
}

// Load reads the build configurations from a TOML file.
func Load(path string) ([]Config, error) {
	k, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Configs(k)
}

// Configs extracts build configurations. A configuration either holds an
// array of font tables
//
//	size = 12
//	[[fonts]]
//	input = "Go Sans"
//	output = "out/go.ejf"
//
// where top-level settings apply to every font unless overridden, or it
// describes a single font at the top level.
func Configs(k *koanf.Koanf) ([]Config, error) {
	shared := make(map[string]interface{})
	for key, value := range k.Raw() {
		if !reserved[key] {
			shared[key] = value
		}
	}
	base := koanf.New(".")
	if err := base.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot load defaults")
	}
	if err := base.Load(confmap.Provider(shared, "."), nil); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot load shared settings")
	}
	tables := k.Slices(FontsKey)
	if len(tables) == 0 {
		if !k.Exists("input") {
			return nil, core.Error(core.EMISSING, "configuration contains no fonts")
		}
		cfg, err := unmarshal(base)
		if err != nil {
			return nil, err
		}
		return []Config{cfg}, nil
	}
	configs := make([]Config, 0, len(tables))
	for i, table := range tables {
		fk := base.Copy()
		if err := fk.Merge(table); err != nil {
			return nil, core.WrapError(err, core.EINVALID, "cannot merge font table #%d", i+1)
		}
		cfg, err := unmarshal(fk)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "invalid font table #%d", i+1)
		}
		configs = append(configs, cfg)
	}
	tracer().Debugf("configuration contains %d fonts", len(configs))
	return configs, nil
}

func unmarshal(k *koanf.Koanf) (Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, core.WrapError(err, core.EINVALID, "cannot decode build configuration")
	}
	return cfg, nil
}

// FromFlags creates a build configuration from command-line flags. keys maps
// flag names to configuration keys; flags not in keys are ignored, as are
// flags not set on the command line.
func FromFlags(fs *flag.FlagSet, keys map[string]string) (Config, error) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, core.WrapError(err, core.EINTERNAL, "cannot load defaults")
	}
	provider := basicflag.ProviderWithValue(fs, ".", func(name, value string) (string, interface{}) {
		if !set[name] {
			return "", nil
		}
		return keys[name], value
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, core.WrapError(err, core.EINVALID, "cannot read command line")
	}
	return unmarshal(k)
}
