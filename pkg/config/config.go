// Package config reads and writes the aeda configuration file.
//
// The file lives at {dataDir}/config.toml. Every key is optional: anything
// missing keeps its built-in default, and command-line flags override both.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/atlantix-eda/aeda/pkg/cache"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/mpn"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// AppName names the data and cache directories.
const AppName = "aeda"

// FileName is the config file name inside the data directory.
const FileName = "config.toml"

// Config mirrors config.toml.
type Config struct {
	General    General    `toml:"general"`
	Paths      Paths      `toml:"paths"`
	Generation Generation `toml:"generation"`
	Stencil    Stencil    `toml:"stencil"`
	Cache      Cache      `toml:"cache"`
}

// General holds top-level preferences.
type General struct {
	// DefaultFormat is the export target when none is given: kicad, altium
	// or stencil.
	DefaultFormat string `toml:"default_format"`
}

// Paths overrides output locations.
type Paths struct {
	Footprints string `toml:"footprints,omitempty"`
	Symbols    string `toml:"symbols,omitempty"`
}

// Generation holds the defaults of generate and export.
type Generation struct {
	DefaultResistorSeries string   `toml:"default_resistor_series"`
	DefaultPackages       []string `toml:"default_packages"`
	Manufacturers         []string `toml:"manufacturers"`
	Decades               []int64  `toml:"decades"`
	SymbolStyle           string   `toml:"symbol_style"`
	Workers               int      `toml:"workers"`
}

// Stencil configures the Stencil DSL integration.
type Stencil struct {
	LibraryPath string `toml:"library_path"`
}

// Cache selects the artifact cache.
type Cache struct {
	Backend   string `toml:"backend"`
	RedisURL  string `toml:"redis_url,omitempty"`
	Namespace string `toml:"namespace,omitempty"`
	TTL       string `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		General: General{DefaultFormat: "kicad"},
		Generation: Generation{
			DefaultResistorSeries: "E96",
			DefaultPackages:       []string{"0603", "0805", "1206"},
			Manufacturers:         []string{"Vishay"},
			Decades:               []int64{1, 10, 100, 1000, 10000, 100000},
			SymbolStyle:           string(kicad.StyleEuropean),
		},
		Stencil: Stencil{LibraryPath: "libraries"},
		Cache:   Cache{Backend: string(cache.BackendFile), TTL: cache.ArtifactTTL.String()},
	}
}

// Path returns the config file of a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "read config")
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Validate checks the values a run would otherwise reject later.
func (c *Config) Validate() error {
	switch c.General.DefaultFormat {
	case "", "kicad", "altium", "stencil":
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "default_format %q must be kicad, altium or stencil", c.General.DefaultFormat)
	}
	if c.Generation.DefaultResistorSeries != "" {
		if _, err := eseries.Parse(c.Generation.DefaultResistorSeries); err != nil {
			return err
		}
	}
	if len(c.Generation.DefaultPackages) > 0 {
		if err := smd.Validate(c.Generation.DefaultPackages); err != nil {
			return err
		}
	}
	if err := mpn.Validate(c.Generation.Manufacturers); err != nil {
		return err
	}
	if _, err := kicad.ParseStyle(c.Generation.SymbolStyle); err != nil {
		return err
	}
	if c.Generation.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must not be negative")
	}
	if _, err := cache.ParseBackend(c.Cache.Backend); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "cache")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// Series returns the default resistor series.
func (c *Config) Series() eseries.Series {
	s, err := eseries.Parse(c.Generation.DefaultResistorSeries)
	if err != nil {
		return eseries.E96
	}
	return s
}

// CacheTTL parses the cache ttl. Empty selects the artifact default.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.ArtifactTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Save writes c to path as TOML.
func Save(path string, c *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write config")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write config")
	}
	return nil
}

// Template is the commented config written by aeda init. Decoding it gives
// [Default].
func Template() string {
	d := Default()
	return fmt.Sprintf(`# Atlantix EDA Configuration

[general]
# Default output format: kicad, altium, stencil
default_format = %q

[paths]
# Override default paths (uncomment to customize)
# footprints = "/custom/path/to/footprints"
# symbols = "/custom/path/to/symbols"

[generation]
# Default series for resistor generation
default_resistor_series = %q
# Default packages for generation
default_packages = %s
# Manufacturers to encode part numbers for: Vishay, Yageo, KOA Speer
manufacturers = %s
# Decade multipliers (powers of ten)
decades = %s
# KiCad symbol body: european or american
symbol_style = %q
# Parallel expansion workers (0 = one per CPU)
workers = 0

[stencil]
# Path where Stencil looks for libraries
# This should match library_manager base_path in stencil-bd
library_path = %q

[cache]
# Artifact cache: file, redis or none
backend = %q
# redis_url = "redis://localhost:6379/0"
# namespace = "ci:"
ttl = %q
`,
		d.General.DefaultFormat,
		d.Generation.DefaultResistorSeries,
		tomlStrings(d.Generation.DefaultPackages),
		tomlStrings(d.Generation.Manufacturers),
		tomlInts(d.Generation.Decades),
		d.Generation.SymbolStyle,
		d.Stencil.LibraryPath,
		d.Cache.Backend,
		d.Cache.TTL,
	)
}

func tomlStrings(ss []string) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range ss {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%q", s)
	}
	buf.WriteByte(']')
	return buf.String()
}

func tomlInts(ns []int64) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, n := range ns {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%d", n)
	}
	buf.WriteByte(']')
	return buf.String()
}
