// Package pipeline turns a generation request into library files on disk.
//
// A run validates its options, expands the parameter space into component
// records, serializes them per package into each requested format and writes
// the results atomically under an output root. Symbol libraries, Altium CSV
// tables and stencil descriptors are cached by their inputs. Footprints embed
// an edit timestamp and are always regenerated.
//
// Both the CLI and the HTTP API drive the pipeline through a [Runner].
package pipeline

import (
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlantix-eda/aeda/pkg/buildinfo"
	"github.com/atlantix-eda/aeda/pkg/cache"
	"github.com/atlantix-eda/aeda/pkg/component"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
)

// =============================================================================
// Format Constants
// =============================================================================

const (
	FormatKicadSymbols    = "kicad-symbols"
	FormatKicadFootprints = "kicad-footprints"
	FormatAltium          = "altium"
	FormatStencil         = "stencil"

	// FormatKicad is shorthand for symbols plus footprints.
	FormatKicad = "kicad"
)

// ValidFormats lists every concrete output format in write order.
var ValidFormats = []string{FormatKicadSymbols, FormatKicadFootprints, FormatAltium, FormatStencil}

// =============================================================================
// Options
// =============================================================================

// Options configures one generation run.
type Options struct {
	Series        eseries.Series `json:"series"`
	Packages      []string       `json:"packages"`
	Decades       []int64        `json:"decades,omitempty"`
	Manufacturers []string       `json:"manufacturers,omitempty"`

	// BaseValues replaces the computed series values, typically from a
	// stencil descriptor.
	BaseValues []float64 `json:"base_values,omitempty"`

	Formats          []string `json:"formats,omitempty"`
	SymbolStyle      string   `json:"symbol_style,omitempty"`
	FootprintLibrary string   `json:"footprint_library,omitempty"`

	// OutputDir is the root every file is written under.
	OutputDir string `json:"output_dir"`

	// KicadTargetLib, when set, redirects KiCad output into an existing
	// library tree: {root}/symbols and {root}/footprints.
	KicadTargetLib string `json:"kicad_target_lib,omitempty"`

	// SymbolDir and FootprintDir place KiCad output explicitly. They take
	// precedence over OutputDir and KicadTargetLib.
	SymbolDir    string `json:"symbol_dir,omitempty"`
	FootprintDir string `json:"footprint_dir,omitempty"`

	Workers int `json:"workers,omitempty"`

	// Refresh bypasses cache reads. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Timestamp fixes the footprint edit time. Zero uses the wall clock.
	Timestamp time.Time `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills unset fields and checks every input. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Decades) == 0 {
		o.Decades = slices.Clone(component.DefaultDecades)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatKicadSymbols, FormatKicadFootprints}
	}
	o.Formats = NormalizeFormats(o.Formats)
	if o.SymbolStyle == "" {
		o.SymbolStyle = string(kicad.StyleEuropean)
	}
	if o.FootprintLibrary == "" {
		o.FootprintLibrary = kicad.DefaultFootprintLibrary
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks the options without touching the filesystem. A run that
// fails validation writes nothing.
func (o *Options) Validate() error {
	if o.OutputDir == "" {
		return errs.New(errs.ErrCodeInvalidPath, "output directory is required")
	}
	if strings.ContainsRune(o.OutputDir, 0) || strings.ContainsRune(o.KicadTargetLib, 0) {
		return errs.New(errs.ErrCodeInvalidPath, "path contains invalid characters")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := kicad.ParseStyle(o.SymbolStyle); err != nil {
		return err
	}
	return o.Request().Validate()
}

// Request is the expansion the options describe.
func (o *Options) Request() component.Request {
	return component.Request{
		Series:        o.Series,
		BaseValues:    o.BaseValues,
		Packages:      o.Packages,
		Decades:       o.Decades,
		Manufacturers: o.Manufacturers,
		Workers:       o.Workers,
	}
}

// Has reports whether format was requested.
func (o *Options) Has(format string) bool {
	return slices.Contains(o.Formats, format)
}

// ArtifactKeyOpts returns the cache key inputs of one package's artifact.
func (o *Options) ArtifactKeyOpts(format, pkg string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Series:     int(o.Series),
		Package:    pkg,
		Decades:    o.Decades,
		BaseValues: o.BaseValues,
		Version:    buildinfo.Version,
	}
	switch format {
	case FormatKicadSymbols:
		k.Manufacturers = o.Manufacturers
		k.Style = o.SymbolStyle
		k.FootprintLibrary = o.FootprintLibrary
	case FormatAltium:
		k.Manufacturers = o.Manufacturers
	case FormatStencil:
		// Descriptors depend only on series, package and base values.
		k.Decades = nil
	}
	return k
}

// =============================================================================
// Validation
// =============================================================================

// NormalizeFormats expands the "kicad" alias and drops duplicates, keeping
// the canonical write order.
func NormalizeFormats(formats []string) []string {
	want := make(map[string]bool, len(formats))
	var unknown []string
	for _, f := range formats {
		switch f {
		case FormatKicad:
			want[FormatKicadSymbols] = true
			want[FormatKicadFootprints] = true
		default:
			if !slices.Contains(ValidFormats, f) && !slices.Contains(unknown, f) {
				unknown = append(unknown, f)
			}
			want[f] = true
		}
	}
	out := make([]string, 0, len(want))
	for _, f := range ValidFormats {
		if want[f] {
			out = append(out, f)
		}
	}
	// Unknown names survive so Validate can report them.
	return append(out, unknown...)
}

// ValidateFormat checks a single output format name.
func ValidateFormat(format string) error {
	if format == FormatKicad || slices.Contains(ValidFormats, format) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (valid: kicad, %s)",
		format, joinFormats())
}

// ValidateFormats checks every format name.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func joinFormats() string {
	return strings.Join(ValidFormats, ", ")
}

// =============================================================================
// Result
// =============================================================================

// File is one artifact written by a run.
type File struct {
	Format  string `json:"format"`
	Package string `json:"package"`
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Cached  bool   `json:"cached"`
}

// Failure is an artifact that could not be written.
type Failure struct {
	Format  string `json:"format"`
	Package string `json:"package"`
	Path    string `json:"path"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// Result holds the outcome of a run.
type Result struct {
	Files     []File    `json:"files"`
	Failed    []Failure `json:"failed,omitempty"`
	Records   int       `json:"records"`
	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Paths returns the written file paths in write order.
func (r *Result) Paths() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Path
	}
	return out
}

// FilesOf returns the written files of one format.
func (r *Result) FilesOf(format string) []File {
	var out []File
	for _, f := range r.Files {
		if f.Format == format {
			out = append(out, f)
		}
	}
	return out
}

// Stats holds timing information for each stage.
type Stats struct {
	ExpandTime    time.Duration `json:"expand_time"`
	SerializeTime time.Duration `json:"serialize_time"`
	WriteTime     time.Duration `json:"write_time"`
	Packages      int           `json:"packages"`
}

// CacheInfo reports cache usage for the run.
type CacheInfo struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`

	// Expanded is false when every record-based artifact came from the
	// cache and expansion was skipped.
	Expanded bool `json:"expanded"`
}
