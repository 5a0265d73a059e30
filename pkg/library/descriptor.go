package library

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atlantix-eda/aeda/pkg/component"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/smd"
	"github.com/atlantix-eda/aeda/pkg/value"
)

// Methods lists the builder calls a descriptor's factory supports in the
// Stencil DSL. aeda writes the fixed set and ignores it on read.
type Methods struct {
	AfterFactory []string `json:"after_factory"`
	AfterValue   []string `json:"after_value"`
}

// DefaultMethods returns the builder calls every generated library declares.
func DefaultMethods() Methods {
	return Methods{
		AfterFactory: []string{"and_value", "at", "located_at", "on_layer", "rotated", "place"},
		AfterValue:   []string{"at", "located_at", "on_layer", "rotated", "place"},
	}
}

// Descriptor is one library file. Resistor and capacitor descriptors share
// the common fields; the family-specific ones are omitted when empty.
type Descriptor struct {
	Name        string         `json:"name"`
	Type        component.Kind `json:"type"`
	Description string         `json:"description"`
	Package     string         `json:"package"`
	Footprint   string         `json:"footprint"`

	// Resistor fields.
	Tolerance   string             `json:"tolerance,omitempty"`
	PowerRating string             `json:"power_rating,omitempty"`
	Series      string             `json:"series,omitempty"`
	Pins        []string           `json:"pins"`
	Prefix      string             `json:"prefix"`
	BaseValues  []float64          `json:"base_values,omitempty"`
	Multipliers map[string]float64 `json:"multipliers,omitempty"`

	// Capacitor fields.
	Dielectric    string             `json:"dielectric,omitempty"`
	VoltageRating string             `json:"voltage_rating,omitempty"`
	Values        []string           `json:"values,omitempty"`
	ValueSuffixes map[string]float64 `json:"value_suffixes,omitempty"`

	Methods Methods `json:"methods"`
}

// Ref returns the manifest reference of the descriptor.
func (d *Descriptor) Ref() Ref {
	return Ref{Category: string(d.Type), Name: d.Name}
}

// ResistorName is the library name of a series/package pair, e.g. "E96_0603".
func ResistorName(s eseries.Series, pkg string) string {
	return s.String() + "_" + pkg
}

// NewResistorLibrary builds the descriptor for one series in one package.
// baseValues are written as given; pass nil to use the computed series.
func NewResistorLibrary(s eseries.Series, pkg string, baseValues []float64) (*Descriptor, error) {
	spec, err := smd.Lookup(pkg)
	if err != nil {
		return nil, err
	}
	tol, err := eseries.Tolerance(s)
	if err != nil {
		return nil, err
	}
	if baseValues == nil {
		if baseValues, err = eseries.Expand(s); err != nil {
			return nil, err
		}
	}

	return &Descriptor{
		Name:        ResistorName(s, pkg),
		Type:        component.KindResistor,
		Description: fmt.Sprintf("%s Resistors in %s package", s, pkg),
		Package:     pkg,
		Footprint:   "Resistor_SMD:" + spec.FootprintName(),
		Tolerance:   tol,
		PowerRating: spec.Power,
		Series:      s.String(),
		Pins:        []string{"1", "2"},
		Prefix:      "R",
		BaseValues:  append([]float64(nil), baseValues...),
		Multipliers: map[string]float64{"": 1, "k": 1e3, "K": 1e3, "M": 1e6},
		Methods:     DefaultMethods(),
	}, nil
}

// DefaultDielectric is the capacitor dielectric used when none is given.
const DefaultDielectric = "X7R"

// CapacitorValues are the standard MLCC values, in farads.
var CapacitorValues = []float64{
	10e-12, 22e-12, 47e-12, 100e-12, 220e-12, 470e-12,
	1e-9, 2.2e-9, 4.7e-9, 10e-9, 22e-9, 47e-9,
	100e-9, 220e-9, 470e-9, 1e-6, 2.2e-6, 4.7e-6, 10e-6,
}

// NewCapacitorLibrary builds the MLCC descriptor for one dielectric in one
// package.
func NewCapacitorLibrary(dielectric, pkg string) (*Descriptor, error) {
	spec, err := smd.Lookup(pkg)
	if err != nil {
		return nil, err
	}
	if dielectric == "" {
		dielectric = DefaultDielectric
	}
	if err := errs.ValidateLibraryName(dielectric); err != nil {
		return nil, err
	}

	values := make([]string, len(CapacitorValues))
	for i, f := range CapacitorValues {
		values[i] = value.FormatFarads(f)
	}

	return &Descriptor{
		Name:          dielectric + "_" + pkg,
		Type:          component.KindCapacitor,
		Description:   fmt.Sprintf("%s MLCC Capacitors in %s package", dielectric, pkg),
		Package:       pkg,
		Footprint:     "Capacitor_SMD:C_" + pkg + "_" + spec.Metric,
		Dielectric:    dielectric,
		VoltageRating: "16V",
		Tolerance:     "10%",
		Pins:          []string{"1", "2"},
		Prefix:        "C",
		Values:        values,
		ValueSuffixes: map[string]float64{"pF": 1e-12, "nF": 1e-9, "uF": 1e-6, "µF": 1e-6},
		Methods:       DefaultMethods(),
	}, nil
}

// WriteDescriptor encodes d as indented JSON.
func WriteDescriptor(d *Descriptor, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of d.
func Marshal(d *Descriptor) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadDescriptor decodes and validates a descriptor. Every failure is
// reported as MALFORMED_DESCRIPTOR.
func ReadDescriptor(r io.Reader) (*Descriptor, error) {
	var d Descriptor
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "malformed descriptor")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDescriptor reads a descriptor file.
func LoadDescriptor(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeLibraryNotFound, err, "library not found: %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "read descriptor")
	}
	defer f.Close()

	d, err := ReadDescriptor(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "%s", path)
	}
	return d, nil
}

// Validate checks the fields a generation run depends on.
func (d *Descriptor) Validate() error {
	malformed := func(format string, args ...any) error {
		return errs.New(errs.ErrCodeMalformedDescriptor, format, args...)
	}

	if d.Name == "" {
		return malformed("descriptor has no name")
	}
	if err := errs.ValidateLibraryName(d.Name); err != nil {
		return errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "descriptor name %q", d.Name)
	}
	if _, err := smd.Lookup(d.Package); err != nil {
		return errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "descriptor %s", d.Name)
	}

	switch d.Type {
	case component.KindResistor:
		s, err := eseries.Parse(d.Series)
		if err != nil {
			return errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "descriptor %s", d.Name)
		}
		if len(d.BaseValues) == 0 {
			return malformed("descriptor %s has no base_values", d.Name)
		}
		if len(d.BaseValues) != int(s) {
			return malformed("descriptor %s: %s needs %d base_values, got %d", d.Name, s, int(s), len(d.BaseValues))
		}
		prev := 0.0
		for i, v := range d.BaseValues {
			if v < 1 || v >= 10 || v <= prev {
				return malformed("descriptor %s: base_values[%d] = %v is out of order or outside [1, 10)", d.Name, i, v)
			}
			prev = v
		}
	case component.KindCapacitor:
		if len(d.Values) == 0 {
			return malformed("descriptor %s has no values", d.Name)
		}
		for _, v := range d.Values {
			q, err := value.ParseQuantity(v)
			if err != nil {
				return errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "descriptor %s", d.Name)
			}
			if q.Unit != value.UnitFarad {
				return malformed("descriptor %s: value %q is not a capacitance", d.Name, v)
			}
		}
	default:
		return malformed("descriptor %s has unknown type %q", d.Name, d.Type)
	}
	return nil
}

// Request converts a resistor descriptor into expansion parameters. The
// caller fills in decades, manufacturers and workers.
func (d *Descriptor) Request() (component.Request, error) {
	if d.Type != component.KindResistor {
		return component.Request{}, errs.New(errs.ErrCodeMalformedDescriptor,
			"descriptor %s is a %s library; only resistor descriptors drive generation", d.Name, d.Type)
	}
	s, err := eseries.Parse(d.Series)
	if err != nil {
		return component.Request{}, errs.Wrap(errs.ErrCodeMalformedDescriptor, err, "descriptor %s", d.Name)
	}
	return component.Request{
		Series:     s,
		BaseValues: append([]float64(nil), d.BaseValues...),
		Packages:   []string{d.Package},
	}, nil
}
