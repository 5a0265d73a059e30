// Package eseries computes IEC 60063 preferred-number series.
//
// An E-series class divides each decade into N geometrically spaced steps.
// The base values produced here are the rounded steps of the first decade,
// [1.00, 10.00), to two decimal places:
//
//	value[i] = round(10^(i/N) * 100) / 100
//
// Every formatted value and part number downstream is derived from these
// doubles, so the exponent convention and the rounding are fixed.
//
// The rounded geometric values are what the generator emits; they differ in
// places from the hand-adjusted EIA tables (E24 lists 2.7 where the formula
// gives 2.61, for example).
package eseries

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Series is an E-series cardinality (values per decade).
type Series int

// Supported series classes.
const (
	E3   Series = 3
	E6   Series = 6
	E12  Series = 12
	E24  Series = 24
	E48  Series = 48
	E96  Series = 96
	E192 Series = 192
)

// tolerances maps each supported series to its nominal tolerance.
var tolerances = map[Series]string{
	E192: "0.5%",
	E96:  "1%",
	E48:  "2%",
	E24:  "5%",
	E12:  "10%",
	E6:   "20%",
	E3:   "50%",
}

// All returns the supported series in ascending cardinality.
func All() []Series {
	return []Series{E3, E6, E12, E24, E48, E96, E192}
}

// String returns the conventional name, e.g. "E96".
func (s Series) String() string {
	return "E" + strconv.Itoa(int(s))
}

// Supported reports whether s has a tolerance mapping.
func (s Series) Supported() bool {
	_, ok := tolerances[s]
	return ok
}

// Parse accepts "E96", "e96" or "96".
func Parse(name string) (Series, error) {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "E"), "e")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errs.New(errs.ErrCodeUnsupportedSeries, "unsupported series: %q", name)
	}
	s := Series(n)
	if !s.Supported() {
		return 0, unsupported(s)
	}
	return s, nil
}

// Tolerance returns the tolerance string for s ("1%" for E96).
func Tolerance(s Series) (string, error) {
	tol, ok := tolerances[s]
	if !ok {
		return "", unsupported(s)
	}
	return tol, nil
}

// Expand returns the s base values of the first decade, strictly increasing.
// It fails for cardinalities without a tolerance mapping.
func Expand(s Series) ([]float64, error) {
	if !s.Supported() {
		return nil, unsupported(s)
	}
	n := int(s)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = math.Round(math.Pow(10, float64(i)/float64(n))*100) / 100
	}
	return values, nil
}

func unsupported(s Series) error {
	return errs.New(errs.ErrCodeUnsupportedSeries, "unsupported series: %s (supported: %s)", s, supportedList())
}

func supportedList() string {
	names := make([]string, 0, len(tolerances))
	for _, s := range All() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Table - read-only memo of expanded series
// =============================================================================

// Table holds the expanded base values of every supported series.
// It is built once and only read afterwards, so a single Table can be shared
// by concurrent expanders.
type Table struct {
	values map[Series][]float64
}

// NewTable expands every supported series.
func NewTable() *Table {
	t := &Table{values: make(map[Series][]float64, len(tolerances))}
	for _, s := range All() {
		v, err := Expand(s)
		if err != nil {
			panic(fmt.Sprintf("eseries: expand %s: %v", s, err))
		}
		t.values[s] = v
	}
	return t
}

// Values returns a copy of the base values of s.
func (t *Table) Values(s Series) ([]float64, error) {
	v, ok := t.values[s]
	if !ok {
		return nil, unsupported(s)
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}
