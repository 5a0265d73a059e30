package component

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/mpn"
	"github.com/atlantix-eda/aeda/pkg/smd"
	"github.com/atlantix-eda/aeda/pkg/value"
)

// DefaultDecades spans 1 ohm to 976K for E96.
var DefaultDecades = []int64{1, 10, 100, 1000, 10000, 100000}

// Request describes the parameter space of one expansion.
type Request struct {
	Series eseries.Series

	// BaseValues overrides the computed series values (from a library
	// descriptor). It must hold exactly Series values in [1, 10),
	// strictly increasing.
	BaseValues []float64

	Packages      []string
	Decades       []int64
	Manufacturers []string

	// Workers bounds the number of concurrent chunks. Zero uses GOMAXPROCS.
	Workers int

	// Table supplies memoized series values. Nil expands on demand.
	Table *eseries.Table
}

// Count returns the number of records the request expands to.
func (r Request) Count() int {
	return int(r.Series) * len(r.Decades) * len(r.Packages)
}

// plan is a validated request with every lookup resolved up front.
type plan struct {
	base      []float64
	tolerance string
	packages  []smd.Spec
	decades   []int64
	encoders  []mpn.Encoder
}

// Validate resolves a request without expanding it. The whole batch fails on
// the first unsupported series, unknown package, bad decade or unknown
// manufacturer.
func (r Request) Validate() error {
	_, err := r.plan()
	return err
}

func (r Request) plan() (*plan, error) {
	tol, err := eseries.Tolerance(r.Series)
	if err != nil {
		return nil, err
	}

	var base []float64
	switch {
	case r.BaseValues != nil:
		if err := validateBaseValues(r.Series, r.BaseValues); err != nil {
			return nil, err
		}
		base = r.BaseValues
	case r.Table != nil:
		if base, err = r.Table.Values(r.Series); err != nil {
			return nil, err
		}
	default:
		if base, err = eseries.Expand(r.Series); err != nil {
			return nil, err
		}
	}

	if len(r.Packages) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "at least one package is required")
	}
	specs := make([]smd.Spec, len(r.Packages))
	for i, code := range r.Packages {
		if specs[i], err = smd.Lookup(code); err != nil {
			return nil, err
		}
	}

	if err := ValidateDecades(r.Decades); err != nil {
		return nil, err
	}

	encoders := make([]mpn.Encoder, len(r.Manufacturers))
	for i, name := range r.Manufacturers {
		if encoders[i], err = mpn.Lookup(name); err != nil {
			return nil, err
		}
	}

	return &plan{base: base, tolerance: tol, packages: specs, decades: r.Decades, encoders: encoders}, nil
}

// ValidateDecades checks that decades is a non-empty list of positive powers
// of ten.
func ValidateDecades(decades []int64) error {
	if len(decades) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "at least one decade is required")
	}
	for _, d := range decades {
		if !isPowerOfTen(d) {
			return errs.New(errs.ErrCodeInvalidInput, "invalid decade %d (must be a positive power of ten)", d)
		}
	}
	return nil
}

func isPowerOfTen(n int64) bool {
	if n < 1 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}
	return n == 1
}

func validateBaseValues(s eseries.Series, values []float64) error {
	if len(values) != int(s) {
		return errs.New(errs.ErrCodeInvalidInput, "%s needs %d base values, got %d", s, int(s), len(values))
	}
	for i, v := range values {
		if v < 1 || v >= 10 {
			return errs.New(errs.ErrCodeInvalidInput, "base value %v out of range [1, 10)", v)
		}
		if i > 0 && v <= values[i-1] {
			return errs.New(errs.ErrCodeInvalidInput, "base values must be strictly increasing (%v after %v)", v, values[i-1])
		}
	}
	return nil
}

// =============================================================================
// Expansion
// =============================================================================

// Expand produces one record per package x decade x base value.
//
// Chunks of one (package, decade) pair are computed concurrently, each into
// its own slot of the output slice, so the result is always ordered package
// first, then decade, then value, regardless of Workers. ctx is checked
// between records.
func Expand(ctx context.Context, req Request) ([]Record, error) {
	p, err := req.plan()
	if err != nil {
		return nil, err
	}

	n := len(p.base)
	out := make([]Record, n*len(p.decades)*len(p.packages))

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for pi, spec := range p.packages {
		for di, decade := range p.decades {
			spec, decade := spec, decade
			offset := (pi*len(p.decades) + di) * n
			g.Go(func() error {
				return p.fill(ctx, out[offset:offset+n], spec, decade)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *plan) fill(ctx context.Context, dst []Record, spec smd.Spec, decade int64) error {
	for i, base := range p.base {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst[i] = p.record(spec, decade, base)
	}
	return nil
}

func (p *plan) record(spec smd.Spec, decade int64, base float64) Record {
	ohms := base * float64(decade)
	formatted := value.Format(ohms)

	rec := Record{
		Kind:        KindResistor,
		Value:       ohms,
		Formatted:   formatted,
		Package:     spec.Imperial,
		Tolerance:   p.tolerance,
		Power:       spec.Power,
		Decade:      decade,
		Base:        base,
		Description: Description(formatted, spec.Imperial, p.tolerance, spec.Power),
		PartNumber:  PartNumber(spec.Imperial, formatted),
	}

	if len(p.encoders) > 0 {
		in := mpn.Input{Ohms: ohms, Formatted: formatted, Package: spec.Imperial, Decade: decade, Base: base}
		rec.Manufacturers = make([]ManufacturerPart, len(p.encoders))
		for i, enc := range p.encoders {
			part := enc.Encode(in)
			rec.Manufacturers[i] = ManufacturerPart{
				Manufacturer:  part.Manufacturer,
				MPN:           part.MPN,
				Distributor:   part.Distributor,
				DistributorPN: part.DistributorPN,
			}
		}
	}
	return rec
}
