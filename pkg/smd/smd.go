// Package smd holds the static table of surface-mount chip packages.
//
// Each package code ("0603") maps to a [Spec] carrying its metric name, power
// rating and the IPC-7351 nominal land pattern used by the footprint emitter.
// All dimensions are in millimetres.
//
// Lookups are hard: an unknown code returns an UNKNOWN_PACKAGE error instead
// of defaulting to some other package. Part-number encoders that need a lenient
// mapping keep their own tables (see package mpn).
package smd

import (
	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Spec describes one chip package.
type Spec struct {
	Imperial   string  `json:"imperial"`
	Metric     string  `json:"metric"`
	Power      string  `json:"power"`
	BodyLength float64 `json:"body_length"`
	BodyWidth  float64 `json:"body_width"`
	PadWidth   float64 `json:"pad_width"`
	PadHeight  float64 `json:"pad_height"`
	PadCenterX float64 `json:"pad_center_x"`
}

// FootprintName returns the KiCad footprint name, e.g. "R_0603_1608Metric".
func (s Spec) FootprintName() string {
	return "R_" + s.Imperial + "_" + s.Metric
}

var specs = []Spec{
	{Imperial: "0201", Metric: "0603Metric", Power: "1/20W", BodyLength: 0.6, BodyWidth: 0.3, PadWidth: 0.28, PadHeight: 0.43, PadCenterX: 0.26},
	{Imperial: "0402", Metric: "1005Metric", Power: "1/16W", BodyLength: 1.0, BodyWidth: 0.5, PadWidth: 0.6, PadHeight: 0.65, PadCenterX: 0.48},
	{Imperial: "0603", Metric: "1608Metric", Power: "1/10W", BodyLength: 1.6, BodyWidth: 0.8, PadWidth: 0.9, PadHeight: 0.95, PadCenterX: 0.775},
	{Imperial: "0805", Metric: "2012Metric", Power: "1/8W", BodyLength: 2.0, BodyWidth: 1.25, PadWidth: 1.0, PadHeight: 1.45, PadCenterX: 0.95},
	{Imperial: "1206", Metric: "3216Metric", Power: "1/4W", BodyLength: 3.2, BodyWidth: 1.6, PadWidth: 1.15, PadHeight: 1.8, PadCenterX: 1.475},
	{Imperial: "1210", Metric: "3225Metric", Power: "1/2W", BodyLength: 3.2, BodyWidth: 2.5, PadWidth: 1.15, PadHeight: 2.7, PadCenterX: 1.475},
	{Imperial: "2010", Metric: "5025Metric", Power: "3/4W", BodyLength: 5.0, BodyWidth: 2.5, PadWidth: 1.5, PadHeight: 2.8, PadCenterX: 2.25},
	{Imperial: "2512", Metric: "6332Metric", Power: "1W", BodyLength: 6.35, BodyWidth: 3.2, PadWidth: 1.6, PadHeight: 3.5, PadCenterX: 2.875},
}

var byCode = func() map[string]Spec {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Imperial] = s
	}
	return m
}()

// Lookup returns the package Spec for an imperial package code.
func Lookup(code string) (Spec, error) {
	s, ok := byCode[code]
	if !ok {
		return Spec{}, errs.New(errs.ErrCodeUnknownPackage, "unknown package: %q", code)
	}
	return s, nil
}

// Power returns the rated power of a package, e.g. "1/10W" for 0603.
func Power(code string) (string, error) {
	s, err := Lookup(code)
	if err != nil {
		return "", err
	}
	return s.Power, nil
}

// Metric returns the metric suffix of a package, e.g. "1608Metric" for 0603.
func Metric(code string) (string, error) {
	s, err := Lookup(code)
	if err != nil {
		return "", err
	}
	return s.Metric, nil
}

// Codes returns every known package code in ascending size.
func Codes() []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Imperial
	}
	return out
}

// All returns a copy of the package table in ascending size.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Validate checks every code and returns the first unknown one as an error.
func Validate(codes []string) error {
	if len(codes) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "at least one package is required")
	}
	for _, c := range codes {
		if _, err := Lookup(c); err != nil {
			return err
		}
	}
	return nil
}
