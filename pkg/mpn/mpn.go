// Package mpn synthesizes manufacturer and distributor part numbers.
//
// Each manufacturer convention is a pure function of an [Input] that never
// fails: package codes outside a convention's table degrade to a generic
// code instead of aborting, since a part number is advisory data rather than
// structural geometry.
//
// Conventions are registered by name and looked up with [Lookup]:
//
//	enc, err := mpn.Lookup("Vishay")
//	part := enc.Encode(mpn.Input{Ohms: 1000, Formatted: "1.00K", Package: "0603", Decade: 1000, Base: 1})
//	// part.MPN == "CRCW06031K00FKEA", part.DistributorPN == "541-1.00KHCT-ND"
package mpn

import (
	"sort"
	"strings"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Input carries everything an encoder may need about one component value.
type Input struct {
	Ohms      float64 // Resistance in ohms (Base * Decade)
	Formatted string  // Display string from value.Format
	Package   string  // Imperial package code
	Decade    int64   // Decade multiplier the value was generated in
	Base      float64 // E-series base value in [1, 10)
}

// Part is the encoded manufacturer and distributor numbers for one value.
type Part struct {
	Manufacturer  string
	MPN           string
	Distributor   string
	DistributorPN string
}

// Encoder produces the part numbers of one manufacturer convention.
type Encoder interface {
	// Name is the canonical manufacturer name written into libraries.
	Name() string
	// Encode never fails; unknown packages fall back to a generic code.
	Encode(in Input) Part
}

// Distributor names.
const (
	Digikey = "Digikey"
	Mouser  = "Mouser"
)

// =============================================================================
// Registry
// =============================================================================

var registry = map[string]Encoder{
	"vishay":      Vishay{},
	"vishay dale": Vishay{},
	"yageo":       Yageo{},
	"koa":         KOA{},
	"koa speer":   KOA{},
}

// Lookup finds an encoder by manufacturer name (case-insensitive).
func Lookup(name string) (Encoder, error) {
	enc, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errs.New(errs.ErrCodeUnknownManufacturer,
			"unknown manufacturer: %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return enc, nil
}

// Names returns the registered manufacturer keys, sorted.
func Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, enc := range registry {
		if !seen[enc.Name()] {
			seen[enc.Name()] = true
			names = append(names, enc.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks that every name resolves to an encoder.
func Validate(names []string) error {
	for _, n := range names {
		if _, err := Lookup(n); err != nil {
			return err
		}
	}
	return nil
}

// SupplierURL returns a search URL for a distributor part number.
func SupplierURL(distributor, pn string) string {
	switch distributor {
	case Digikey:
		return "https://www.digikey.com/products/en?keywords=" + pn
	case Mouser:
		return "https://www.mouser.com/Search/Refine?Keyword=" + pn
	default:
		return ""
	}
}
