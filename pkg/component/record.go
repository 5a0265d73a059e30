// Package component expands parametric requests into component records.
//
// A [Record] is the canonical unit every serializer consumes: one per
// (package, decade, base value) triple, fully attributed and carrying its
// manufacturer parts. Records are values; once [Expand] returns them nothing
// in this module modifies them.
package component

import (
	"fmt"

	"github.com/atlantix-eda/aeda/pkg/mpn"
)

// Kind distinguishes component families.
type Kind string

const (
	KindResistor  Kind = "resistor"
	KindCapacitor Kind = "capacitor"
)

// ManufacturerPart is one orderable part that realizes a record.
type ManufacturerPart struct {
	Manufacturer  string `json:"manufacturer"`
	MPN           string `json:"mpn"`
	Distributor   string `json:"distributor"`
	DistributorPN string `json:"distributor_pn"`
}

// SupplierURL returns the distributor search URL for the part.
func (p ManufacturerPart) SupplierURL() string {
	return mpn.SupplierURL(p.Distributor, p.DistributorPN)
}

// Record is one fully attributed component.
type Record struct {
	Kind          Kind               `json:"kind"`
	Value         float64            `json:"value"`
	Formatted     string             `json:"formatted"`
	Package       string             `json:"package"`
	Tolerance     string             `json:"tolerance"`
	Power         string             `json:"power"`
	Decade        int64              `json:"decade"`
	Base          float64            `json:"base"`
	Description   string             `json:"description"`
	PartNumber    string             `json:"part_number"`
	Manufacturers []ManufacturerPart `json:"manufacturers,omitempty"`
}

// PrimaryPart returns the first manufacturer part, if any.
func (r Record) PrimaryPart() (ManufacturerPart, bool) {
	if len(r.Manufacturers) == 0 {
		return ManufacturerPart{}, false
	}
	return r.Manufacturers[0], true
}

// Description formats the catalogue description of a resistor.
func Description(formatted, pkg, tolerance, power string) string {
	return fmt.Sprintf("RES SMT %sohms, %s, %s, %s", formatted, pkg, tolerance, power)
}

// PartNumber formats the library part number of a resistor.
func PartNumber(pkg, formatted string) string {
	return "R" + pkg + "_" + formatted
}

// Partition splits records into consecutive runs that share a package,
// preserving order. Expand emits packages as the outer loop, so each run is
// exactly one package's records.
func Partition(records []Record) [][]Record {
	var groups [][]Record
	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || records[i].Package != records[start].Package {
			groups = append(groups, records[start:i:i])
			start = i
		}
	}
	return groups
}
