// Package altium renders component records as an Altium database-library
// import table.
package altium

import (
	"bytes"
	"encoding/csv"

	"github.com/atlantix-eda/aeda/pkg/component"
)

// Header is the column row of every generated table.
var Header = []string{
	"Part", "Description", "Value", "Case", "Power",
	"Supplier 1", "Supplier Part Number 1",
	"Library Path", "Library Ref", "Footprint Path", "Footprint Ref",
	"Company", "Comment",
}

const (
	libraryPath   = "Atlantix_R.SchLib"
	libraryRef    = "Res1"
	footprintPath = "Atlantix_R.PcbLib"
	company       = "Atlantix EDA"
	comment       = "=Description"
)

// CSV renders records as CRLF-terminated CSV. Each row carries the first
// manufacturer part's distributor data; records without any manufacturer
// part have nothing to order and are skipped.
func CSV(records []component.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, rec := range records {
		part, ok := rec.PrimaryPart()
		if !ok {
			continue
		}
		row := []string{
			rec.PartNumber,
			rec.Description,
			rec.Formatted,
			rec.Package,
			rec.Power,
			part.Distributor,
			part.DistributorPN,
			libraryPath,
			libraryRef,
			footprintPath,
			"RES" + rec.Package,
			company,
			comment,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rows reports how many data rows CSV would emit for records.
func Rows(records []component.Record) int {
	n := 0
	for _, rec := range records {
		if len(rec.Manufacturers) > 0 {
			n++
		}
	}
	return n
}
