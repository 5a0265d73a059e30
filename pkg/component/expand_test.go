package component

import (
	"context"
	"reflect"
	"testing"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
)

func TestExpandCountAndOrder(t *testing.T) {
	req := Request{
		Series:   eseries.E24,
		Packages: []string{"0603", "0805"},
		Decades:  []int64{1, 1000},
	}
	records, err := Expand(context.Background(), req)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(records) != req.Count() || len(records) != 24*2*2 {
		t.Fatalf("len = %d, want %d", len(records), 24*2*2)
	}

	// package outer, decade middle, value inner
	checks := []struct {
		index     int
		pkg       string
		decade    int64
		formatted string
	}{
		{0, "0603", 1, "1.00"},
		{23, "0603", 1, "9.09"},
		{24, "0603", 1000, "1.00K"},
		{48, "0805", 1, "1.00"},
		{95, "0805", 1000, "9.09K"},
	}
	for _, c := range checks {
		r := records[c.index]
		if r.Package != c.pkg || r.Decade != c.decade || r.Formatted != c.formatted {
			t.Errorf("records[%d] = {%s %d %s}, want {%s %d %s}",
				c.index, r.Package, r.Decade, r.Formatted, c.pkg, c.decade, c.formatted)
		}
	}
}

func TestExpandRecordFields(t *testing.T) {
	records, err := Expand(context.Background(), Request{
		Series:        eseries.E96,
		Packages:      []string{"0603"},
		Decades:       []int64{1000},
		Manufacturers: []string{"Vishay", "KOA"},
	})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}

	r := records[0]
	want := Record{
		Kind:        KindResistor,
		Value:       1000,
		Formatted:   "1.00K",
		Package:     "0603",
		Tolerance:   "1%",
		Power:       "1/10W",
		Decade:      1000,
		Base:        1,
		Description: "RES SMT 1.00Kohms, 0603, 1%, 1/10W",
		PartNumber:  "R0603_1.00K",
		Manufacturers: []ManufacturerPart{
			{Manufacturer: "Vishay", MPN: "CRCW06031K00FKEA", Distributor: "Digikey", DistributorPN: "541-1.00KHCT-ND"},
			{Manufacturer: "KOA Speer", MPN: "RK73H1JTTD1002F", Distributor: "Digikey", DistributorPN: "RK73H1JTTD1002F-ND"},
		},
	}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("record = %+v\nwant      %+v", r, want)
	}

	if p, ok := r.PrimaryPart(); !ok || p.Manufacturer != "Vishay" {
		t.Errorf("PrimaryPart = %+v, %v", p, ok)
	}
	if url := r.Manufacturers[0].SupplierURL(); url != "https://www.digikey.com/products/en?keywords=541-1.00KHCT-ND" {
		t.Errorf("SupplierURL = %q", url)
	}
}

func TestExpandWithoutManufacturers(t *testing.T) {
	records, err := Expand(context.Background(), Request{
		Series:   eseries.E3,
		Packages: []string{"0402"},
		Decades:  []int64{1},
	})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	for _, r := range records {
		if len(r.Manufacturers) != 0 {
			t.Errorf("%s: unexpected manufacturers %v", r.PartNumber, r.Manufacturers)
		}
		if _, ok := r.PrimaryPart(); ok {
			t.Errorf("%s: PrimaryPart should report none", r.PartNumber)
		}
	}
}

func TestExpandParallelMatchesSerial(t *testing.T) {
	req := Request{
		Series:        eseries.E192,
		Packages:      []string{"0201", "0402", "0603", "0805", "1206", "1210", "2010", "2512"},
		Decades:       DefaultDecades,
		Manufacturers: []string{"Vishay", "Yageo", "KOA"},
	}

	req.Workers = 1
	serial, err := Expand(context.Background(), req)
	if err != nil {
		t.Fatalf("serial Expand error: %v", err)
	}

	req.Workers = 16
	req.Table = eseries.NewTable()
	parallel, err := Expand(context.Background(), req)
	if err != nil {
		t.Fatalf("parallel Expand error: %v", err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Error("parallel expansion differs from serial expansion")
	}
}

func TestExpandValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code errs.Code
	}{
		{"unsupported series", Request{Series: 7, Packages: []string{"0603"}, Decades: []int64{1}}, errs.ErrCodeUnsupportedSeries},
		{"unknown package", Request{Series: eseries.E24, Packages: []string{"0603", "9999"}, Decades: []int64{1}}, errs.ErrCodeUnknownPackage},
		{"no packages", Request{Series: eseries.E24, Decades: []int64{1}}, errs.ErrCodeInvalidInput},
		{"no decades", Request{Series: eseries.E24, Packages: []string{"0603"}}, errs.ErrCodeInvalidInput},
		{"bad decade", Request{Series: eseries.E24, Packages: []string{"0603"}, Decades: []int64{1, 20}}, errs.ErrCodeInvalidInput},
		{"zero decade", Request{Series: eseries.E24, Packages: []string{"0603"}, Decades: []int64{0}}, errs.ErrCodeInvalidInput},
		{"unknown manufacturer", Request{Series: eseries.E24, Packages: []string{"0603"}, Decades: []int64{1}, Manufacturers: []string{"Acme"}}, errs.ErrCodeUnknownManufacturer},
		{"short base values", Request{Series: eseries.E3, BaseValues: []float64{1, 2}, Packages: []string{"0603"}, Decades: []int64{1}}, errs.ErrCodeInvalidInput},
		{"unordered base values", Request{Series: eseries.E3, BaseValues: []float64{1, 4.7, 2.2}, Packages: []string{"0603"}, Decades: []int64{1}}, errs.ErrCodeInvalidInput},
		{"base out of range", Request{Series: eseries.E3, BaseValues: []float64{1, 2.2, 10}, Packages: []string{"0603"}, Decades: []int64{1}}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Expand(context.Background(), tt.req)
			if !errs.Is(err, tt.code) {
				t.Errorf("Expand error = %v, want %s", err, tt.code)
			}
			if records != nil {
				t.Errorf("Expand returned %d records on error", len(records))
			}
		})
	}
}

func TestExpandBaseValueOverride(t *testing.T) {
	records, err := Expand(context.Background(), Request{
		Series:     eseries.E3,
		BaseValues: []float64{1.0, 2.2, 4.7},
		Packages:   []string{"0603"},
		Decades:    []int64{100},
	})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.Formatted)
	}
	if want := []string{"100", "220", "470"}; !reflect.DeepEqual(got, want) {
		t.Errorf("formatted = %v, want %v", got, want)
	}
}

func TestExpandCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Expand(ctx, Request{Series: eseries.E96, Packages: []string{"0603"}, Decades: []int64{1}})
	if err != context.Canceled {
		t.Errorf("Expand error = %v, want context.Canceled", err)
	}
}

func TestPartition(t *testing.T) {
	records, _ := Expand(context.Background(), Request{
		Series:   eseries.E6,
		Packages: []string{"0402", "0603", "1206"},
		Decades:  []int64{1, 10},
	})

	groups := Partition(records)
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	for i, pkg := range []string{"0402", "0603", "1206"} {
		if len(groups[i]) != 12 {
			t.Errorf("group %s has %d records, want 12", pkg, len(groups[i]))
		}
		for _, r := range groups[i] {
			if r.Package != pkg {
				t.Errorf("group %d contains package %s, want %s", i, r.Package, pkg)
			}
		}
	}

	if Partition(nil) != nil {
		t.Error("Partition(nil) should be nil")
	}
}

func TestIsPowerOfTen(t *testing.T) {
	for _, n := range []int64{1, 10, 100, 1000000} {
		if !isPowerOfTen(n) {
			t.Errorf("isPowerOfTen(%d) = false", n)
		}
	}
	for _, n := range []int64{0, -10, 2, 20, 110} {
		if isPowerOfTen(n) {
			t.Errorf("isPowerOfTen(%d) = true", n)
		}
	}
}
