package kicad

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atlantix-eda/aeda/pkg/component"
	"github.com/atlantix-eda/aeda/pkg/kicad/sexp"
)

func testRecords() []component.Record {
	mk := func(formatted string, ohms float64) component.Record {
		return component.Record{
			Kind:        component.KindResistor,
			Value:       ohms,
			Formatted:   formatted,
			Package:     "0603",
			Tolerance:   "1%",
			Power:       "1/10W",
			Description: component.Description(formatted, "0603", "1%", "1/10W"),
			PartNumber:  component.PartNumber("0603", formatted),
		}
	}
	recs := []component.Record{mk("1.00K", 1000), mk("2.15K", 2150)}
	recs[0].Manufacturers = []component.ManufacturerPart{
		{Manufacturer: "Vishay", MPN: "CRCW06031K00FKEA", Distributor: "Digikey", DistributorPN: "541-1.00KHCT-ND"},
		{Manufacturer: "Yageo", MPN: "RC0603FR-071KL", Distributor: "Digikey", DistributorPN: "311-1.00KHRCT-ND"},
	}
	return recs
}

func TestSymbolLibraryStructure(t *testing.T) {
	out := SymbolLibrary(testRecords())

	if !bytes.HasPrefix(out, []byte("(kicad_symbol_lib (version 20211014) (generator atlantix-eda)\n")) {
		t.Errorf("unexpected header: %q", out[:60])
	}
	if !bytes.HasSuffix(out, []byte(")\n")) {
		t.Error("library not closed")
	}

	lib, err := sexp.ReadSymbolLibrary(out)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if len(lib.Symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(lib.Symbols))
	}

	sym := lib.Symbols[0]
	if sym.Name != "R0603_1.00K" {
		t.Errorf("Name = %q", sym.Name)
	}
	want := map[string]string{
		"Reference":      "R",
		"Value":          "1.00K",
		"Footprint":      "Atlantix_Resistors:R_0603_1608Metric",
		"Datasheet":      "~",
		"ki_keywords":    "R res resistor",
		"ki_description": "RES SMT 1.00Kohms, 0603, 1%, 1/10W",
		"ki_fp_filters":  "R_*",
	}
	for k, v := range want {
		if got := sym.Properties[k]; got != v {
			t.Errorf("property %s = %q, want %q", k, got, v)
		}
	}
	if sym.Pins != 2 {
		t.Errorf("Pins = %d, want 2", sym.Pins)
	}
	if len(sym.Units) != 2 || sym.Units[0] != "R0603_1.00K_0_1" || sym.Units[1] != "R0603_1.00K_1_1" {
		t.Errorf("Units = %v", sym.Units)
	}
}

func TestSymbolLibraryManufacturers(t *testing.T) {
	lib, err := sexp.ReadSymbolLibrary(SymbolLibrary(testRecords()))
	if err != nil {
		t.Fatal(err)
	}

	first := lib.Symbols[0].Properties
	checks := map[string]string{
		"Manufacturer":   "Vishay",
		"MPN":            "CRCW06031K00FKEA",
		"Supplier":       "Digikey",
		"SupplierPN":     "541-1.00KHCT-ND",
		"Manufacturer_2": "Yageo",
		"MPN_2":          "RC0603FR-071KL",
	}
	for k, v := range checks {
		if got := first[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if !strings.Contains(first["SupplierURL"], "541-1.00KHCT-ND") {
		t.Errorf("SupplierURL = %q", first["SupplierURL"])
	}

	second := lib.Symbols[1].Properties
	if _, ok := second["Manufacturer"]; ok {
		t.Error("record without manufacturers got a Manufacturer property")
	}
}

func TestSymbolLibraryStyles(t *testing.T) {
	recs := testRecords()[:1]

	eu := string(SymbolLibrary(recs))
	if !strings.Contains(eu, "(rectangle (start -1.016 -2.54) (end 1.016 2.54)") {
		t.Error("european body missing rectangle")
	}
	if strings.Contains(eu, "polyline") {
		t.Error("european body contains polyline")
	}

	us := string(SymbolLibrary(recs, WithStyle(StyleAmerican)))
	if !strings.Contains(us, "(xy 0.635 -1.905)") {
		t.Error("american body missing zig-zag")
	}
	if strings.Contains(us, "rectangle") {
		t.Error("american body contains rectangle")
	}
}

func TestSymbolLibraryFootprintLibrary(t *testing.T) {
	out := string(SymbolLibrary(testRecords()[:1], WithFootprintLibrary("MyLib")))
	if !strings.Contains(out, `"Footprint" "MyLib:R_0603_1608Metric"`) {
		t.Error("custom footprint library not applied")
	}
}

func TestSymbolLibraryEmpty(t *testing.T) {
	out := SymbolLibrary(nil)
	lib, err := sexp.ReadSymbolLibrary(out)
	if err != nil {
		t.Fatalf("empty library does not parse: %v", err)
	}
	if len(lib.Symbols) != 0 {
		t.Errorf("got %d symbols", len(lib.Symbols))
	}
}

func TestSymbolLibraryDeterministic(t *testing.T) {
	a := SymbolLibrary(testRecords())
	b := SymbolLibrary(testRecords())
	if !bytes.Equal(a, b) {
		t.Error("output differs between runs")
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleEuropean, false},
		{"european", StyleEuropean, false},
		{"American", StyleAmerican, false},
		{"ansi", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFootprintRef(t *testing.T) {
	if got := FootprintRef("Lib", "0805"); got != "Lib:R_0805_2012Metric" {
		t.Errorf("FootprintRef = %q", got)
	}
	if got := FootprintRef("Lib", "9999"); got != "Lib:R_9999" {
		t.Errorf("FootprintRef unknown = %q", got)
	}
}

func TestQuote(t *testing.T) {
	if got := quote(`a"b\c`); got != `"a\"b\\c"` {
		t.Errorf("quote = %s", got)
	}
}
