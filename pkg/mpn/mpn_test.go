package mpn

import (
	"reflect"
	"testing"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

func TestVishayResistanceCode(t *testing.T) {
	tests := []struct {
		formatted string
		want      string
	}{
		{"1.00K", "1K00"},
		{"1.05K", "1K05"},
		{"9.09K", "9K09"},
		{"4.99K", "4K99"},
		{"10.0K", "10K0"},
		{"49.9K", "49K0"},
		{"976K", "976K0"},
		{"1.00M", "1M00"},
		{"2.15M", "2M15"},
		{"150", "150R"},
		{"100", "100R"},
		{"49.9", "50R0"},
		{"10.0", "10R0"},
		{"4.99", "4R99"},
		{"1.00", "1R00"},
		{"0.50K", "R500"},
		{"garbage", "1R00"},
		{"xK", "1K00"},
	}

	for _, tt := range tests {
		t.Run(tt.formatted, func(t *testing.T) {
			if got := VishayResistanceCode(tt.formatted); got != tt.want {
				t.Errorf("VishayResistanceCode(%q) = %q, want %q", tt.formatted, got, tt.want)
			}
		})
	}
}

func TestVishayMPN(t *testing.T) {
	tests := []struct {
		formatted, pkg, want string
	}{
		{"1.00K", "0603", "CRCW06031K00FKEA"},
		{"1.05K", "0805", "CRCW08051K05FKEA"},
		{"4.99", "2512", "CRCW25124R99FKEA"},
		{"1.00K", "0201", "CRCW06031K00FKEA"},
		{"1.00K", "9999", "CRCW06031K00FKEA"},
	}

	for _, tt := range tests {
		if got := VishayMPN(tt.formatted, tt.pkg); got != tt.want {
			t.Errorf("VishayMPN(%q, %q) = %q, want %q", tt.formatted, tt.pkg, got, tt.want)
		}
	}
}

func TestKOAResistanceCode(t *testing.T) {
	tests := []struct {
		ohms float64
		want string
	}{
		{1.00, "01R0"},
		{4.99, "05R0"},
		{4.64, "04R6"},
		{10, "1000"},
		{49.9, "4990"},
		{100, "1001"},
		{499, "4991"},
		{1000, "1002"},
		{4990, "4992"},
		{10000, "1003"},
		{49900, "4993"},
		{100000, "1004"},
		{499000, "4994"},
		{1000000, "1005"},
		{4990000, "4995"},
	}

	for _, tt := range tests {
		if got := KOAResistanceCode(tt.ohms); got != tt.want {
			t.Errorf("KOAResistanceCode(%v) = %q, want %q", tt.ohms, got, tt.want)
		}
	}
}

func TestKOAMPN(t *testing.T) {
	if got := KOAMPN(1000, "0603"); got != "RK73H1JTTD1002F" {
		t.Errorf("KOAMPN(1000, 0603) = %q", got)
	}

	sizes := map[string]string{
		"0402": "1E", "0603": "1J", "0805": "2A", "1206": "2B",
		"1210": "2E", "2010": "3A", "2512": "3E", "0201": "1J",
	}
	for pkg, size := range sizes {
		want := "RK73H" + size + "TTD1002F"
		if got := KOAMPN(1000, pkg); got != want {
			t.Errorf("KOAMPN(1000, %q) = %q, want %q", pkg, got, want)
		}
	}
}

func TestDigikeyPN(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"first decade 0603", Input{Ohms: 1, Formatted: "1.00", Package: "0603", Decade: 1, Base: 1}, "541-1HHCT-ND"},
		{"first decade fractional", Input{Ohms: 1.02, Formatted: "1.02", Package: "0402", Decade: 1, Base: 1.02}, "541-1.02LLCT-ND"},
		{"first decade unknown", Input{Ohms: 1.5, Formatted: "1.50", Package: "0201", Decade: 1, Base: 1.5}, "541-1.5XXXX-ND"},
		{"later decade 0603", Input{Ohms: 1000, Formatted: "1.00K", Package: "0603", Decade: 1000, Base: 1}, "541-1.00KHCT-ND"},
		{"later decade 1210", Input{Ohms: 49.9, Formatted: "49.9", Package: "1210", Decade: 10, Base: 4.99}, "541-49.9VCT-ND"},
		{"later decade 1218", Input{Ohms: 100, Formatted: "100", Package: "1218", Decade: 100, Base: 1}, "541-100KANCT-ND"},
		{"later decade unknown", Input{Ohms: 100, Formatted: "100", Package: "0201", Decade: 100, Base: 1}, "541-100XXX-ND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DigikeyPN(tt.in); got != tt.want {
				t.Errorf("DigikeyPN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncoders(t *testing.T) {
	in := Input{Ohms: 1000, Formatted: "1.00K", Package: "0603", Decade: 1000, Base: 1}

	tests := []struct {
		name string
		want Part
	}{
		{"Vishay", Part{"Vishay", "CRCW06031K00FKEA", Digikey, "541-1.00KHCT-ND"}},
		{"yageo", Part{"Yageo", "RC0603FR-071.00KL", Mouser, "603-RC0603FR-071.00K"}},
		{"KOA", Part{"KOA Speer", "RK73H1JTTD1002F", Digikey, "RK73H1JTTD1002F-ND"}},
		{"KOA Speer", Part{"KOA Speer", "RK73H1JTTD1002F", Digikey, "RK73H1JTTD1002F-ND"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.name, err)
			}
			if got := enc.Encode(in); got != tt.want {
				t.Errorf("Encode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("Panasonic")
	if !errs.Is(err, errs.ErrCodeUnknownManufacturer) {
		t.Errorf("Lookup(Panasonic) error = %v, want UNKNOWN_MANUFACTURER", err)
	}
	if err := Validate([]string{"Vishay", "Bourns"}); !errs.Is(err, errs.ErrCodeUnknownManufacturer) {
		t.Errorf("Validate error = %v, want UNKNOWN_MANUFACTURER", err)
	}
	if err := Validate([]string{"Vishay", "Yageo", "KOA"}); err != nil {
		t.Errorf("Validate known = %v", err)
	}
}

func TestNames(t *testing.T) {
	want := []string{"KOA Speer", "Vishay", "Yageo"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSupplierURL(t *testing.T) {
	if got := SupplierURL(Digikey, "541-1.00KHCT-ND"); got != "https://www.digikey.com/products/en?keywords=541-1.00KHCT-ND" {
		t.Errorf("Digikey URL = %q", got)
	}
	if got := SupplierURL(Mouser, "603-RC0603FR-071.00K"); got != "https://www.mouser.com/Search/Refine?Keyword=603-RC0603FR-071.00K" {
		t.Errorf("Mouser URL = %q", got)
	}
	if got := SupplierURL("Arrow", "x"); got != "" {
		t.Errorf("unknown distributor URL = %q", got)
	}
}
