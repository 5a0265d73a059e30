package kicad

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/atlantix-eda/aeda/pkg/kicad/sexp"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

var fixedTime = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

func spec0603(t *testing.T) smd.Spec {
	t.Helper()
	s, err := smd.Lookup("0603")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFootprint0603Lines(t *testing.T) {
	out := string(Footprint(spec0603(t), WithTimestamp(fixedTime)))

	wantLines := []string{
		"(module R_0603_1608Metric (layer F.Cu) (tedit 20240301123045)",
		`  (descr "Resistor SMD 0603 (1608Metric), square (rectangular) end terminal, IPC_7351 nominal")`,
		"  (fp_text reference REF** (at 0 -1.40) (layer F.SilkS)",
		"  (fp_text value R_0603_1608Metric (at 0 1.40) (layer F.Fab)",
		"  (fp_line (start -0.800 0.400) (end -0.800 -0.400) (layer F.Fab) (width 0.1))",
		"  (fp_line (start -0.200 -0.510) (end 0.200 -0.510) (layer F.SilkS) (width 0.12))",
		"  (fp_line (start -1.05 0.65) (end -1.05 -0.65) (layer F.CrtYd) (width 0.05))",
		"  (pad 1 smd roundrect (at -0.775 0.000) (size 0.90 0.95) (layers F.Cu F.Paste F.Mask) (roundrect_rratio 0.25))",
		"  (pad 2 smd roundrect (at 0.775 0.000) (size 0.90 0.95) (layers F.Cu F.Paste F.Mask) (roundrect_rratio 0.25))",
		"  (model ${KICAD6_3DMODEL_DIR}/Resistor_SMD.3dshapes/R_0603_1608Metric.wrl",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("missing line %q", want)
		}
	}
}

func TestFootprintGeometry(t *testing.T) {
	for _, spec := range smd.All() {
		t.Run(spec.Imperial, func(t *testing.T) {
			fp, err := sexp.ReadFootprint(Footprint(spec, WithTimestamp(fixedTime)))
			if err != nil {
				t.Fatalf("output does not parse: %v", err)
			}
			if fp.Name != spec.FootprintName() || fp.Value != spec.FootprintName() {
				t.Errorf("name/value = %q/%q", fp.Name, fp.Value)
			}
			if fp.Reference != "REF**" {
				t.Errorf("Reference = %q", fp.Reference)
			}
			if len(fp.Pads) != 2 {
				t.Fatalf("got %d pads", len(fp.Pads))
			}
			if fp.Pads[0].X != -fp.Pads[1].X {
				t.Errorf("pads not symmetric: %v %v", fp.Pads[0].X, fp.Pads[1].X)
			}
			if math.Abs(fp.Pads[1].X-spec.PadCenterX) > 0.0005 {
				t.Errorf("pad x = %v, want %v", fp.Pads[1].X, spec.PadCenterX)
			}
			if n := len(fp.LinesOn("F.Fab")); n != 4 {
				t.Errorf("fab lines = %d", n)
			}
			if n := len(fp.LinesOn("F.SilkS")); n != 2 {
				t.Errorf("silk lines = %d", n)
			}
			crt := fp.LinesOn("F.CrtYd")
			if len(crt) != 4 {
				t.Fatalf("courtyard lines = %d", len(crt))
			}
			wantX := spec.BodyLength/2 + courtyardMargin
			if math.Abs(math.Abs(crt[0].X1)-wantX) > 0.005 {
				t.Errorf("courtyard x = %v, want %v", crt[0].X1, wantX)
			}
		})
	}
}

func TestFootprintTimestamp(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedTime.Add(time.Hour)
	}
	fp, err := sexp.ReadFootprint(Footprint(spec0603(t), WithClock(clock)))
	if err != nil {
		t.Fatal(err)
	}
	if fp.Tedit != "20240301133045" {
		t.Errorf("Tedit = %q", fp.Tedit)
	}
	if calls != 1 {
		t.Errorf("clock called %d times", calls)
	}
}

func TestFootprintDeterministicWithFixedTime(t *testing.T) {
	a := Footprint(spec0603(t), WithTimestamp(fixedTime))
	b := Footprint(spec0603(t), WithTimestamp(fixedTime))
	if string(a) != string(b) {
		t.Error("footprint differs between runs")
	}
}
