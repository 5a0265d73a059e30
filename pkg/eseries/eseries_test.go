package eseries

import (
	"reflect"
	"testing"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

func TestExpandProperties(t *testing.T) {
	for _, s := range All() {
		t.Run(s.String(), func(t *testing.T) {
			values, err := Expand(s)
			if err != nil {
				t.Fatalf("Expand(%s) error: %v", s, err)
			}
			if len(values) != int(s) {
				t.Fatalf("len = %d, want %d", len(values), int(s))
			}
			if values[0] != 1.00 {
				t.Errorf("first value = %v, want 1.00", values[0])
			}
			for i, v := range values {
				if v < 1.00 || v >= 10.00 {
					t.Errorf("value[%d] = %v out of [1, 10)", i, v)
				}
				if i > 0 && v <= values[i-1] {
					t.Errorf("value[%d] = %v not greater than %v", i, v, values[i-1])
				}
			}
		})
	}
}

func TestExpandValues(t *testing.T) {
	tests := []struct {
		series Series
		want   []float64
	}{
		{E3, []float64{1.00, 2.15, 4.64}},
		{E6, []float64{1.00, 1.47, 2.15, 3.16, 4.64, 6.81}},
		{E12, []float64{1.00, 1.21, 1.47, 1.78, 2.15, 2.61, 3.16, 3.83, 4.64, 5.62, 6.81, 8.25}},
	}

	for _, tt := range tests {
		got, err := Expand(tt.series)
		if err != nil {
			t.Fatalf("Expand(%s) error: %v", tt.series, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Expand(%s) = %v, want %v", tt.series, got, tt.want)
		}
	}
}

func TestExpandIdempotent(t *testing.T) {
	a, _ := Expand(E192)
	b, _ := Expand(E192)
	if !reflect.DeepEqual(a, b) {
		t.Error("Expand should be bit-identical across calls")
	}
}

func TestExpandUnsupported(t *testing.T) {
	for _, n := range []Series{0, 7, 100, -3} {
		if _, err := Expand(n); !errs.Is(err, errs.ErrCodeUnsupportedSeries) {
			t.Errorf("Expand(%d) error = %v, want UNSUPPORTED_SERIES", n, err)
		}
	}
}

func TestTolerance(t *testing.T) {
	tests := []struct {
		series Series
		want   string
	}{
		{E192, "0.5%"},
		{E96, "1%"},
		{E48, "2%"},
		{E24, "5%"},
		{E12, "10%"},
		{E6, "20%"},
		{E3, "50%"},
	}

	for _, tt := range tests {
		got, err := Tolerance(tt.series)
		if err != nil {
			t.Fatalf("Tolerance(%s) error: %v", tt.series, err)
		}
		if got != tt.want {
			t.Errorf("Tolerance(%s) = %q, want %q", tt.series, got, tt.want)
		}
	}

	if _, err := Tolerance(7); !errs.Is(err, errs.ErrCodeUnsupportedSeries) {
		t.Errorf("Tolerance(7) error = %v, want UNSUPPORTED_SERIES", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Series
		wantErr bool
	}{
		{"E96", E96, false},
		{"e24", E24, false},
		{"192", E192, false},
		{" E12 ", E12, false},
		{"E7", 0, true},
		{"", 0, true},
		{"E9x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errs.Is(err, errs.ErrCodeUnsupportedSeries) {
				t.Errorf("Parse(%q) code = %v, want UNSUPPORTED_SERIES", tt.input, errs.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTableReturnsCopies(t *testing.T) {
	table := NewTable()

	a, err := table.Values(E6)
	if err != nil {
		t.Fatalf("Values error: %v", err)
	}
	a[0] = 42

	b, _ := table.Values(E6)
	if b[0] != 1.00 {
		t.Errorf("table was mutated through a returned slice: %v", b[0])
	}

	if _, err := table.Values(7); !errs.Is(err, errs.ErrCodeUnsupportedSeries) {
		t.Errorf("Values(7) error = %v, want UNSUPPORTED_SERIES", err)
	}
}
