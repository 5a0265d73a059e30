package altium

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/atlantix-eda/aeda/pkg/component"
	"github.com/atlantix-eda/aeda/pkg/eseries"
)

func expand(t *testing.T, manufacturers ...string) []component.Record {
	t.Helper()
	recs, err := component.Expand(context.Background(), component.Request{
		Series:        eseries.E24,
		Packages:      []string{"0603"},
		Decades:       []int64{1},
		Manufacturers: manufacturers,
	})
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestCSVRowCount(t *testing.T) {
	recs := expand(t, "Vishay")
	out, err := CSV(recs)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if len(rows) != 25 {
		t.Fatalf("got %d rows, want header + 24", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if Rows(recs) != 24 {
		t.Errorf("Rows = %d", Rows(recs))
	}
}

func TestCSVRowContent(t *testing.T) {
	recs := expand(t, "Vishay", "Yageo")
	out, err := CSV(recs)
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := csv.NewReader(bytes.NewReader(out)).ReadAll()

	first := rows[1]
	rec := recs[0]
	want := []string{
		rec.PartNumber, rec.Description, rec.Formatted, "0603", "1/10W",
		"Digikey", rec.Manufacturers[0].DistributorPN,
		"Atlantix_R.SchLib", "Res1", "Atlantix_R.PcbLib", "RES0603",
		"Atlantix EDA", "=Description",
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("column %s = %q, want %q", Header[i], first[i], want[i])
		}
	}
}

func TestCSVLineEndingsAndQuoting(t *testing.T) {
	out, err := CSV(expand(t, "Vishay"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(out, []byte("\r\n")) {
		t.Error("last line not CRLF terminated")
	}
	if n := bytes.Count(out, []byte("\r\n")); n != 25 {
		t.Errorf("got %d CRLF, want 25", n)
	}
	// Descriptions contain commas and must be quoted.
	if !bytes.Contains(out, []byte(`,"RES SMT 1.00ohms, 0603, 5%, 1/10W",`)) {
		t.Errorf("description not quoted:\n%s", out)
	}
}

func TestCSVSkipsRecordsWithoutParts(t *testing.T) {
	out, err := CSV(expand(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != strings.Join(Header, ",")+"\r\n" {
		t.Errorf("expected header only, got %q", got)
	}
}
