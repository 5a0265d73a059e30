package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlantix-eda/aeda/pkg/cache"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
)

var testTime = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func testOptions(dir string) Options {
	return Options{
		Series:        24,
		Packages:      []string{"0603", "0805"},
		Decades:       []int64{1000},
		Manufacturers: []string{"Vishay"},
		Formats:       []string{FormatKicad, FormatAltium, FormatStencil},
		OutputDir:     dir,
		Timestamp:     testTime,
	}
}

func readTree(t *testing.T, root string) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return files
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"kicad", false},
		{"kicad-symbols", false},
		{"kicad-footprints", false},
		{"altium", false},
		{"stencil", false},
		{"eagle", true},
		{"KiCad", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestNormalizeFormats(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"kicad"}, []string{FormatKicadSymbols, FormatKicadFootprints}},
		{[]string{"altium", "kicad-symbols"}, []string{FormatKicadSymbols, FormatAltium}},
		{[]string{"stencil", "kicad", "kicad-footprints"}, []string{FormatKicadSymbols, FormatKicadFootprints, FormatStencil}},
		{[]string{"altium", "bogus"}, []string{FormatAltium, "bogus"}},
	}
	for _, tt := range tests {
		if got := NormalizeFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("NormalizeFormats(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" KiCad, altium,,stencil ")
	want := []string{"kicad", "altium", "stencil"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseFormats = %v, want %v", got, want)
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{Series: 96, Packages: []string{"0603"}, OutputDir: "out"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Decades) != 6 {
		t.Errorf("Decades = %v", opts.Decades)
	}
	if !slices.Equal(opts.Formats, []string{FormatKicadSymbols, FormatKicadFootprints}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.SymbolStyle != "european" || opts.FootprintLibrary != "Atlantix_Resistors" {
		t.Errorf("style/library = %q/%q", opts.SymbolStyle, opts.FootprintLibrary)
	}
	if opts.Workers <= 0 {
		t.Errorf("Workers = %d", opts.Workers)
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errs.Code
	}{
		{"no output dir", func(o *Options) { o.OutputDir = "" }, errs.ErrCodeInvalidPath},
		{"bad format", func(o *Options) { o.Formats = []string{"eagle"} }, errs.ErrCodeInvalidFormat},
		{"bad style", func(o *Options) { o.SymbolStyle = "japanese" }, errs.ErrCodeInvalidStyle},
		{"unsupported series", func(o *Options) { o.Series = 7 }, errs.ErrCodeUnsupportedSeries},
		{"unknown package", func(o *Options) { o.Packages = []string{"9999"} }, errs.ErrCodeUnknownPackage},
		{"unknown manufacturer", func(o *Options) { o.Manufacturers = []string{"Acme"} }, errs.ErrCodeUnknownManufacturer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("out")
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (%v)", errs.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestExecuteLayout(t *testing.T) {
	dir := t.TempDir()
	res, err := testRunner(nil).Execute(context.Background(), testOptions(dir))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{
		"kicad/symbols/Atlantix_R_0603.kicad_sym",
		"kicad/symbols/Atlantix_R_0805.kicad_sym",
		"kicad/Atlantix_Resistors.pretty/R_0603_1608Metric.kicad_mod",
		"kicad/Atlantix_Resistors.pretty/R_0805_2012Metric.kicad_mod",
		"resistors_0603.csv",
		"resistors_0805.csv",
		"libraries/resistor/E24_0603.json",
		"libraries/resistor/E24_0805.json",
	}
	var got []string
	for _, p := range res.Paths() {
		rel, _ := filepath.Rel(dir, p)
		got = append(got, filepath.ToSlash(rel))
	}
	if !slices.Equal(got, want) {
		t.Errorf("paths =\n%v\nwant\n%v", got, want)
	}

	tree := readTree(t, dir)
	if len(tree) != len(want) {
		t.Errorf("tree has %d files, want %d", len(tree), len(want))
	}
	if res.Records != 48 {
		t.Errorf("Records = %d, want 48", res.Records)
	}
	if len(res.Failed) != 0 {
		t.Errorf("Failed = %v", res.Failed)
	}
	if n := len(res.FilesOf(FormatAltium)); n != 2 {
		t.Errorf("altium files = %d", n)
	}

	csv := tree["resistors_0603.csv"]
	if rows := bytes.Count(csv, []byte("\r\n")); rows != 25 {
		t.Errorf("csv rows = %d, want 25", rows)
	}
	if !bytes.Contains(tree["kicad/symbols/Atlantix_R_0805.kicad_sym"], []byte(`(symbol "R0805_1.00K"`)) {
		t.Error("0805 symbol library missing R0805_1.00K")
	}
	for name, data := range tree {
		if filepath.Base(name)[0] == '.' {
			t.Errorf("temporary file left behind: %s (%d bytes)", name, len(data))
		}
	}
}

func TestExecuteDeterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	r := testRunner(nil)
	if _, err := r.Execute(context.Background(), testOptions(a)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := r.Execute(context.Background(), testOptions(b)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	ta, tb := readTree(t, a), readTree(t, b)
	for name, data := range ta {
		if !bytes.Equal(data, tb[name]) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestExecuteWallClockFootprints(t *testing.T) {
	stripTedit := func(data []byte) []byte {
		var out [][]byte
		for _, line := range bytes.Split(data, []byte("\n")) {
			if i := bytes.Index(line, []byte("(tedit ")); i >= 0 {
				line = line[:i]
			}
			out = append(out, line)
		}
		return bytes.Join(out, []byte("\n"))
	}

	a, b := t.TempDir(), t.TempDir()
	r := testRunner(nil)
	for _, dir := range []string{a, b} {
		opts := testOptions(dir)
		opts.Formats = []string{FormatKicadFootprints}
		opts.Timestamp = time.Time{}
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	ta, tb := readTree(t, a), readTree(t, b)
	if len(ta) != 2 {
		t.Fatalf("got %d footprints, want 2", len(ta))
	}
	for name, data := range ta {
		if !bytes.Equal(stripTedit(data), stripTedit(tb[name])) {
			t.Errorf("%s differs outside the tedit stamp", name)
		}
	}
}

func TestExecuteInvalidWritesNothing(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.Series = 7

	res, err := testRunner(nil).Execute(context.Background(), opts)
	if !errs.Is(err, errs.ErrCodeUnsupportedSeries) {
		t.Fatalf("err = %v, want UNSUPPORTED_SERIES", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
}

func TestExecuteIOFailure(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the kicad directory belongs.
	if err := os.WriteFile(filepath.Join(dir, "kicad"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := testRunner(nil).Execute(context.Background(), testOptions(dir))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errs.Is(err, errs.ErrCodeIO) {
		t.Errorf("code = %s, want IO_FAILURE", errs.GetCode(err))
	}
	var fe *errs.FileError
	if !errors.As(err, &fe) || fe.Path == "" {
		t.Errorf("error does not name a path: %v", err)
	}
	if res == nil {
		t.Fatal("result is nil")
	}
	if len(res.Failed) != 4 {
		t.Errorf("Failed = %d, want 4 (symbols and footprints)", len(res.Failed))
	}
	// Files outside kicad/ are still written.
	if len(res.FilesOf(FormatAltium)) != 2 || len(res.FilesOf(FormatStencil)) != 2 {
		t.Errorf("Files = %+v", res.Files)
	}
	if _, err := os.Stat(filepath.Join(dir, "resistors_0805.csv")); err != nil {
		t.Errorf("csv not written: %v", err)
	}
}

func TestExecuteCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := testRunner(c)

	a := t.TempDir()
	first, err := r.Execute(context.Background(), testOptions(a))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.Hits != 0 || first.CacheInfo.Misses != 6 || !first.CacheInfo.Expanded {
		t.Errorf("first CacheInfo = %+v", first.CacheInfo)
	}

	b := t.TempDir()
	second, err := r.Execute(context.Background(), testOptions(b))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.CacheInfo.Hits != 6 || second.CacheInfo.Expanded {
		t.Errorf("second CacheInfo = %+v", second.CacheInfo)
	}
	if second.Records != first.Records {
		t.Errorf("Records = %d, want %d", second.Records, first.Records)
	}
	for _, f := range second.Files {
		if f.Cached != (f.Format != FormatKicadFootprints) {
			t.Errorf("%s cached = %v", f.Path, f.Cached)
		}
	}

	ta, tb := readTree(t, a), readTree(t, b)
	for name, data := range ta {
		if !bytes.Equal(data, tb[name]) {
			t.Errorf("%s differs between cold and cached runs", name)
		}
	}

	opts := testOptions(t.TempDir())
	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if third.CacheInfo.Hits != 0 || !third.CacheInfo.Expanded {
		t.Errorf("refresh CacheInfo = %+v", third.CacheInfo)
	}
}

func TestExecuteCacheKeyedByInputs(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := testRunner(c)

	opts := testOptions(t.TempDir())
	opts.Formats = []string{FormatKicadSymbols}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	american := testOptions(t.TempDir())
	american.Formats = []string{FormatKicadSymbols}
	american.SymbolStyle = "american"
	res, err := r.Execute(context.Background(), american)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hits != 0 {
		t.Errorf("style change hit the cache: %+v", res.CacheInfo)
	}
}

func TestExecuteTargetLib(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "mylib")
	opts := testOptions(filepath.Join(dir, "out"))
	opts.Packages = []string{"1206"}
	opts.Formats = []string{FormatKicad}
	opts.KicadTargetLib = target

	res, err := testRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{
		filepath.Join(target, "symbols", "Atlantix_R_1206.kicad_sym"),
		filepath.Join(target, "footprints", "Atlantix_Resistors.pretty", "R_1206_3216Metric.kicad_mod"),
	}
	if got := res.Paths(); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	_, err := testRunner(nil).Execute(ctx, testOptions(dir))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cancelled run wrote %d entries", len(entries))
	}
}

func TestStartEvents(t *testing.T) {
	job := testRunner(nil).Start(context.Background(), testOptions(t.TempDir()))
	if job.ID == "" {
		t.Error("job has no ID")
	}

	var stages []Stage
	for e := range job.Events() {
		if len(stages) == 0 || stages[len(stages)-1] != e.Stage {
			stages = append(stages, e.Stage)
		}
	}
	res, err := job.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(res.Files) != 8 {
		t.Errorf("Files = %d, want 8", len(res.Files))
	}
	want := []Stage{StageTemplates, StageExpanded, StageSerialized, StageWritten, StageDone}
	if !slices.Equal(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	if job.State() != JobSucceeded {
		t.Errorf("State = %s", job.State())
	}
}

func TestStartInvalid(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Packages = []string{"9999"}
	job := testRunner(nil).Start(context.Background(), opts)
	for range job.Events() {
	}
	if _, err := job.Wait(); !errs.Is(err, errs.ErrCodeUnknownPackage) {
		t.Errorf("err = %v, want UNKNOWN_PACKAGE", err)
	}
	if job.State() != JobFailed {
		t.Errorf("State = %s", job.State())
	}
}

func TestApplyDescriptor(t *testing.T) {
	d, err := library.NewResistorLibrary(24, "0805", nil)
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(t.TempDir())
	opts.Formats = []string{FormatAltium}
	if err := opts.ApplyDescriptor(d); err != nil {
		t.Fatalf("ApplyDescriptor: %v", err)
	}
	if opts.Series != 24 || !slices.Equal(opts.Packages, []string{"0805"}) || len(opts.BaseValues) != 24 {
		t.Errorf("opts = %+v", opts)
	}
	res, err := testRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Package != "0805" {
		t.Errorf("Files = %+v", res.Files)
	}

	capd, _ := library.NewCapacitorLibrary("", "0603")
	if err := opts.ApplyDescriptor(capd); !errs.Is(err, errs.ErrCodeMalformedDescriptor) {
		t.Errorf("capacitor descriptor err = %v", err)
	}
}
