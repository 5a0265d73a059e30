package kicad

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/atlantix-eda/aeda/pkg/component"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// Style selects the resistor body graphic.
type Style string

const (
	StyleEuropean Style = "european"
	StyleAmerican Style = "american"
)

// DefaultFootprintLibrary is the footprint library nickname symbols point at.
const DefaultFootprintLibrary = "Atlantix_Resistors"

// ParseStyle validates a style name. Empty selects European.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case "", StyleEuropean:
		return StyleEuropean, nil
	case StyleAmerican:
		return StyleAmerican, nil
	}
	return "", errs.New(errs.ErrCodeInvalidStyle, "invalid symbol style: %q (must be european or american)", s)
}

const libraryHeader = "(kicad_symbol_lib (version 20211014) (generator atlantix-eda)\n"

const europeanBody = `      (rectangle (start -1.016 -2.54) (end 1.016 2.54)
        (stroke (width 0.254) (type default) (color 0 0 0 0))
        (fill (type none))
      )`

const americanBody = `      (polyline
        (pts
          (xy 0 -2.54)
          (xy 0.635 -1.905)
          (xy -0.635 -0.635)
          (xy 0.635 0.635)
          (xy -0.635 1.905)
          (xy 0 2.54)
        )
        (stroke (width 0.254) (type default) (color 0 0 0 0))
        (fill (type none))
      )`

// SymbolOption configures SymbolLibrary.
type SymbolOption func(*symbolRenderer)

type symbolRenderer struct {
	style     Style
	fpLibrary string
}

// WithStyle selects the body graphic.
func WithStyle(s Style) SymbolOption { return func(r *symbolRenderer) { r.style = s } }

// WithFootprintLibrary overrides the footprint library nickname.
func WithFootprintLibrary(name string) SymbolOption {
	return func(r *symbolRenderer) { r.fpLibrary = name }
}

// SymbolLibrary renders records as a .kicad_sym library, one symbol per
// record, in record order.
func SymbolLibrary(records []component.Record, opts ...SymbolOption) []byte {
	r := symbolRenderer{style: StyleEuropean, fpLibrary: DefaultFootprintLibrary}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString(libraryHeader)
	for _, rec := range records {
		r.writeSymbol(&buf, rec)
		buf.WriteByte('\n')
	}
	buf.WriteString(")\n")
	return buf.Bytes()
}

// FootprintRef returns the library:footprint reference for a package,
// e.g. "Atlantix_Resistors:R_0603_1608Metric". Unknown packages fall back
// to the bare imperial code.
func FootprintRef(library, pkg string) string {
	spec, err := smd.Lookup(pkg)
	if err != nil {
		return library + ":R_" + pkg
	}
	return library + ":" + spec.FootprintName()
}

func (r *symbolRenderer) writeSymbol(buf *bytes.Buffer, rec component.Record) {
	name := quote(rec.PartNumber)

	fmt.Fprintf(buf, "  (symbol %s (pin_numbers hide) (pin_names (offset 0)) (in_bom yes) (on_board yes)\n", name)
	writeProperty(buf, "Reference", "R", 0, "2.032 0 90", false)
	writeProperty(buf, "Value", rec.Formatted, 1, "0 0 90", false)
	writeProperty(buf, "Footprint", FootprintRef(r.fpLibrary, rec.Package), 2, "-1.778 0 90", true)
	writeProperty(buf, "Datasheet", "~", 3, "0 0 0", true)
	writeProperty(buf, "ki_keywords", "R res resistor", 4, "0 0 0", true)
	writeProperty(buf, "ki_description", rec.Description, 5, "0 0 0", true)
	buf.WriteString(`    (property "ki_fp_filters" "R_*" (id 6) (at 0 0 0)
      (effects (font (size 1.27 1.27)) hide)
    )`)
	writeManufacturers(buf, rec.Manufacturers)

	body := europeanBody
	if r.style == StyleAmerican {
		body = americanBody
	}
	fmt.Fprintf(buf, "\n    (symbol %s\n%s\n    )\n", quote(rec.PartNumber+"_0_1"), body)
	fmt.Fprintf(buf, `    (symbol %s
      (pin passive line (at 0 3.81 270) (length 1.27)
        (name "~" (effects (font (size 1.27 1.27))))
        (number "1" (effects (font (size 1.27 1.27))))
      )
      (pin passive line (at 0 -3.81 90) (length 1.27)
        (name "~" (effects (font (size 1.27 1.27))))
        (number "2" (effects (font (size 1.27 1.27))))
      )
    )
  )`, quote(rec.PartNumber+"_1_1"))
}

func writeProperty(buf *bytes.Buffer, key, val string, id int, at string, hide bool) {
	effects := "(effects (font (size 1.27 1.27)))"
	if hide {
		effects = "(effects (font (size 1.27 1.27)) hide)"
	}
	fmt.Fprintf(buf, "    (property %s %s (id %d) (at %s)\n      %s\n    )\n", quote(key), quote(val), id, at, effects)
}

// writeManufacturers emits the hidden sourcing properties. The first part
// uses the bare names (Manufacturer, MPN, ...); later parts get a _2, _3
// suffix so property names stay unique within the symbol.
func writeManufacturers(buf *bytes.Buffer, parts []component.ManufacturerPart) {
	id := 7
	for i, p := range parts {
		suffix := ""
		if i > 0 {
			suffix = "_" + strconv.Itoa(i+1)
		}
		fields := [][2]string{
			{"Manufacturer", p.Manufacturer},
			{"MPN", p.MPN},
			{"Supplier", p.Distributor},
			{"SupplierPN", p.DistributorPN},
			{"SupplierURL", p.SupplierURL()},
		}
		for _, f := range fields {
			fmt.Fprintf(buf, "\n    (property %s %s (id %d) (at 0 0 0)\n      (effects (font (size 1.27 1.27)) hide)\n    )",
				quote(f[0]+suffix), quote(f[1]), id)
			id++
		}
	}
}

// quote renders s as a KiCad string token.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
