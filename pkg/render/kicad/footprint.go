package kicad

import (
	"bytes"
	"fmt"
	"time"

	"github.com/atlantix-eda/aeda/pkg/smd"
)

const (
	courtyardMargin = 0.25
	silkOffset      = 0.15
	silkClearance   = 0.11
	padCornerRatio  = 0.25
	teditLayout     = "20060102150405"
)

// FootprintOption configures Footprint.
type FootprintOption func(*footprintRenderer)

type footprintRenderer struct {
	now func() time.Time
}

// WithTimestamp fixes the tedit stamp.
func WithTimestamp(t time.Time) FootprintOption {
	return func(r *footprintRenderer) { r.now = func() time.Time { return t } }
}

// WithClock sets the time source for the tedit stamp.
func WithClock(now func() time.Time) FootprintOption {
	return func(r *footprintRenderer) { r.now = now }
}

type pad struct {
	number string
	x      float64
}

// Footprint renders the land pattern of a chip package as a .kicad_mod
// module: reference/value text, a four-line fabrication outline, two
// silkscreen lines clear of the pads, a courtyard 0.25mm outside the body,
// two roundrect SMD pads and a 3D model reference.
func Footprint(spec smd.Spec, opts ...FootprintOption) []byte {
	r := footprintRenderer{now: time.Now}
	for _, opt := range opts {
		opt(&r)
	}

	name := spec.FootprintName()
	halfX := spec.BodyLength / 2
	halfY := spec.BodyWidth / 2
	textY := halfY + 1
	crtX := halfX + courtyardMargin
	crtY := halfY + courtyardMargin
	silkX := halfX - spec.PadWidth/2 - silkOffset
	silkY := halfY + silkClearance

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(module %s (layer F.Cu) (tedit %s)\n", name, r.now().UTC().Format(teditLayout))
	fmt.Fprintf(&buf, "  (descr \"Resistor SMD %s (%s), square (rectangular) end terminal, IPC_7351 nominal\")\n", spec.Imperial, spec.Metric)
	buf.WriteString("  (tags resistor)\n")
	buf.WriteString("  (attr smd)\n")
	fmt.Fprintf(&buf, "  (fp_text reference REF** (at 0 -%.2f) (layer F.SilkS)\n", textY)
	buf.WriteString("    (effects (font (size 1 1) (thickness 0.15)))\n  )\n")
	fmt.Fprintf(&buf, "  (fp_text value %s (at 0 %.2f) (layer F.Fab)\n", name, textY)
	buf.WriteString("    (effects (font (size 1 1) (thickness 0.15)))\n  )\n")

	// Fabrication outline, counter-clockwise from the bottom-left corner.
	fmt.Fprintf(&buf, "  (fp_line (start -%.3f %.3f) (end -%.3f -%.3f) (layer F.Fab) (width 0.1))\n", halfX, halfY, halfX, halfY)
	fmt.Fprintf(&buf, "  (fp_line (start -%.3f -%.3f) (end %.3f -%.3f) (layer F.Fab) (width 0.1))\n", halfX, halfY, halfX, halfY)
	fmt.Fprintf(&buf, "  (fp_line (start %.3f -%.3f) (end %.3f %.3f) (layer F.Fab) (width 0.1))\n", halfX, halfY, halfX, halfY)
	fmt.Fprintf(&buf, "  (fp_line (start %.3f %.3f) (end -%.3f %.3f) (layer F.Fab) (width 0.1))\n", halfX, halfY, halfX, halfY)

	fmt.Fprintf(&buf, "  (fp_line (start -%.3f -%.3f) (end %.3f -%.3f) (layer F.SilkS) (width 0.12))\n", silkX, silkY, silkX, silkY)
	fmt.Fprintf(&buf, "  (fp_line (start -%.3f %.3f) (end %.3f %.3f) (layer F.SilkS) (width 0.12))\n", silkX, silkY, silkX, silkY)

	fmt.Fprintf(&buf, "  (fp_line (start -%.2f %.2f) (end -%.2f -%.2f) (layer F.CrtYd) (width 0.05))\n", crtX, crtY, crtX, crtY)
	fmt.Fprintf(&buf, "  (fp_line (start -%.2f -%.2f) (end %.2f -%.2f) (layer F.CrtYd) (width 0.05))\n", crtX, crtY, crtX, crtY)
	fmt.Fprintf(&buf, "  (fp_line (start %.2f -%.2f) (end %.2f %.2f) (layer F.CrtYd) (width 0.05))\n", crtX, crtY, crtX, crtY)
	fmt.Fprintf(&buf, "  (fp_line (start %.2f %.2f) (end -%.2f %.2f) (layer F.CrtYd) (width 0.05))\n", crtX, crtY, crtX, crtY)

	for _, p := range []pad{{"1", -spec.PadCenterX}, {"2", spec.PadCenterX}} {
		fmt.Fprintf(&buf, "  (pad %s smd roundrect (at %.3f %.3f) (size %.2f %.2f) (layers F.Cu F.Paste F.Mask) (roundrect_rratio %.2f))\n",
			p.number, p.x, 0.0, spec.PadWidth, spec.PadHeight, padCornerRatio)
	}

	fmt.Fprintf(&buf, "  (model ${KICAD6_3DMODEL_DIR}/Resistor_SMD.3dshapes/%s.wrl\n", name)
	buf.WriteString("    (at (xyz 0 0 0))\n")
	buf.WriteString("    (scale (xyz 1 1 1))\n")
	buf.WriteString("    (rotate (xyz 0 0 0))\n")
	buf.WriteString("  )\n)\n")
	return buf.Bytes()
}
