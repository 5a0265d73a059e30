package sexp

import (
	"fmt"
)

// Symbol is a top-level symbol in a .kicad_sym library.
type Symbol struct {
	Name       string
	Properties map[string]string
	Units      []string
	Pins       int
}

// SymbolLibrary is the result of reading a .kicad_sym file.
type SymbolLibrary struct {
	Version   string
	Generator string
	Symbols   []Symbol
}

// Lookup returns the symbol with the given name.
func (l *SymbolLibrary) Lookup(name string) (Symbol, bool) {
	for _, s := range l.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

// ReadSymbolLibrary parses a .kicad_sym file.
func ReadSymbolLibrary(data []byte) (*SymbolLibrary, error) {
	root, err := ParseOne(data)
	if err != nil {
		return nil, err
	}
	if root.Head() != "kicad_symbol_lib" {
		return nil, fmt.Errorf("not a symbol library: root is %q", root.Head())
	}

	lib := &SymbolLibrary{}
	if v := root.Find("version"); v != nil {
		lib.Version = v.Arg(0)
	}
	if g := root.Find("generator"); g != nil {
		lib.Generator = g.Arg(0)
	}
	for _, s := range root.FindAll("symbol") {
		sym := Symbol{Name: s.Arg(0), Properties: make(map[string]string)}
		for _, p := range s.FindAll("property") {
			sym.Properties[p.Arg(0)] = p.Arg(1)
		}
		for _, u := range s.FindAll("symbol") {
			sym.Units = append(sym.Units, u.Arg(0))
			sym.Pins += len(u.FindAll("pin"))
		}
		lib.Symbols = append(lib.Symbols, sym)
	}
	return lib, nil
}

// Pad is one pad of a footprint.
type Pad struct {
	Number string
	Type   string
	Shape  string
	X, Y   float64
	W, H   float64
}

// Line is an fp_line segment.
type Line struct {
	Layer      string
	X1, Y1     float64
	X2, Y2     float64
	StrokeWide float64
}

// Footprint is the result of reading a .kicad_mod file.
type Footprint struct {
	Name      string
	Tedit     string
	Reference string
	Value     string
	Pads      []Pad
	Lines     []Line
	Model     string
}

// LinesOn returns the segments on one layer.
func (f *Footprint) LinesOn(layer string) []Line {
	var out []Line
	for _, l := range f.Lines {
		if l.Layer == layer {
			out = append(out, l)
		}
	}
	return out
}

// ReadFootprint parses a .kicad_mod file in the legacy (module ...) form.
func ReadFootprint(data []byte) (*Footprint, error) {
	root, err := ParseOne(data)
	if err != nil {
		return nil, err
	}
	if root.Head() != "module" && root.Head() != "footprint" {
		return nil, fmt.Errorf("not a footprint: root is %q", root.Head())
	}

	fp := &Footprint{Name: root.Arg(0)}
	if t := root.Find("tedit"); t != nil {
		fp.Tedit = t.Arg(0)
	}
	for _, txt := range root.FindAll("fp_text") {
		switch txt.Arg(0) {
		case "reference":
			fp.Reference = txt.Arg(1)
		case "value":
			fp.Value = txt.Arg(1)
		}
	}
	for _, l := range root.FindAll("fp_line") {
		line := Line{}
		if s := l.Find("start"); s != nil {
			if xy := s.Floats(); len(xy) == 2 {
				line.X1, line.Y1 = xy[0], xy[1]
			}
		}
		if e := l.Find("end"); e != nil {
			if xy := e.Floats(); len(xy) == 2 {
				line.X2, line.Y2 = xy[0], xy[1]
			}
		}
		if ly := l.Find("layer"); ly != nil {
			line.Layer = ly.Arg(0)
		}
		if w := l.Find("width"); w != nil {
			if v := w.Floats(); len(v) == 1 {
				line.StrokeWide = v[0]
			}
		}
		fp.Lines = append(fp.Lines, line)
	}
	for _, p := range root.FindAll("pad") {
		pad := Pad{Number: p.Arg(0), Type: p.Arg(1), Shape: p.Arg(2)}
		if at := p.Find("at"); at != nil {
			if xy := at.Floats(); len(xy) >= 2 {
				pad.X, pad.Y = xy[0], xy[1]
			}
		}
		if sz := p.Find("size"); sz != nil {
			if wh := sz.Floats(); len(wh) == 2 {
				pad.W, pad.H = wh[0], wh[1]
			}
		}
		fp.Pads = append(fp.Pads, pad)
	}
	if m := root.Find("model"); m != nil {
		fp.Model = m.Arg(0)
	}
	return fp, nil
}
