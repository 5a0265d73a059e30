package pipeline

import (
	"path/filepath"

	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// Layout maps artifacts to paths under an output root.
//
//	{root}/resistors_{pkg}.csv
//	{root}/kicad/symbols/Atlantix_R_{pkg}.kicad_sym
//	{root}/kicad/{footprint library}.pretty/R_{pkg}_{metric}.kicad_mod
//	{root}/libraries/resistor/{series}_{pkg}.json
//
// With a KiCad target library, symbols go to {target}/symbols and
// footprints to {target}/footprints/{footprint library}.pretty.
type Layout struct {
	Root             string
	TargetLib        string
	FootprintLibrary string

	// Explicit directories, when set, win over the derived ones.
	Symbols    string
	Footprints string
}

// NewLayout returns the layout for a set of options.
func NewLayout(opts Options) Layout {
	lib := opts.FootprintLibrary
	if lib == "" {
		lib = kicad.DefaultFootprintLibrary
	}
	return Layout{
		Root:             opts.OutputDir,
		TargetLib:        opts.KicadTargetLib,
		FootprintLibrary: lib,
		Symbols:          opts.SymbolDir,
		Footprints:       opts.FootprintDir,
	}
}

// SymbolDir is the directory holding .kicad_sym files.
func (l Layout) SymbolDir() string {
	if l.Symbols != "" {
		return l.Symbols
	}
	if l.TargetLib != "" {
		return filepath.Join(l.TargetLib, "symbols")
	}
	return filepath.Join(l.Root, "kicad", "symbols")
}

// FootprintDir is the .pretty directory holding .kicad_mod files.
func (l Layout) FootprintDir() string {
	if l.Footprints != "" {
		return l.Footprints
	}
	pretty := l.FootprintLibrary + ".pretty"
	if l.TargetLib != "" {
		return filepath.Join(l.TargetLib, "footprints", pretty)
	}
	return filepath.Join(l.Root, "kicad", pretty)
}

// SymbolPath is the symbol library of one package.
func (l Layout) SymbolPath(pkg string) string {
	return filepath.Join(l.SymbolDir(), "Atlantix_R_"+pkg+".kicad_sym")
}

// FootprintPath is the footprint of one package.
func (l Layout) FootprintPath(spec smd.Spec) string {
	return filepath.Join(l.FootprintDir(), spec.FootprintName()+".kicad_mod")
}

// AltiumPath is the Altium database table of one package.
func (l Layout) AltiumPath(pkg string) string {
	return filepath.Join(l.Root, "resistors_"+pkg+".csv")
}

// StencilPath is the library descriptor of one series and package.
func (l Layout) StencilPath(s eseries.Series, pkg string) string {
	ref := library.Ref{Category: "resistor", Name: library.ResistorName(s, pkg)}
	return filepath.Join(l.Root, "libraries", filepath.FromSlash(ref.Path()))
}

// Path returns the destination of format for one package.
func (l Layout) Path(format string, s eseries.Series, spec smd.Spec) string {
	switch format {
	case FormatKicadSymbols:
		return l.SymbolPath(spec.Imperial)
	case FormatKicadFootprints:
		return l.FootprintPath(spec)
	case FormatAltium:
		return l.AltiumPath(spec.Imperial)
	case FormatStencil:
		return l.StencilPath(s, spec.Imperial)
	}
	return ""
}
