// Package pkg holds the Atlantix EDA libraries behind the aeda command.
//
// # Overview
//
// aeda expands E-series resistor values across SMD packages and writes the
// resulting component records as EDA libraries. The packages are layered:
//
//  1. Tables: [eseries] (preferred values), [smd] (package geometry and
//     power), [mpn] (manufacturer part numbers) and [value] (engineering
//     notation)
//  2. Expansion: [component] turns a request into typed records
//  3. Serialization: [render/kicad] and [render/altium] write records;
//     [library] writes Stencil descriptors and the manifest
//  4. Orchestration: [pipeline] runs expand → serialize → write with caching
//     from [cache] and hooks from [observability]
//  5. Surfaces: [api] serves the pipeline over HTTP; internal/cli drives it
//     from the terminal
//
// # Data Flow
//
//	component.Request (series × packages × decades × manufacturers)
//	         ↓
//	    [component] Expand
//	         ↓
//	    []component.Record, grouped per package
//	         ↓
//	    [render/kicad] / [render/altium] / [library]
//	         ↓
//	    .kicad_sym, .kicad_mod, .csv, .json
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/atlantix-eda/aeda/pkg/eseries"
//	    "github.com/atlantix-eda/aeda/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    Series:    eseries.E96,
//	    Packages:  []string{"0603", "0805"},
//	    Formats:   []string{pipeline.FormatKicad, pipeline.FormatAltium},
//	    OutputDir: "out",
//	})
//
// # Errors
//
// Every package reports failures as [errors.Error] values carrying a code
// such as UNSUPPORTED_SERIES or IO_FAILURE. Use [errors.Is] to test for a
// code and [errors.UserMessage] to print one.
//
// [eseries]: github.com/atlantix-eda/aeda/pkg/eseries
// [smd]: github.com/atlantix-eda/aeda/pkg/smd
// [mpn]: github.com/atlantix-eda/aeda/pkg/mpn
// [value]: github.com/atlantix-eda/aeda/pkg/value
// [component]: github.com/atlantix-eda/aeda/pkg/component
// [render/kicad]: github.com/atlantix-eda/aeda/pkg/render/kicad
// [render/altium]: github.com/atlantix-eda/aeda/pkg/render/altium
// [library]: github.com/atlantix-eda/aeda/pkg/library
// [pipeline]: github.com/atlantix-eda/aeda/pkg/pipeline
// [cache]: github.com/atlantix-eda/aeda/pkg/cache
// [observability]: github.com/atlantix-eda/aeda/pkg/observability
// [api]: github.com/atlantix-eda/aeda/pkg/api
// [errors.Error]: github.com/atlantix-eda/aeda/pkg/errors.Error
// [errors.Is]: github.com/atlantix-eda/aeda/pkg/errors.Is
// [errors.UserMessage]: github.com/atlantix-eda/aeda/pkg/errors.UserMessage
package pkg
