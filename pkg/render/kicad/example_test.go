package kicad_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/atlantix-eda/aeda/pkg/component"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

func ExampleSymbolLibrary() {
	rec := component.Record{
		Formatted:   "4.99K",
		Package:     "0402",
		Description: component.Description("4.99K", "0402", "1%", "1/16W"),
		PartNumber:  component.PartNumber("0402", "4.99K"),
	}
	out := string(kicad.SymbolLibrary([]component.Record{rec}))
	for _, line := range strings.Split(out, "\n")[:2] {
		fmt.Println(line)
	}
	// Output:
	// (kicad_symbol_lib (version 20211014) (generator atlantix-eda)
	//   (symbol "R0402_4.99K" (pin_numbers hide) (pin_names (offset 0)) (in_bom yes) (on_board yes)
}

func ExampleFootprint() {
	spec, _ := smd.Lookup("0402")
	out := kicad.Footprint(spec, kicad.WithTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	fmt.Println(strings.SplitN(string(out), "\n", 2)[0])
	// Output:
	// (module R_0402_1005Metric (layer F.Cu) (tedit 20240101000000)
}
