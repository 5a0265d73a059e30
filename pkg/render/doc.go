// Package render groups the serializers that turn component records into
// EDA library files.
//
// # Formats
//
//   - [kicad]: .kicad_sym symbol libraries (one per package) and .kicad_mod
//     footprints (one per package), in European or American symbol style
//   - [altium]: CRLF-terminated CSV tables for Altium database libraries
//
// Serializers are pure: the same records and options always produce the same
// bytes, apart from the footprint edit timestamp, which callers can pin with
// kicad.WithTimestamp.
//
//	sym := kicad.SymbolLibrary(records, kicad.WithStyle(kicad.StyleAmerican))
//	csv, err := altium.CSV(records)
//
// [kicad]: github.com/atlantix-eda/aeda/pkg/render/kicad
// [altium]: github.com/atlantix-eda/aeda/pkg/render/altium
package render
