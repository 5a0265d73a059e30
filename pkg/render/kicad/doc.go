// Package kicad renders component records into KiCad library files.
//
// Two emitters live here:
//
//   - [SymbolLibrary] builds a .kicad_sym library (KiCad 6 S-expression,
//     version 20211014) with one symbol per record. The body is drawn as a
//     European rectangle or an American zig-zag, chosen with [WithStyle].
//   - [Footprint] builds a legacy (module ...) .kicad_mod land pattern for a
//     package from its smd.Spec geometry.
//
// Output is byte-exact and deterministic, with one exception: the footprint
// tedit stamp comes from the wall clock unless [WithTimestamp] fixes it.
package kicad
