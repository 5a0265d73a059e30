package value

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Unit identifies the physical unit of a parsed quantity.
type Unit string

const (
	UnitNone  Unit = ""
	UnitOhm   Unit = "ohm"
	UnitFarad Unit = "F"
)

// Quantity is a parsed value with its unit, if one was written.
type Quantity struct {
	Value float64
	Unit  Unit
}

// =============================================================================
// Grammar
// =============================================================================

// quantityAST matches both decimal ("4.99K", "2.2 nF") and RKM ("4K99",
// "1R05", "2n2") spellings. In RKM the prefix letter stands in for the
// decimal point.
type quantityAST struct {
	Whole  string     `parser:"@Number"`
	Suffix *suffixAST `parser:"@@?"`
}

type suffixAST struct {
	Word string `parser:"@Word"`
	Frac string `parser:"@Number?"`
	Unit string `parser:"@Word?"`
}

var quantityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?|\.[0-9]+`},
	{Name: "Word", Pattern: `\p{L}+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var quantityParser = participle.MustBuild[quantityAST](
	participle.Lexer(quantityLexer),
	participle.Elide("Whitespace"),
)

var prefixes = map[string]float64{
	"":  1,
	"R": 1,
	"r": 1,
	"p": 1e-12,
	"n": 1e-9,
	"u": 1e-6,
	"µ": 1e-6,
	"μ": 1e-6,
	"m": 1e-3,
	"k": 1e3,
	"K": 1e3,
	"M": 1e6,
	"G": 1e9,
}

// =============================================================================
// Parsing
// =============================================================================

// Parse reads a value string and returns its magnitude in base units.
func Parse(s string) (float64, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	return q.Value, nil
}

// ParseQuantity reads a value string and reports the unit it was written in.
func ParseQuantity(s string) (Quantity, error) {
	ast, err := quantityParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Quantity{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid value %q", s)
	}

	if ast.Suffix == nil {
		v, err := strconv.ParseFloat(ast.Whole, 64)
		if err != nil {
			return Quantity{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid value %q", s)
		}
		return Quantity{Value: v}, nil
	}

	prefix, unit := splitUnit(ast.Suffix.Word)
	if ast.Suffix.Unit != "" {
		extra, extraUnit := splitUnit(ast.Suffix.Unit)
		if extra != "" || extraUnit == UnitNone || unit != UnitNone {
			return Quantity{}, errs.New(errs.ErrCodeInvalidInput, "invalid unit in value %q", s)
		}
		unit = extraUnit
	}

	mult, ok := prefixes[prefix]
	if !ok {
		return Quantity{}, errs.New(errs.ErrCodeInvalidInput, "unknown prefix %q in value %q", prefix, s)
	}

	digits := ast.Whole
	if ast.Suffix.Frac != "" {
		if strings.Contains(ast.Whole, ".") || strings.Contains(ast.Suffix.Frac, ".") || prefix == "" {
			return Quantity{}, errs.New(errs.ErrCodeInvalidInput, "invalid value %q", s)
		}
		digits = ast.Whole + "." + ast.Suffix.Frac
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return Quantity{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid value %q", s)
	}
	if prefix == "R" || prefix == "r" {
		unit = UnitOhm
	}
	return Quantity{Value: v * mult, Unit: unit}, nil
}

// splitUnit separates a trailing unit ("ohm", "ohms", "Ω", "F") from an
// SI prefix.
func splitUnit(word string) (string, Unit) {
	lower := strings.ToLower(word)
	for _, u := range []string{"ohms", "ohm"} {
		if strings.HasSuffix(lower, u) {
			return word[:len(word)-len(u)], UnitOhm
		}
	}
	if strings.HasSuffix(word, "Ω") {
		return strings.TrimSuffix(word, "Ω"), UnitOhm
	}
	if strings.HasSuffix(word, "F") {
		return strings.TrimSuffix(word, "F"), UnitFarad
	}
	return word, UnitNone
}
