package library

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Ref names a library as "category::name", e.g. "resistor::E96_0603".
type Ref struct {
	Category string
	Name     string
}

// String returns the "category::name" form.
func (r Ref) String() string { return r.Category + "::" + r.Name }

// Path returns the descriptor path relative to the libraries directory.
func (r Ref) Path() string { return r.Category + "/" + r.Name + ".json" }

type refAST struct {
	Category string `@Ident`
	Name     string `"::" @Ident`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Sep", Pattern: `::`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_.\-]+`},
})

var refParser = participle.MustBuild[refAST](participle.Lexer(refLexer))

// ParseRef parses a library reference.
func ParseRef(s string) (Ref, error) {
	ast, err := refParser.ParseString("", s)
	if err != nil {
		return Ref{}, errs.Wrap(errs.ErrCodeInvalidInput, err,
			"invalid library reference %q (expected category::name, e.g. resistor::E96_0603)", s)
	}
	ref := Ref{Category: ast.Category, Name: ast.Name}
	for _, part := range []string{ref.Category, ref.Name} {
		if err := errs.ValidateLibraryName(part); err != nil {
			return Ref{}, err
		}
	}
	return ref, nil
}
