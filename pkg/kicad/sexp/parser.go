package sexp

import (
	"bytes"
	"fmt"
	"io"
)

// Parse reads every top-level expression from r.
func Parse(r io.Reader) ([]Node, error) {
	p := &parser{lex: newLexer(r)}
	var out []Node
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return out, nil
		}
		n, err := p.parse(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

// ParseOne reads data and requires exactly one top-level list.
func ParseOne(data []byte) (*List, error) {
	nodes, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("expected one top-level expression, got %d", len(nodes))
	}
	l, ok := nodes[0].(*List)
	if !ok {
		return nil, fmt.Errorf("top-level expression is not a list")
	}
	return l, nil
}

type parser struct {
	lex *lexer
}

func (p *parser) parse(tok token) (Node, error) {
	switch tok.typ {
	case tokenLeftParen:
		return p.parseList(tok.line)
	case tokenSymbol:
		return &Atom{Value: tok.value}, nil
	case tokenString:
		return &Atom{Value: tok.value, Quoted: true}, nil
	case tokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected end of input", tok.line)
	}
}

func (p *parser) parseList(line int) (*List, error) {
	l := &List{}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokenRightParen:
			return l, nil
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unclosed list", line)
		}
		n, err := p.parse(tok)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, n)
	}
}
