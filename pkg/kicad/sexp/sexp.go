// Package sexp reads KiCad S-expression files.
//
// It is deliberately small: enough to load a .kicad_sym or .kicad_mod back
// into a tree and answer structural questions about it (which symbols exist,
// what properties they carry, where the pads sit). The aeda verify command
// and the emitter tests use it to check generated output.
package sexp

import (
	"strconv"
	"strings"
)

// Node is either an *Atom or a *List.
type Node interface {
	String() string
}

// Atom is a bare symbol or a quoted string.
type Atom struct {
	Value  string
	Quoted bool
}

// String renders the atom as it would appear in a file.
func (a *Atom) String() string {
	if a.Quoted {
		return strconv.Quote(a.Value)
	}
	return a.Value
}

// Float parses the atom as a number.
func (a *Atom) Float() (float64, error) {
	return strconv.ParseFloat(a.Value, 64)
}

// List is a parenthesized sequence of nodes.
type List struct {
	Items []Node
}

// String renders the list on one line.
func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the first atom of the list ("symbol" for (symbol ...)).
func (l *List) Head() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok {
		return a.Value
	}
	return ""
}

// Arg returns the i-th atom after the head, or "" when absent.
func (l *List) Arg(i int) string {
	if i+1 >= len(l.Items) {
		return ""
	}
	if a, ok := l.Items[i+1].(*Atom); ok {
		return a.Value
	}
	return ""
}

// Floats returns the atoms after the head parsed as numbers, skipping
// anything that is not numeric.
func (l *List) Floats() []float64 {
	var out []float64
	for _, it := range l.Items[1:] {
		if a, ok := it.(*Atom); ok {
			if f, err := a.Float(); err == nil {
				out = append(out, f)
			}
		}
	}
	return out
}

// Find returns the first direct child list with the given head.
func (l *List) Find(head string) *List {
	for _, it := range l.Items {
		if c, ok := it.(*List); ok && c.Head() == head {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child list with the given head.
func (l *List) FindAll(head string) []*List {
	var out []*List
	for _, it := range l.Items {
		if c, ok := it.(*List); ok && c.Head() == head {
			out = append(out, c)
		}
	}
	return out
}

// HasAtom reports whether a bare atom with the given value is a direct child.
func (l *List) HasAtom(value string) bool {
	for _, it := range l.Items[1:] {
		if a, ok := it.(*Atom); ok && !a.Quoted && a.Value == value {
			return true
		}
	}
	return false
}
