// Package kicadsexp provides a lightweight streaming S-expression parser
// and writer for KiCad design files. Unlike general-purpose sexp libraries,
// this parser handles arbitrarily large files by streaming, and it keeps
// quoted strings distinct from bare symbols so documents can be written
// back out without losing quoting.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node: either an atom or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// String returns the serialized form of the node
	String() string
}

// Symbol represents a bare atom (identifier, keyword, number).
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// String represents a quoted string atom. Its serialized form carries
// quotes and escapes; the underlying value holds the unescaped text.
type String string

func (s String) IsLeaf() bool { return true }

func (s String) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// AtomText returns the raw text of an atom (without quoting) and whether
// the node is an atom at all.
func AtomText(s Sexp) (string, bool) {
	switch a := s.(type) {
	case Symbol:
		return string(a), true
	case String:
		return string(a), true
	default:
		return "", false
	}
}

// List represents a list of S-expressions. Lists are mutable so that a
// parsed document can be edited in place and serialized again.
type List struct {
	elements []Sexp
}

// NewList creates a list from the given elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Len returns the number of elements in the list.
func (l *List) Len() int { return len(l.elements) }

// Get returns the element at the given index, or nil if out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Set replaces the element at the given index. Out-of-range indices are
// ignored.
func (l *List) Set(index int, s Sexp) {
	if index < 0 || index >= len(l.elements) {
		return
	}
	l.elements[index] = s
}

// Items returns the underlying element slice. Callers must not grow it;
// use Append for that.
func (l *List) Items() []Sexp {
	return l.elements
}

// Append adds elements to the end of the list.
func (l *List) Append(s ...Sexp) {
	l.elements = append(l.elements, s...)
}

// Replace swaps the first occurrence of old for new and reports whether a
// replacement happened. Comparison is by node identity.
func (l *List) Replace(old, new Sexp) bool {
	for i, elem := range l.elements {
		if elem == old {
			l.elements[i] = new
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of the given node and reports
// whether it was found. Comparison is by node identity.
func (l *List) Remove(s Sexp) bool {
	for i, elem := range l.elements {
		if elem == s {
			l.elements = append(l.elements[:i], l.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Parse parses S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	parser := NewParser(r)
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function).
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
