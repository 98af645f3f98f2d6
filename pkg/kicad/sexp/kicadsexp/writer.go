package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Write serializes an S-expression tree to w in KiCad's indented style:
// leading atoms of a list stay on the key's line, nested lists each get
// their own indented line. The output is not byte-identical to what KiCad
// itself writes, but it parses back to the same tree.
func Write(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, s, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// WriteAll serializes multiple top-level expressions separated by blank
// lines.
func WriteAll(w io.Writer, sexps []Sexp) error {
	bw := bufio.NewWriter(w)
	for i, s := range sexps {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writeNode(bw, s, 0)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, s Sexp, depth int) {
	if s == nil {
		return
	}

	if s.IsLeaf() {
		w.WriteString(s.String())
		return
	}

	list := s.(*List)
	w.WriteByte('(')

	brokeLine := false
	for i, elem := range list.elements {
		if elem == nil {
			continue
		}

		if elem.IsLeaf() && !brokeLine {
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(elem.String())
			continue
		}

		// First nested list switches to one-element-per-line layout;
		// trailing atoms follow on their own lines too so ordering is
		// preserved.
		w.WriteByte('\n')
		w.WriteString(indent(depth + 1))
		writeNode(w, elem, depth+1)
		brokeLine = true
	}

	if brokeLine {
		w.WriteByte('\n')
		w.WriteString(indent(depth))
	}
	w.WriteByte(')')
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
