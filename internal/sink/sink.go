// Package sink implements the append-only, spawnable text buffer the
// translator writes WAT text into. A Sink lets the translator reserve an
// emission slot, for example a function's locals declaration, which is
// only known once its body has been translated, before the text that
// belongs there has been produced.
package sink

import "strings"

// Sink is a node in a tree of append-only text buffers. Writing to a Sink
// appends only to that Sink's own buffer; Get walks the whole tree
// depth-first, interleaving each Sink's own text with its children's in
// the order children were spawned relative to writes.
type Sink struct {
	parts []part
}

type part struct {
	text  string
	child *Sink
}

// New creates a fresh, empty root Sink. Every Out tree is rooted at one of
// these.
func New() *Sink {
	return &Sink{}
}

// Spawn creates a new child Sink positioned at the point Spawn is called,
// relative to whatever has already been written to the parent. Nothing
// written to the parent after Spawn shifts text already placed in the
// child; the child accumulates independently until Get assembles the
// whole tree.
func (s *Sink) Spawn() *Sink {
	child := New()
	s.parts = append(s.parts, part{child: child})
	return child
}

// Write appends text verbatim to this Sink (not its children).
func (s *Sink) Write(text string) {
	s.parts = append(s.parts, part{text: text})
}

// Writeln appends text followed by a newline.
func (s *Sink) Writeln(text string) {
	s.Write(text)
	s.Write("\n")
}

// Get renders this Sink and its full subtree to a single string via a
// depth-first, in-order traversal.
func (s *Sink) Get() string {
	var sb strings.Builder
	s.render(&sb)
	return sb.String()
}

func (s *Sink) render(sb *strings.Builder) {
	for _, p := range s.parts {
		if p.child != nil {
			p.child.render(sb)
		} else {
			sb.WriteString(p.text)
		}
	}
}
