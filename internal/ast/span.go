// Package ast defines the expression tree produced by internal/parser and
// consumed by internal/translator, along with the source position type
// ("Span") that every node carries.
package ast

import (
	"strings"

	"github.com/cwbudde/go-wac/internal/token"
)

// Source is a named, immutable chunk of input text. Both user files and the
// prelude fragments are represented as a Source so spans are uniform across
// the whole concatenated file list.
type Source struct {
	Name string
	Data string
}

// LineCol converts a byte offset into 1-indexed line/column, counting
// columns in runes rather than bytes so multi-byte UTF-8 sequences count as
// a single column.
func (s *Source) LineCol(offset int) (line, col int) {
	line = 1
	col = 1
	for i, r := range s.Data {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Line returns the source text of the given 1-indexed line, without its
// trailing newline.
func (s *Source) Line(n int) string {
	lines := strings.Split(s.Data, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Span is a half-open byte range [Start, End) within a single Source. Every
// AST node carries one; it is also attached to every token the lexer
// produces.
type Span struct {
	Source *Source
	Start  int
	End    int
}

// Join returns the union of two spans: the min of their starts and the max
// of their ends. Both spans must share the same Source.
func (s Span) Join(o Span) Span {
	start := s.Start
	if o.Start < start {
		start = o.Start
	}
	end := s.End
	if o.End > end {
		end = o.End
	}
	return Span{Source: s.Source, Start: start, End: end}
}

// Upto extends s to end where o ends, keeping s's start. Used when a
// multi-token construct's span should run from its first token to wherever
// the parser cursor landed after consuming the rest of it.
func (s Span) Upto(o Span) Span {
	return Span{Source: s.Source, Start: s.Start, End: o.End}
}

// Text returns the source substring covered by the span.
func (s Span) Text() string {
	if s.Source == nil {
		return ""
	}
	return s.Source.Data[s.Start:s.End]
}

// Pos returns the token.Position of the span's start, for error reporting.
func (s Span) Pos() token.Position {
	if s.Source == nil {
		return token.Position{Line: 1, Column: 1}
	}
	line, col := s.Source.LineCol(s.Start)
	return token.Position{Line: line, Column: col, Offset: s.Start}
}
