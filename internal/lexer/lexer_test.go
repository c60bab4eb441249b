package lexer

import (
	"testing"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/token"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := &ast.Source{Name: "test", Data: src}
	l := New(s, "test")
	toks := l.All()
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	return toks
}

func kinds(toks []Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestNextOperators(t *testing.T) {
	toks := scanAll(t, "+ - * / // % & | ^ << >> == != < > <= >= = .. .")
	want := []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.SLASHSLASH,
		token.PERCENT, token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.ASSIGN,
		token.DOTDOT, token.DOT, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextIdentifiersAndKeywordsAreIdent(t *testing.T) {
	toks := scanAll(t, "fn main x123 _underscore")
	for _, tok := range toks[:4] {
		if tok.Kind != token.IDENT {
			t.Errorf("%q: got kind %v, want IDENT", tok.Literal, tok.Kind)
		}
	}
	if !token.IsKeyword("fn") {
		t.Error("expected fn to be a recognized keyword (by the parser, not the lexer)")
	}
}

func TestNextNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 1e10 0x1F")
	want := []struct {
		kind token.Kind
		lit  string
	}{
		{token.INT, "42"},
		{token.FLOAT, "3.14"},
		{token.FLOAT, "1e10"},
		{token.INT, "0x1F"},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Literal != w.lit {
			t.Errorf("token %d: got (%v, %q), want (%v, %q)", i, toks[i].Kind, toks[i].Literal, w.kind, w.lit)
		}
	}
}

func TestNextStringEscapes(t *testing.T) {
	toks := scanAll(t, `"hello\nworld"`)
	if toks[0].Kind != token.STRING || toks[0].Literal != "hello\nworld" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestNextRawString(t *testing.T) {
	toks := scanAll(t, `r"no\nescape"`)
	if toks[0].Kind != token.RAWSTRING || toks[0].Literal != `no\nescape` {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestNextUnterminatedStringIsError(t *testing.T) {
	s := &ast.Source{Name: "t", Data: `"oops`}
	l := New(s, "t")
	l.All()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lex error, got %d", len(l.Errors()))
	}
}

func TestNextIllegalCharacter(t *testing.T) {
	s := &ast.Source{Name: "t", Data: "@"}
	l := New(s, "t")
	toks := l.All()
	if toks[0].Kind != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", toks[0].Kind)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lex error, got %d", len(l.Errors()))
	}
}

func TestNextSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "1 # trailing comment\n2")
	got := kinds(toks)
	want := []token.Kind{token.INT, token.NEWLINE, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextMultiByteCharacterColumns(t *testing.T) {
	s := &ast.Source{Name: "t", Data: "Δ x"}
	l := New(s, "t")
	first := l.Next()
	line, col := s.LineCol(first.Span.Start)
	if line != 1 || col != 1 {
		t.Fatalf("got line %d col %d, want 1 1", line, col)
	}
	second := l.Next()
	if second.Literal != "x" {
		t.Fatalf("got %q, want x", second.Literal)
	}
}
