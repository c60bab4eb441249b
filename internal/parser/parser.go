// Package parser implements the Pratt expression parser and top-level
// grammar for the source language. Atoms are dispatched by a switch in
// parsePrefix; binary operators climb by the precedence found in
// binaryPrecedence (keyed on token.Kind) or, for keyword operators, in
// peekBinaryOp.
//
// The first error encountered aborts parsing entirely; there is no
// panic-mode recovery.
package parser

import (
	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/errors"
	"github.com/cwbudde/go-wac/internal/lexer"
	"github.com/cwbudde/go-wac/internal/token"
	"github.com/cwbudde/go-wac/internal/types"
)

// Precedence levels, low to high.
const (
	LOWEST     = 0
	ASSIGN     = 100
	LOGICALOR  = 140
	LOGICALAND = 150
	CMP        = 200
	BITOR      = 250
	BITXOR     = 275
	BITAND     = 300
	SHIFT      = 400
	SUM        = 500
	PRODUCT    = 600
	UNARY      = 900
	POSTFIX    = 1000
)

var binaryPrecedence = map[token.Kind]int{
	token.EQ: CMP, token.NE: CMP,
	token.LT: CMP, token.LE: CMP, token.GT: CMP, token.GE: CMP,
	token.PIPE: BITOR, token.CARET: BITXOR, token.AMP: BITAND,
	token.SHL: SHIFT, token.SHR: SHIFT,
	token.PLUS: SUM, token.MINUS: SUM,
	token.STAR: PRODUCT, token.SLASH: PRODUCT, token.SLASHSLASH: PRODUCT, token.PERCENT: PRODUCT,
}

// keywordPrecedence covers the keyword-spelled binary operators, which the
// lexer emits as plain IDENT tokens.
var keywordPrecedence = map[string]int{
	"or": LOGICALOR, "and": LOGICALAND, "is": CMP,
}

// Parser consumes a lexer.Lexer's token stream and builds an ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	file string
	src  string

	cur  lexer.Token
	peek lexer.Token

	err *errors.CompilerError
}

// New creates a Parser reading from l. file and src are used for error
// positions and the caret-pointer source excerpt.
func New(l *lexer.Lexer, file, src string) *Parser {
	p := &Parser{lex: l, file: file, src: src}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

// Err returns the first parse error encountered, or nil.
func (p *Parser) Err() *errors.CompilerError { return p.err }

func (p *Parser) fail(err *errors.CompilerError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) pos() token.Position { return p.cur.Span.Pos() }

func (p *Parser) failExpected(expected, got string) {
	p.fail(errors.NewParse(p.pos(), p.src, p.file, expected, got))
}

func (p *Parser) failMessage(msg string) {
	p.fail(errors.NewParseMessage(p.pos(), p.src, p.file, msg))
}

// curIs reports whether the current token is kind k.
func (p *Parser) curIs(k token.Kind) bool { return p.err == nil && p.cur.Kind == k }

// curIsKeyword reports whether the current token is IDENT spelling word.
func (p *Parser) curIsKeyword(word string) bool {
	return p.err == nil && p.cur.Kind == token.IDENT && p.cur.Literal == word
}

// expect consumes the current token if it is kind k, else fails.
func (p *Parser) expect(k token.Kind) lexer.Token {
	tok := p.cur
	if p.err != nil {
		return tok
	}
	if p.cur.Kind != k {
		p.failExpected(k.String(), describeTok(p.cur))
		return tok
	}
	p.advance()
	return tok
}

func (p *Parser) expectKeyword(word string) {
	if p.err != nil {
		return
	}
	if !p.curIsKeyword(word) {
		p.failExpected("'"+word+"'", describeTok(p.cur))
		return
	}
	p.advance()
}

func describeTok(t lexer.Token) string {
	if t.Kind == token.IDENT || t.Kind == token.INT || t.Kind == token.FLOAT ||
		t.Kind == token.STRING || t.Kind == token.RAWSTRING {
		return t.Literal
	}
	if t.Kind == token.EOF {
		return "EOF"
	}
	return t.Kind.String()
}

// skipTerminators consumes zero or more NEWLINE/SEMICOLON tokens, used
// between top-level declarations and block entries.
func (p *Parser) skipTerminators() {
	for p.err == nil && (p.cur.Kind == token.NEWLINE || p.cur.Kind == token.SEMICOLON) {
		p.advance()
	}
}

// expectTerminator requires a NEWLINE or SEMICOLON unless the next token is
// `}` or EOF.
func (p *Parser) expectTerminator() {
	if p.err != nil {
		return
	}
	if p.cur.Kind == token.RBRACE || p.cur.Kind == token.EOF {
		return
	}
	if p.cur.Kind != token.NEWLINE && p.cur.Kind != token.SEMICOLON {
		p.failExpected("newline or ';'", describeTok(p.cur))
		return
	}
	p.skipTerminators()
}

// ParseProgram parses a whole file into an ast.Program. Parsing stops at
// the first error; callers should check Err() afterward.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipTerminators()
	for p.err == nil && p.cur.Kind != token.EOF {
		decl := p.parseTopDecl()
		if p.err != nil {
			return prog
		}
		prog.Decls = append(prog.Decls, decl)
		p.skipTerminators()
	}
	return prog
}

func (p *Parser) parseTopDecl() ast.TopDecl {
	switch {
	case p.curIsKeyword("import"):
		return p.parseImportDecl()
	case p.curIsKeyword("var"):
		return ast.NewVarDecl(p.parseVarDecl(true))
	case p.curIsKeyword("fn"):
		return p.parseFuncDecl()
	default:
		p.failExpected("'import', 'var', or 'fn'", describeTok(p.cur))
		return nil
	}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cur.Span
	p.expectKeyword("import")
	p.expectKeyword("fn")
	module := p.parseStringLiteralRaw()
	extern := p.parseStringLiteralRaw()
	alias := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	var params []types.Type
	for p.err == nil && p.cur.Kind != token.RPAREN {
		if len(params) > 0 {
			p.expect(token.COMMA)
		}
		params = append(params, p.parseTypeName())
	}
	p.expect(token.RPAREN)
	ret := p.parseReturnType()
	if p.err != nil {
		return nil
	}
	return ast.NewImportDecl(start.Upto(p.cur.Span), module, extern, alias, params, ret)
}

func (p *Parser) parseStringLiteralRaw() string {
	if p.err != nil {
		return ""
	}
	if p.cur.Kind != token.STRING {
		p.failExpected("string literal", describeTok(p.cur))
		return ""
	}
	lit := p.cur.Literal
	p.advance()
	return lit
}

// parseVarDecl parses `var [pub] NAME TYPE? = EXPR`. topLevel controls
// whether `pub` is recognized (only meaningful at file scope).
func (p *Parser) parseVarDecl(topLevel bool) *ast.Decl {
	start := p.cur.Span
	p.expectKeyword("var")
	pub := false
	if topLevel && p.curIsKeyword("pub") {
		pub = true
		p.advance()
	}
	name := p.expect(token.IDENT).Literal
	var declared *types.Type
	if p.cur.Kind == token.IDENT && p.isTypeKeyword(p.cur.Literal) {
		t := p.parseTypeName()
		declared = &t
	}
	p.expect(token.ASSIGN)
	value := p.parseExpr(ASSIGN)
	if p.err != nil {
		return nil
	}
	return ast.NewDecl(start.Upto(p.cur.Span), name, declared, value, pub)
}

func (p *Parser) isTypeKeyword(name string) bool {
	_, ok := types.ByName[name]
	return ok
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.cur.Span
	p.expectKeyword("fn")
	pub := false
	if p.curIsKeyword("pub") {
		pub = true
		p.advance()
	}
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	var params []ast.Param
	for p.err == nil && p.cur.Kind != token.RPAREN {
		if len(params) > 0 {
			p.expect(token.COMMA)
		}
		pname := p.expect(token.IDENT).Literal
		ptype := p.parseTypeName()
		params = append(params, ast.Param{Name: pname, Type: ptype})
	}
	p.expect(token.RPAREN)
	ret := p.parseReturnType()
	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewFuncDecl(start.Upto(p.cur.Span), name, pub, params, ret, body)
}

// parseReturnType parses an optional return-type position: `void`,
// `noreturn`, a type keyword, or nothing, which defaults to void.
func (p *Parser) parseReturnType() types.ReturnType {
	if p.err != nil {
		return types.Void()
	}
	if p.cur.Kind != token.IDENT {
		return types.Void()
	}
	switch p.cur.Literal {
	case "void":
		p.advance()
		return types.Void()
	case "noreturn":
		p.advance()
		return types.NoReturnType()
	case "i32", "i64", "f32", "f64", "bool", "type", "str", "list", "id":
		t := p.parseTypeName()
		return types.ValueType(t)
	default:
		return types.Void()
	}
}

func (p *Parser) parseTypeName() types.Type {
	if p.err != nil {
		return 0
	}
	if p.cur.Kind != token.IDENT {
		p.failExpected("type name", describeTok(p.cur))
		return 0
	}
	t, ok := types.ByName[p.cur.Literal]
	if !ok {
		p.failExpected("type name", p.cur.Literal)
		return 0
	}
	p.advance()
	return t
}
