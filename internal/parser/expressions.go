package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/token"
	"github.com/cwbudde/go-wac/internal/types"
)

// parseExpr is the Pratt driver: parse_expr(prec) = parse_atom, then
// repeatedly parse_infix while the next operator's precedence is >= prec.
// `and`/`or`/`is` are keyword-spelled infix operators the lexer emits as
// plain IDENT, so peekBinaryOp also matches them by literal text.
func (p *Parser) parseExpr(prec int) ast.Expr {
	left := p.parsePrefix()
	if p.err != nil {
		return left
	}

	for {
		opPrec, op, isKeyword, ok := p.peekBinaryOp()
		if !ok || opPrec < prec {
			break
		}
		left = p.parseInfix(left, op, isKeyword)
		if p.err != nil {
			return left
		}
	}
	return left
}

// peekBinaryOp inspects the current token (not yet consumed) to see if it
// starts a binary operator, returning its precedence and logical op.
func (p *Parser) peekBinaryOp() (prec int, op ast.BinaryOp, keyword bool, ok bool) {
	if p.err != nil {
		return 0, 0, false, false
	}
	if prec, ok := binaryPrecedence[p.cur.Kind]; ok {
		return prec, tokenToBinOp(p.cur.Kind), false, true
	}
	if p.cur.Kind == token.IDENT {
		switch p.cur.Literal {
		case "and":
			return LOGICALAND, ast.And, true, true
		case "or":
			return LOGICALOR, ast.Or, true, true
		case "is":
			return CMP, ast.Is, true, true
		}
	}
	return 0, 0, false, false
}

func tokenToBinOp(k token.Kind) ast.BinaryOp {
	switch k {
	case token.PLUS:
		return ast.Add
	case token.MINUS:
		return ast.Sub
	case token.STAR:
		return ast.Mul
	case token.SLASH:
		return ast.Div
	case token.SLASHSLASH:
		return ast.TruncDiv
	case token.PERCENT:
		return ast.Rem
	case token.AMP:
		return ast.BitAnd
	case token.PIPE:
		return ast.BitOr
	case token.CARET:
		return ast.BitXor
	case token.SHL:
		return ast.Shl
	case token.SHR:
		return ast.Shr
	case token.LT:
		return ast.Lt
	case token.LE:
		return ast.Le
	case token.GT:
		return ast.Gt
	case token.GE:
		return ast.Ge
	case token.EQ:
		return ast.Eq
	case token.NE:
		return ast.Ne
	default:
		return ast.Add
	}
}

// parseInfix consumes the operator token (and, for `is`, an optional
// following `not`) and parses the right operand at one precedence level
// above the operator's own (all operators are left-associative), then
// builds the BinOp node.
func (p *Parser) parseInfix(left ast.Expr, op ast.BinaryOp, keyword bool) ast.Expr {
	start := left.Span()
	opPrec, _, _, _ := p.peekBinaryOp()
	p.advance() // consume operator token
	if op == ast.Is && p.curIsKeyword("not") {
		op = ast.IsNot
		p.advance()
	}
	right := p.parseExpr(opPrec + 1)
	if p.err != nil {
		return left
	}
	span := start.Upto(right.Span())

	switch op {
	case ast.And:
		// `and`/`or` desugar into If expressions at parse time, preserving
		// short-circuit semantics.
		return ast.NewIf(span,
			[]ast.IfBranch{{Cond: left, Body: ast.NewBlock(right.Span(), []ast.Expr{right})}},
			ast.NewBlock(span, []ast.Expr{ast.NewBoolLit(span, false)}))
	case ast.Or:
		return ast.NewIf(span,
			[]ast.IfBranch{{Cond: left, Body: ast.NewBlock(span, []ast.Expr{ast.NewBoolLit(span, true)})}},
			ast.NewBlock(right.Span(), []ast.Expr{right}))
	default:
		return ast.NewBinOp(span, op, left, right)
	}
}

// parsePrefix parses one atom: a literal, a keyword-led construct (if,
// while, var, block), a name (possibly an assignment or call), a prefix
// unary operator, a parenthesized group, a list literal, an intrinsic, or
// a postfix `as TYPE` assertion.
func (p *Parser) parsePrefix() ast.Expr {
	if p.err != nil {
		return nil
	}

	var atom ast.Expr
	switch {
	case p.curIsKeyword("true"):
		span := p.cur.Span
		p.advance()
		atom = ast.NewBoolLit(span, true)
	case p.curIsKeyword("false"):
		span := p.cur.Span
		p.advance()
		atom = ast.NewBoolLit(span, false)
	case p.curIsKeyword("not"):
		atom = p.parseUnary(ast.Not)
	case p.curIsKeyword("if"):
		atom = p.parseIf()
	case p.curIsKeyword("while"):
		atom = p.parseWhile()
	case p.curIsKeyword("var"):
		atom = p.parseVarDecl(false)
	case p.cur.Kind == token.LBRACE:
		atom = p.parseBlock()
	case p.cur.Kind == token.INT:
		atom = p.parseIntLit()
	case p.cur.Kind == token.FLOAT:
		atom = p.parseFloatLit()
	case p.cur.Kind == token.STRING:
		span := p.cur.Span
		lit := p.cur.Literal
		p.advance()
		atom = ast.NewStringLit(span, lit)
	case p.cur.Kind == token.RAWSTRING:
		span := p.cur.Span
		lit := p.cur.Literal
		p.advance()
		atom = ast.NewStringLit(span, lit)
	case p.cur.Kind == token.LBRACKET:
		atom = p.parseListLit()
	case p.cur.Kind == token.MINUS:
		atom = p.parseUnary(ast.Neg)
	case p.cur.Kind == token.PLUS:
		atom = p.parseUnary(ast.Pos)
	case p.cur.Kind == token.LPAREN:
		p.advance()
		inner := p.parseExpr(LOWEST)
		p.expect(token.RPAREN)
		atom = inner
	case p.cur.Kind == token.DOLLAR:
		atom = p.parseIntrinsic()
	case p.cur.Kind == token.IDENT:
		atom = p.parseIdentOrCallOrAssign()
	default:
		p.failExpected("expression", describeTok(p.cur))
		return nil
	}

	if p.err != nil {
		return atom
	}

	// Postfix `EXPR as TYPE` assertion.
	for p.curIsKeyword("as") {
		start := atom.Span()
		p.advance()
		t := p.parseTypeName()
		if p.err != nil {
			return atom
		}
		atom = ast.NewAssertType(start.Upto(p.cur.Span), t, atom)
	}
	return atom
}

func (p *Parser) parseUnary(op ast.UnaryOp) ast.Expr {
	start := p.cur.Span
	p.advance()
	operand := p.parseExpr(UNARY)
	if p.err != nil {
		return operand
	}
	return ast.NewUnOp(start.Upto(operand.Span()), op, operand)
}

func (p *Parser) parseIntLit() ast.Expr {
	span := p.cur.Span
	lit := p.cur.Literal
	base := 10
	text := lit
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		base = 16
		text = lit[2:]
	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		base = 2
		text = lit[2:]
	}
	text = strings.ReplaceAll(text, "_", "")
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		p.failMessage("invalid integer literal: " + lit)
		return nil
	}
	p.advance()
	return ast.NewIntLit(span, v)
}

func (p *Parser) parseFloatLit() ast.Expr {
	span := p.cur.Span
	lit := strings.ReplaceAll(p.cur.Literal, "_", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.failMessage("invalid float literal: " + p.cur.Literal)
		return nil
	}
	p.advance()
	return ast.NewFloatLit(span, v)
}

func (p *Parser) parseListLit() ast.Expr {
	start := p.cur.Span
	p.expect(token.LBRACKET)
	var elems []ast.Expr
	for p.err == nil && p.cur.Kind != token.RBRACKET {
		if len(elems) > 0 {
			p.expect(token.COMMA)
		}
		elems = append(elems, p.parseExpr(ASSIGN+1))
	}
	end := p.expect(token.RBRACKET)
	if p.err != nil {
		return nil
	}
	return ast.NewListLit(start.Upto(end.Span), elems)
}

// parseIdentOrCallOrAssign parses a bare name, a call `name(args)`, or an
// assignment `name = EXPR`. Assignment is recognized by an `=` directly
// after the name, which yields a set-var node instead of a get.
func (p *Parser) parseIdentOrCallOrAssign() ast.Expr {
	start := p.cur.Span
	name := p.cur.Literal
	p.advance()

	if p.cur.Kind == token.LPAREN {
		p.advance()
		var args []ast.Expr
		for p.err == nil && p.cur.Kind != token.RPAREN {
			if len(args) > 0 {
				p.expect(token.COMMA)
			}
			args = append(args, p.parseExpr(ASSIGN+1))
		}
		end := p.expect(token.RPAREN)
		if p.err != nil {
			return nil
		}
		return ast.NewCall(start.Upto(end.Span), name, args)
	}

	if p.cur.Kind == token.ASSIGN {
		p.advance()
		value := p.parseExpr(ASSIGN)
		if p.err != nil {
			return nil
		}
		return ast.NewSet(start.Upto(value.Span()), name, value)
	}

	return ast.NewGet(start, name)
}

func (p *Parser) parseIf() ast.Expr {
	start := p.cur.Span
	p.expectKeyword("if")
	var branches []ast.IfBranch
	for {
		cond := p.parseExpr(ASSIGN + 1)
		body := p.parseBlock()
		if p.err != nil {
			return nil
		}
		branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
		if p.curIsKeyword("else") {
			p.advance()
			if p.curIsKeyword("if") {
				p.advance()
				continue
			}
			elseBlock := p.parseBlock()
			if p.err != nil {
				return nil
			}
			return ast.NewIf(start.Upto(elseBlock.Span()), branches, elseBlock)
		}
		break
	}
	// No `else`: synthesize an empty block with the if's own span.
	full := start.Upto(branches[len(branches)-1].Body.Span())
	return ast.NewIf(full, branches, ast.NewBlock(full, nil))
}

func (p *Parser) parseWhile() ast.Expr {
	start := p.cur.Span
	p.expectKeyword("while")
	cond := p.parseExpr(ASSIGN + 1)
	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewWhile(start.Upto(body.Span()), cond, body)
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	p.expect(token.LBRACE)
	p.skipTerminators()
	var exprs []ast.Expr
	for p.err == nil && p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		e := p.parseExpr(LOWEST)
		if p.err != nil {
			return nil
		}
		exprs = append(exprs, e)
		p.expectTerminator()
	}
	end := p.expect(token.RBRACE)
	if p.err != nil {
		return nil
	}
	return ast.NewBlock(start.Upto(end.Span), exprs)
}

// parseIntrinsic parses one of the `$`-prefixed intrinsics: $cstr, $asm,
// $read1/2/4/8, $write1/2/4/8.
func (p *Parser) parseIntrinsic() ast.Expr {
	start := p.cur.Span
	p.expect(token.DOLLAR)
	if p.cur.Kind != token.IDENT {
		p.failExpected("intrinsic name", describeTok(p.cur))
		return nil
	}
	name := p.cur.Literal
	p.advance()

	switch {
	case name == "cstr":
		return p.parseCStrIntrinsic(start)
	case name == "asm":
		return p.parseAsmIntrinsic(start)
	case strings.HasPrefix(name, "read"):
		return p.parseMemOpIntrinsic(start, name, false)
	case strings.HasPrefix(name, "write"):
		return p.parseMemOpIntrinsic(start, name, true)
	default:
		p.failMessage("no such intrinsic: $" + name)
		return nil
	}
}

func (p *Parser) parseCStrIntrinsic(start ast.Span) ast.Expr {
	p.expect(token.LPAREN)
	s := p.parseStringLiteralRaw()
	end := p.expect(token.RPAREN)
	if p.err != nil {
		return nil
	}
	return ast.NewCStr(start.Upto(end.Span), s)
}

func (p *Parser) parseAsmIntrinsic(start ast.Span) ast.Expr {
	p.expect(token.LPAREN)
	p.expect(token.LBRACKET)
	var args []ast.Expr
	for p.err == nil && p.cur.Kind != token.RBRACKET {
		if len(args) > 0 {
			p.expect(token.COMMA)
		}
		args = append(args, p.parseExpr(ASSIGN+1))
	}
	p.expect(token.RBRACKET)
	p.expect(token.COMMA)

	var retType *types.Type
	if p.curIsKeyword("void") {
		p.advance()
	} else {
		t := p.parseTypeName()
		retType = &t
	}
	p.expect(token.COMMA)
	code := p.parseStringLiteralRaw()
	end := p.expect(token.RPAREN)
	if p.err != nil {
		return nil
	}
	return ast.NewAsm(start.Upto(end.Span), args, retType, code)
}

var memOpWidths = map[string]int{"1": 1, "2": 2, "4": 4, "8": 8}

func (p *Parser) parseMemOpIntrinsic(start ast.Span, name string, write bool) ast.Expr {
	prefix := "read"
	if write {
		prefix = "write"
	}
	widthStr := strings.TrimPrefix(name, prefix)
	width, ok := memOpWidths[widthStr]
	if !ok {
		p.failMessage("unknown intrinsic: $" + name)
		return nil
	}

	p.expect(token.LPAREN)
	addr := p.parseExpr(ASSIGN + 1)
	var value ast.Expr
	if write {
		p.expect(token.COMMA)
		value = p.parseExpr(ASSIGN + 1)
	}
	var offset uint32
	if p.cur.Kind == token.COMMA {
		p.advance()
		ident := p.expect(token.IDENT)
		if ident.Literal != "offset" {
			p.failExpected("'offset'", ident.Literal)
			return nil
		}
		p.expect(token.COLON)
		n := p.parseIntLit()
		if p.err != nil {
			return nil
		}
		offset = uint32(n.(*ast.IntLit).Value)
	}
	end := p.expect(token.RPAREN)
	if p.err != nil {
		return nil
	}
	return ast.NewMemOp(start.Upto(end.Span), width, write, addr, value, offset)
}
