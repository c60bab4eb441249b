package parser

import (
	"testing"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/lexer"
	"github.com/cwbudde/go-wac/internal/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	s := &ast.Source{Name: "t", Data: src}
	l := lexer.New(s, "t")
	p := New(l, "t", src)
	prog := p.ParseProgram()
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseIdentityFunction(t *testing.T) {
	prog := mustParse(t, `fn pub id(x i32) i32 { x }`)
	if len(prog.Decls) != 1 {
		t.Fatalf("got %d decls", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("got %T", prog.Decls[0])
	}
	if fn.Name != "id" || !fn.Pub || len(fn.Params) != 1 || fn.Params[0].Type != types.I32 {
		t.Fatalf("got %+v", fn)
	}
	if fn.Return.Kind != types.RValue || fn.Return.Value != types.I32 {
		t.Fatalf("got return %+v", fn.Return)
	}
}

func TestParseGlobalsInDeclarationOrder(t *testing.T) {
	prog := mustParse(t, "var a i32 = 1\nvar b i32 = a + 2\nfn pub main() i32 { b }")
	if len(prog.Decls) != 3 {
		t.Fatalf("got %d decls", len(prog.Decls))
	}
	a, ok := prog.Decls[0].(*ast.VarDecl)
	if !ok || a.Name != "a" {
		t.Fatalf("got %+v", prog.Decls[0])
	}
	b, ok := prog.Decls[1].(*ast.VarDecl)
	if !ok || b.Name != "b" {
		t.Fatalf("got %+v", prog.Decls[1])
	}
}

func TestParseShortCircuitDesugarsToIf(t *testing.T) {
	prog := mustParse(t, "fn pub main() bool { false and die() }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	block := fn.Body
	ifExpr, ok := block.Exprs[0].(*ast.If)
	if !ok {
		t.Fatalf("expected `and` to desugar to If, got %T", block.Exprs[0])
	}
	if len(ifExpr.Branches) != 1 {
		t.Fatalf("got %d branches", len(ifExpr.Branches))
	}
}

func TestParseImportDecl(t *testing.T) {
	prog := mustParse(t, `import fn "env" "puts" puts(i32) i32`)
	imp, ok := prog.Decls[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("got %T", prog.Decls[0])
	}
	if imp.Module != "env" || imp.Extern != "puts" || imp.Alias != "puts" {
		t.Fatalf("got %+v", imp)
	}
	if len(imp.Params) != 1 || imp.Params[0] != types.I32 {
		t.Fatalf("got params %+v", imp.Params)
	}
}

func TestParseIfWithoutElseSynthesizesEmptyElse(t *testing.T) {
	prog := mustParse(t, "fn f() void { if true { 1 } }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	ifExpr := fn.Body.Exprs[0].(*ast.If)
	if len(ifExpr.Else.Exprs) != 0 {
		t.Fatalf("expected empty else block")
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := mustParse(t, "fn f() void { while true { } }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	if _, ok := fn.Body.Exprs[0].(*ast.While); !ok {
		t.Fatalf("got %T", fn.Body.Exprs[0])
	}
}

func TestParseListLiteral(t *testing.T) {
	prog := mustParse(t, "fn pub main() list { [1, 2.5, true] }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	lit, ok := fn.Body.Exprs[0].(*ast.ListLit)
	if !ok || len(lit.Elements) != 3 {
		t.Fatalf("got %+v", fn.Body.Exprs[0])
	}
}

func TestParseCStrIntrinsic(t *testing.T) {
	prog := mustParse(t, `fn f() i32 { $cstr("hi") }`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	cs, ok := fn.Body.Exprs[0].(*ast.CStr)
	if !ok || cs.Value != "hi" {
		t.Fatalf("got %+v", fn.Body.Exprs[0])
	}
}

func TestParseMemOpIntrinsicWithOffset(t *testing.T) {
	prog := mustParse(t, "fn f(p i32) i32 { $read4(p, offset: 8) }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	m, ok := fn.Body.Exprs[0].(*ast.MemOp)
	if !ok || m.Width != 4 || m.Write || m.Offset != 8 {
		t.Fatalf("got %+v", fn.Body.Exprs[0])
	}
}

func TestParseAssignmentRewritesToSet(t *testing.T) {
	prog := mustParse(t, "fn f() void { var x i32 = 0\nx = 1 }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	setExpr, ok := fn.Body.Exprs[1].(*ast.Set)
	if !ok || setExpr.Name != "x" {
		t.Fatalf("got %+v", fn.Body.Exprs[1])
	}
}

func TestParsePrecedenceProductBeforeSum(t *testing.T) {
	prog := mustParse(t, "fn f() i32 { 1 + 2 * 3 }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	bin, ok := fn.Body.Exprs[0].(*ast.BinOp)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("got %+v", fn.Body.Exprs[0])
	}
	rhs, ok := bin.Right.(*ast.BinOp)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("expected product to bind tighter than sum, got %+v", bin.Right)
	}
}

func TestParseAssertType(t *testing.T) {
	prog := mustParse(t, "fn f() i32 { 1 as i32 }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	at, ok := fn.Body.Exprs[0].(*ast.AssertType)
	if !ok || at.Type != types.I32 {
		t.Fatalf("got %+v", fn.Body.Exprs[0])
	}
}

func TestParseUnknownIntrinsicIsError(t *testing.T) {
	s := &ast.Source{Name: "t", Data: "fn f() void { $bogus() }"}
	l := lexer.New(s, "t")
	p := New(l, "t", s.Data)
	p.ParseProgram()
	if p.Err() == nil {
		t.Fatal("expected a parse error for an unknown intrinsic")
	}
}
