package translator

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/errors"
	"github.com/cwbudde/go-wac/internal/scope"
	"github.com/cwbudde/go-wac/internal/sink"
	"github.com/cwbudde/go-wac/internal/types"
)

// expectKind distinguishes the three ways a caller can ask an expression
// to be translated: let its natural type come through unchanged, require
// it to produce nothing (a statement-position drop/release), or require
// it to produce exactly one given type.
type expectKind int

const (
	exInfer expectKind = iota
	exVoid
	exValue
)

type expect struct {
	kind expectKind
	t    types.Type
}

func inferExp() expect            { return expect{kind: exInfer} }
func voidExp() expect             { return expect{kind: exVoid} }
func valueExp(t types.Type) expect { return expect{kind: exValue, t: t} }

// translateExpr translates e under exp, then settles the difference
// between what e naturally produced and what the caller asked for: a cast
// for exValue, a drop-or-release for exVoid, or nothing for exInfer.
func (tr *Translator) translateExpr(ls *scope.LocalScope, out *sink.Sink, e ast.Expr, exp expect) (types.ReturnType, *errors.CompilerError) {
	rt, err := tr.translateRaw(ls, out, e, exp)
	if err != nil {
		return types.ReturnType{}, err
	}
	switch exp.kind {
	case exValue:
		if rt.Kind != types.RValue {
			return types.ReturnType{}, typeErr(e.Span(), exp.t.String(), rt.String())
		}
		if rt.Value != exp.t {
			if cerr := autoCast(out, e.Span(), rt.Value, exp.t); cerr != nil {
				return types.ReturnType{}, cerr
			}
		}
		return types.ValueType(exp.t), nil
	case exVoid:
		if rt.Kind == types.RValue {
			emitDropOrRelease(out, rt.Value)
		}
		return types.Void(), nil
	default:
		return rt, nil
	}
}

func (tr *Translator) translateRaw(ls *scope.LocalScope, out *sink.Sink, e ast.Expr, exp expect) (types.ReturnType, *errors.CompilerError) {
	switch n := e.(type) {
	case *ast.BoolLit:
		v := 0
		if n.Value {
			v = 1
		}
		out.Writeln(fmt.Sprintf("(i32.const %d)", v))
		return types.ValueType(types.Bool), nil

	case *ast.IntLit:
		// An int literal only self-adapts within its own family (i32/i64);
		// a float-typed context still goes through auto_cast, which defines
		// i32→f32 but not i32→i64 or float↔int.
		t := types.I32
		if exp.kind == exValue && (exp.t == types.I32 || exp.t == types.I64) {
			t = exp.t
		}
		writeIntConst(out, t, n.Value)
		return types.ValueType(t), nil

	case *ast.FloatLit:
		// Symmetric to IntLit: a float literal only self-adapts to f32/f64.
		// In an i32 context it stays f32 and fails auto_cast, matching
		// `fn f() i32 { 1.0 }`.
		t := types.F32
		if exp.kind == exValue && (exp.t == types.F32 || exp.t == types.F64) {
			t = exp.t
		}
		writeFloatConst(out, t, n.Value)
		return types.ValueType(t), nil

	case *ast.StringLit:
		ptr := tr.out.InternStr(n.Value)
		out.Writeln(fmt.Sprintf("(i32.const %d)", ptr))
		emitRetain(out, types.String)
		return types.ValueType(types.String), nil

	case *ast.CStr:
		ptr := tr.out.InternCStr(n.Value)
		out.Writeln(fmt.Sprintf("(i32.const %d)", ptr))
		return types.ValueType(types.I32), nil

	case *ast.ListLit:
		return tr.translateListLit(ls, out, n)

	case *ast.Get:
		return tr.translateGet(ls, out, n)

	case *ast.Set:
		return tr.translateSet(ls, out, n)

	case *ast.Decl:
		return tr.translateDecl(ls, out, n)

	case *ast.Block:
		return tr.translateBlock(ls, out, n, exp)

	case *ast.Call:
		return tr.translateCall(ls, out, n)

	case *ast.If:
		return tr.translateIf(ls, out, n, exp)

	case *ast.While:
		return tr.translateWhile(ls, out, n)

	case *ast.BinOp:
		return tr.translateBinOp(ls, out, n)

	case *ast.UnOp:
		return tr.translateUnOp(ls, out, n)

	case *ast.AssertType:
		return tr.translateExpr(ls, out, n.Expr, valueExp(n.Type))

	case *ast.Asm:
		return tr.translateAsm(ls, out, n)

	case *ast.MemOp:
		return tr.translateMemOp(ls, out, n)

	default:
		return types.ReturnType{}, typeErr(e.Span(), "a recognized expression", fmt.Sprintf("%T", e))
	}
}

func (tr *Translator) translateGet(ls *scope.LocalScope, out *sink.Sink, n *ast.Get) (types.ReturnType, *errors.CompilerError) {
	entry, ok := ls.Lookup(n.Name)
	if !ok {
		return types.ReturnType{}, typeErr(n.Span(), "a declared name", fmt.Sprintf("undeclared name %q", n.Name))
	}
	switch entry.Kind {
	case scope.EntryConstant:
		if t, ok := types.ByName[n.Name]; ok {
			out.Writeln(fmt.Sprintf("(i32.const %d)", t.Tag()))
			return types.ValueType(types.TypeType), nil
		}
		return tr.translateExpr(ls, out, entry.Const, inferExp())
	case scope.EntryLocal:
		dl, _ := ls.LookupLocal(n.Name)
		out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
		emitRetain(out, dl.Type)
		return types.ValueType(dl.Type), nil
	default: // EntryGlobal
		out.Writeln(fmt.Sprintf("(global.get $g_%s)", n.Name))
		emitRetain(out, entry.Type)
		return types.ValueType(entry.Type), nil
	}
}

func (tr *Translator) translateSet(ls *scope.LocalScope, out *sink.Sink, n *ast.Set) (types.ReturnType, *errors.CompilerError) {
	entry, ok := ls.Lookup(n.Name)
	if !ok {
		return types.ReturnType{}, typeErr(n.Span(), "a declared variable", fmt.Sprintf("undeclared name %q", n.Name))
	}
	if entry.Kind == scope.EntryConstant {
		return types.ReturnType{}, typeErr(n.Span(), "a variable", fmt.Sprintf("constant %q", n.Name))
	}
	if _, err := tr.translateExpr(ls, out, n.Value, valueExp(entry.Type)); err != nil {
		return types.ReturnType{}, err
	}
	if entry.Kind == scope.EntryLocal {
		dl, _ := ls.LookupLocal(n.Name)
		emitReleaseVarLocal(out, dl)
		out.Writeln(fmt.Sprintf("(local.set %s)", dl.WasmName))
	} else {
		emitReleaseVarGlobal(out, n.Name, entry.Type)
		out.Writeln(fmt.Sprintf("(global.set $g_%s)", n.Name))
	}
	return types.Void(), nil
}

func (tr *Translator) translateDecl(ls *scope.LocalScope, out *sink.Sink, n *ast.Decl) (types.ReturnType, *errors.CompilerError) {
	t := types.Type(0)
	if n.DeclaredType != nil {
		t = *n.DeclaredType
	} else {
		guessed, err := tr.guessType(ls, n.Value)
		if err != nil {
			return types.ReturnType{}, err
		}
		t = guessed
	}
	if _, err := tr.translateExpr(ls, out, n.Value, valueExp(t)); err != nil {
		return types.ReturnType{}, err
	}
	dl := ls.Declare(n.Name, t)
	out.Writeln(fmt.Sprintf("(local.set %s)", dl.WasmName))
	return types.Void(), nil
}

func (tr *Translator) translateBlock(ls *scope.LocalScope, out *sink.Sink, n *ast.Block, exp expect) (types.ReturnType, *errors.CompilerError) {
	if len(n.Exprs) == 0 {
		if exp.kind == exValue {
			return types.ReturnType{}, typeErr(n.Span(), exp.t.String(), "Void")
		}
		return types.Void(), nil
	}
	ls.Push()
	defer ls.Pop()
	for _, sub := range n.Exprs[:len(n.Exprs)-1] {
		if _, err := tr.translateExpr(ls, out, sub, voidExp()); err != nil {
			return types.ReturnType{}, err
		}
	}
	return tr.translateExpr(ls, out, n.Exprs[len(n.Exprs)-1], exp)
}

func (tr *Translator) translateCall(ls *scope.LocalScope, out *sink.Sink, n *ast.Call) (types.ReturnType, *errors.CompilerError) {
	sig, ok := ls.Global.Functions[n.Name]
	if !ok {
		return types.ReturnType{}, typeErr(n.Span(), "a declared function", fmt.Sprintf("Function %s NotFound", n.Name))
	}
	if len(n.Args) != len(sig.Parameters) {
		return types.ReturnType{}, typeErr(n.Span(),
			fmt.Sprintf("%d argument(s)", len(sig.Parameters)),
			fmt.Sprintf("%d argument(s)", len(n.Args)))
	}
	for i, arg := range n.Args {
		if _, err := tr.translateExpr(ls, out, arg, valueExp(sig.Parameters[i])); err != nil {
			return types.ReturnType{}, err
		}
	}
	out.Writeln(fmt.Sprintf("(call $f_%s)", n.Name))
	return sig.Return, nil
}

func (tr *Translator) ifResultType(ls *scope.LocalScope, n *ast.If, exp expect) (types.ReturnType, *errors.CompilerError) {
	switch exp.kind {
	case exValue:
		return types.ValueType(exp.t), nil
	case exVoid:
		return types.Void(), nil
	default:
		return tr.guessReturnType(ls, n)
	}
}

func (tr *Translator) translateIf(ls *scope.LocalScope, out *sink.Sink, n *ast.If, exp expect) (types.ReturnType, *errors.CompilerError) {
	resultRT, err := tr.ifResultType(ls, n, exp)
	if err != nil {
		return types.ReturnType{}, err
	}
	branchExp := voidExp()
	if resultRT.Kind == types.RValue {
		branchExp = valueExp(resultRT.Value)
	}
	if err := tr.emitIfChain(ls, out, n.Branches, n.Else, resultRT, branchExp); err != nil {
		return types.ReturnType{}, err
	}
	return resultRT, nil
}

func (tr *Translator) emitIfChain(ls *scope.LocalScope, out *sink.Sink, branches []ast.IfBranch, els *ast.Block, resultRT types.ReturnType, branchExp expect) *errors.CompilerError {
	branch := branches[0]
	if _, err := tr.translateExpr(ls, out, branch.Cond, valueExp(types.Bool)); err != nil {
		return err
	}
	resultClause := ""
	if resultRT.Kind == types.RValue {
		resultClause = fmt.Sprintf(" (result %s)", resultRT.Value.Wasm())
	}
	out.Writeln(fmt.Sprintf("(if%s", resultClause))
	out.Writeln("(then")
	thenExp, err := tr.branchExpFor(ls, branch.Body, branchExp)
	if err != nil {
		return err
	}
	if _, err := tr.translateBlock(ls, out, branch.Body, thenExp); err != nil {
		return err
	}
	out.Writeln(")")
	out.Writeln("(else")
	var innerErr *errors.CompilerError
	if len(branches) > 1 {
		innerErr = tr.emitIfChain(ls, out, branches[1:], els, resultRT, branchExp)
	} else {
		elseExp, eerr := tr.branchExpFor(ls, els, branchExp)
		if eerr != nil {
			return eerr
		}
		_, innerErr = tr.translateBlock(ls, out, els, elseExp)
	}
	if innerErr != nil {
		return innerErr
	}
	out.Writeln(")")
	out.Writeln(")")
	return nil
}

// branchExpFor downgrades branchExp to inferExp() for a branch that never
// completes, so a noreturn arm (e.g. a call to a noreturn function) isn't
// forced to produce the if's result type: common_type treats NoReturn as
// absorbing, and guess_type uses the first branch precisely so the other
// arms can carry the real value type.
func (tr *Translator) branchExpFor(ls *scope.LocalScope, body *ast.Block, branchExp expect) (expect, *errors.CompilerError) {
	guessed, err := tr.guessReturnType(ls, body)
	if err != nil {
		return expect{}, err
	}
	if guessed.Kind == types.RNoReturn {
		return inferExp(), nil
	}
	return branchExp, nil
}

func (tr *Translator) translateWhile(ls *scope.LocalScope, out *sink.Sink, n *ast.While) (types.ReturnType, *errors.CompilerError) {
	brk := ls.NewLabelID()
	cont := ls.NewLabelID()

	out.Writeln(fmt.Sprintf("(block $lbl_brk_%d", brk))
	out.Writeln(fmt.Sprintf("(loop $lbl_cont_%d", cont))
	if _, err := tr.translateExpr(ls, out, n.Cond, valueExp(types.Bool)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln("(i32.eqz)")
	out.Writeln(fmt.Sprintf("(br_if $lbl_brk_%d)", brk))
	if _, err := tr.translateBlock(ls, out, n.Body, voidExp()); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln(fmt.Sprintf("(br $lbl_cont_%d)", cont))
	out.Writeln(")")
	out.Writeln(")")
	return types.Void(), nil
}

func (tr *Translator) translateBinOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	switch n.Op {
	case ast.Is, ast.IsNot:
		return tr.translateIsOp(ls, out, n)
	case ast.Div:
		return tr.translateDivOp(ls, out, n)
	case ast.TruncDiv:
		return tr.translateTruncDivOp(ls, out, n)
	case ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
		return tr.translateBitOp(ls, out, n)
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne:
		return tr.translateCompareOp(ls, out, n)
	case ast.Add, ast.Sub, ast.Mul, ast.Rem:
		return tr.translateArithCommon(ls, out, n)
	default:
		return types.ReturnType{}, typeErr(n.Span(), "a lowered binary operator", n.Op.String())
	}
}

func (tr *Translator) translateArithCommon(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	lt, err := tr.guessType(ls, n.Left)
	if err != nil {
		return types.ReturnType{}, err
	}
	rt, err := tr.guessType(ls, n.Right)
	if err != nil {
		return types.ReturnType{}, err
	}
	ct, err := commonType(n.Span(), lt, rt)
	if err != nil {
		return types.ReturnType{}, err
	}
	if n.Op == ast.Rem && ct != types.I32 && ct != types.I64 {
		return types.ReturnType{}, typeErr(n.Span(), "I32 or I64", ct.String())
	}
	if _, err := tr.translateExpr(ls, out, n.Left, valueExp(ct)); err != nil {
		return types.ReturnType{}, err
	}
	if _, err := tr.translateExpr(ls, out, n.Right, valueExp(ct)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln(fmt.Sprintf("(%s.%s)", ct.Wasm(), arithMnemonic(n.Op)))
	return types.ValueType(ct), nil
}

func arithMnemonic(op ast.BinaryOp) string {
	switch op {
	case ast.Add:
		return "add"
	case ast.Sub:
		return "sub"
	case ast.Mul:
		return "mul"
	case ast.Rem:
		return "rem_s"
	default:
		return "add"
	}
}

func (tr *Translator) translateDivOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	if _, err := tr.translateExpr(ls, out, n.Left, valueExp(types.F32)); err != nil {
		return types.ReturnType{}, err
	}
	if _, err := tr.translateExpr(ls, out, n.Right, valueExp(types.F32)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln("(f32.div)")
	return types.ValueType(types.F32), nil
}

func (tr *Translator) translateTruncDivOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	lt, err := tr.guessType(ls, n.Left)
	if err != nil {
		return types.ReturnType{}, err
	}
	rt, err := tr.guessType(ls, n.Right)
	if err != nil {
		return types.ReturnType{}, err
	}
	if lt == types.I32 && rt == types.I32 {
		if _, err := tr.translateExpr(ls, out, n.Left, valueExp(types.I32)); err != nil {
			return types.ReturnType{}, err
		}
		if _, err := tr.translateExpr(ls, out, n.Right, valueExp(types.I32)); err != nil {
			return types.ReturnType{}, err
		}
		out.Writeln("(i32.div_s)")
		return types.ValueType(types.I32), nil
	}
	if _, err := tr.translateExpr(ls, out, n.Left, valueExp(types.F32)); err != nil {
		return types.ReturnType{}, err
	}
	if _, err := tr.translateExpr(ls, out, n.Right, valueExp(types.F32)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln("(f32.div)")
	out.Writeln("(i32.trunc_f32_s)")
	return types.ValueType(types.I32), nil
}

func (tr *Translator) translateBitOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	if _, err := tr.translateExpr(ls, out, n.Left, valueExp(types.I32)); err != nil {
		return types.ReturnType{}, err
	}
	if _, err := tr.translateExpr(ls, out, n.Right, valueExp(types.I32)); err != nil {
		return types.ReturnType{}, err
	}
	var mnem string
	switch n.Op {
	case ast.BitAnd:
		mnem = "and"
	case ast.BitOr:
		mnem = "or"
	case ast.BitXor:
		mnem = "xor"
	case ast.Shl:
		mnem = "shl"
	case ast.Shr:
		mnem = "shr_u"
	}
	out.Writeln(fmt.Sprintf("(i32.%s)", mnem))
	return types.ValueType(types.I32), nil
}

func (tr *Translator) translateCompareOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	lt, err := tr.guessType(ls, n.Left)
	if err != nil {
		return types.ReturnType{}, err
	}
	rt, err := tr.guessType(ls, n.Right)
	if err != nil {
		return types.ReturnType{}, err
	}
	ct, err := commonType(n.Span(), lt, rt)
	if err != nil {
		return types.ReturnType{}, err
	}
	if !isNumeric(ct) && ct != types.Bool {
		return types.ReturnType{}, typeErr(n.Span(), "a comparable numeric type", ct.String())
	}
	if _, err := tr.translateExpr(ls, out, n.Left, valueExp(ct)); err != nil {
		return types.ReturnType{}, err
	}
	if _, err := tr.translateExpr(ls, out, n.Right, valueExp(ct)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln(fmt.Sprintf("(%s.%s)", ct.Wasm(), compareMnemonic(n.Op, ct)))
	return types.ValueType(types.Bool), nil
}

func compareMnemonic(op ast.BinaryOp, t types.Type) string {
	isFloat := t == types.F32 || t == types.F64
	switch op {
	case ast.Lt:
		if isFloat {
			return "lt"
		}
		return "lt_s"
	case ast.Le:
		if isFloat {
			return "le"
		}
		return "le_s"
	case ast.Gt:
		if isFloat {
			return "gt"
		}
		return "gt_s"
	case ast.Ge:
		if isFloat {
			return "ge"
		}
		return "ge_s"
	case ast.Eq:
		return "eq"
	case ast.Ne:
		return "ne"
	default:
		return "eq"
	}
}

// translateIsOp lowers `is`/`is not`: both operands are promoted to their
// common_type and wasm-eq'd; a heap or id operand is released immediately
// after being duplicated into a helper local, since the wasm comparison
// instruction consumes the bits without knowing they are refcounted.
func (tr *Translator) translateIsOp(ls *scope.LocalScope, out *sink.Sink, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	lt, err := tr.guessType(ls, n.Left)
	if err != nil {
		return types.ReturnType{}, err
	}
	rt, err := tr.guessType(ls, n.Right)
	if err != nil {
		return types.ReturnType{}, err
	}
	ct, err := commonType(n.Span(), lt, rt)
	if err != nil {
		return types.ReturnType{}, err
	}
	if cerr := tr.emitIsOperand(ls, out, "lhs", n.Left, ct); cerr != nil {
		return types.ReturnType{}, cerr
	}
	if cerr := tr.emitIsOperand(ls, out, "rhs", n.Right, ct); cerr != nil {
		return types.ReturnType{}, cerr
	}
	out.Writeln(fmt.Sprintf("(%s.eq)", ct.Wasm()))
	if n.Op == ast.IsNot {
		out.Writeln("(i32.eqz)")
	}
	return types.ValueType(types.Bool), nil
}

func (tr *Translator) emitIsOperand(ls *scope.LocalScope, out *sink.Sink, side string, e ast.Expr, ct types.Type) *errors.CompilerError {
	if _, err := tr.translateExpr(ls, out, e, valueExp(ct)); err != nil {
		return err
	}
	if ct.Heap() || ct == types.Id {
		dl := ls.HelperLocal("is_dup_"+side+"_"+ct.String(), ct)
		out.Writeln(fmt.Sprintf("(local.set %s)", dl.WasmName))
		out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
		emitReleaseOnStack(out, ct)
		out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
	}
	return nil
}

func (tr *Translator) translateUnOp(ls *scope.LocalScope, out *sink.Sink, n *ast.UnOp) (types.ReturnType, *errors.CompilerError) {
	if n.Op == ast.Not {
		if _, err := tr.translateExpr(ls, out, n.Operand, valueExp(types.Bool)); err != nil {
			return types.ReturnType{}, err
		}
		out.Writeln("(i32.eqz)")
		return types.ValueType(types.Bool), nil
	}
	t, err := tr.guessType(ls, n.Operand)
	if err != nil {
		return types.ReturnType{}, err
	}
	if !isNumeric(t) {
		return types.ReturnType{}, typeErr(n.Span(), "a numeric type", t.String())
	}
	if _, err := tr.translateExpr(ls, out, n.Operand, valueExp(t)); err != nil {
		return types.ReturnType{}, err
	}
	if n.Op == ast.Neg {
		switch t {
		case types.I32, types.I64:
			out.Writeln(fmt.Sprintf("(%s.const -1)", t.Wasm()))
			out.Writeln(fmt.Sprintf("(%s.mul)", t.Wasm()))
		default:
			out.Writeln(fmt.Sprintf("(%s.neg)", t.Wasm()))
		}
	}
	return types.ValueType(t), nil
}

func (tr *Translator) translateAsm(ls *scope.LocalScope, out *sink.Sink, n *ast.Asm) (types.ReturnType, *errors.CompilerError) {
	for _, arg := range n.Args {
		t, err := tr.guessType(ls, arg)
		if err != nil {
			return types.ReturnType{}, err
		}
		if _, err := tr.translateExpr(ls, out, arg, valueExp(t)); err != nil {
			return types.ReturnType{}, err
		}
	}
	out.Writeln(n.Code)
	if n.Type == nil {
		return types.Void(), nil
	}
	return types.ValueType(*n.Type), nil
}

func (tr *Translator) translateMemOp(ls *scope.LocalScope, out *sink.Sink, n *ast.MemOp) (types.ReturnType, *errors.CompilerError) {
	if _, err := tr.translateExpr(ls, out, n.Addr, valueExp(types.I32)); err != nil {
		return types.ReturnType{}, err
	}
	offset := ""
	if n.Offset != 0 {
		offset = fmt.Sprintf(" offset=%d", n.Offset)
	}
	if !n.Write {
		out.Writeln(fmt.Sprintf("(%s%s)", memReadOp(n.Width), offset))
		if n.Width == 8 {
			return types.ValueType(types.I64), nil
		}
		return types.ValueType(types.I32), nil
	}
	valType := types.I32
	if n.Width == 8 {
		valType = types.I64
	}
	if _, err := tr.translateExpr(ls, out, n.Value, valueExp(valType)); err != nil {
		return types.ReturnType{}, err
	}
	out.Writeln(fmt.Sprintf("(%s%s)", memWriteOp(n.Width), offset))
	return types.Void(), nil
}

func memReadOp(width int) string {
	switch width {
	case 1:
		return "i32.load8_u"
	case 2:
		return "i32.load16_u"
	case 8:
		return "i64.load"
	default:
		return "i32.load"
	}
}

func memWriteOp(width int) string {
	switch width {
	case 1:
		return "i32.store8"
	case 2:
		return "i32.store16"
	case 8:
		return "i64.store"
	default:
		return "i32.store"
	}
}

func (tr *Translator) translateListLit(ls *scope.LocalScope, out *sink.Sink, n *ast.ListLit) (types.ReturnType, *errors.CompilerError) {
	out.Writeln("(call $f___new_list)")
	dl := ls.HelperLocal("list_lit_ptr", types.I32)
	out.Writeln(fmt.Sprintf("(local.set %s)", dl.WasmName))
	for _, elem := range n.Elements {
		out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
		if _, err := tr.translateExpr(ls, out, elem, valueExp(types.Id)); err != nil {
			return types.ReturnType{}, err
		}
		out.Writeln("(call $f___list_push_raw_no_retain)")
	}
	out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
	return types.ValueType(types.List), nil
}

func emitRetain(out *sink.Sink, t types.Type) {
	switch t {
	case types.String:
		out.Writeln("(call $f___WAC_str_retain)")
	case types.List:
		out.Writeln("(call $f___WAC_list_retain)")
	case types.Id:
		out.Writeln("(call $f___WAC_id_retain)")
	}
}

func emitReleaseOnStack(out *sink.Sink, t types.Type) {
	switch t {
	case types.String:
		out.Writeln("(call $f___WAC_str_release)")
	case types.List:
		out.Writeln("(call $f___WAC_list_release)")
	case types.Id:
		out.Writeln("(call $f___WAC_id_release)")
	}
}

func emitDropOrRelease(out *sink.Sink, t types.Type) {
	if t.Heap() || t == types.Id {
		emitReleaseOnStack(out, t)
	} else {
		out.Writeln("(drop)")
	}
}

func emitReleaseVarLocal(out *sink.Sink, dl scope.DeclaredLocal) {
	if dl.Type.Heap() || dl.Type == types.Id {
		out.Writeln(fmt.Sprintf("(local.get %s)", dl.WasmName))
		emitReleaseOnStack(out, dl.Type)
	}
}

func emitReleaseVarGlobal(out *sink.Sink, name string, t types.Type) {
	if t.Heap() || t == types.Id {
		out.Writeln(fmt.Sprintf("(global.get $g_%s)", name))
		emitReleaseOnStack(out, t)
	}
}

func writeIntConst(out *sink.Sink, t types.Type, v int64) {
	switch t {
	case types.I64:
		out.Writeln(fmt.Sprintf("(i64.const %d)", v))
	case types.F32, types.F64:
		out.Writeln(fmt.Sprintf("(%s.const %d)", t.Wasm(), v))
	default:
		out.Writeln(fmt.Sprintf("(i32.const %d)", int32(v)))
	}
}

func writeFloatConst(out *sink.Sink, t types.Type, v float64) {
	switch t {
	case types.I32:
		out.Writeln(fmt.Sprintf("(i32.const %d)", int32(v)))
	case types.I64:
		out.Writeln(fmt.Sprintf("(i64.const %d)", int64(v)))
	default:
		out.Writeln(fmt.Sprintf("(%s.const %s)", t.Wasm(), strconv.FormatFloat(v, 'g', -1, 64)))
	}
}
