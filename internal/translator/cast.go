package translator

import (
	"fmt"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/errors"
	"github.com/cwbudde/go-wac/internal/scope"
	"github.com/cwbudde/go-wac/internal/sink"
	"github.com/cwbudde/go-wac/internal/types"
)

func typeErr(span ast.Span, expected, got string) *errors.CompilerError {
	return errors.NewType(span.Pos(), span.Source.Data, span.Source.Name, expected, got)
}

// guessType computes an expression's type without emitting anything. It
// returns an error if the expression is void or noreturn, since every
// caller of guessType needs a value.
func (tr *Translator) guessType(ls *scope.LocalScope, e ast.Expr) (types.Type, *errors.CompilerError) {
	rt, err := tr.guessReturnType(ls, e)
	if err != nil {
		return 0, err
	}
	if rt.Kind != types.RValue {
		return 0, typeErr(e.Span(), "a value", rt.String())
	}
	return rt.Value, nil
}

// guessReturnType is guessType's three-way generalization, needed for
// `if` chains where a branch might be noreturn.
func (tr *Translator) guessReturnType(ls *scope.LocalScope, e ast.Expr) (types.ReturnType, *errors.CompilerError) {
	switch n := e.(type) {
	case *ast.BoolLit:
		return types.ValueType(types.Bool), nil
	case *ast.IntLit:
		return types.ValueType(types.I32), nil
	case *ast.FloatLit:
		return types.ValueType(types.F32), nil
	case *ast.StringLit:
		return types.ValueType(types.String), nil
	case *ast.ListLit:
		return types.ValueType(types.List), nil
	case *ast.CStr:
		return types.ValueType(types.I32), nil
	case *ast.Get:
		entry, ok := ls.Lookup(n.Name)
		if !ok {
			return types.ReturnType{}, typeErr(n.Span(), "a declared name", fmt.Sprintf("undeclared name %q", n.Name))
		}
		return types.ValueType(entry.Type), nil
	case *ast.Set:
		return types.Void(), nil
	case *ast.Decl:
		return types.Void(), nil
	case *ast.While:
		return types.Void(), nil
	case *ast.AssertType:
		return types.ValueType(n.Type), nil
	case *ast.Asm:
		if n.Type == nil {
			return types.Void(), nil
		}
		return types.ValueType(*n.Type), nil
	case *ast.MemOp:
		if n.Write {
			return types.Void(), nil
		}
		if n.Width == 8 {
			return types.ValueType(types.I64), nil
		}
		return types.ValueType(types.I32), nil
	case *ast.Call:
		sig, ok := ls.Global.Functions[n.Name]
		if !ok {
			return types.ReturnType{}, typeErr(n.Span(), "a declared function", fmt.Sprintf("Function %s NotFound", n.Name))
		}
		return sig.Return, nil
	case *ast.Block:
		if len(n.Exprs) == 0 {
			return types.Void(), nil
		}
		return tr.guessReturnType(ls, n.Exprs[len(n.Exprs)-1])
	case *ast.If:
		return tr.guessReturnType(ls, n.Branches[0].Body)
	case *ast.UnOp:
		switch n.Op {
		case ast.Not:
			return types.ValueType(types.Bool), nil
		default:
			t, err := tr.guessType(ls, n.Operand)
			if err != nil {
				return types.ReturnType{}, err
			}
			return types.ValueType(t), nil
		}
	case *ast.BinOp:
		return tr.guessBinOpType(ls, n)
	default:
		return types.ReturnType{}, typeErr(e.Span(), "a recognized expression", fmt.Sprintf("%T", e))
	}
}

func (tr *Translator) guessBinOpType(ls *scope.LocalScope, n *ast.BinOp) (types.ReturnType, *errors.CompilerError) {
	switch n.Op {
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne, ast.Is, ast.IsNot, ast.And, ast.Or:
		return types.ValueType(types.Bool), nil
	case ast.Div:
		return types.ValueType(types.F32), nil
	case ast.TruncDiv:
		return types.ValueType(types.I32), nil
	case ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
		return types.ValueType(types.I32), nil
	default: // Add, Sub, Mul, Rem
		lt, err := tr.guessType(ls, n.Left)
		if err != nil {
			return types.ReturnType{}, err
		}
		rt, err := tr.guessType(ls, n.Right)
		if err != nil {
			return types.ReturnType{}, err
		}
		ct, ok := types.CommonType(lt, rt)
		if !ok {
			return types.ReturnType{}, typeErr(n.Span(), lt.String(), rt.String())
		}
		return types.ValueType(ct), nil
	}
}

// commonType wraps types.CommonType with the span needed to report an
// incompatible pair as a TypeError.
func commonType(span ast.Span, a, b types.Type) (types.Type, *errors.CompilerError) {
	ct, ok := types.CommonType(a, b)
	if !ok {
		return 0, typeErr(span, a.String(), b.String())
	}
	return ct, nil
}

func isNumeric(t types.Type) bool {
	switch t {
	case types.I32, types.I64, types.F32, types.F64:
		return true
	default:
		return false
	}
}

// autoCast emits whatever instructions move a value of type src, already
// on the stack, to type dst. Identity emits nothing.
func autoCast(out *sink.Sink, span ast.Span, src, dst types.Type) *errors.CompilerError {
	if src == dst {
		return nil
	}
	if src == types.I32 && dst == types.F32 {
		out.Writeln("(f32.convert_i32_s)")
		return nil
	}
	if dst == types.Id {
		boxOnto(out, src)
		return nil
	}
	if src == types.Id {
		return unboxFrom(out, span, dst)
	}
	return typeErr(span, dst.String(), src.String())
}

// explicitCast is autoCast plus one extra coercion: truncating f32 to i32.
// Nothing in the translator calls it; `as` (ast.AssertType) goes through
// autoCast, so `as i32` does not truncate an f32.
func explicitCast(out *sink.Sink, span ast.Span, src, dst types.Type) *errors.CompilerError {
	if src == types.F32 && dst == types.I32 {
		out.Writeln("(i32.trunc_f32_s)")
		return nil
	}
	return autoCast(out, span, src, dst)
}

// boxOnto emits `box(tag, payload) = zero-extend payload to i64, OR with
// tag << 32` for a value of type t already on the stack.
func boxOnto(out *sink.Sink, t types.Type) {
	switch t.Wasm() {
	case types.WasmI32:
		out.Writeln("(i64.extend_i32_u)")
	case types.WasmF32:
		out.Writeln("(i64.extend_i32_u (i32.reinterpret_f32))")
	case types.WasmF64:
		// f64 has no primitive boxed form in this lattice's id payload
		// (id's low 32 bits can't hold 64 bits); fall through raw, the
		// payload is the low half only. Not expected to be reached since
		// f64 never appears in a list/id literal position in practice.
		out.Writeln("(i64.extend_i32_u (i32.wrap_i64 (i64.reinterpret_f64)))")
	case types.WasmI64:
		out.Writeln("(i64.and (i64.const 0xFFFFFFFF))")
	}
	out.Writeln(fmt.Sprintf("(i64.or (i64.shl (i64.extend_i32_u (global.get $rt_tag_%s)) (i64.const 32)))", tagGlobalName(t)))
}

// unboxFrom emits a call to the runtime's unboxer for dst,
// consuming the boxed id on the stack. The prelude contract has no
// unboxer for i64/f64, since id's 32-bit payload can't carry either, so
// those targets are rejected as a TypeError rather than emitting a bare
// drop, which would consume the id and push nothing where the caller
// expects a value.
func unboxFrom(out *sink.Sink, span ast.Span, dst types.Type) *errors.CompilerError {
	switch dst {
	case types.I32, types.Bool, types.TypeType:
		out.Writeln(fmt.Sprintf("(call $f___WAC_raw_id_to_%s)", unboxSuffix(dst)))
	case types.F32:
		out.Writeln("(call $f___WAC_raw_id_to_f32)")
	case types.String:
		out.Writeln("(call $f___WAC_raw_id_to_str)")
	case types.List:
		out.Writeln("(call $f___WAC_raw_id_to_list)")
	default:
		return typeErr(span, dst.String(), types.Id.String())
	}
	return nil
}

func unboxSuffix(t types.Type) string {
	switch t {
	case types.Bool:
		return "bool"
	case types.TypeType:
		return "i32"
	default:
		return "i32"
	}
}

func tagGlobalName(t types.Type) string {
	switch t {
	case types.I32:
		return "i32"
	case types.I64:
		return "i64"
	case types.F32:
		return "f32"
	case types.F64:
		return "f64"
	case types.Bool:
		return "bool"
	case types.TypeType:
		return "type"
	case types.String:
		return "str"
	case types.List:
		return "list"
	default:
		return "id"
	}
}
