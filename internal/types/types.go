// Package types implements the source language's closed type lattice: the
// nine primitive-and-boxed types, their WebAssembly lowering, and the
// handful of pure type-level rules (common_type, primitive/heap
// classification) that don't need access to the AST or a scope to compute.
package types

import "fmt"

// Type is the closed, tagged set of source-language types. The integer
// value doubles as the runtime type tag used to box values into `id`: a
// type constant's tag equals its runtime boxing tag.
type Type int

const (
	I32 Type = iota + 1
	I64
	F32
	F64
	Bool
	TypeType // the `type` type itself, reified as a value
	String
	List
	Id
)

// Tag values double as both the Type's int() and the runtime boxing tag;
// named separately here only for readability at call sites that talk about
// tags rather than types (cast_to_id, etc).
const (
	TagI32    = int32(I32)
	TagI64    = int32(I64)
	TagF32    = int32(F32)
	TagF64    = int32(F64)
	TagBool   = int32(Bool)
	TagType   = int32(TypeType)
	TagString = int32(String)
	TagList   = int32(List)
	TagId     = int32(Id)
)

var typeNames = map[Type]string{
	I32: "I32", I64: "I64", F32: "F32", F64: "F64", Bool: "Bool",
	TypeType: "Type", String: "String", List: "List", Id: "Id",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Tag returns the runtime boxing tag for t.
func (t Type) Tag() int32 { return int32(t) }

// Primitive reports whether t lowers to an unboxed wasm value with no
// reference counting: true for bool, i32, i64, f32, f64, type.
func (t Type) Primitive() bool {
	switch t {
	case Bool, I32, I64, F32, F64, TypeType:
		return true
	default:
		return false
	}
}

// Heap reports whether t is a reference-counted heap type (str, list). Id
// is boxed but not itself "heap" in the refcount-prefix sense; it is
// handled as its own case throughout the translator because releasing an id
// requires a runtime tag dispatch rather than a fixed offset.
func (t Type) Heap() bool {
	return t == String || t == List
}

// WasmType is one of the four value types WebAssembly natively supports.
// Every source Type lowers to exactly one of these.
type WasmType int

const (
	WasmI32 WasmType = iota
	WasmI64
	WasmF32
	WasmF64
)

func (w WasmType) String() string {
	switch w {
	case WasmI32:
		return "i32"
	case WasmI64:
		return "i64"
	case WasmF32:
		return "f32"
	case WasmF64:
		return "f64"
	default:
		return fmt.Sprintf("WasmType(%d)", int(w))
	}
}

// Wasm returns the WAT-level type t lowers to.
func (t Type) Wasm() WasmType {
	switch t {
	case I32, Bool, TypeType, String, List:
		return WasmI32
	case I64, Id:
		return WasmI64
	case F32:
		return WasmF32
	case F64:
		return WasmF64
	default:
		panic(fmt.Sprintf("types: Wasm() on invalid type %v", t))
	}
}

// ByName maps the type keywords the parser recognizes to their Type value:
// bool i32 i64 f32 f64 type str list id. void/noreturn are not values, so
// they are not part of this map; callers that parse a return-type position
// handle those two keywords themselves (see internal/parser parseReturnType,
// internal/types ReturnType).
var ByName = map[string]Type{
	"bool": Bool,
	"i32":  I32,
	"i64":  I64,
	"f32":  F32,
	"f64":  F64,
	"type": TypeType,
	"str":  String,
	"list": List,
	"id":   Id,
}

// CommonType returns the least type into which a and b can both be widened:
// identity, or {i32,f32}->f32. Any other pair is incompatible and reported
// by the caller as a TypeError.
func CommonType(a, b Type) (Type, bool) {
	if a == b {
		return a, true
	}
	if (a == I32 && b == F32) || (a == F32 && b == I32) {
		return F32, true
	}
	return 0, false
}

// ReturnKind distinguishes a function/expression's three-way return
// classification: a value-producing expression, one that produces no value
// but falls through (void), or one that never completes normally
// (noreturn, which comes from a function declared `noreturn` and reaches
// expressions through calls to it, see internal/translator/cast.go
// guessReturnType).
type ReturnKind int

const (
	RVoid ReturnKind = iota
	RNoReturn
	RValue
)

// ReturnType is the three-way `void | noreturn | value(T)` type. Function
// signatures carry one; so does the return of guessReturnType, which is
// used to resolve the type of an `if` whose branches might not all return
// a value (e.g. one branch calls a noreturn function).
type ReturnType struct {
	Kind  ReturnKind
	Value Type
}

// Void is the void return type (no value, falls through).
func Void() ReturnType { return ReturnType{Kind: RVoid} }

// NoReturnType is the noreturn type: the expression never completes.
func NoReturnType() ReturnType { return ReturnType{Kind: RNoReturn} }

// ValueType wraps a concrete Type as a value-producing ReturnType.
func ValueType(t Type) ReturnType { return ReturnType{Kind: RValue, Value: t} }

func (r ReturnType) String() string {
	switch r.Kind {
	case RVoid:
		return "Void"
	case RNoReturn:
		return "NoReturn"
	case RValue:
		return r.Value.String()
	default:
		return "ReturnType(?)"
	}
}

// BestUnion combines two ReturnTypes arising from sibling branches (e.g.
// the arms of an `if`): noreturn yields to anything more specific, and two
// concrete values must agree. This generalizes the rule that an `if`'s
// type comes from its first branch, tolerating noreturn branches without
// requiring them to match.
func BestUnion(a, b ReturnType) (ReturnType, bool) {
	if a.Kind == RNoReturn {
		return b, true
	}
	if b.Kind == RNoReturn {
		return a, true
	}
	if a.Kind != b.Kind {
		return ReturnType{}, false
	}
	if a.Kind == RValue && a.Value != b.Value {
		return ReturnType{}, false
	}
	return a, true
}

// FunctionType is a callable signature: ordered parameter types plus a
// return type. Both imported and user-defined functions share this type.
type FunctionType struct {
	Parameters []Type
	Return     ReturnType
}
