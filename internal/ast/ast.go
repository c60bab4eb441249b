package ast

import "github.com/cwbudde/go-wac/internal/types"

// Expr is the single tagged-variant interface every expression node
// implements. Statements are just expressions whose value is discarded
// in Block position: there is no separate Statement type.
type Expr interface {
	Span() Span
	exprNode()
}

type base struct{ span Span }

func (b base) Span() Span { return b.span }
func (base) exprNode()    {}

// NewBase constructs the embeddable span-carrying base every node needs.
func NewBase(span Span) base { return base{span: span} }

// BoolLit is a boolean literal.
type BoolLit struct {
	base
	Value bool
}

func NewBoolLit(span Span, v bool) *BoolLit { return &BoolLit{base{span}, v} }

// IntLit is an integer literal, stored as the parsed i64 value.
type IntLit struct {
	base
	Value int64
}

func NewIntLit(span Span, v int64) *IntLit { return &IntLit{base{span}, v} }

// FloatLit is a floating-point literal, stored as the parsed f64 value.
type FloatLit struct {
	base
	Value float64
}

func NewFloatLit(span Span, v float64) *FloatLit { return &FloatLit{base{span}, v} }

// StringLit is a (possibly raw) string literal with escapes already
// resolved by the lexer.
type StringLit struct {
	base
	Value string
}

func NewStringLit(span Span, v string) *StringLit { return &StringLit{base{span}, v} }

// ListLit is a `[e1, ..., eN]` list literal.
type ListLit struct {
	base
	Elements []Expr
}

func NewListLit(span Span, elems []Expr) *ListLit { return &ListLit{base{span}, elems} }

// Get reads a variable or zero-arg name reference.
type Get struct {
	base
	Name string
}

func NewGet(span Span, name string) *Get { return &Get{base{span}, name} }

// Set assigns to an existing variable. The parser rewrites `NAME = EXPR`
// into this form by inspecting the left operand of `=`.
type Set struct {
	base
	Name  string
	Value Expr
}

func NewSet(span Span, name string, value Expr) *Set { return &Set{base{span}, name, value} }

// Decl introduces a new binding: `var [pub] NAME TYPE? = EXPR`.
// DeclaredType is nil when the type is to be inferred from Value. Pub is
// only meaningful for top-level globals.
type Decl struct {
	base
	Name         string
	DeclaredType *types.Type
	Value        Expr
	Pub          bool
}

func NewDecl(span Span, name string, declared *types.Type, value Expr, pub bool) *Decl {
	return &Decl{base{span}, name, declared, value, pub}
}

// Block is a brace-delimited sequence of expressions; its value is that of
// its last entry, or void if empty.
type Block struct {
	base
	Exprs []Expr
}

func NewBlock(span Span, exprs []Expr) *Block { return &Block{base{span}, exprs} }

// Call invokes a named function (user-defined or imported) with the given
// arguments.
type Call struct {
	base
	Name string
	Args []Expr
}

func NewCall(span Span, name string, args []Expr) *Call { return &Call{base{span}, name, args} }

// IfBranch is one `cond { body }` arm of an If chain.
type IfBranch struct {
	Cond Expr
	Body *Block
}

// If is an ordered chain of (cond, body) branches plus a trailing Else
// block. A bare `if` with no `else` gets an empty Else block of the same
// span.
type If struct {
	base
	Branches []IfBranch
	Else     *Block
}

func NewIf(span Span, branches []IfBranch, els *Block) *If {
	return &If{base{span}, branches, els}
}

// While is a condition-tested loop: `while E { BODY }`.
type While struct {
	base
	Cond Expr
	Body *Block
}

func NewWhile(span Span, cond Expr, body *Block) *While { return &While{base{span}, cond, body} }

// BinaryOp enumerates every binary operator the parser can produce,
// including the keyword-spelled ones (`and`, `or`, `is`, `is not`) that the
// lexer does not tokenize specially.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div      // /
	TruncDiv // //
	Rem      // %
	BitAnd   // &
	BitOr    // |
	BitXor   // ^
	Shl      // <<
	Shr      // >>
	Lt
	Le
	Gt
	Ge
	Eq    // ==
	Ne    // !=
	Is    // is
	IsNot // is not
	And   // short-circuit, desugared by the parser into If
	Or    // short-circuit, desugared by the parser into If
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case TruncDiv:
		return "//"
	case Rem:
		return "%"
	case BitAnd:
		return "&"
	case BitOr:
		return "|"
	case BitXor:
		return "^"
	case Shl:
		return "<<"
	case Shr:
		return ">>"
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Is:
		return "is"
	case IsNot:
		return "is not"
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "BinaryOp(?)"
	}
}

// BinOp is a left-associative binary operator application.
type BinOp struct {
	base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func NewBinOp(span Span, op BinaryOp, left, right Expr) *BinOp {
	return &BinOp{base{span}, op, left, right}
}

// UnaryOp is a prefix operator: `-E`, `+E`, `not E`.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Pos
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Pos:
		return "+"
	case Not:
		return "not"
	default:
		return "UnaryOp(?)"
	}
}

// UnOp is a prefix unary operator application.
type UnOp struct {
	base
	Op      UnaryOp
	Operand Expr
}

func NewUnOp(span Span, op UnaryOp, operand Expr) *UnOp { return &UnOp{base{span}, op, operand} }

// AssertType forces Expr to be translated with an expected type of Type,
// spelled postfix as `EXPR as TYPE`. It re-enters translation with the
// asserted type as the expected type rather than emitting a cast
// instruction of its own: whatever auto_cast the inner expression already
// performs does the rest.
type AssertType struct {
	base
	Type types.Type
	Expr Expr
}

func NewAssertType(span Span, t types.Type, expr Expr) *AssertType {
	return &AssertType{base{span}, t, expr}
}

// CStr is the `$cstr("...")` intrinsic: interns the literal plus a NUL
// terminator into the data segment and yields its address as i32.
type CStr struct {
	base
	Value string
}

func NewCStr(span Span, value string) *CStr { return &CStr{base{span}, value} }

// Asm is the `$asm([args...], type, "wat text")` intrinsic: evaluates args
// in their guessed types, emits the literal WAT text verbatim, then
// auto_casts from Type to the expression's expected type. Type is nil for
// a `void`-typed asm block.
type Asm struct {
	base
	Args []Expr
	Type *types.Type
	Code string
}

func NewAsm(span Span, args []Expr, t *types.Type, code string) *Asm {
	return &Asm{base{span}, args, t, code}
}

// MemOp is one of the `$read1/2/4/8` / `$write1/2/4/8` intrinsics.
// Width is 1, 2, 4, or 8 bytes; Write is false for $read, true for $write.
type MemOp struct {
	base
	Width  int
	Write  bool
	Addr   Expr
	Value  Expr // nil for a read
	Offset uint32
}

func NewMemOp(span Span, width int, write bool, addr, value Expr, offset uint32) *MemOp {
	return &MemOp{base{span}, width, write, addr, value, offset}
}
