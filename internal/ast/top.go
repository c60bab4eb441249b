package ast

import "github.com/cwbudde/go-wac/internal/types"

// TopDecl is the tagged variant for one top-level declaration: an import,
// a global var, or a function.
type TopDecl interface {
	Span() Span
	topDeclNode()
}

// Param is one function parameter: a name plus its declared type.
type Param struct {
	Name string
	Type types.Type
}

// ImportDecl is `import fn "mod" "name" alias (T1, T2) RET`.
type ImportDecl struct {
	base
	Module string
	Extern string
	Alias  string
	Params []types.Type
	Return types.ReturnType
}

func (*ImportDecl) topDeclNode() {}

func NewImportDecl(span Span, module, extern, alias string, params []types.Type, ret types.ReturnType) *ImportDecl {
	return &ImportDecl{base{span}, module, extern, alias, params, ret}
}

// VarDecl is a top-level `var [pub] NAME TYPE? = EXPR`. It wraps the same
// Decl node used for local `var` statements so the translator shares one
// code path for both, distinguished only by where it appears.
type VarDecl struct {
	*Decl
}

func (*VarDecl) topDeclNode() {}

func NewVarDecl(d *Decl) *VarDecl { return &VarDecl{d} }

// FuncDecl is `fn [pub] NAME (p1 T1, p2 T2) RET { BODY }`.
type FuncDecl struct {
	base
	Name   string
	Pub    bool
	Params []Param
	Return types.ReturnType
	Body   *Block
}

func (*FuncDecl) topDeclNode() {}

func NewFuncDecl(span Span, name string, pub bool, params []Param, ret types.ReturnType, body *Block) *FuncDecl {
	return &FuncDecl{base{span}, name, pub, params, ret, body}
}

// Program is a whole parsed file: the ordered list of top-level
// declarations in source order, which is exactly the order global
// initializers run in. The translator keeps one Program per source file;
// the prelude is WAT text and is never parsed into one.
type Program struct {
	Decls []TopDecl
}
