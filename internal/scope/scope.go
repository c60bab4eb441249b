// Package scope implements the two symbol tables the translator consults:
// GlobalScope (functions, globals, constants) and LocalScope (a stack of
// block-level variable maps layered on top of a GlobalScope).
package scope

import (
	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/types"
)

// EntryKind tags what a name in scope refers to.
type EntryKind int

const (
	EntryLocal EntryKind = iota
	EntryGlobal
	EntryConstant
)

// Entry is what a name resolves to: a local/global variable's type, or a
// constant's type and compile-time value.
type Entry struct {
	Kind  EntryKind
	Type  types.Type
	Const ast.Expr // set only when Kind == EntryConstant
}

// GlobalVar records one `var` declaration at file scope, in the order it
// was declared; the synthetic start function runs initializers in this
// order.
type GlobalVar struct {
	Name  string
	Type  types.Type
	Value ast.Expr
	Pub   bool
}

// GlobalScope is the single global symbol table shared by every function
// being translated. Names are unique across the union of functions,
// varmap and constants; a second definition of an already-claimed name is
// a ConflictingDefinitions error, raised by the caller that detects it
// (internal/translator), not by GlobalScope itself.
type GlobalScope struct {
	Functions map[string]types.FunctionType
	Varmap    map[string]Entry
	Globals   []GlobalVar
}

// NewGlobalScope creates an empty GlobalScope.
func NewGlobalScope() *GlobalScope {
	return &GlobalScope{
		Functions: make(map[string]types.FunctionType),
		Varmap:    make(map[string]Entry),
	}
}

// Defined reports whether name is already claimed by a function, global,
// or constant.
func (g *GlobalScope) Defined(name string) bool {
	if _, ok := g.Functions[name]; ok {
		return true
	}
	_, ok := g.Varmap[name]
	return ok
}

// DeclareGlobal registers a global variable, appending it to the
// declaration-order list used for start-function init emission.
func (g *GlobalScope) DeclareGlobal(name string, t types.Type, value ast.Expr, pub bool) {
	g.Varmap[name] = Entry{Kind: EntryGlobal, Type: t}
	g.Globals = append(g.Globals, GlobalVar{Name: name, Type: t, Value: value, Pub: pub})
}

// DeclareConstant registers a compile-time constant (currently only the
// predeclared type-keyword constants: i32, f32, ...).
func (g *GlobalScope) DeclareConstant(name string, t types.Type, value ast.Expr) {
	g.Varmap[name] = Entry{Kind: EntryConstant, Type: t, Const: value}
}

// DeclareFunction registers a function (user-defined or imported)
// signature.
func (g *GlobalScope) DeclareFunction(name string, sig types.FunctionType) {
	g.Functions[name] = sig
}

// HelperLocal is a synthetic temporary the translator allocates for a
// lowering that needs scratch storage (e.g. the raw-dup pattern). Helper
// locals are keyed by a stable synthetic name; inserting the same name
// twice must observe the same type, LocalScope.HelperLocal asserts this.
type HelperLocal struct {
	Name  string
	Type  types.Type
	Local DeclaredLocal
}

// DeclaredLocal is one local the function body declared (including
// parameters), recorded in declaration order for prologue/epilogue
// emission.
type DeclaredLocal struct {
	Name     string
	WasmName string
	Type     types.Type
}

// LocalScope is the per-function symbol table: a stack of block-level
// variable maps, a reference back to GlobalScope for fallthrough lookups,
// counters for generated label IDs, and the ordered lists of declared and
// helper locals the translator's prologue/epilogue emission consumes.
type LocalScope struct {
	Global *GlobalScope

	frames      []map[string]DeclaredLocal
	Locals      []DeclaredLocal
	helpers     map[string]HelperLocal
	helperOrder []string
	nextLabel   uint32
	nextLocalID int
}

// NewLocalScope creates a LocalScope over the given GlobalScope, with one
// empty frame already pushed (the function body's outermost block).
func NewLocalScope(global *GlobalScope) *LocalScope {
	ls := &LocalScope{Global: global, helpers: make(map[string]HelperLocal)}
	ls.Push()
	return ls
}

// Push opens a new nested block/loop/function-body frame.
func (ls *LocalScope) Push() {
	ls.frames = append(ls.frames, make(map[string]DeclaredLocal))
}

// Pop closes the innermost frame.
func (ls *LocalScope) Pop() {
	ls.frames = ls.frames[:len(ls.frames)-1]
}

// Declare introduces a new local in the innermost frame, generating its
// wasm-side name `$l_<id>_<origname>` and recording it in declaration
// order for prologue/epilogue emission.
func (ls *LocalScope) Declare(name string, t types.Type) DeclaredLocal {
	id := ls.nextLocalID
	ls.nextLocalID++
	dl := DeclaredLocal{Name: name, WasmName: wasmLocalName(id, name), Type: t}
	ls.frames[len(ls.frames)-1][name] = dl
	ls.Locals = append(ls.Locals, dl)
	return dl
}

func wasmLocalName(id int, name string) string {
	return "$l_" + itoa(id) + "_" + name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Lookup resolves name by searching frames innermost-out, then falling
// through to GlobalScope.
func (ls *LocalScope) Lookup(name string) (Entry, bool) {
	for i := len(ls.frames) - 1; i >= 0; i-- {
		if dl, ok := ls.frames[i][name]; ok {
			return Entry{Kind: EntryLocal, Type: dl.Type}, true
		}
	}
	if e, ok := ls.Global.Varmap[name]; ok {
		return e, true
	}
	return Entry{}, false
}

// LookupLocal resolves name to its DeclaredLocal (wasm name included),
// searching frames innermost-out only — used once translation already
// knows the name is a local, e.g. to emit `local.get $l_0_x`.
func (ls *LocalScope) LookupLocal(name string) (DeclaredLocal, bool) {
	for i := len(ls.frames) - 1; i >= 0; i-- {
		if dl, ok := ls.frames[i][name]; ok {
			return dl, true
		}
	}
	return DeclaredLocal{}, false
}

// HelperLocal returns the synthetic temporary keyed by name, allocating it
// with type t on first use. A second call with the same name but a
// different type indicates a translator bug.
func (ls *LocalScope) HelperLocal(name string, t types.Type) DeclaredLocal {
	if h, ok := ls.helpers[name]; ok {
		if h.Type != t {
			panic("scope: helper local " + name + " requested with mismatched type")
		}
		return h.Local
	}
	dl := ls.Declare(name, t)
	ls.helpers[name] = HelperLocal{Name: name, Type: t, Local: dl}
	ls.helperOrder = append(ls.helperOrder, name)
	return dl
}

// NewLabelID returns a fresh, monotonically increasing label id, used to
// name WAT block/loop labels uniquely.
func (ls *LocalScope) NewLabelID() uint32 {
	id := ls.nextLabel
	ls.nextLabel++
	return id
}

