package translator

import (
	"fmt"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/errors"
	"github.com/cwbudde/go-wac/internal/lexer"
	"github.com/cwbudde/go-wac/internal/parser"
	"github.com/cwbudde/go-wac/internal/scope"
	"github.com/cwbudde/go-wac/internal/types"
)

// Translator holds the state threaded through one whole-program
// translation: the output sink tree and the single GlobalScope shared by
// every function.
type Translator struct {
	out         *Out
	global      *scope.GlobalScope
	callTracing bool
}

// Option configures a Translate call.
type Option func(*Translator)

// WithCallTracing turns on the optional call-tracing mode, appending
// prelude.CallTracing (the overflow trap) to the module and reserving its
// stack region in the data segment. Calls are still emitted as a plain
// `call $f_NAME`: nothing is pushed onto the region and no overflow check
// runs.
func WithCallTracing(enabled bool) Option {
	return func(t *Translator) { t.callTracing = enabled }
}

// Translate is the entry point: it parses every source, resolves names
// across a two-pass global scope (function signatures first, so forward
// references resolve; then bodies, in file order), and returns the
// assembled WAT module text.
func Translate(sources []*ast.Source, opts ...Option) (string, error) {
	tr := &Translator{global: scope.NewGlobalScope()}
	for _, opt := range opts {
		opt(tr)
	}
	tr.out = NewOut(tr.callTracing)
	tr.declareBuiltinTypeConstants()

	var programs []*ast.Program
	for _, src := range sources {
		l := lexer.New(src, src.Name)
		p := parser.New(l, src.Name, src.Data)
		prog := p.ParseProgram()
		if lerrs := l.Errors(); len(lerrs) > 0 {
			return "", lerrs[0]
		}
		if perr := p.Err(); perr != nil {
			return "", perr
		}
		programs = append(programs, prog)
	}

	firstSpan := make(map[string]ast.Span)
	claim := func(name string, span ast.Span) *errors.CompilerError {
		if first, ok := firstSpan[name]; ok {
			return errors.NewConflict(first.Pos(), span.Pos(), span.Source.Data, span.Source.Name, name)
		}
		firstSpan[name] = span
		return nil
	}

	// Pass 1: register every function signature (imported and defined) so
	// forward references resolve regardless of declaration order.
	for _, prog := range programs {
		for _, decl := range prog.Decls {
			switch d := decl.(type) {
			case *ast.ImportDecl:
				if err := claim(d.Alias, d.Span()); err != nil {
					return "", err
				}
				tr.global.DeclareFunction(d.Alias, types.FunctionType{Parameters: d.Params, Return: d.Return})
				tr.emitImport(d)
			case *ast.FuncDecl:
				if err := claim(d.Name, d.Span()); err != nil {
					return "", err
				}
				tr.global.DeclareFunction(d.Name, types.FunctionType{Parameters: paramTypes(d.Params), Return: d.Return})
			}
		}
	}

	// Pass 2: walk declarations again in file order, now registering
	// globals (whose initializer type-inference depends on everything
	// declared earlier in sequence) and translating function bodies.
	for _, prog := range programs {
		for _, decl := range prog.Decls {
			switch d := decl.(type) {
			case *ast.VarDecl:
				if err := claim(d.Name, d.Span()); err != nil {
					return "", err
				}
				if err := tr.translateGlobalVar(d); err != nil {
					return "", err
				}
			case *ast.FuncDecl:
				if err := tr.translateFunc(d); err != nil {
					return "", err
				}
			}
		}
	}

	return tr.out.Finish(), nil
}

func paramTypes(params []ast.Param) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// declareBuiltinTypeConstants predeclares the type-keyword constants
// (`i32`, `f32`, ...) as `type`-valued names.
func (tr *Translator) declareBuiltinTypeConstants() {
	for name := range types.ByName {
		tr.global.DeclareConstant(name, types.TypeType, nil)
	}
}

func (tr *Translator) emitImport(d *ast.ImportDecl) {
	var params string
	for _, p := range d.Params {
		params += fmt.Sprintf(" (param %s)", p.Wasm())
	}
	result := ""
	if d.Return.Kind == types.RValue {
		result = fmt.Sprintf(" (result %s)", d.Return.Value.Wasm())
	}
	tr.out.Imports.Writeln(fmt.Sprintf(
		`(import %q %q (func $f_%s%s%s))`,
		d.Module, d.Extern, d.Alias, params, result))
}

// translateGlobalVar registers one top-level `var` and emits its
// initializer into the synthetic start function, in declaration order.
func (tr *Translator) translateGlobalVar(d *ast.VarDecl) *errors.CompilerError {
	var t types.Type
	if d.DeclaredType != nil {
		t = *d.DeclaredType
	} else {
		// Global initializers see every earlier global already registered,
		// since this pass walks declarations in file order.
		ls := scope.NewLocalScope(tr.global)
		guessed, err := tr.guessType(ls, d.Value)
		if err != nil {
			return err
		}
		t = guessed
	}

	tr.out.GVars.Writeln(fmt.Sprintf("(global $g_%s (mut %s) (%s.const 0))", d.Name, t.Wasm(), t.Wasm()))
	tr.global.DeclareGlobal(d.Name, t, d.Value, d.Pub)

	ls := scope.NewLocalScope(tr.global)
	if _, err := tr.translateExpr(ls, tr.out.Start, d.Value, valueExp(t)); err != nil {
		return err
	}
	tr.out.Start.Writeln(fmt.Sprintf("(global.set $g_%s)", d.Name))
	return nil
}

// translateFunc translates one function declaration: spawn a body sink,
// declare parameters as locals, write the result clause, reserve
// locals-declaration/zero-init pre-sinks and an epilogue post-sink,
// translate the body, then populate the reserved sinks from what
// LocalScope collected and close the function.
func (tr *Translator) translateFunc(d *ast.FuncDecl) *errors.CompilerError {
	body := tr.out.Funcs.Spawn()
	body.Writeln(fmt.Sprintf("(func $f_%s", d.Name))

	ls := scope.NewLocalScope(tr.global)
	for _, p := range d.Params {
		dl := ls.Declare(p.Name, p.Type)
		body.Writeln(fmt.Sprintf("(param %s %s)", dl.WasmName, p.Type.Wasm()))
	}
	if d.Return.Kind == types.RValue {
		body.Writeln(fmt.Sprintf("(result %s)", d.Return.Value.Wasm()))
	}

	localsDecl := body.Spawn()
	localsInit := body.Spawn()

	exp := voidExp()
	if d.Return.Kind == types.RValue {
		exp = valueExp(d.Return.Value)
	}
	rt, err := tr.translateExpr(ls, body, d.Body, exp)
	if err != nil {
		return err
	}
	if d.Return.Kind == types.RValue && rt.Kind != types.RValue {
		return typeErr(d.Span(), d.Return.Value.String(), rt.String())
	}

	epilogue := body.Spawn()
	paramCount := len(d.Params)
	for i, dl := range ls.Locals {
		if i >= paramCount {
			localsDecl.Writeln(fmt.Sprintf("(local %s %s)", dl.WasmName, dl.Type.Wasm()))
			localsInit.Writeln(fmt.Sprintf("(local.set %s (%s.const 0))", dl.WasmName, dl.Type.Wasm()))
		}
		// Every local, parameters included, is released exactly once in
		// the epilogue regardless of return path.
		emitReleaseVarLocal(epilogue, dl)
	}

	body.Writeln(")")

	if d.Pub {
		tr.out.Exports.Writeln(fmt.Sprintf(`(export %q (func $f_%s))`, "f_"+d.Name, d.Name))
	}
	return nil
}
