package translator

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

func compile(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	s := &ast.Source{Name: "t.wac", Data: src}
	out, err := Translate([]*ast.Source{s}, opts...)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	return out
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	s := &ast.Source{Name: "t.wac", Data: src}
	_, err := Translate([]*ast.Source{s})
	if err == nil {
		t.Fatalf("expected a translate error, got none")
	}
	return err
}

func TestTranslateIdentityFunction(t *testing.T) {
	out := compile(t, `fn pub id(x i32) i32 { x }`)
	if !strings.Contains(out, `(func $f_id`) {
		t.Fatalf("missing function:\n%s", out)
	}
	if !strings.Contains(out, `(export "f_id" (func $f_id))`) {
		t.Fatalf("missing export:\n%s", out)
	}
	snaps.MatchSnapshot(t, "identity", out)
}

// Globals initialize in declaration order.
func TestTranslateGlobalInitOrder(t *testing.T) {
	out := compile(t, "var a i32 = 1\nvar b i32 = a + 2\nfn pub main() i32 { b }")
	aInit := strings.Index(out, "$g_a")
	bInit := strings.Index(out, "$g_b")
	if aInit < 0 || bInit < 0 {
		t.Fatalf("missing global refs:\n%s", out)
	}
	startBody := out[strings.Index(out, "$__rt_start"):]
	if strings.Index(startBody, "global.set $g_a") > strings.Index(startBody, "global.set $g_b") {
		t.Fatalf("expected a's initializer before b's in start body:\n%s", startBody)
	}
	snaps.MatchSnapshot(t, "global-init-order", out)
}

// `and` desugars so a false left operand guards the call statically; this
// checks the guard structure, not runtime behavior.
func TestTranslateShortCircuitGuardsCall(t *testing.T) {
	out := compile(t, "fn die() noreturn { while true {} }\nfn pub main() bool { false and die() }")
	mainIdx := strings.Index(out, "(func $f_main")
	if mainIdx < 0 {
		t.Fatalf("missing main:\n%s", out)
	}
	mainBody := out[mainIdx:]
	ifIdx := strings.Index(mainBody, "(if")
	callIdx := strings.Index(mainBody, "(call $f_die)")
	if ifIdx < 0 || callIdx < 0 || callIdx < ifIdx {
		t.Fatalf("expected the die() call nested inside an if guard:\n%s", out)
	}
}

// A string literal interns with refcnt 1, and pushing it onto the stack
// retains it so the caller's eventual release brings it back down to the
// interned refcnt rather than freeing it.
func TestTranslateStringLiteralInternsWithRefcountOne(t *testing.T) {
	out := compile(t, `fn pub main() str { "hi" }`)
	if !strings.Contains(out, `\01\00\00\00\02\00\00\00hi`) {
		t.Fatalf("expected refcnt=1 len=2 \"hi\" data entry:\n%s", out)
	}
	if !strings.Contains(out, "(call $f___WAC_str_retain)") {
		t.Fatalf("expected the literal push to retain the interned string:\n%s", out)
	}
}

// List literal elements box to their guessed types.
func TestTranslateListLiteralBoxesEachElement(t *testing.T) {
	out := compile(t, `fn pub main() list { [1, 2.5, true] }`)
	if strings.Count(out, "(call $f___new_list)") == 0 {
		t.Fatalf("expected a new_list call:\n%s", out)
	}
	if strings.Count(out, "(call $f___list_push_raw_no_retain)") != 3 {
		t.Fatalf("expected 3 pushes:\n%s", out)
	}
	if !strings.Contains(out, "(global.get $rt_tag_i32)") || !strings.Contains(out, "(global.get $rt_tag_f32)") || !strings.Contains(out, "(global.get $rt_tag_bool)") {
		t.Fatalf("expected all three element tags boxed:\n%s", out)
	}
}

func TestTranslateTypeErrorOnFloatWhereI32Expected(t *testing.T) {
	err := compileErr(t, `fn f() i32 { 1.0 }`)
	if !strings.Contains(err.Error(), "Expected I32, but got F32") {
		t.Fatalf("got %v", err)
	}
}

func TestTranslateConflictingDefinitions(t *testing.T) {
	err := compileErr(t, "fn f() i32 { 1 }\nfn f() i32 { 2 }")
	if !strings.Contains(err.Error(), "Conflicting definitions") {
		t.Fatalf("got %v", err)
	}
}

func TestTranslateUndeclaredNameIsTypeError(t *testing.T) {
	err := compileErr(t, "fn f() i32 { y }")
	if !strings.Contains(err.Error(), "undeclared name") {
		t.Fatalf("got %v", err)
	}
}

func TestTranslateCallingUnknownFunctionReportsNotFound(t *testing.T) {
	err := compileErr(t, "fn f() i32 { g() }")
	if !strings.Contains(err.Error(), "Function g NotFound") {
		t.Fatalf("got %v", err)
	}
}

func TestTranslateReassignmentReleasesOldString(t *testing.T) {
	out := compile(t, `fn pub main() void { var s str = "a"
s = "b" }`)
	if strings.Count(out, "(call $f___WAC_str_release)") < 1 {
		t.Fatalf("expected at least one string release on reassignment:\n%s", out)
	}
}

func TestTranslateWhileLoopEmitsBlockLoopBrIf(t *testing.T) {
	out := compile(t, "fn pub main() void { var i i32 = 0\nwhile i < 10 { i = i + 1 } }")
	if !strings.Contains(out, "(block $lbl_brk_") || !strings.Contains(out, "(loop $lbl_cont_") {
		t.Fatalf("expected block/loop pair:\n%s", out)
	}
}

func TestTranslateImportedFunctionIsCallable(t *testing.T) {
	out := compile(t, `import fn "env" "puts" puts(i32) i32
fn pub main() i32 { puts(0) }`)
	if !strings.Contains(out, `(import "env" "puts" (func $f_puts (param i32) (result i32)))`) {
		t.Fatalf("missing import:\n%s", out)
	}
	if !strings.Contains(out, "(call $f_puts)") {
		t.Fatalf("missing call:\n%s", out)
	}
}

func TestTranslateWithCallTracingReservesStackRegion(t *testing.T) {
	out := compile(t, `fn pub main() i32 { 1 }`, WithCallTracing(true))
	if !strings.Contains(out, "$f___WAC_stack_overflow") {
		t.Fatalf("expected call-tracing prelude fragment:\n%s", out)
	}
	// ReservedBytes (2048) + prelude.StackBytes (65536); `1` interns no data.
	if !strings.Contains(out, "(global $rt_heap_start (mut i32) (i32.const 67584))") {
		t.Fatalf("expected the heap to start past the reserved stack region:\n%s", out)
	}
}
