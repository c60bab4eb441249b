package scope

import (
	"testing"

	"github.com/cwbudde/go-wac/internal/types"
)

func TestDeclareAndLookupLocal(t *testing.T) {
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	ls.Declare("x", types.I32)

	e, ok := ls.Lookup("x")
	if !ok || e.Kind != EntryLocal || e.Type != types.I32 {
		t.Fatalf("got %+v, %v", e, ok)
	}
}

func TestLookupFallsThroughToGlobal(t *testing.T) {
	g := NewGlobalScope()
	g.DeclareGlobal("g", types.F32, nil, false)
	ls := NewLocalScope(g)

	e, ok := ls.Lookup("g")
	if !ok || e.Kind != EntryGlobal || e.Type != types.F32 {
		t.Fatalf("got %+v, %v", e, ok)
	}
}

func TestInnerFrameShadowsOuter(t *testing.T) {
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	ls.Declare("x", types.I32)
	ls.Push()
	ls.Declare("x", types.F64)

	dl, ok := ls.LookupLocal("x")
	if !ok || dl.Type != types.F64 {
		t.Fatalf("expected inner x to shadow outer, got %+v", dl)
	}
	ls.Pop()
	dl, ok = ls.LookupLocal("x")
	if !ok || dl.Type != types.I32 {
		t.Fatalf("expected outer x after pop, got %+v", dl)
	}
}

func TestWasmLocalNamesAreGeneratedAndDistinct(t *testing.T) {
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	a := ls.Declare("x", types.I32)
	b := ls.Declare("y", types.I32)
	if a.WasmName == b.WasmName {
		t.Fatalf("expected distinct wasm names, got %q twice", a.WasmName)
	}
	if a.WasmName != "$l_0_x" || b.WasmName != "$l_1_y" {
		t.Fatalf("got %q, %q", a.WasmName, b.WasmName)
	}
}

func TestHelperLocalIsStableAcrossRepeatedRequests(t *testing.T) {
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	a := ls.HelperLocal("__dup_i32", types.I32)
	b := ls.HelperLocal("__dup_i32", types.I32)
	if a.WasmName != b.WasmName {
		t.Fatalf("expected same helper local, got %q and %q", a.WasmName, b.WasmName)
	}
}

func TestHelperLocalPanicsOnTypeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched helper local type")
		}
	}()
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	ls.HelperLocal("__dup", types.I32)
	ls.HelperLocal("__dup", types.F32)
}

func TestLabelIDsAreMonotonic(t *testing.T) {
	g := NewGlobalScope()
	ls := NewLocalScope(g)
	a := ls.NewLabelID()
	b := ls.NewLabelID()
	if b != a+1 {
		t.Fatalf("got %d, %d", a, b)
	}
}


func TestGlobalDeclarationOrderPreserved(t *testing.T) {
	g := NewGlobalScope()
	g.DeclareGlobal("a", types.I32, nil, false)
	g.DeclareGlobal("b", types.I32, nil, false)
	if len(g.Globals) != 2 || g.Globals[0].Name != "a" || g.Globals[1].Name != "b" {
		t.Fatalf("got %+v", g.Globals)
	}
}
