package types

import "testing"

func TestWasmLowering(t *testing.T) {
	cases := map[Type]WasmType{
		I32: WasmI32, Bool: WasmI32, TypeType: WasmI32, String: WasmI32, List: WasmI32,
		I64: WasmI64, Id: WasmI64,
		F32: WasmF32,
		F64: WasmF64,
	}
	for t1, want := range cases {
		if got := t1.Wasm(); got != want {
			t.Errorf("%s.Wasm() = %s, want %s", t1, got, want)
		}
	}
}

func TestHeap(t *testing.T) {
	for _, ht := range []Type{String, List} {
		if !ht.Heap() {
			t.Errorf("%s should be heap", ht)
		}
	}
	for _, nht := range []Type{I32, I64, F32, F64, Bool, TypeType, Id} {
		if nht.Heap() {
			t.Errorf("%s should not be heap", nht)
		}
	}
}

func TestCommonType(t *testing.T) {
	if ct, ok := CommonType(I32, I32); !ok || ct != I32 {
		t.Fatalf("CommonType(I32,I32) = %v,%v", ct, ok)
	}
	if ct, ok := CommonType(I32, F32); !ok || ct != F32 {
		t.Fatalf("CommonType(I32,F32) = %v,%v", ct, ok)
	}
	if ct, ok := CommonType(F32, I32); !ok || ct != F32 {
		t.Fatalf("CommonType(F32,I32) = %v,%v", ct, ok)
	}
	if _, ok := CommonType(I32, Bool); ok {
		t.Fatalf("CommonType(I32,Bool) should fail")
	}
	if _, ok := CommonType(String, List); ok {
		t.Fatalf("CommonType(String,List) should fail")
	}
}

func TestBestUnion(t *testing.T) {
	if rt, ok := BestUnion(NoReturnType(), ValueType(I32)); !ok || rt.Kind != RValue || rt.Value != I32 {
		t.Fatalf("BestUnion(noreturn, I32) = %v,%v", rt, ok)
	}
	if rt, ok := BestUnion(ValueType(I32), NoReturnType()); !ok || rt.Kind != RValue || rt.Value != I32 {
		t.Fatalf("BestUnion(I32, noreturn) = %v,%v", rt, ok)
	}
	if _, ok := BestUnion(ValueType(I32), ValueType(F32)); ok {
		t.Fatalf("BestUnion(I32, F32) should fail, no implicit widening across branches")
	}
	if rt, ok := BestUnion(Void(), Void()); !ok || rt.Kind != RVoid {
		t.Fatalf("BestUnion(void, void) = %v,%v", rt, ok)
	}
}

func TestByNameCoversEveryValueKeyword(t *testing.T) {
	want := []string{"bool", "i32", "i64", "f32", "f64", "type", "str", "list", "id"}
	if len(ByName) != len(want) {
		t.Fatalf("ByName has %d entries, want %d", len(ByName), len(want))
	}
	for _, name := range want {
		if _, ok := ByName[name]; !ok {
			t.Errorf("ByName missing %q", name)
		}
	}
}

func TestReturnTypeString(t *testing.T) {
	if s := Void().String(); s != "Void" {
		t.Errorf("Void().String() = %q", s)
	}
	if s := NoReturnType().String(); s != "NoReturn" {
		t.Errorf("NoReturnType().String() = %q", s)
	}
	if s := ValueType(F32).String(); s != "F32" {
		t.Errorf("ValueType(F32).String() = %q", s)
	}
}
