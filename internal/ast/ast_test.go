package ast

import "testing"

func testSpan() Span {
	src := &Source{Name: "t", Data: "12345"}
	return Span{Source: src, Start: 0, End: 1}
}

func TestSpanJoinTakesMinAndMax(t *testing.T) {
	src := &Source{Name: "t", Data: "0123456789"}
	a := Span{Source: src, Start: 2, End: 4}
	b := Span{Source: src, Start: 1, End: 6}
	j := a.Join(b)
	if j.Start != 1 || j.End != 6 {
		t.Fatalf("got [%d,%d), want [1,6)", j.Start, j.End)
	}
}

func TestSpanUptoKeepsOwnStart(t *testing.T) {
	src := &Source{Name: "t", Data: "0123456789"}
	a := Span{Source: src, Start: 2, End: 4}
	b := Span{Source: src, Start: 5, End: 9}
	u := a.Upto(b)
	if u.Start != 2 || u.End != 9 {
		t.Fatalf("got [%d,%d), want [2,9)", u.Start, u.End)
	}
}

func TestNodesCarryTheirSpan(t *testing.T) {
	sp := testSpan()
	nodes := []Expr{
		NewBoolLit(sp, true),
		NewIntLit(sp, 42),
		NewFloatLit(sp, 3.14),
		NewStringLit(sp, "hi"),
		NewGet(sp, "x"),
		NewBlock(sp, nil),
	}
	for _, n := range nodes {
		if n.Span() != sp {
			t.Errorf("%T: span mismatch", n)
		}
	}
}

func TestIfWithNoElseGetsEmptyElseOfSameSpan(t *testing.T) {
	sp := testSpan()
	branch := IfBranch{Cond: NewBoolLit(sp, true), Body: NewBlock(sp, nil)}
	stmt := NewIf(sp, []IfBranch{branch}, NewBlock(sp, nil))
	if len(stmt.Else.Exprs) != 0 {
		t.Fatalf("expected empty else block")
	}
	if stmt.Else.Span() != sp {
		t.Fatalf("expected else block to share the if's span when synthesized")
	}
}

func TestBinaryOpString(t *testing.T) {
	cases := map[BinaryOp]string{Add: "+", TruncDiv: "//", Is: "is", IsNot: "is not", And: "and"}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
