package sink

import "testing"

func TestWriteAppendsInOrder(t *testing.T) {
	s := New()
	s.Write("a")
	s.Write("b")
	if got := s.Get(); got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestSpawnReservesAPositionFilledLater(t *testing.T) {
	s := New()
	s.Write("header\n")
	locals := s.Spawn()
	s.Write("body\n")
	epilogue := s.Spawn()
	s.Write("footer\n")

	// populate the reserved slots after the fact
	locals.Write("(local $x i32)\n")
	epilogue.Write("(local.set $x (i32.const 0))\n")

	want := "header\n(local $x i32)\nbody\n(local.set $x (i32.const 0))\nfooter\n"
	if got := s.Get(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNestedSpawn(t *testing.T) {
	root := New()
	child := root.Spawn()
	grandchild := child.Spawn()
	grandchild.Write("leaf")
	child.Write("mid")
	root.Write("top")
	if got := root.Get(); got != "leafmidtop" {
		t.Fatalf("got %q", got)
	}
}

func TestWritelnAddsNewline(t *testing.T) {
	s := New()
	s.Writeln("line")
	if got := s.Get(); got != "line\n" {
		t.Fatalf("got %q", got)
	}
}
