package span

import "testing"

func TestNewSourceFileOffsetsAreContiguous(t *testing.T) {
	sm := NewSourceMap()
	a := sm.NewSourceFile("a.asm", "abc\n")
	b := sm.NewSourceFile("b.asm", "xyz\n")

	if a.StartPos != 0 {
		t.Errorf("first file StartPos = %d, want 0", a.StartPos)
	}
	if b.StartPos != a.EndPos() {
		t.Errorf("second file StartPos = %d, want %d", b.StartPos, a.EndPos())
	}
}

func TestSpanToLocation(t *testing.T) {
	sm := NewSourceMap()
	f := sm.NewSourceFile("test.asm", "MOV EAX, 1\nADD EAX, 2\n")

	s := New(f.StartPos+11, f.StartPos+14, RootContext) // "ADD" on line 2
	loc, ok := sm.SpanToLocation(s)
	if !ok {
		t.Fatalf("SpanToLocation returned ok=false")
	}
	if loc.Path != "test.asm" || loc.Line != 2 || loc.Col != 1 {
		t.Errorf("SpanToLocation = %+v, want {test.asm 2 1}", loc)
	}
}

func TestSpanToSnippet(t *testing.T) {
	sm := NewSourceMap()
	f := sm.NewSourceFile("test.asm", "first\nsecond\n")

	s := New(f.StartPos+6, f.StartPos+12, RootContext)
	line, ok := sm.SpanToSnippet(s)
	if !ok || line != "second" {
		t.Errorf("SpanToSnippet() = %q, %v, want %q, true", line, ok, "second")
	}
}

func TestSpanText(t *testing.T) {
	sm := NewSourceMap()
	f := sm.NewSourceFile("test.asm", "MOV EAX, 1\n")
	s := New(f.StartPos, f.StartPos+3, RootContext)
	if got := sm.SpanText(s); got != "MOV" {
		t.Errorf("SpanText() = %q, want %q", got, "MOV")
	}
}

func TestLookupSourceFileOutOfRange(t *testing.T) {
	sm := NewSourceMap()
	sm.NewSourceFile("a.asm", "x\n")
	if f := sm.LookupSourceFile(1000); f != nil {
		t.Errorf("LookupSourceFile(1000) = %v, want nil", f)
	}
}
