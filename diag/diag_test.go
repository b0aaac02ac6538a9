package diag

import (
	"bytes"
	"strings"
	"testing"

	"masmlint/span"
)

func TestSinkHasErrorsIgnoresWarnings(t *testing.T) {
	s := NewSink()
	s.AddDiagnostic(Warnf(TypeReturnsZero, Label{}, "just a warning"))
	if s.HasErrors() {
		t.Fatalf("HasErrors() = true with only a warning present")
	}
	s.AddDiagnostic(Errorf(UndefinedSymbol, Label{}, "boom"))
	if !s.HasErrors() {
		t.Fatalf("HasErrors() = false with an Error diagnostic present")
	}
}

func TestCancelledDiagnosticsAreSkipped(t *testing.T) {
	s := NewSink()
	d := Errorf(UndefinedSymbol, Label{}, "speculative")
	s.AddDiagnostic(d)
	d.Cancel()
	if s.HasErrors() {
		t.Errorf("HasErrors() = true, cancelled diagnostic should not count")
	}
	if got := len(s.Diagnostics()); got != 0 {
		t.Errorf("Diagnostics() returned %d entries, want 0 after cancel", got)
	}
}

func TestGetLastDiagnostic(t *testing.T) {
	s := NewSink()
	if s.GetLastDiagnostic() != nil {
		t.Fatalf("GetLastDiagnostic() on empty sink should be nil")
	}
	first := Errorf(UndefinedSymbol, Label{}, "first")
	second := Errorf(UndefinedSymbol, Label{}, "second")
	s.AddDiagnostic(first)
	s.AddDiagnostic(second)
	if s.GetLastDiagnostic() != second {
		t.Errorf("GetLastDiagnostic() did not return the most recently added diagnostic")
	}
}

func TestEmitJSONEmptySinkPrintsEmptyArray(t *testing.T) {
	sm := span.NewSourceMap()
	sm.NewSourceFile("t.asm", "MOV EAX, 1\n")
	s := NewSink()
	var buf bytes.Buffer
	if err := s.EmitJSON(sm, &buf); err != nil {
		t.Fatalf("EmitJSON returned an error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("EmitJSON() on an empty sink = %q, want \"[]\"", got)
	}
}

func TestEmitJSONIncludesCodeAndLocation(t *testing.T) {
	sm := span.NewSourceMap()
	f := sm.NewSourceFile("t.asm", "MOV EAX, 1\n")
	s := NewSink()
	sp := span.New(f.StartPos, f.StartPos+3, span.RootContext)
	s.AddDiagnostic(Errorf(UndefinedSymbol, Label{Span: sp, Message: "here"}, "undefined symbol %q", "V"))

	var buf bytes.Buffer
	if err := s.EmitJSON(sm, &buf); err != nil {
		t.Fatalf("EmitJSON returned an error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"code": "UNDEFINED_SYMBOL"`, `"line": 1`, `"col": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("EmitJSON() output missing %q, got:\n%s", want, out)
		}
	}
}

func TestEmitTextualReportContainsHeaderAndLocation(t *testing.T) {
	sm := span.NewSourceMap()
	f := sm.NewSourceFile("t.asm", "MOV EAX, V\n")
	s := NewSink()
	sp := span.New(f.StartPos+9, f.StartPos+10, span.RootContext)
	s.AddDiagnostic(Errorf(UndefinedSymbol, Label{Span: sp}, "undefined symbol %q", "V").
		WithNote("declare %q before use", "V"))

	var buf bytes.Buffer
	if err := s.Emit(sm, &buf, false); err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `error: undefined symbol "V"`) {
		t.Errorf("Emit() header = %q, want it to start with the error message", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "--> t.asm:1:10") {
		t.Errorf("Emit() output missing location line, got:\n%s", out)
	}
	if !strings.Contains(out, "note: declare \"V\" before use") {
		t.Errorf("Emit() output missing note line, got:\n%s", out)
	}
}

func TestLevelStrings(t *testing.T) {
	cases := map[Level]string{Error: "error", Warning: "warning", Note: "note"}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
