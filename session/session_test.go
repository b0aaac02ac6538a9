package session

import (
	"testing"

	"masmlint/diag"
	"masmlint/symtab"
)

func diagnosticCodes(sink *diag.Sink) []diag.ErrorCode {
	ds := sink.Diagnostics()
	out := make([]diag.ErrorCode, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestScenarioByteArrayReferenceHasNoFixedSize(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\nV DB 1,2,3\n.CODE\nstart: MOV EAX, V\nEND start\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
	sym, ok := s.Symbols.FindName("V")
	if !ok {
		t.Fatalf("symbol V not found")
	}
	dv, ok := sym.(*symtab.DataVariableSymbol)
	if !ok {
		t.Fatalf("V = %#v, want *symtab.DataVariableSymbol", sym)
	}
	if dv.SizeOf != 3 || dv.LengthOf != 3 {
		t.Errorf("V SizeOf/LengthOf = %d/%d, want 3/3", dv.SizeOf, dv.LengthOf)
	}
}

func TestScenarioWordAndByteRegisterMismatch(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\nV DW 1\n.CODE\n MOV AL, V\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.OperandsDifferentSize {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.OperandsDifferentSize)
	}
}

func TestScenarioEspCannotShareAnAddressAmbiguously(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV [EAX + ESP], 1\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.TwoEspRegisters && ds[0].Code != diag.IncorrectIndexRegister {
		t.Errorf("diagnostic code = %v, want TWO_ESP_REGISTERS or INCORRECT_INDEX_REGISTER", ds[0].Code)
	}
}

func TestScenarioForwardReferenceBetweenDataVariables(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\n A DD B\n B DD 5\n.CODE\n MOV EAX, A\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
	for _, name := range []string{"A", "B"} {
		sym, ok := s.Symbols.FindName(name)
		if !ok {
			t.Fatalf("symbol %s not found", name)
		}
		dv := sym.(*symtab.DataVariableSymbol)
		if !dv.WasDefined() {
			t.Errorf("symbol %s should be fully defined after both passes", name)
		}
	}
}

func TestScenarioDivisionByZeroInConstantExpression(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV EAX, 1/0\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.DivisionByZeroInExpression {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.DivisionByZeroInExpression)
	}
}

func TestScenarioStructFieldAccessThroughDotOperator(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\n S STRUC\n F DD ?\n S ENDS\n X S <>\n.CODE\n MOV EAX, X.F\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioSizeAndLengthOfDupInitializer(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\n V DB 3 DUP(1), 2\n.CODE\n MOV EAX, SIZEOF V\n MOV EBX, LENGTHOF V\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
	sym, ok := s.Symbols.FindName("V")
	if !ok {
		t.Fatalf("symbol V not found")
	}
	dv := sym.(*symtab.DataVariableSymbol)
	// Total bytes: 3 DUP(1) contributes 3, the trailing `2` contributes 1.
	if dv.SizeOf != 4 || dv.LengthOf != 4 {
		t.Errorf("V SizeOf/LengthOf = %d/%d, want 4/4", dv.SizeOf, dv.LengthOf)
	}
	// SIZE/LENGTH describe only the first field, the `3 DUP(1)`: it expands
	// to 3 bytes, so its length (element count at one byte each) is 3 and
	// §8's law `SIZE == sizeof type × length of first initializer` gives
	// SIZE == 1 * 3 == 3.
	if dv.Size != 3 || dv.Length != 3 {
		t.Errorf("V Size/Length = %d/%d, want 3/3", dv.Size, dv.Length)
	}
}

func TestScenarioPopRequiresFourByteMemoryOrRegister(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n POP AL\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandSize {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandSize)
	}
}

func TestScenarioPopThirtyTwoBitRegisterIsFine(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n POP EAX\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioPopRejectsImmediateOperand(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n POP 5\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandKind {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandKind)
	}
}

func TestScenarioPushNonConstantRequiresFourBytes(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n PUSH AX\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandSize {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandSize)
	}
}

func TestScenarioPushSmallConstantIsFine(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n PUSH 1\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioDecRejectsImmediateOperand(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n DEC 5\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandKind {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandKind)
	}
}

func TestScenarioCallRejectsEquAliasOfALabel(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n L EQU target\n CALL L\n target: RET\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandKind {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandKind)
	}
}

func TestScenarioCallAcceptsALabelDirectly(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n CALL target\n target: RET\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioEqualDirectiveDefinesRedefinableConstant(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\nN = 4\nV DB N DUP(?)\n.CODE\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
	sym, ok := s.Symbols.FindName("V")
	if !ok {
		t.Fatalf("symbol V not found")
	}
	dv := sym.(*symtab.DataVariableSymbol)
	if dv.SizeOf != 4 {
		t.Errorf("V SizeOf = %d, want 4 (N = 4 repetitions of one byte)", dv.SizeOf)
	}
}

func TestScenarioShiftOperatorInsideParens(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV EAX, (1 SHL 2)\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioSmallImmediateFitsByteRegister(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV AL, 1\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioImmediateTooBigForByteRegister(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV AL, 300\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.ImmediateTooBig {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.ImmediateTooBig)
	}
}

func TestScenarioQwordOperandRejected(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\nQ DQ 1\n.CODE\n MOV EAX, Q\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.InvalidOperandSize {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.InvalidOperandSize)
	}
}

func TestScenarioConstantIndexedVariableIsMemory(t *testing.T) {
	// V[2] is implicit plus over (memory, memory-wrapped constant) and must
	// stay a plain memory operand, not an unfinished one.
	s := New()
	s.Run("t.asm", ".DATA\nV DB 1,2,3\n.CODE\n MOV AL, V[2]\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioBareRegisterSumMustBeBracketed(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\n MOV EAX, EBX + 4\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.UnfinishedMemoryOperand {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.UnfinishedMemoryOperand)
	}
}

func TestScenarioConstantMinusLabelRejected(t *testing.T) {
	s := New()
	s.Run("t.asm", ".CODE\nstart: MOV EAX, 5 - start\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	if ds[0].Code != diag.ExpressionMustBeConstant {
		t.Errorf("diagnostic code = %v, want %v", ds[0].Code, diag.ExpressionMustBeConstant)
	}
}

func TestScenarioDotOperatorForwardReferenceResolvesInPassTwo(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\n S STRUC\n F DD ?\n S ENDS\n.CODE\n MOV EAX, X.F\n.DATA\n X S <>\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
}

func TestScenarioRecordLayoutShiftsAndMasks(t *testing.T) {
	s := New()
	s.Run("t.asm", ".DATA\nR RECORD A:3, B:5\n.CODE\n MOV EAX, MASK R\nEND\n")

	if s.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagnosticCodes(s.Sink))
	}
	rec := mustFind(t, s, "R").(*symtab.RecordSymbol)
	if rec.Width != 8 || rec.Mask != 1<<7 {
		t.Errorf("record R width/mask = %d/%#x, want 8/%#x", rec.Width, rec.Mask, 1<<7)
	}
	a := mustFind(t, s, "A").(*symtab.RecordFieldSymbol)
	b := mustFind(t, s, "B").(*symtab.RecordFieldSymbol)
	// Shifts are assigned right-to-left: B, declared last, sits at bit 0.
	if b.Shift != 0 || a.Shift != 5 {
		t.Errorf("field shifts A/B = %d/%d, want 5/0", a.Shift, b.Shift)
	}
	if a.Mask != 1<<2 || b.Mask != 1<<4 {
		t.Errorf("field masks A/B = %#x/%#x, want %#x/%#x", a.Mask, b.Mask, 1<<2, 1<<4)
	}
}

func mustFind(t *testing.T, s *Session, name string) symtab.Symbol {
	t.Helper()
	sym, ok := s.Symbols.FindName(name)
	if !ok {
		t.Fatalf("symbol %s not found", name)
	}
	return sym
}

func TestRunAccumulatesDiagnosticsAcrossMultipleFiles(t *testing.T) {
	s := New()
	s.Run("first.asm", ".CODE\nMOV EAX, V\nEND\n")
	s.Run("second.asm", ".CODE\nMOV EBX, W\nEND\n")

	ds := s.Sink.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("expected 2 undefined-symbol diagnostics across both runs, got %d: %v", len(ds), diagnosticCodes(s.Sink))
	}
	for _, d := range ds {
		if d.Code != diag.UndefinedSymbol {
			t.Errorf("diagnostic code = %v, want %v", d.Code, diag.UndefinedSymbol)
		}
	}
}
