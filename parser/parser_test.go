package parser

import (
	"testing"

	"masmlint/ast"
	"masmlint/diag"
	"masmlint/lexer"
	"masmlint/token"
)

func parseOneExpr(t *testing.T, src string) (ast.Expr, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := lexer.New(src, 0, sink).Scan()
	p := New(toks, sink)
	return p.ParseExpression(), sink
}

func TestExpressionPrecedenceAdditiveOverMultiplicative(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), i.e. the top node is '+'.
	expr, sink := parseOneExpr(t, "1 + 2 * 3")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	bin, ok := expr.(*ast.BinaryOperator)
	if !ok || !bin.Op.Is("+") {
		t.Fatalf("top-level node = %#v, want a '+' BinaryOperator", expr)
	}
	rhs, ok := bin.Right.(*ast.BinaryOperator)
	if !ok || !rhs.Op.Is("*") {
		t.Fatalf("right-hand side = %#v, want a '*' BinaryOperator", bin.Right)
	}
}

func TestExpressionPTRParsesAsBinaryOperator(t *testing.T) {
	expr, sink := parseOneExpr(t, "DWORD PTR EAX")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	bin, ok := expr.(*ast.BinaryOperator)
	if !ok || !bin.Op.Is("PTR") {
		t.Fatalf("top-level node = %#v, want a PTR BinaryOperator", expr)
	}
}

func TestImplicitPlusFromSquareBrackets(t *testing.T) {
	// V[EAX] is sugar for V + [EAX] (§4.2 grammar level 5).
	expr, sink := parseOneExpr(t, "V[EAX]")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	ip, ok := expr.(*ast.ImplicitPlusOperator)
	if !ok {
		t.Fatalf("top-level node = %#v, want an ImplicitPlusOperator", expr)
	}
	if _, ok := ip.Left.(*ast.Leaf); !ok {
		t.Errorf("ImplicitPlus left = %#v, want a Leaf", ip.Left)
	}
	if _, ok := ip.Right.(*ast.SquareBrackets); !ok {
		t.Errorf("ImplicitPlus right = %#v, want SquareBrackets", ip.Right)
	}
}

func TestDotOperatorFieldAccess(t *testing.T) {
	expr, sink := parseOneExpr(t, "X.F")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	bin, ok := expr.(*ast.BinaryOperator)
	if !ok || !bin.Op.Is(".") {
		t.Fatalf("top-level node = %#v, want a '.' BinaryOperator", expr)
	}
	if _, ok := bin.Right.(*ast.Leaf); !ok {
		t.Errorf("right-hand side of '.' = %#v, want a Leaf identifier", bin.Right)
	}
}

func TestUnclosedDelimiterDiagnostic(t *testing.T) {
	_, sink := parseOneExpr(t, "(1 + 2")
	if !sink.HasErrors() {
		t.Fatalf("expected UNCLOSED_DELIMITER, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.UnclosedDelimiter {
		t.Errorf("diagnostic code = %v, want %v", got, diag.UnclosedDelimiter)
	}
}

func TestUnexpectedClosingDelimiterDiagnostic(t *testing.T) {
	_, sink := parseOneExpr(t, ")")
	if !sink.HasErrors() {
		t.Fatalf("expected UNEXPECTED_CLOSING_DELIMITER, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.UnexpectedClosingDelimiter {
		t.Errorf("diagnostic code = %v, want %v", got, diag.UnexpectedClosingDelimiter)
	}
}

func TestTrailingTokenAfterLeafIsRejected(t *testing.T) {
	// "(var var)" must be rejected per §4.2's guard.
	_, sink := parseOneExpr(t, "(V W)")
	if !sink.HasErrors() {
		t.Fatalf("expected EXPECTED_OPERATOR_OR_CLOSING_DELIMITER, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.ExpectedOperatorOrClosingDelimiter {
		t.Errorf("diagnostic code = %v, want %v", got, diag.ExpectedOperatorOrClosingDelimiter)
	}
}

func parseProgram(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := lexer.New(src, 0, sink).Scan()
	p := New(toks, sink)
	return p.Parse(), sink
}

func TestStatementOutsideSegmentBlockIsRejected(t *testing.T) {
	_, sink := parseProgram(t, "MOV EAX, 1\nEND\n")
	if !sink.HasErrors() {
		t.Fatalf("expected MUST_BE_IN_SEGMENT_BLOCK, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.MustBeInSegmentBlock {
		t.Errorf("diagnostic code = %v, want %v", got, diag.MustBeInSegmentBlock)
	}
}

func TestBareLabelWithNoMnemonicIsValid(t *testing.T) {
	prog, sink := parseProgram(t, ".CODE\nstart:\nEND\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements (.CODE and the label), got %d", len(prog.Statements))
	}
	instr, ok := prog.Statements[1].(*ast.Instruction)
	if !ok || instr.Label == nil || instr.Label.Lexeme != "start" || instr.Mnemonic != nil {
		t.Errorf("statement = %#v, want a bare label 'start' with no mnemonic", instr)
	}
}

func TestMissingEndDirectiveIsDiagnosed(t *testing.T) {
	_, sink := parseProgram(t, ".CODE\nMOV EAX, 1\n")
	if !sink.HasErrors() {
		t.Fatalf("expected EXPECTED_END_DIRECTIVE, got no diagnostics")
	}
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.ExpectedEndDirective {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics %v did not include EXPECTED_END_DIRECTIVE", sink.Diagnostics())
	}
}

func TestStructDirMismatchedClosingIdentifier(t *testing.T) {
	_, sink := parseProgram(t, ".DATA\nS STRUC\nF DD ?\nT ENDS\nEND\n")
	if !sink.HasErrors() {
		t.Fatalf("expected EXPECTED_DIFFERENT_IDENTIFIER, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.ExpectedDifferentIdentifier {
		t.Errorf("diagnostic code = %v, want %v", got, diag.ExpectedDifferentIdentifier)
	}
}

func TestStructDirRoundTrips(t *testing.T) {
	prog, sink := parseProgram(t, ".DATA\nS STRUC\nF DD ?\nS ENDS\nEND\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements (.DATA and the STRUC), got %d", len(prog.Statements))
	}
	st, ok := prog.Statements[1].(*ast.StructDir)
	if !ok {
		t.Fatalf("statement = %#v, want *ast.StructDir", prog.Statements[1])
	}
	if len(st.Fields) != 1 || st.Fields[0].IDToken == nil || st.Fields[0].IDToken.Lexeme != "F" {
		t.Errorf("StructDir.Fields = %#v, want a single field named F", st.Fields)
	}
	if st.SecondID.Lexeme != "S" {
		t.Errorf("StructDir.SecondID = %q, want %q", st.SecondID.Lexeme, "S")
	}
}

func TestDupInitializer(t *testing.T) {
	prog, sink := parseProgram(t, ".DATA\nV DB 3 DUP(?)\nEND\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	dd, ok := prog.Statements[1].(*ast.DataDir)
	if !ok {
		t.Fatalf("statement = %#v, want *ast.DataDir", prog.Statements[1])
	}
	list, ok := dd.Item.InitValues.(*ast.InitializerList)
	if !ok || len(list.Fields) != 1 {
		t.Fatalf("InitValues = %#v, want a single-field InitializerList", dd.Item.InitValues)
	}
	if _, ok := list.Fields[0].(*ast.DupOperator); !ok {
		t.Errorf("InitializerList.Fields[0] = %#v, want *ast.DupOperator", list.Fields[0])
	}
}

func TestPanicModeOneDiagnosticPerLine(t *testing.T) {
	// A line with two independent problems should still only raise one
	// diagnostic (§4.2, §7: panic-mode is per line).
	_, sink := parseProgram(t, ".CODE\nMOV )(\nEND\n")
	if len(sink.Diagnostics()) != 1 {
		t.Fatalf("expected exactly 1 diagnostic for the malformed line, got %d: %v",
			len(sink.Diagnostics()), sink.Diagnostics())
	}
}

func TestSynchronizationRecoversNextLine(t *testing.T) {
	// The malformed first .CODE line should not prevent the well-formed
	// second line from being parsed (§4.2, §7: per-line recovery).
	prog, sink := parseProgram(t, ".CODE\nMOV )(\nRET\nEND\n")
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic from the first line")
	}
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements (.CODE, the malformed MOV, the recovered RET), got %d: %#v", len(prog.Statements), prog.Statements)
	}
	instr, ok := prog.Statements[2].(*ast.Instruction)
	if !ok || instr.Mnemonic == nil || instr.Mnemonic.Upper() != "RET" {
		t.Errorf("third statement = %#v, want the recovered RET instruction", prog.Statements[2])
	}
}

func TestBareEquKeywordWithoutIdentifier(t *testing.T) {
	_, sink := parseProgram(t, ".DATA\nEQU 5\nEND\n")
	_ = token.Identifier
	if !sink.HasErrors() {
		t.Fatalf("expected EXPECTED_IDENTIFIER_BEFORE_X, got no diagnostics")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.ExpectedIdentifierBeforeX {
		t.Errorf("diagnostic code = %v, want %v", got, diag.ExpectedIdentifierBeforeX)
	}
}
