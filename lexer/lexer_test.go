package lexer

import (
	"testing"

	"masmlint/diag"
	"masmlint/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func sameKinds(t *testing.T, got []token.Token, want []token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("Scan() produced %d tokens %v, want %d %v", len(gk), gk, len(want), want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v (full: %v)", i, gk[i], want[i], gk)
		}
	}
}

func TestScanReservedWordsAreCaseInsensitive(t *testing.T) {
	sink := diag.NewSink()
	l := New("mov EAX, eBx\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{
		token.Instruction, token.Register, token.Comma, token.Register,
		token.EndOfLine, token.EndOfFile,
	})
	if sink.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics())
	}
}

func TestScanNumberSuffixes(t *testing.T) {
	sink := diag.NewSink()
	l := New("0FFh 1010y 77o 123\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{
		token.Number, token.Number, token.Number, token.Number,
		token.EndOfLine, token.EndOfFile,
	})
	if sink.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics())
	}
}

func TestScanBareHexLikeWordIsIdentifier(t *testing.T) {
	// "FFh" has no leading digit, so it's an Identifier, not a Number
	// (§4.1's design decision to avoid ambiguous ID/number lookahead).
	sink := diag.NewSink()
	l := New("FFh\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{token.Identifier, token.EndOfLine, token.EndOfFile})
}

func TestScanInvalidNumberEmitsDiagnostic(t *testing.T) {
	sink := diag.NewSink()
	l := New("129y\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{token.Invalid, token.EndOfLine, token.EndOfFile})
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an invalid binary literal")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.ConstantParseError {
		t.Errorf("diagnostic code = %v, want %v", got, diag.ConstantParseError)
	}
}

func TestScanStringLiteralQuoteMatchesOpener(t *testing.T) {
	sink := diag.NewSink()
	l := New(`"abc" 'xyz'` + "\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{
		token.StringLiteral, token.StringLiteral, token.EndOfLine, token.EndOfFile,
	})
	if toks[0].Lexeme != `"abc"` || toks[1].Lexeme != "'xyz'" {
		t.Errorf("string lexemes = %q, %q, want include delimiters", toks[0].Lexeme, toks[1].Lexeme)
	}
	if sink.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics())
	}
}

func TestScanUnterminatedStringEmitsDiagnostic(t *testing.T) {
	sink := diag.NewSink()
	l := New(`"abc`+"\n", 0, sink)
	toks := l.Scan()
	if toks[0].Kind != token.Invalid {
		t.Fatalf("first token kind = %v, want Invalid", toks[0].Kind)
	}
	if !sink.HasErrors() {
		t.Fatalf("expected an UNTERMINATED_STRING diagnostic")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.UnterminatedString {
		t.Errorf("diagnostic code = %v, want %v", got, diag.UnterminatedString)
	}
}

func TestScanSkipsCommentsButEmitsEndOfLine(t *testing.T) {
	sink := diag.NewSink()
	l := New("MOV EAX, 1 ; move one\nRET\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{
		token.Instruction, token.Register, token.Comma, token.Number, token.EndOfLine,
		token.Instruction, token.EndOfLine, token.EndOfFile,
	})
}

func TestScanDelimitersAndOperators(t *testing.T) {
	sink := diag.NewSink()
	l := New("[EAX+4*ESI] (1) <1,2> $ ?\n", 0, sink)
	toks := l.Scan()
	sameKinds(t, toks, []token.Kind{
		token.OpenSquareBracket, token.Register, token.Operator, token.Number,
		token.Operator, token.Register, token.CloseSquareBracket,
		token.OpenBracket, token.Number, token.CloseBracket,
		token.OpenAngleBracket, token.Number, token.Comma, token.Number, token.CloseAngleBracket,
		token.Dollar, token.QuestionMark,
		token.EndOfLine, token.EndOfFile,
	})
}

func TestScanUnexpectedCharacterEmitsDiagnostic(t *testing.T) {
	sink := diag.NewSink()
	l := New("MOV EAX, @\n", 0, sink)
	toks := l.Scan()
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an unexpected character")
	}
	if got := sink.Diagnostics()[0].Code; got != diag.UnexpectedCharacter {
		t.Errorf("diagnostic code = %v, want %v", got, diag.UnexpectedCharacter)
	}
	foundInvalid := false
	for _, tk := range toks {
		if tk.Kind == token.Invalid {
			foundInvalid = true
		}
	}
	if !foundInvalid {
		t.Errorf("expected an Invalid token in the stream, got %v", kinds(toks))
	}
}

func TestScanAlwaysEndsWithExactlyOneEndOfFile(t *testing.T) {
	sink := diag.NewSink()
	l := New("", 0, sink)
	toks := l.Scan()
	if len(toks) != 1 || toks[0].Kind != token.EndOfFile {
		t.Fatalf("Scan() on empty input = %v, want a single EndOfFile", toks)
	}
}

func TestScanSpansAreGlobalOffsetByBase(t *testing.T) {
	sink := diag.NewSink()
	const base = 100
	l := New("MOV\n", base, sink)
	toks := l.Scan()
	if toks[0].Span.Lo != base || toks[0].Span.Hi != base+3 {
		t.Errorf("first token span = %v, want [100, 103)", toks[0].Span)
	}
}
