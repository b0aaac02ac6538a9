package token

import "testing"

func TestClassifyWordCaseInsensitive(t *testing.T) {
	cases := []struct {
		lexeme string
		want   Kind
	}{
		{"mov", Instruction},
		{"MOV", Instruction},
		{"Mov", Instruction},
		{"dword", Type},
		{"EAX", Register},
		{"eax", Register},
		{"ptr", Operator},
		{".data", Directive},
		{"myLabel", Identifier},
	}
	for _, c := range cases {
		got, ok := ClassifyWord(c.lexeme)
		if got != c.want {
			t.Errorf("ClassifyWord(%q) = %v, want %v", c.lexeme, got, c.want)
		}
		if c.want == Identifier && ok {
			t.Errorf("ClassifyWord(%q) reported ok=true for a non-reserved word", c.lexeme)
		}
	}
}

func TestClassifyWordSHLDualUse(t *testing.T) {
	// SHL/SHR are both a shift instruction and a shift operator; the fixed
	// set-check order in ClassifyWord resolves them to Instruction, but
	// Token.Is still matches them as operator words regardless.
	kind, ok := ClassifyWord("SHL")
	if !ok || kind != Instruction {
		t.Errorf("ClassifyWord(%q) = %v, %v, want Instruction, true", "SHL", kind, ok)
	}
	tok := Token{Kind: kind, Lexeme: "SHL"}
	if !tok.Is("SHL") {
		t.Errorf("Token.Is(%q) = false, want true regardless of dual classification", "SHL")
	}
}

func TestTokenIsCaseInsensitive(t *testing.T) {
	tok := Token{Kind: Instruction, Lexeme: "mov"}
	if !tok.Is("MOV") {
		t.Errorf("Token.Is(%q) = false, want true", "MOV")
	}
	if tok.Is("ADD") {
		t.Errorf("Token.Is(%q) = true, want false", "ADD")
	}
}

func TestTokenIsFalseForNonReserved(t *testing.T) {
	tok := Token{Kind: Identifier, Lexeme: "mov"}
	if tok.Is("MOV") {
		t.Errorf("Token.Is should be false for an Identifier even if lexemes match")
	}
}
