package symtab

import (
	"testing"

	"masmlint/token"
)

func tok(lexeme string) token.Token {
	return token.Token{Kind: token.Identifier, Lexeme: lexeme}
}

func TestAddAndFindName(t *testing.T) {
	tab := NewTable()
	sym := NewLabelSymbol(tok("start"))
	tab.Add(sym)

	got, ok := tab.FindName("start")
	if !ok {
		t.Fatalf("FindName(%q) not found after Add", "start")
	}
	if got != Symbol(sym) {
		t.Errorf("FindName(%q) returned a different symbol", "start")
	}
}

func TestFindNameIsCaseSensitive(t *testing.T) {
	tab := NewTable()
	tab.Add(NewLabelSymbol(tok("Start")))

	if _, ok := tab.FindName("start"); ok {
		t.Errorf("FindName(%q) should not match a differently-cased declaration (§4.3: user identifiers are case-sensitive)", "start")
	}
	if _, ok := tab.FindName("Start"); !ok {
		t.Errorf("FindName(%q) should find the exact-case declaration", "Start")
	}
}

func TestFindTokenUsesTokenLexeme(t *testing.T) {
	tab := NewTable()
	tab.Add(NewProcSymbol(tok("MyProc")))

	_, ok := tab.FindToken(tok("MyProc"))
	if !ok {
		t.Fatalf("FindToken did not find a symbol declared under the same lexeme")
	}
}

func TestRemoveDeletesSymbol(t *testing.T) {
	tab := NewTable()
	tab.Add(NewLabelSymbol(tok("V")))
	tab.Remove("V")
	if _, ok := tab.FindName("V"); ok {
		t.Errorf("FindName(%q) still found the symbol after Remove", "V")
	}
}

func TestAddIsLastWriterWins(t *testing.T) {
	tab := NewTable()
	first := NewLabelSymbol(tok("V"))
	second := NewEquVariableSymbol(tok("V"))
	tab.Add(first)
	tab.Add(second)

	got, ok := tab.FindName("V")
	if !ok {
		t.Fatalf("FindName(%q) not found", "V")
	}
	if got != Symbol(second) {
		t.Errorf("Add did not overwrite the first declaration (last-writer-wins, §4.3)")
	}
}

func TestVisitedDefinedLifecycle(t *testing.T) {
	sym := NewDataVariableSymbol(tok("V"), tok("DB"))
	if sym.WasVisited() || sym.WasDefined() {
		t.Fatalf("a freshly declared symbol must start unvisited and undefined")
	}
	sym.SetVisited(true)
	if !sym.WasVisited() || sym.WasDefined() {
		t.Errorf("SetVisited(true) should not also mark the symbol defined")
	}
	sym.SetDefined(true)
	if !sym.WasDefined() {
		t.Errorf("SetDefined(true) did not stick")
	}
}
