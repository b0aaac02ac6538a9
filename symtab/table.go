package symtab

import "masmlint/token"

// Table is the session's single symbol mapping, keyed by lexeme. Storage is
// case-sensitive: reserved-word classification is the only case-insensitive
// comparison in this pipeline (§4.1); user identifiers are compared exactly
// as the source spells them, matching the source language's own behavior.
type Table struct {
	symbols map[string]Symbol
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]Symbol)}
}

// Add inserts sym keyed by its declaring token's lexeme. Redefinition
// policy is last-writer-wins at this layer (§4.3) — the semantic pass is
// expected to have already emitted DUPLICATE_SYMBOL_DEFINITION before
// calling Add a second time for the same name.
func (t *Table) Add(sym Symbol) {
	t.symbols[sym.Token().Lexeme] = sym
}

// Remove deletes the symbol named name, if any.
func (t *Table) Remove(name string) {
	delete(t.symbols, name)
}

// FindToken looks up the symbol declared under tok's lexeme.
func (t *Table) FindToken(tok token.Token) (Symbol, bool) {
	return t.FindName(tok.Lexeme)
}

// FindName looks up a symbol by its exact, case-sensitive name.
func (t *Table) FindName(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}
