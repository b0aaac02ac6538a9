package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/symtab"
	"masmlint/token"
)

// declarePass walks the whole program once before pass 1, creating every
// symtab.Symbol variant at its declaring position (§4.3/§4.4). This is what
// lets an identifier used before its declaration still resolve — pass 1
// looks the symbol up and finds it already present, just not yet Visited.
func (a *Analyzer) declarePass(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		a.panicking = false
		a.declareStatement(stmt)
	}
}

func (a *Analyzer) declareStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Instruction:
		if s.Label != nil {
			a.declareSymbol(*s.Label, symtab.NewLabelSymbol(*s.Label))
		}
	case *ast.DataDir:
		a.declareDataDir(s)
	case *ast.StructDir:
		a.declareStructDir(s)
	case *ast.ProcDir:
		a.declareProcDir(s)
	case *ast.RecordDir:
		a.declareRecordDir(s)
	case *ast.EquDir:
		a.declareSymbol(s.ID, symtab.NewEquVariableSymbol(s.ID))
	case *ast.EqualDir:
		a.declareSymbol(s.ID, symtab.NewEqualVariableSymbol(s.ID))
	}
}

func (a *Analyzer) declareDataDir(s *ast.DataDir) *symtab.DataVariableSymbol {
	if s.IDToken == nil {
		return nil
	}
	dv := symtab.NewDataVariableSymbol(*s.IDToken, s.Item.DataTypeToken)
	a.declareSymbol(*s.IDToken, dv)
	return dv
}

func (a *Analyzer) declareStructDir(s *ast.StructDir) {
	st := symtab.NewStructSymbol(s.FirstID)
	for _, field := range s.Fields {
		if dv := a.declareDataDir(field); dv != nil {
			st.Fields = append(st.Fields, dv)
		}
	}
	a.declareSymbol(s.FirstID, st)
}

func (a *Analyzer) declareProcDir(s *ast.ProcDir) {
	a.declareSymbol(s.FirstID, symtab.NewProcSymbol(s.FirstID))
	for _, instr := range s.Instructions {
		if instr.Label != nil {
			a.declareSymbol(*instr.Label, symtab.NewLabelSymbol(*instr.Label))
		}
	}
}

func (a *Analyzer) declareRecordDir(s *ast.RecordDir) {
	rec := symtab.NewRecordSymbol(s.ID)
	for _, f := range s.Fields {
		rf := symtab.NewRecordFieldSymbol(f.Name)
		a.declareSymbol(f.Name, rf)
		rec.Fields = append(rec.Fields, rf)
	}
	a.declareSymbol(s.ID, rec)
}

// declareSymbol adds sym to the table, diagnosing a redeclaration of an
// existing name before overwriting it (symtab.Table.Add is last-writer-wins).
func (a *Analyzer) declareSymbol(tok token.Token, sym symtab.Symbol) {
	if _, ok := a.syms.FindName(tok.Lexeme); ok {
		a.errorf(diag.DuplicateSymbolDefinition, tok.Span, "%q is already defined at an earlier line", tok.Lexeme)
	}
	a.syms.Add(sym)
}
