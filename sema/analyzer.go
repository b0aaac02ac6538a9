package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/span"
	"masmlint/symtab"
)

// Analyzer walks a parsed Program and annotates every expression in place,
// populating the symbol table's values, sizes, and offsets as it goes
// (§4.4). It is grounded on original_source/src/semantic_analyzer.{h,cpp};
// the teacher has no two-pass forward-reference analogue, so only the
// "one visit method per AST node kind, symbol table consulted by name"
// shape is reused from Nilan's compiler.
type Analyzer struct {
	sm     *span.SourceMap
	syms   *symtab.Table
	sink   *diag.Sink

	pass int

	// currentOffset is the running byte offset within the current
	// segment or struct body, advanced by 1 per instruction and by the
	// computed size per data item (§4.4).
	currentOffset int

	// panicking suppresses further diagnostics for the remainder of the
	// statement currently being visited, mirroring the parser's per-line
	// panic flag (§4.4, §7).
	panicking bool

	linesForSecondPass []ast.Statement
}

// New creates an Analyzer over the session's shared SourceMap, symbol
// table, and diagnostic sink.
func New(sm *span.SourceMap, syms *symtab.Table, sink *diag.Sink) *Analyzer {
	return &Analyzer{sm: sm, syms: syms, sink: sink}
}

// Analyze runs the full pipeline: a declaration pre-pass, pass 1 over every
// statement, and pass 2 over only the statements pass 1 deferred.
func (a *Analyzer) Analyze(prog *ast.Program) {
	a.declarePass(prog)

	a.pass = 1
	for _, stmt := range prog.Statements {
		a.panicking = false
		a.visitStatement(stmt, ExprContext{AllowForwardReferences: true})
	}
	if prog.EndDir != nil {
		a.panicking = false
		a.visitEndDir(prog.EndDir, ExprContext{AllowForwardReferences: true})
	}

	a.pass = 2
	for _, stmt := range a.linesForSecondPass {
		a.panicking = false
		a.visitStatement(stmt, ExprContext{AllowForwardReferences: false})
	}
}

// deferLine records stmt for pass 2, the effect of an expression's
// unresolvedSymbols flag propagating up to "the enclosing line" (§4.4).
func (a *Analyzer) deferLine(stmt ast.Statement) {
	if a.pass != 1 {
		return
	}
	a.linesForSecondPass = append(a.linesForSecondPass, stmt)
}

// errorf raises a diagnostic unless the per-statement panic flag is
// already set.
func (a *Analyzer) errorf(code diag.ErrorCode, s span.Span, format string, args ...any) {
	if a.panicking {
		return
	}
	a.panicking = true
	a.sink.AddDiagnostic(diag.Errorf(code, diag.Label{Span: s}, format, args...))
}

func (a *Analyzer) warnf(code diag.ErrorCode, s span.Span, format string, args ...any) {
	a.sink.AddDiagnostic(diag.Warnf(code, diag.Label{Span: s}, format, args...))
}
