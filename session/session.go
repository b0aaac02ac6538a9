// Package session owns the pipeline's shared state — the source map,
// symbol table, and diagnostic sink — and threads a single instance of
// each through the lexer, parser, and analyzer for one run (§4.4, §6).
// This is grounded on the teacher's `interpreter.Make()` single-owner-
// struct pattern: one constructor assembling every stage's dependency,
// rather than each stage opening its own resources.
package session

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/lexer"
	"masmlint/parser"
	"masmlint/sema"
	"masmlint/span"
	"masmlint/symtab"
)

// Session is the single owner of a run's SourceMap, symbol table, and
// diagnostic sink, and the entry point that drives lex → preprocess →
// parse → analyze for one source file.
type Session struct {
	SourceMap *span.SourceMap
	Symbols   *symtab.Table
	Sink      *diag.Sink
}

// New creates an empty Session ready to Run one or more source files.
func New() *Session {
	return &Session{
		SourceMap: span.NewSourceMap(),
		Symbols:   symtab.NewTable(),
		Sink:      diag.NewSink(),
	}
}

// Run lexes, preprocesses, parses, and semantically analyzes src (recorded
// under path in the session's SourceMap), returning the parsed program.
// Diagnostics from every stage accumulate in s.Sink; Run itself never
// returns an error — a malformed program is reported via diagnostics, not
// a Go error value (§2: the tool always produces a report and exits 0).
func (s *Session) Run(path, src string) *ast.Program {
	file := s.SourceMap.NewSourceFile(path, src)
	src = Preprocess(src)

	lex := lexer.New(src, file.StartPos, s.Sink)
	tokens := lex.Scan()

	p := parser.New(tokens, s.Sink)
	prog := p.Parse()

	an := sema.New(s.SourceMap, s.Symbols, s.Sink)
	an.Analyze(prog)

	return prog
}

// Preprocess is the identity seam for source-level preprocessing (line
// continuations, textual macro expansion, conditional assembly). The
// language this tool lints doesn't define any of those, so today this is
// a no-op; it exists so a future dialect extension has one place to plug
// into before lexing, matching how the original implementation's
// preprocessing pass sat ahead of tokenization (see
// original_source/src/session.* and SPEC_FULL.md's supplemented-features
// section).
func Preprocess(src string) string {
	return src
}
