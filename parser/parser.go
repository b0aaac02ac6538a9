// Package parser implements the single-pass recursive-descent parser
// described in §4.2: statement dispatch driven by one-token lookahead,
// a seven-level expression precedence ladder, two independent delimiter
// stacks, and per-line panic-mode recovery.
package parser

import (
	"masmlint/diag"
	"masmlint/span"
	"masmlint/token"
)

// segKind tracks which segment the parser is currently inside, since the
// statement grammar a line uses depends on it (§4.2: DataDir inside
// .DATA, Instruction inside .CODE, MUST_BE_IN_SEGMENT_BLOCK otherwise).
type segKind int

const (
	noSegment segKind = iota
	codeSegment
	dataSegment
	stackSegment
)

// delim is one entry on a delimiter stack: the opening token, kept so an
// unclosed delimiter's diagnostic can be anchored at the opener.
type delim struct {
	open token.Token
}

// Parser walks a flat token vector (as the teacher's parser.go does,
// `tokens`/`position` plus `peek`/`advance`/`isMatch`/`consume`) and builds
// the tagged-variant tree in package ast.
type Parser struct {
	tokens   []token.Token
	position int

	sink *diag.Sink

	seg segKind

	// panicking suppresses further diagnostics for the remainder of the
	// current line once one has fired (§4.2, §7: "one root cause yields
	// one message").
	panicking bool

	// exprDelims is the delimiter stack used while parsing expressions
	// (`()`/`[]`); dataDelims is the separate stack used while parsing
	// data initializers (`<>`/`()` for DUP), since `< >` only has meaning
	// in that second grammar (§4.2).
	exprDelims []delim
	dataDelims []delim
}

// New creates a Parser over tokens, which must end with exactly one
// EndOfFile token (as lexer.Scan produces). Diagnostics are pushed to sink.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.position + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) isFinished() bool {
	return p.peek().Kind == token.EndOfFile
}

func (p *Parser) checkKind(kind token.Kind) bool {
	return !p.isFinished() && p.peek().Kind == kind
}

func (p *Parser) checkWord(word string) bool {
	return !p.isFinished() && p.peek().Is(word)
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

// isMatchKind advances and returns true if the current token's kind is
// kind.
func (p *Parser) isMatchKind(kind token.Kind) bool {
	if p.checkKind(kind) {
		p.advance()
		return true
	}
	return false
}

// isMatchWord advances and returns true if the current token is reserved
// word word (case-insensitive).
func (p *Parser) isMatchWord(word string) bool {
	if p.checkWord(word) {
		p.advance()
		return true
	}
	return false
}

// isMatchAnyWord advances and returns the matched word (uppercased) if the
// current token equals one of words.
func (p *Parser) isMatchAnyWord(words ...string) (string, bool) {
	for _, w := range words {
		if p.checkWord(w) {
			p.advance()
			return w, true
		}
	}
	return "", false
}

// consumeKind advances past the current token if it has kind, else raises
// a diagnostic with code and message and returns ok=false.
func (p *Parser) consumeKind(kind token.Kind, code diag.ErrorCode, message string, args ...any) (token.Token, bool) {
	if p.checkKind(kind) {
		return p.advance(), true
	}
	p.errorf(code, p.peek().Span, message, args...)
	return p.peek(), false
}

// errorf raises a diagnostic anchored at s unless the per-line panic flag
// is already set (§4.2, §7: "the panic flag suppresses further
// diagnostics within the same line so one root cause yields one message").
func (p *Parser) errorf(code diag.ErrorCode, s span.Span, message string, args ...any) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.sink.AddDiagnostic(diag.Errorf(code, diag.Label{Span: s}, message, args...))
}

// resetPanic clears the per-line panic flag; called once per line, right
// after recovery synchronizes on EndOfLine/EndOfFile.
func (p *Parser) resetPanic() {
	p.panicking = false
}

// synchronize advances past tokens until the next EndOfLine or EndOfFile,
// the per-line recovery rule (§4.2, §7).
func (p *Parser) synchronize() {
	for !p.isFinished() && p.peek().Kind != token.EndOfLine {
		p.advance()
	}
}
