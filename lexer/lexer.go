// Package lexer converts raw source text into the flat, classified token
// vector the parser consumes (§4.1). Unlike a typical hand-rolled scanner
// this one never aborts on the first bad character: invalid numbers and
// unterminated strings become Invalid tokens with a diagnostic pushed to
// the session's sink, and scanning continues, so one invocation surfaces
// as many problems as possible (§2).
package lexer

import (
	"unicode/utf8"

	"masmlint/diag"
	"masmlint/span"
	"masmlint/token"
)

const commentChar = ';'

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlnum(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// Lexer scans one source file's text into tokens. base is the file's
// absolute starting offset in the owning SourceMap, so every Span produced
// here is already in global coordinates.
type Lexer struct {
	src  string
	base uint32

	pos         int // byte offset of currentChar
	readPos     int // byte offset of the next rune
	currentChar rune
	atEOF       bool

	sink *diag.Sink

	tokens []token.Token
}

// New creates a Lexer over src. base is added to every byte offset so spans
// line up with the rest of a multi-file SourceMap. sink receives any
// lexical diagnostics (CONSTANT_PARSE_ERROR, UNTERMINATED_STRING).
func New(src string, base uint32, sink *diag.Sink) *Lexer {
	l := &Lexer{src: src, base: base, sink: sink}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.src) {
		l.currentChar = 0
		l.atEOF = l.readPos >= len(l.src)
		return
	}
	r, size := utf8.DecodeRuneInString(l.src[l.readPos:])
	l.currentChar = r
	l.readPos += size
}

func (l *Lexer) peek() rune {
	if l.readPos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.readPos:])
	return r
}

func (l *Lexer) isFinished() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) sp(startByte, endByte int) span.Span {
	return span.New(l.base+uint32(startByte), l.base+uint32(endByte), span.RootContext)
}

func (l *Lexer) emit(kind token.Kind, startByte, endByte int) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Lexeme: l.src[startByte:endByte],
		Span:   l.sp(startByte, endByte),
	})
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(l.currentChar):
			l.readChar()
		case l.currentChar == commentChar:
			for l.currentChar != '\n' && !l.isFinished() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// handleIdentifier consumes a maximal alphanumeric run and classifies it
// against the five reserved-word sets, falling back to Identifier.
func (l *Lexer) handleIdentifier() {
	start := l.pos
	for isAlnum(l.currentChar) {
		l.readChar()
	}
	lexeme := l.src[start:l.pos]
	kind, _ := token.ClassifyWord(lexeme)
	l.emit(kind, start, l.pos)
}

// handleNumber consumes a maximal alphanumeric run starting at a digit and
// validates it lexically via token.SplitNumber. The numeric value itself
// (with its context-dependent bit width) is computed later by the semantic
// evaluator, not here.
func (l *Lexer) handleNumber() {
	start := l.pos
	for isAlnum(l.currentChar) {
		l.readChar()
	}
	lexeme := l.src[start:l.pos]
	if _, _, ok := token.SplitNumber(lexeme); !ok {
		l.emit(token.Invalid, start, l.pos)
		d := diag.Errorf(diag.ConstantParseError, diag.Label{Span: l.sp(start, l.pos)},
			"invalid numeric constant %q", lexeme)
		l.sink.AddDiagnostic(d)
		return
	}
	l.emit(token.Number, start, l.pos)
}

// handleStringLiteral consumes a string bounded by matching single or
// double quotes. The opening quote determines the closing quote; both
// delimiters remain part of the lexeme (§4.1).
func (l *Lexer) handleStringLiteral() {
	start := l.pos
	quote := l.currentChar
	l.readChar() // consume opening quote

	closed := false
	for !l.isFinished() {
		if l.currentChar == quote {
			l.readChar()
			closed = true
			break
		}
		if l.currentChar == '\n' {
			break
		}
		l.readChar()
	}

	if !closed {
		l.emit(token.Invalid, start, l.pos)
		d := diag.Errorf(diag.UnterminatedString, diag.Label{Span: l.sp(start, l.pos)},
			"unterminated string literal")
		l.sink.AddDiagnostic(d)
		return
	}
	l.emit(token.StringLiteral, start, l.pos)
}

var singleCharOperators = map[rune]token.Kind{
	'+': token.Operator,
	'-': token.Operator,
	'*': token.Operator,
	'/': token.Operator,
	'.': token.Operator,
	'=': token.Operator,
	':': token.Colon,
	',': token.Comma,
	'(': token.OpenBracket,
	')': token.CloseBracket,
	'[': token.OpenSquareBracket,
	']': token.CloseSquareBracket,
	'<': token.OpenAngleBracket,
	'>': token.CloseAngleBracket,
	'$': token.Dollar,
	'?': token.QuestionMark,
}

// Scan performs lexical analysis over the whole input, returning a token
// vector that always ends with exactly one EndOfFile token.
func (l *Lexer) Scan() []token.Token {
	for {
		l.skipWhitespaceAndComments()

		if l.currentChar == '\n' {
			start := l.pos
			l.readChar()
			l.emit(token.EndOfLine, start, l.pos)
			continue
		}

		if l.isFinished() {
			break
		}

		switch {
		case isLetter(l.currentChar):
			l.handleIdentifier()
		case isDigit(l.currentChar):
			l.handleNumber()
		case l.currentChar == '"' || l.currentChar == '\'':
			l.handleStringLiteral()
		default:
			// ".CODE"/".DATA"/".STACK" lex as one Directive; any other '.' stays an operator.
			if l.currentChar == '.' && isLetter(l.peek()) {
				end := l.readPos
				for end < len(l.src) && isAlnum(rune(l.src[end])) {
					end++
				}
				if kind, _ := token.ClassifyWord(l.src[l.pos:end]); kind == token.Directive {
					l.emit(token.Directive, l.pos, end)
					for l.pos < end {
						l.readChar()
					}
					continue
				}
			}
			if kind, ok := singleCharOperators[l.currentChar]; ok {
				start := l.pos
				l.readChar()
				l.emit(kind, start, l.pos)
			} else {
				start := l.pos
				l.readChar()
				l.emit(token.Invalid, start, l.pos)
				d := diag.Errorf(diag.UnexpectedCharacter, diag.Label{Span: l.sp(start, l.pos)},
					"unexpected character %q", l.src[start:l.pos])
				l.sink.AddDiagnostic(d)
			}
		}
	}

	eofPos := len(l.src)
	l.tokens = append(l.tokens, token.Token{
		Kind: token.EndOfFile,
		Span: l.sp(eofPos, eofPos),
	})
	return l.tokens
}
