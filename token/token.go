// Package token defines the classified token stream the lexer produces and
// the parser consumes: token kinds, the Token value itself, and the five
// closed, case-insensitive reserved-word sets (directives, instruction
// mnemonics, size types, registers, operator words) that distinguish a
// reserved word from a plain Identifier.
package token

import (
	"strings"

	"masmlint/span"
)

// Kind classifies a Token. "Reserved" kinds (Directive, Instruction, Type,
// Register, Operator-word) are assigned by case-insensitive lookup against
// the sets below; everything else alphabetic-leading that doesn't match is
// an Identifier.
type Kind int

const (
	Identifier Kind = iota
	Directive
	Instruction
	Type
	Register
	Number
	StringLiteral
	Operator
	OpenBracket
	CloseBracket
	OpenSquareBracket
	CloseSquareBracket
	OpenAngleBracket
	CloseAngleBracket
	Comma
	Colon
	Dollar
	QuestionMark
	EndOfLine
	EndOfFile
	Comment // never emitted into the token stream
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Directive:
		return "Directive"
	case Instruction:
		return "Instruction"
	case Type:
		return "Type"
	case Register:
		return "Register"
	case Number:
		return "Number"
	case StringLiteral:
		return "StringLiteral"
	case Operator:
		return "Operator"
	case OpenBracket:
		return "OpenBracket"
	case CloseBracket:
		return "CloseBracket"
	case OpenSquareBracket:
		return "OpenSquareBracket"
	case CloseSquareBracket:
		return "CloseSquareBracket"
	case OpenAngleBracket:
		return "OpenAngleBracket"
	case CloseAngleBracket:
		return "CloseAngleBracket"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case Dollar:
		return "Dollar"
	case QuestionMark:
		return "QuestionMark"
	case EndOfLine:
		return "EndOfLine"
	case EndOfFile:
		return "EndOfFile"
	case Comment:
		return "Comment"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Token is a single classified lexeme with its source span.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   span.Span
}

// Upper returns the token's lexeme folded to uppercase, the canonical form
// reserved words are compared in.
func (t Token) Upper() string {
	return strings.ToUpper(t.Lexeme)
}

// IsReserved reports whether the token's kind is one assigned by
// case-insensitive reserved-word lookup (as opposed to Identifier, Number,
// StringLiteral, or punctuation).
func (t Token) IsReserved() bool {
	switch t.Kind {
	case Directive, Instruction, Type, Register, Operator:
		return true
	default:
		return false
	}
}

// --- Reserved-word sets (§4.1) ---
//
// Classification is case-insensitive: the lexer folds an identifier-shaped
// lexeme to uppercase and looks it up in each set below, in the order
// listed. A lexeme that matches none of them is a plain Identifier. Lookup
// against these sets is case-insensitive by design; lookup of *user*
// identifiers against each other in the symbol table is case-sensitive
// (§4.3) — the two comparisons are deliberately different.

var directiveSet = buildSet(
	".CODE", ".DATA", ".STACK", "STRUC", "ENDS", "PROC", "ENDP",
	"RECORD", "EQU", "=", "END", "DB", "DW", "DD", "DQ",
)

var instructionSet = buildSet(
	"ADC", "ADD", "AND", "CALL", "CBW", "CDQ", "CWD", "CMP", "DEC",
	"DIV", "IDIV", "IMUL", "INC", "JMP",
	"JA", "JAE", "JB", "JBE", "JC", "JE", "JG", "JGE", "JL", "JLE",
	"JNA", "JNAE", "JNB", "JNBE", "JNC", "JNE", "JNG", "JNGE", "JNL",
	"JNLE", "JNO", "JNP", "JNS", "JNZ", "JO", "JP", "JPE", "JPO", "JS", "JZ",
	"LEA", "LOOP", "LOOPE", "LOOPNE", "LOOPNZ", "LOOPZ",
	"MOV", "MOVSX", "MOVZX", "MUL", "NEG", "NOT", "OR",
	"POP", "POPFD", "PUSH", "PUSHFD",
	"RCL", "RCR", "RET", "ROL", "ROR",
	"SBB", "SHL", "SHR", "SUB", "TEST", "XCHG", "XOR",
	// Language-extension instructions (§4.5 instruction rules table).
	"INCHAR", "ININT", "OUTI", "OUTU", "OUTSTR", "OUTCHAR", "EXIT", "NEWLINE",
)

var typeSet = buildSet("BYTE", "WORD", "DWORD", "QWORD")

var registerSet = buildSet(
	"AL", "AX", "EAX", "BL", "BX", "EBX", "CL", "CX", "ECX", "DL", "DX", "EDX",
	"SI", "ESI", "DI", "EDI", "BP", "EBP", "SP", "ESP",
)

var operatorWordSet = buildSet(
	"MOD", "SHL", "SHR", "PTR", "DUP", "OFFSET", "TYPE",
	"LENGTH", "LENGTHOF", "SIZE", "SIZEOF", "WIDTH", "MASK",
)

func buildSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// ClassifyWord returns the Kind a case-insensitive reserved-word lookup
// assigns to an alphabetic-leading lexeme, and true if it matched a
// reserved set. The caller falls back to Identifier when ok is false.
//
// SHL and SHR are genuinely dual-use: the shift *instruction* and the
// shift *operator* share a spelling, so both sets carry them and this
// lookup reports Instruction for them (fixed set order: directive,
// instruction, type, register, operator word). That's harmless here —
// Token.Is compares against any reserved kind, so the parser's
// expression-operator checks still match SHL/SHR by word regardless of
// which set classified them; only the statement dispatcher needs to care
// which one it meant, and it does so by grammatical position, not Kind.
func ClassifyWord(lexeme string) (kind Kind, ok bool) {
	upper := strings.ToUpper(lexeme)
	if _, found := directiveSet[upper]; found {
		return Directive, true
	}
	if _, found := instructionSet[upper]; found {
		return Instruction, true
	}
	if _, found := typeSet[upper]; found {
		return Type, true
	}
	if _, found := registerSet[upper]; found {
		return Register, true
	}
	if _, found := operatorWordSet[upper]; found {
		return Operator, true
	}
	return Identifier, false
}

// Is reports whether the token is a reserved word equal (case-insensitively)
// to word.
func (t Token) Is(word string) bool {
	return t.IsReserved() && t.Upper() == strings.ToUpper(word)
}
