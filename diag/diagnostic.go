// Package diag defines the structured diagnostic model the CORE emits:
// leveled, coded messages with one primary labelled span, zero or more
// secondary labels, and optional note/help text, collected into a Sink and
// flushed exactly once at the end of a session.
package diag

import (
	"fmt"

	"masmlint/span"
)

// Level classifies how serious a Diagnostic is.
type Level int

const (
	Error Level = iota
	Warning
	Note
)

// String renders the level the way the textual report's header line
// ("level: message") expects.
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// ErrorCode is drawn from a closed enumeration of syntax errors, semantic
// errors, and warnings. New codes are added here, never invented ad hoc at
// the call site.
type ErrorCode string

const (
	// Fatal / process-level.
	FailedToOpenFile ErrorCode = "FAILED_TO_OPEN_FILE"

	// Lexer.
	ConstantParseError  ErrorCode = "CONSTANT_PARSE_ERROR"
	UnterminatedString  ErrorCode = "UNTERMINATED_STRING"
	UnexpectedCharacter ErrorCode = "UNEXPECTED_CHARACTER"

	// Parser / syntax.
	UnclosedDelimiter                  ErrorCode = "UNCLOSED_DELIMITER"
	UnexpectedClosingDelimiter         ErrorCode = "UNEXPECTED_CLOSING_DELIMITER"
	ExpectedOperatorOrClosingDelimiter ErrorCode = "EXPECTED_OPERATOR_OR_CLOSING_DELIMITER"
	ExpectedExpression                 ErrorCode = "EXPECTED_EXPRESSION"
	ExpectedIdentifier                 ErrorCode = "EXPECTED_IDENTIFIER"
	ExpectedIdentifierBeforeX          ErrorCode = "EXPECTED_IDENTIFIER_BEFORE_X"
	ExpectedDifferentIdentifier        ErrorCode = "EXPECTED_DIFFERENT_IDENTIFIER"
	ExpectedEndOfLine                  ErrorCode = "EXPECTED_END_OF_LINE"
	ExpectedEndDirective               ErrorCode = "EXPECTED_END_DIRECTIVE"
	MustBeInSegmentBlock               ErrorCode = "MUST_BE_IN_SEGMENT_BLOCK"
	BareDirectiveKeyword               ErrorCode = "BARE_DIRECTIVE_KEYWORD"

	// Semantic: symbols and expressions.
	UndefinedSymbol                ErrorCode = "UNDEFINED_SYMBOL"
	ExpressionMustBeConstant       ErrorCode = "EXPRESSION_MUST_BE_CONSTANT"
	CantHaveRegistersInExpression  ErrorCode = "CANT_HAVE_REGISTERS_IN_EXPRESSION"
	CantAddVariables               ErrorCode = "CANT_ADD_VARIABLES"
	MoreThanTwoRegisters           ErrorCode = "MORE_THAN_TWO_REGISTERS"
	MoreThanOneScale               ErrorCode = "MORE_THAN_ONE_SCALE"
	TwoEspRegisters                ErrorCode = "TWO_ESP_REGISTERS"
	Non32BitRegister               ErrorCode = "NON_32BIT_REGISTER"
	InvalidScaleValue              ErrorCode = "INVALID_SCALE_VALUE"
	IncorrectIndexRegister         ErrorCode = "INCORRECT_INDEX_REGISTER"
	DivisionByZeroInExpression     ErrorCode = "DIVISION_BY_ZERO_IN_EXPRESSION"
	DotOperatorLHSNotStruct        ErrorCode = "DOT_OPERATOR_LHS_NOT_STRUCT"
	DotOperatorUnknownField        ErrorCode = "DOT_OPERATOR_UNKNOWN_FIELD"
	PtrOperatorIncorrectArgument   ErrorCode = "PTR_OPERATOR_INCORRECT_ARGUMENT"
	UnaryOperatorIncorrectArgument ErrorCode = "UNARY_OPERATOR_INCORRECT_ARGUMENT"
	ConstantTooLarge               ErrorCode = "CONSTANT_TOO_LARGE"
	StringTooLarge                 ErrorCode = "STRING_TOO_LARGE"
	UnfinishedMemoryOperand        ErrorCode = "UNFINISHED_MEMORY_OPERAND"

	// Semantic: instructions.
	InvalidNumberOfOperands    ErrorCode = "INVALID_NUMBER_OF_OPERANDS"
	CantHaveTwoMemoryOperands  ErrorCode = "CANT_HAVE_TWO_MEMORY_OPERANDS"
	DestOperandCantBeImmediate ErrorCode = "DEST_OPERAND_CANT_BE_IMMEDIATE"
	ImmediateTooBig            ErrorCode = "IMMEDIATE_TOO_BIG"
	OperandsDifferentSize      ErrorCode = "OPERANDS_DIFFERENT_SIZE"
	InvalidOperandSize         ErrorCode = "INVALID_OPERAND_SIZE"
	InvalidOperandKind         ErrorCode = "INVALID_OPERAND_KIND"
	UnknownMnemonic            ErrorCode = "UNKNOWN_MNEMONIC"

	// Semantic: layout.
	RecordWidthTooBig              ErrorCode = "RECORD_WIDTH_TOO_BIG"
	RecordFieldWidthMustBePositive ErrorCode = "RECORD_FIELD_WIDTH_MUST_BE_POSITIVE"
	InitializerTooLarge            ErrorCode = "INITIALIZER_TOO_LARGE"
	DuplicateSymbolDefinition      ErrorCode = "DUPLICATE_SYMBOL_DEFINITION"

	// Warnings.
	TypeReturnsZero ErrorCode = "TYPE_RETURNS_ZERO"
)

// Label attaches a human-readable message to a span, either as the
// diagnostic's primary location or as extra context.
type Label struct {
	Span    span.Span
	Message string
}

// Diagnostic is a single structured message the analyzer or parser
// produces. It is built incrementally (WithNote, WithHelp, AddSecondary)
// and may be cancelled before it is ever pushed into a Sink.
type Diagnostic struct {
	Level     Level
	Code      ErrorCode
	Message   string
	Primary   Label
	Secondary []Label
	NoteText  *string
	HelpText  *string
	cancelled bool
}

// New constructs a Diagnostic with its level, code, message, and primary
// label already set.
func New(level Level, code ErrorCode, message string, primary Label) *Diagnostic {
	return &Diagnostic{
		Level:   level,
		Code:    code,
		Message: message,
		Primary: primary,
	}
}

// Errorf is a convenience constructor for Error-level diagnostics.
func Errorf(code ErrorCode, primary Label, format string, args ...any) *Diagnostic {
	return New(Error, code, sprintf(format, args...), primary)
}

// Warnf is a convenience constructor for Warning-level diagnostics.
func Warnf(code ErrorCode, primary Label, format string, args ...any) *Diagnostic {
	return New(Warning, code, sprintf(format, args...), primary)
}

// AddSecondary appends a secondary labelled span, e.g. the unbalanced
// opener in UNCLOSED_DELIMITER.
func (d *Diagnostic) AddSecondary(s span.Span, message string) *Diagnostic {
	d.Secondary = append(d.Secondary, Label{Span: s, Message: message})
	return d
}

// WithNote attaches a trailing "note: ..." line stating a fact about the
// diagnosed condition.
func (d *Diagnostic) WithNote(format string, args ...any) *Diagnostic {
	s := sprintf(format, args...)
	d.NoteText = &s
	return d
}

// WithHelp attaches a trailing "help: ..." line suggesting a fix. Distinct
// from Note: help is advisory and safe to suppress in non-interactive
// output, note states a fact about why the diagnostic fired.
func (d *Diagnostic) WithHelp(format string, args ...any) *Diagnostic {
	s := sprintf(format, args...)
	d.HelpText = &s
	return d
}

// Cancel marks the diagnostic as superseded; a cancelled diagnostic is
// skipped by Sink.Emit/EmitJSON and does not count toward HasErrors.
func (d *Diagnostic) Cancel() {
	d.cancelled = true
}

// Cancelled reports whether Cancel was called on this diagnostic.
func (d *Diagnostic) Cancelled() bool {
	return d.cancelled
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
