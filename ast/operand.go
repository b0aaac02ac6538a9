package ast

// OperandType classifies what an expression evaluates to (§3). It is the
// type tag consulted by the instruction operand rules in §4.5's table.
type OperandType int

const (
	Unspecified OperandType = iota
	ImmediateOperand
	RegisterOperand
	MemoryOperand
	// UnfinishedMemoryOperand is the transient state of a sub-expression
	// that contains a register but has not yet been wrapped by [...]. It
	// must never leak to the top of an operand; an instruction operand
	// still carrying it is reported as UNFINISHED_MEMORY_OPERAND.
	UnfinishedMemoryOperand
	InvalidOperand
)

func (t OperandType) String() string {
	switch t {
	case Unspecified:
		return "Unspecified"
	case ImmediateOperand:
		return "ImmediateOperand"
	case RegisterOperand:
		return "RegisterOperand"
	case MemoryOperand:
		return "MemoryOperand"
	case UnfinishedMemoryOperand:
		return "UnfinishedMemoryOperand"
	case InvalidOperand:
		return "InvalidOperand"
	default:
		return "Unknown"
	}
}

// OperandSize pairs a byte width with the name it's known by in
// diagnostics: BYTE=1, WORD=2, DWORD=4, QWORD=8, or a struct's own lexeme
// for a struct-typed operand.
type OperandSize struct {
	SymbolName string
	Bytes      int
}

var (
	SizeByte  = OperandSize{SymbolName: "BYTE", Bytes: 1}
	SizeWord  = OperandSize{SymbolName: "WORD", Bytes: 2}
	SizeDword = OperandSize{SymbolName: "DWORD", Bytes: 4}
	SizeQword = OperandSize{SymbolName: "QWORD", Bytes: 8}
)
