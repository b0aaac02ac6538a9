// Package symtab implements the single lexeme-keyed symbol table the
// semantic analyzer reads and writes across its two passes (§4.3).
package symtab

import "masmlint/token"

// Symbol is the common interface every declared name implements. Every
// variant carries the declaring token plus the two lifecycle flags §3
// describes: wasVisited flips the instant the analyzer reaches the
// declaration, wasDefined flips once its right-hand side is fully
// resolved. A symbol may be looked up before either flag is set — the
// forward-reference case pass 1 defers to pass 2.
type Symbol interface {
	Token() token.Token
	WasVisited() bool
	SetVisited(bool)
	WasDefined() bool
	SetDefined(bool)
	symbolNode()
}

type base struct {
	Tok     token.Token
	Visited bool
	Defined bool
}

func (b *base) Token() token.Token { return b.Tok }
func (b *base) WasVisited() bool   { return b.Visited }
func (b *base) SetVisited(v bool)  { b.Visited = v }
func (b *base) WasDefined() bool   { return b.Defined }
func (b *base) SetDefined(v bool)  { b.Defined = v }

func newBase(tok token.Token) base { return base{Tok: tok} }

// NewDataVariableSymbol, NewLabelSymbol, etc. construct a symbol declared
// at tok, used by the analyzer's declaration pre-pass (§4.3/§4.4), which
// lives outside this package and so cannot build these structs with a
// literal referencing the unexported base field directly.

func NewDataVariableSymbol(tok token.Token, dataTypeToken token.Token) *DataVariableSymbol {
	return &DataVariableSymbol{base: newBase(tok), DataTypeToken: dataTypeToken}
}

func NewLabelSymbol(tok token.Token) *LabelSymbol {
	return &LabelSymbol{base: newBase(tok)}
}

func NewProcSymbol(tok token.Token) *ProcSymbol {
	return &ProcSymbol{base: newBase(tok)}
}

func NewStructSymbol(tok token.Token) *StructSymbol {
	return &StructSymbol{base: newBase(tok)}
}

func NewRecordSymbol(tok token.Token) *RecordSymbol {
	return &RecordSymbol{base: newBase(tok)}
}

func NewRecordFieldSymbol(tok token.Token) *RecordFieldSymbol {
	return &RecordFieldSymbol{base: newBase(tok)}
}

func NewEquVariableSymbol(tok token.Token) *EquVariableSymbol {
	return &EquVariableSymbol{base: newBase(tok)}
}

func NewEqualVariableSymbol(tok token.Token) *EqualVariableSymbol {
	return &EqualVariableSymbol{base: newBase(tok)}
}

// DataVariableSymbol is a labelled DataDir: `name DB/DW/DD/DQ/<struct> ...`.
type DataVariableSymbol struct {
	base
	DataTypeToken token.Token
	// SizeOf/LengthOf are SIZEOF/LENGTHOF: the whole initializer's total
	// byte size and its element count. Size/Length are SIZE/LENGTH: the
	// same pair computed from only the first initializer field (§4.5's
	// DataItem layout rule).
	SizeOf   int
	LengthOf int
	Size     int
	Length   int
}

func (*DataVariableSymbol) symbolNode() {}

// LabelSymbol is an instruction-line label, relocatable at its segment
// offset.
type LabelSymbol struct {
	base
	Offset int
}

func (*LabelSymbol) symbolNode() {}

// ProcSymbol is a PROC name, relocatable like a label at the offset of its
// first instruction.
type ProcSymbol struct {
	base
	Offset int
}

func (*ProcSymbol) symbolNode() {}

// StructSymbol is a STRUC name; Size is the sum of its fields' sizes.
type StructSymbol struct {
	base
	Size   int
	Fields []*DataVariableSymbol
}

func (*StructSymbol) symbolNode() {}

// RecordSymbol is a RECORD name; Width is the sum of its fields' bit
// widths (≤ 32), Mask covers the whole record.
type RecordSymbol struct {
	base
	Width  int
	Mask   uint32
	Fields []*RecordFieldSymbol
}

func (*RecordSymbol) symbolNode() {}

// RecordFieldSymbol is one bitfield of a RECORD, with its right-to-left
// assigned Shift and per-field Mask (§4.5's RecordDir layout rule).
type RecordFieldSymbol struct {
	base
	Width        int
	Shift        int
	Mask         uint32
	InitialValue *int64
}

func (*RecordFieldSymbol) symbolNode() {}

// EquVariableSymbol is an EQU constant; Value may be relocatable when the
// EQU expression names a label or proc.
type EquVariableSymbol struct {
	base
	Value         int64
	IsRelocatable bool
}

func (*EquVariableSymbol) symbolNode() {}

// EqualVariableSymbol is a `name = expr` redefinable numeric constant.
type EqualVariableSymbol struct {
	base
	Value int64
}

func (*EqualVariableSymbol) symbolNode() {}
