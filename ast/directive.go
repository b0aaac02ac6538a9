package ast

import (
	"masmlint/span"
	"masmlint/token"
)

// Statement is the common interface for one parsed line: either an
// Instruction or one of the Directive variants (§3).
type Statement interface {
	Span() span.Span
	stmtNode()
}

// Directive is the common interface for the eight directive variants. Every
// Directive is also a Statement.
type Directive interface {
	Statement
	directiveNode()
}

// Instruction is an assembly instruction line, optionally labelled, with an
// optional mnemonic: a bare label with no mnemonic is valid (§3).
type Instruction struct {
	Label    *token.Token
	Mnemonic *token.Token
	Operands []Expr
}

func (s *Instruction) stmtNode() {}
func (s *Instruction) Span() span.Span {
	var sp span.Span
	have := false
	if s.Label != nil {
		sp = s.Label.Span
		have = true
	}
	if s.Mnemonic != nil {
		if have {
			sp = sp.Merge(s.Mnemonic.Span)
		} else {
			sp = s.Mnemonic.Span
			have = true
		}
	}
	if n := len(s.Operands); n > 0 {
		last := s.Operands[n-1].Span()
		if have {
			sp = sp.Merge(last)
		} else {
			sp = last
		}
	}
	return sp
}

// DataItem is the right-hand side of a DataDir: a size/type token (a DB/DW/
// DD/DQ directive token, or an identifier naming a struct/record type) plus
// its initializer.
type DataItem struct {
	DataTypeToken token.Token
	InitValues    InitValue
}

// SegDir is `.CODE`, `.DATA`, or `.STACK`, with an optional size expression
// (used by `.STACK <size>`).
type SegDir struct {
	Directive token.Token
	Expr      Expr
}

func (d *SegDir) stmtNode()      {}
func (d *SegDir) directiveNode() {}
func (d *SegDir) Span() span.Span {
	if d.Expr != nil {
		return d.Directive.Span.Merge(d.Expr.Span())
	}
	return d.Directive.Span
}

// DataDir is a labelled (or anonymous) data declaration inside `.DATA` or a
// STRUC body: `[idToken] DataItem`.
type DataDir struct {
	IDToken *token.Token
	Item    DataItem
}

func (d *DataDir) stmtNode()      {}
func (d *DataDir) directiveNode() {}
func (d *DataDir) Span() span.Span {
	sp := d.Item.DataTypeToken.Span
	if d.IDToken != nil {
		sp = d.IDToken.Span.Merge(sp)
	}
	if d.Item.InitValues != nil {
		sp = sp.Merge(d.Item.InitValues.Span())
	}
	return sp
}

// StructDir is `firstId STRUC \n fields* \n secondId ENDS`.
type StructDir struct {
	FirstID   token.Token
	Directive token.Token
	Fields    []*DataDir
	SecondID  token.Token
	EndsDir   token.Token
}

func (d *StructDir) stmtNode()      {}
func (d *StructDir) directiveNode() {}
func (d *StructDir) Span() span.Span {
	return d.FirstID.Span.Merge(d.EndsDir.Span)
}

// ProcDir is `firstId PROC \n instructions* \n secondId ENDP`.
type ProcDir struct {
	FirstID      token.Token
	Directive    token.Token
	Instructions []*Instruction
	SecondID     token.Token
	EndpDir      token.Token
}

func (d *ProcDir) stmtNode()      {}
func (d *ProcDir) directiveNode() {}
func (d *ProcDir) Span() span.Span {
	return d.FirstID.Span.Merge(d.EndpDir.Span)
}

// RecordField is one `name:width[=initialValue]` member of a RECORD.
type RecordField struct {
	Name         token.Token
	Colon        token.Token
	Width        Expr
	Equals       *token.Token
	InitialValue Expr
}

func (f *RecordField) Span() span.Span {
	sp := f.Name.Span.Merge(f.Width.Span())
	if f.InitialValue != nil {
		sp = sp.Merge(f.InitialValue.Span())
	}
	return sp
}

// RecordDir is `id RECORD field, field, ...`.
type RecordDir struct {
	ID        token.Token
	Directive token.Token
	Fields    []*RecordField
}

func (d *RecordDir) stmtNode()      {}
func (d *RecordDir) directiveNode() {}
func (d *RecordDir) Span() span.Span {
	sp := d.ID.Span.Merge(d.Directive.Span)
	if n := len(d.Fields); n > 0 {
		sp = sp.Merge(d.Fields[n-1].Span())
	}
	return sp
}

// EquDir is `id EQU expr` — a symbolic constant with text-substitution
// semantics in the original source; here it's evaluated once like EqualDir
// (macro-style re-expansion is out of scope, see SPEC_FULL.md).
type EquDir struct {
	ID        token.Token
	Directive token.Token
	Expr      Expr
}

func (d *EquDir) stmtNode()      {}
func (d *EquDir) directiveNode() {}
func (d *EquDir) Span() span.Span {
	return d.ID.Span.Merge(d.Expr.Span())
}

// EqualDir is `id = expr`, a redefinable numeric constant.
type EqualDir struct {
	ID        token.Token
	Directive token.Token
	Expr      Expr
}

func (d *EqualDir) stmtNode()      {}
func (d *EqualDir) directiveNode() {}
func (d *EqualDir) Span() span.Span {
	return d.ID.Span.Merge(d.Expr.Span())
}

// EndDir is the final `END [expr]` line terminating the program.
type EndDir struct {
	Directive token.Token
	Expr      Expr
}

func (d *EndDir) stmtNode()      {}
func (d *EndDir) directiveNode() {}
func (d *EndDir) Span() span.Span {
	if d.Expr != nil {
		return d.Directive.Span.Merge(d.Expr.Span())
	}
	return d.Directive.Span
}

// Program is the root of the tree: every parsed statement plus the
// terminating EndDir, if the input had one (§4.2: its absence is itself a
// diagnosed condition, not a parse failure).
type Program struct {
	Statements []Statement
	EndDir     *EndDir
}
