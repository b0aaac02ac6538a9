package ast

import (
	"masmlint/span"
	"masmlint/token"
)

// InitValue is the common interface for a data item's initializer tree
// (§3). Unlike Expr, these nodes carry no semantic Annotation of their own;
// the sizes/lengths they contribute are computed by sema's layout pass and
// stored on the owning DataVariableSymbol.
type InitValue interface {
	Span() span.Span
	initValueNode()
}

// QuestionMarkInitValue is the `?` uninitialized placeholder.
type QuestionMarkInitValue struct {
	Tok token.Token
}

func (v *QuestionMarkInitValue) initValueNode() {}
func (v *QuestionMarkInitValue) Span() span.Span { return v.Tok.Span }

// ExpressionInitValue is a single initializer expression, e.g. the `5` in
// `DB 5`.
type ExpressionInitValue struct {
	Value Expr
}

func (v *ExpressionInitValue) initValueNode() {}
func (v *ExpressionInitValue) Span() span.Span { return v.Value.Span() }

// DupOperator is `repeatCount DUP ( operands )`.
type DupOperator struct {
	RepeatCount Expr
	Op          token.Token
	LParen      token.Token
	Operands    *InitializerList
	RParen      token.Token
}

func (v *DupOperator) initValueNode() {}
func (v *DupOperator) Span() span.Span {
	return v.RepeatCount.Span().Merge(v.RParen.Span)
}

// StructOrRecordInitValue is a `< field, field, ... >` aggregate
// initializer for a struct- or record-typed data item.
type StructOrRecordInitValue struct {
	LAngle   token.Token
	RAngle   token.Token
	Fields   *InitializerList
}

func (v *StructOrRecordInitValue) initValueNode() {}
func (v *StructOrRecordInitValue) Span() span.Span {
	return v.LAngle.Span.Merge(v.RAngle.Span)
}

// InitializerList is a comma-separated run of InitValues, used both as the
// top-level DataItem initializer (`DB 1, 2, 3`) and inside DupOperator /
// StructOrRecordInitValue.
type InitializerList struct {
	Fields []InitValue
}

func (v *InitializerList) initValueNode() {}
func (v *InitializerList) Span() span.Span {
	if len(v.Fields) == 0 {
		return span.Span{}
	}
	return v.Fields[0].Span().Merge(v.Fields[len(v.Fields)-1].Span())
}
