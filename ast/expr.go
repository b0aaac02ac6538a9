// Package ast defines the tagged-variant syntax tree §3 names. Dispatch
// over the variants is a Go type switch against concrete pointer types
// (§9: "the analyzer's type dispatch... becomes a single pattern match per
// node"), not a visitor/Accept interface.
package ast

import (
	"masmlint/span"
	"masmlint/token"
)

// Expr is the common interface every expression-tree node implements. Its
// concrete type (found with a type switch, not a method call) selects the
// evaluation rule in sema's expression evaluator (§4.5).
type Expr interface {
	Span() span.Span
	Annot() *Annotation
	exprNode()
}

// Brackets is a parenthesized sub-expression: `( operand )`. Transparent to
// evaluation — its annotation is simply the operand's, copied across.
type Brackets struct {
	Annotation
	LParen, RParen token.Token
	Operand        Expr
}

func (e *Brackets) exprNode()        {}
func (e *Brackets) Annot() *Annotation { return &e.Annotation }
func (e *Brackets) Span() span.Span  { return e.LParen.Span.Merge(e.RParen.Span) }

// SquareBrackets is a memory dereference: `[ operand ]`.
type SquareBrackets struct {
	Annotation
	LBracket, RBracket token.Token
	Operand            Expr
}

func (e *SquareBrackets) exprNode()        {}
func (e *SquareBrackets) Annot() *Annotation { return &e.Annotation }
func (e *SquareBrackets) Span() span.Span  { return e.LBracket.Span.Merge(e.RBracket.Span) }

// ImplicitPlusOperator models the juxtaposition of two primaries produced
// by `primary[primary]` or `primary(primary)` (§4.2 grammar level 5),
// evaluated like `+` but with the stricter register-combination rules
// (§4.5: TWO_ESP_REGISTERS, MORE_THAN_TWO_REGISTERS).
type ImplicitPlusOperator struct {
	Annotation
	Left, Right Expr
}

func (e *ImplicitPlusOperator) exprNode()        {}
func (e *ImplicitPlusOperator) Annot() *Annotation { return &e.Annotation }
func (e *ImplicitPlusOperator) Span() span.Span  { return e.Left.Span().Merge(e.Right.Span()) }

// BinaryOperator covers every two-operand operator with an explicit token:
// `+ - * / MOD SHL SHR . PTR`.
type BinaryOperator struct {
	Annotation
	Op          token.Token
	Left, Right Expr
}

func (e *BinaryOperator) exprNode()        {}
func (e *BinaryOperator) Annot() *Annotation { return &e.Annotation }
func (e *BinaryOperator) Span() span.Span  { return e.Left.Span().Merge(e.Right.Span()) }

// UnaryOperator covers every single-operand prefix operator: `+ - OFFSET
// TYPE LENGTH LENGTHOF SIZE SIZEOF WIDTH MASK`.
type UnaryOperator struct {
	Annotation
	Op      token.Token
	Operand Expr
}

func (e *UnaryOperator) exprNode()        {}
func (e *UnaryOperator) Annot() *Annotation { return &e.Annotation }
func (e *UnaryOperator) Span() span.Span  { return e.Op.Span.Merge(e.Operand.Span()) }

// Leaf wraps a single token standing alone as an expression: identifier,
// number, string literal, register, type keyword, or `$`.
type Leaf struct {
	Annotation
	Tok token.Token
}

func (e *Leaf) exprNode()        {}
func (e *Leaf) Annot() *Annotation { return &e.Annotation }
func (e *Leaf) Span() span.Span  { return e.Tok.Span }
