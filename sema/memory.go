package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/token"
)

var reg32 = map[string]bool{
	"EAX": true, "EBX": true, "ECX": true, "EDX": true,
	"ESI": true, "EDI": true, "EBP": true, "ESP": true,
}

// validateAddressRegisters applies the register-combination rules shared
// by `[]` and ImplicitPlus (§4.5): at most two registers total, at most
// one carries a scale, that scale must be one of 1/2/4/8, every
// contributing register must be 32-bit, and ESP may appear at most once.
func (a *Analyzer) validateAddressRegisters(n *ast.Annotation, anchor ast.Expr) {
	if len(n.Registers) > 2 {
		a.errorf(diag.MoreThanTwoRegisters, anchor.Span(), "more than two registers in an address expression")
	}
	scaled := 0
	espCount := 0
	espUnscaled := false
	otherUnscaled := 0
	for reg, scale := range n.Registers {
		if !reg32[reg.Upper()] {
			a.errorf(diag.Non32BitRegister, anchor.Span(), "register %q is not 32-bit", reg.Lexeme)
		}
		if reg.Upper() == "ESP" {
			espCount++
			if scale == nil {
				espUnscaled = true
			}
		} else if scale == nil {
			otherUnscaled++
		}
		if scale != nil {
			scaled++
			switch *scale {
			case 1, 2, 4, 8:
			default:
				a.errorf(diag.InvalidScaleValue, anchor.Span(), "scale must be 1, 2, 4, or 8")
			}
		}
	}
	if scaled > 1 {
		a.errorf(diag.MoreThanOneScale, anchor.Span(), "more than one register carries a scale")
	}
	if espCount > 1 {
		a.errorf(diag.TwoEspRegisters, anchor.Span(), "ESP cannot appear twice in an address expression")
	} else if espUnscaled && otherUnscaled > 0 {
		// Two unscaled registers with ESP among them: which one is the
		// base and which the index is ambiguous, and ESP can never be
		// encoded as an index (only ESP alone, or ESP unscaled next to an
		// explicitly scaled index, is unambiguous).
		a.errorf(diag.IncorrectIndexRegister, anchor.Span(), "ESP cannot be used as an index register")
	}
}

// evalSquareBrackets: `[ operand ]` turns a register-carrying expression
// into a memory reference (§4.5's `[]` row). A bare Immediate containing
// free registers reaching here is the UnfinishedMemoryOperand case
// resolving into a real MemoryOperand.
func (a *Analyzer) evalSquareBrackets(n *ast.SquareBrackets, ctx ExprContext) {
	innerCtx := ctx.withRegisters(true)
	a.evalExpr(n.Operand, innerCtx)
	inner := n.Operand.Annot()

	n.UnresolvedSymbols = inner.UnresolvedSymbols
	n.Registers = inner.Registers
	n.Type = ast.MemoryOperand
	n.ConstantValue = inner.ConstantValue
	n.IsRelocatable = inner.IsRelocatable
	// Bare `[]` around a pure register expression erases any previously
	// known size (§3: "size... may become nullopt when modifiers erase a
	// known size").
	if inner.Type == ast.RegisterOperand || inner.Type == ast.UnfinishedMemoryOperand {
		n.Size = nil
	} else {
		n.Size = inner.Size
	}

	a.validateAddressRegisters(&n.Annotation, n)
}

// evalImplicitPlus handles `primary[primary]`/`primary(primary)`
// juxtaposition: evaluated like `+` but with the ImplicitPlus-specific
// register rules (§4.5).
func (a *Analyzer) evalImplicitPlus(n *ast.ImplicitPlusOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx)
	a.evalExpr(n.Right, ctx)
	left, right := n.Left.Annot(), n.Right.Annot()

	n.UnresolvedSymbols = left.UnresolvedSymbols || right.UnresolvedSymbols
	if left.IsRelocatable && right.IsRelocatable {
		a.errorf(diag.CantAddVariables, n.Span(), "cannot add two relocatable expressions")
		n.Type = ast.InvalidOperand
		return
	}
	combineConstants(&n.Annotation, left, right)
	mergeRegisterSets(&n.Annotation, left, right)
	n.Type = resultTypeForSum(left, right)
	n.Size = preferSize(left, right)

	// Unlike explicit `+`, juxtaposition validates its register
	// combination immediately: [esp][esp] must be caught here, before the
	// enclosing context ever sees the merged set (§4.5's ImplicitPlus row).
	a.validateAddressRegisters(&n.Annotation, n)
}

func mergeRegisterSets(dst *ast.Annotation, srcs ...*ast.Annotation) {
	for _, s := range srcs {
		for reg, scale := range s.Registers {
			dst.AddRegister(reg, scale)
		}
	}
}

// combineConstants sums two operands' constant values when both are
// constant, leaving ConstantValue nil otherwise.
func combineConstants(dst *ast.Annotation, left, right *ast.Annotation) {
	if left.ConstantValue != nil && right.ConstantValue != nil {
		v := *left.ConstantValue + *right.ConstantValue
		dst.ConstantValue = &v
	}
	dst.IsRelocatable = left.IsRelocatable || right.IsRelocatable
}

// resultTypeForSum implements the shared `+`/implicit-plus result ladder
// (§4.5): immediate + immediate stays immediate; a free register on either
// side (bare, or already part of an unfinished address) keeps the sum
// unfinished until `[...]` closes it; memory absorbs everything else.
func resultTypeForSum(left, right *ast.Annotation) ast.OperandType {
	switch {
	case left.Type == ast.ImmediateOperand && right.Type == ast.ImmediateOperand:
		return ast.ImmediateOperand
	case left.Type == ast.RegisterOperand || right.Type == ast.RegisterOperand,
		left.Type == ast.UnfinishedMemoryOperand || right.Type == ast.UnfinishedMemoryOperand:
		return ast.UnfinishedMemoryOperand
	case left.Type == ast.MemoryOperand || right.Type == ast.MemoryOperand:
		return ast.MemoryOperand
	default:
		return ast.InvalidOperand
	}
}

func preferSize(left, right *ast.Annotation) *ast.OperandSize {
	if left.Size != nil {
		return left.Size
	}
	return right.Size
}

// isRegisterToken reports whether tok is a Register-kind token.
func isRegisterToken(tok token.Token) bool {
	return tok.Kind == token.Register
}
