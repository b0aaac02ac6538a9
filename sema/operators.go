package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/symtab"
	"masmlint/token"
)

// evalBinary dispatches a BinaryOperator node by its operator word/symbol
// (§4.5's operator table: `+ - * / MOD SHL SHR . PTR`).
func (a *Analyzer) evalBinary(n *ast.BinaryOperator, ctx ExprContext) {
	switch {
	case n.Op.Is("+"):
		a.evalAdd(n, ctx)
	case n.Op.Is("-"):
		a.evalSub(n, ctx)
	case n.Op.Is("*"):
		a.evalMul(n, ctx)
	case n.Op.Is("/"), n.Op.Is("MOD"), n.Op.Is("SHL"), n.Op.Is("SHR"):
		a.evalArith(n, ctx)
	case n.Op.Is("."):
		a.evalDot(n, ctx)
	case n.Op.Is("PTR"):
		a.evalPtr(n, ctx)
	default:
		n.Type = ast.InvalidOperand
	}
}

func (a *Analyzer) evalAdd(n *ast.BinaryOperator, ctx ExprContext) {
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
	n.Size = preferSize(left, right)
	// Register-combination validity is checked by the enclosing `[...]`,
	// not here: an explicit `+` may legitimately sit inside a bracketed
	// address expression that is still being assembled.
	n.Type = resultTypeForSum(left, right)
}

func (a *Analyzer) evalSub(n *ast.BinaryOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx)
	a.evalExpr(n.Right, ctx)
	left, right := n.Left.Annot(), n.Right.Annot()
	n.UnresolvedSymbols = left.UnresolvedSymbols || right.UnresolvedSymbols

	switch {
	case left.IsRelocatable && right.IsRelocatable:
		// Difference of two addresses is a plain, non-relocatable
		// constant (§4.5's `-` row).
		if left.ConstantValue != nil && right.ConstantValue != nil {
			v := *left.ConstantValue - *right.ConstantValue
			n.ConstantValue = &v
		}
		n.IsRelocatable = false
		n.Type = ast.ImmediateOperand
	case right.ConstantValue != nil && !right.IsRelocatable:
		if left.ConstantValue != nil {
			v := *left.ConstantValue - *right.ConstantValue
			n.ConstantValue = &v
		}
		n.IsRelocatable = left.IsRelocatable
		if left.Type == ast.RegisterOperand {
			n.Type = ast.UnfinishedMemoryOperand
		} else {
			n.Type = left.Type
		}
		n.Size = left.Size
		mergeRegisterSets(&n.Annotation, left)
	default:
		a.errorf(diag.ExpressionMustBeConstant, n.Right.Span(), "right-hand side of '-' must be constant")
		n.Type = ast.InvalidOperand
	}
}

func (a *Analyzer) evalMul(n *ast.BinaryOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx)
	a.evalExpr(n.Right, ctx)
	left, right := n.Left.Annot(), n.Right.Annot()
	n.UnresolvedSymbols = left.UnresolvedSymbols || right.UnresolvedSymbols

	if left.ConstantValue != nil && right.ConstantValue != nil {
		v := *left.ConstantValue * *right.ConstantValue
		n.ConstantValue = &v
		n.Type = ast.ImmediateOperand
		return
	}
	// constant * register → scale.
	constSide, regSide := left, right
	regNode := n.Right
	if len(left.Registers) == 1 && right.ConstantValue != nil {
		constSide, regSide = right, left
		regNode = n.Left
	}
	if len(regSide.Registers) == 1 && constSide.ConstantValue != nil {
		scale := int(*constSide.ConstantValue)
		for reg := range regSide.Registers {
			if reg.Upper() == "ESP" {
				a.errorf(diag.IncorrectIndexRegister, regNode.Span(), "ESP cannot be used as a scaled index register")
			}
			n.AddRegister(reg, &scale)
		}
		switch scale {
		case 1, 2, 4, 8:
		default:
			a.errorf(diag.InvalidScaleValue, n.Span(), "scale must be 1, 2, 4, or 8")
		}
		n.Type = ast.UnfinishedMemoryOperand
		return
	}
	a.errorf(diag.ExpressionMustBeConstant, n.Span(), "'*' requires two constants, or a constant and a register")
	n.Type = ast.InvalidOperand
}

// evalArith handles `/ MOD SHL SHR`, which all require two constants and
// produce a DWORD immediate (§4.5).
func (a *Analyzer) evalArith(n *ast.BinaryOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx)
	a.evalExpr(n.Right, ctx)
	left, right := n.Left.Annot(), n.Right.Annot()
	n.UnresolvedSymbols = left.UnresolvedSymbols || right.UnresolvedSymbols

	if left.ConstantValue == nil || right.ConstantValue == nil {
		if !n.UnresolvedSymbols {
			a.errorf(diag.ExpressionMustBeConstant, n.Span(), "%q requires both operands to be constant", n.Op.Lexeme)
		}
		n.Type = ast.InvalidOperand
		return
	}

	l, r := *left.ConstantValue, *right.ConstantValue
	isDivOrMod := n.Op.Is("/") || n.Op.Is("MOD")
	if isDivOrMod && r == 0 {
		if n.UnresolvedSymbols {
			v := int64(-1)
			n.ConstantValue = &v
			n.Type = ast.ImmediateOperand
			n.Size = &ast.SizeDword
			return
		}
		a.errorf(diag.DivisionByZeroInExpression, n.Right.Span(), "division by zero in constant expression")
		n.Type = ast.InvalidOperand
		return
	}

	var v int64
	switch {
	case n.Op.Is("/"):
		v = l / r
	case n.Op.Is("MOD"):
		v = l % r
	case n.Op.Is("SHL"):
		v = l << uint64(r)
	case n.Op.Is("SHR"):
		v = l >> uint64(r)
	}
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
	n.Size = &ast.SizeDword
}

// evalDot handles `lhs.field`, struct field access (§4.5's `.` row).
func (a *Analyzer) evalDot(n *ast.BinaryOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx)
	left := n.Left.Annot()
	n.UnresolvedSymbols = left.UnresolvedSymbols

	// A forward-referencing LHS has no type or size yet; the line is
	// already deferred, so the struct checks wait for pass 2 (§4.5).
	if left.UnresolvedSymbols {
		return
	}

	fieldLeaf, ok := n.Right.(*ast.Leaf)
	if !ok || left.Size == nil || left.Type != ast.MemoryOperand {
		a.errorf(diag.DotOperatorLHSNotStruct, n.Left.Span(), "left-hand side of '.' must be a struct-typed memory operand")
		n.Type = ast.InvalidOperand
		return
	}

	sym, ok := a.syms.FindName(left.Size.SymbolName)
	if !ok {
		if ctx.AllowForwardReferences {
			n.UnresolvedSymbols = true
			return
		}
		a.errorf(diag.DotOperatorLHSNotStruct, n.Left.Span(), "left-hand side type %q is not a struct", left.Size.SymbolName)
		n.Type = ast.InvalidOperand
		return
	}
	st, ok := sym.(*symtab.StructSymbol)
	if !ok {
		a.errorf(diag.DotOperatorLHSNotStruct, n.Left.Span(), "left-hand side type %q is not a struct", left.Size.SymbolName)
		n.Type = ast.InvalidOperand
		return
	}

	var field *symtab.DataVariableSymbol
	for _, f := range st.Fields {
		if f.Token().Lexeme == fieldLeaf.Tok.Lexeme {
			field = f
			break
		}
	}
	if field == nil {
		a.errorf(diag.DotOperatorUnknownField, fieldLeaf.Tok.Span, "struct %q has no field %q", st.Token().Lexeme, fieldLeaf.Tok.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}

	n.Type = ast.MemoryOperand
	n.IsRelocatable = left.IsRelocatable
	mergeRegisterSets(&n.Annotation, left)
	bytes := a.dataTypeSizeOf(field.DataTypeToken)
	if bytes == 0 {
		bytes = field.SizeOf
	}
	n.Size = &ast.OperandSize{SymbolName: canonicalDataTypeName(field.DataTypeToken), Bytes: bytes}
}

// evalPtr handles `type PTR expr` / `strucId PTR expr` (§4.5's `PTR` row).
func (a *Analyzer) evalPtr(n *ast.BinaryOperator, ctx ExprContext) {
	a.evalExpr(n.Left, ctx.withRegisters(false))
	a.evalExpr(n.Right, ctx)
	left, right := n.Left.Annot(), n.Right.Annot()
	n.UnresolvedSymbols = left.UnresolvedSymbols || right.UnresolvedSymbols

	leftIsType := n.Left.Annot().Type == ast.ImmediateOperand
	if !leftIsType || (right.Type != ast.MemoryOperand && !(right.Type == ast.ImmediateOperand && right.IsRelocatable)) {
		a.errorf(diag.PtrOperatorIncorrectArgument, n.Span(), "PTR requires a type or struct name and a memory or relocatable-immediate operand")
		n.Type = ast.InvalidOperand
		return
	}

	size := &ast.OperandSize{Bytes: intOrZero(left.ConstantValue)}
	if leaf, ok := n.Left.(*ast.Leaf); ok {
		if leaf.Tok.Kind == token.Type {
			size.SymbolName = leaf.Tok.Upper()
		} else {
			// A struct name keeps its declared spelling so later `.` field
			// lookups (case-sensitive, §4.3) still resolve it.
			size.SymbolName = leaf.Tok.Lexeme
		}
	}
	n.Type = right.Type
	n.IsRelocatable = right.IsRelocatable
	n.ConstantValue = right.ConstantValue
	mergeRegisterSets(&n.Annotation, right)
	n.Size = size
}

func intOrZero(v *int64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

// evalUnary dispatches a UnaryOperator node (§4.5: `+ - OFFSET TYPE LENGTH
// LENGTHOF SIZE SIZEOF WIDTH MASK`).
func (a *Analyzer) evalUnary(n *ast.UnaryOperator, ctx ExprContext) {
	switch {
	case n.Op.Is("+"), n.Op.Is("-"):
		a.evalUnarySign(n, ctx)
	case n.Op.Is("OFFSET"):
		a.evalOffset(n, ctx)
	case n.Op.Is("TYPE"):
		a.evalType(n, ctx)
	case n.Op.Is("LENGTH"), n.Op.Is("LENGTHOF"), n.Op.Is("SIZE"), n.Op.Is("SIZEOF"):
		a.evalSizeLength(n, ctx)
	case n.Op.Is("WIDTH"), n.Op.Is("MASK"):
		a.evalWidthMask(n, ctx)
	default:
		n.Type = ast.InvalidOperand
	}
}

func (a *Analyzer) evalUnarySign(n *ast.UnaryOperator, ctx ExprContext) {
	a.evalExpr(n.Operand, ctx)
	operand := n.Operand.Annot()
	n.UnresolvedSymbols = operand.UnresolvedSymbols
	if operand.ConstantValue == nil || operand.IsRelocatable {
		if !operand.UnresolvedSymbols {
			a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "unary %q requires a constant operand", n.Op.Lexeme)
		}
		n.Type = ast.InvalidOperand
		return
	}
	v := *operand.ConstantValue
	if n.Op.Is("-") {
		v = -v
	}
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
}

func (a *Analyzer) evalOffset(n *ast.UnaryOperator, ctx ExprContext) {
	a.evalExpr(n.Operand, ctx.withRegisters(false))
	operand := n.Operand.Annot()
	n.UnresolvedSymbols = operand.UnresolvedSymbols
	if len(operand.Registers) > 0 || !operand.IsRelocatable {
		if !operand.UnresolvedSymbols {
			a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "OFFSET requires an address expression without registers")
		}
		n.Type = ast.InvalidOperand
		return
	}
	n.ConstantValue = operand.ConstantValue
	n.IsRelocatable = true
	n.Type = ast.ImmediateOperand
	n.Size = &ast.SizeDword
}

func (a *Analyzer) evalType(n *ast.UnaryOperator, ctx ExprContext) {
	a.evalExpr(n.Operand, ctx)
	operand := n.Operand.Annot()
	n.UnresolvedSymbols = operand.UnresolvedSymbols
	var v int64
	if operand.Size != nil {
		v = int64(operand.Size.Bytes)
	} else {
		a.warnf(diag.TypeReturnsZero, n.Span(), "TYPE of an untyped expression returns 0")
	}
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
}

func (a *Analyzer) evalSizeLength(n *ast.UnaryOperator, ctx ExprContext) {
	leaf, ok := n.Operand.(*ast.Leaf)
	if !ok || leaf.Tok.Kind != token.Identifier {
		a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "%q requires a data-variable name", n.Op.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	sym, ok := a.syms.FindName(leaf.Tok.Lexeme)
	if !ok {
		if ctx.AllowForwardReferences {
			n.UnresolvedSymbols = true
			return
		}
		a.errorf(diag.UndefinedSymbol, leaf.Tok.Span, "undefined symbol %q", leaf.Tok.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	dv, ok := sym.(*symtab.DataVariableSymbol)
	if !ok {
		a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "%q requires a data-variable name", n.Op.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	var v int64
	switch {
	case n.Op.Is("SIZEOF"):
		v = int64(dv.SizeOf)
	case n.Op.Is("LENGTHOF"):
		v = int64(dv.LengthOf)
	case n.Op.Is("SIZE"):
		v = int64(dv.Size)
	case n.Op.Is("LENGTH"):
		v = int64(dv.Length)
	}
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
}

func (a *Analyzer) evalWidthMask(n *ast.UnaryOperator, ctx ExprContext) {
	leaf, ok := n.Operand.(*ast.Leaf)
	if !ok || leaf.Tok.Kind != token.Identifier {
		a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "%q requires a record or record-field name", n.Op.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	sym, ok := a.syms.FindName(leaf.Tok.Lexeme)
	if !ok {
		if ctx.AllowForwardReferences {
			n.UnresolvedSymbols = true
			return
		}
		a.errorf(diag.UndefinedSymbol, leaf.Tok.Span, "undefined symbol %q", leaf.Tok.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	var v int64
	switch s := sym.(type) {
	case *symtab.RecordSymbol:
		if n.Op.Is("WIDTH") {
			v = int64(s.Width)
		} else {
			v = int64(s.Mask)
		}
	case *symtab.RecordFieldSymbol:
		if n.Op.Is("WIDTH") {
			v = int64(s.Width)
		} else {
			v = int64(s.Mask)
		}
	default:
		a.errorf(diag.UnaryOperatorIncorrectArgument, n.Span(), "%q requires a record or record-field name", n.Op.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
}
