package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/symtab"
	"masmlint/token"
)

// evalLeaf annotates a single-token expression: identifier, number, string
// literal, register, type keyword, or `$` (§4.5's leaf rows).
func (a *Analyzer) evalLeaf(n *ast.Leaf, ctx ExprContext) {
	switch n.Tok.Kind {
	case token.Identifier:
		a.evalIdentifierLeaf(n, ctx)
	case token.Number:
		a.evalNumberLeaf(n, ctx)
	case token.StringLiteral:
		a.evalStringLeaf(n, ctx)
	case token.Register:
		a.evalRegisterLeaf(n, ctx)
	case token.Type:
		a.evalTypeKeywordLeaf(n)
	case token.Dollar:
		a.evalDollarLeaf(n)
	default:
		n.Type = ast.InvalidOperand
	}
}

func (a *Analyzer) evalIdentifierLeaf(n *ast.Leaf, ctx ExprContext) {
	sym, ok := a.syms.FindName(n.Tok.Lexeme)
	if !ok {
		if ctx.AllowForwardReferences {
			n.UnresolvedSymbols = true
			return
		}
		a.errorf(diag.UndefinedSymbol, n.Tok.Span, "undefined symbol %q", n.Tok.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}

	// A symbol declared later in the file but not yet visited this pass,
	// or visited but whose own initializer hasn't resolved yet, is itself
	// an unresolved forward reference. Once forward references stop being
	// allowed (pass 2, or a context like a record field width), the same
	// state is a hard error (§4.4).
	if !sym.WasVisited() || !sym.WasDefined() {
		if ctx.AllowForwardReferences {
			n.UnresolvedSymbols = true
			return
		}
		a.errorf(diag.UndefinedSymbol, n.Tok.Span, "undefined symbol %q", n.Tok.Lexeme)
		n.Type = ast.InvalidOperand
		return
	}

	switch s := sym.(type) {
	case *symtab.DataVariableSymbol:
		n.IsRelocatable = true
		if !ctx.AllowRegisters {
			// Outside an instruction operand a data variable stands for
			// its address: a DWORD immediate.
			n.Type = ast.ImmediateOperand
			n.Size = &ast.SizeDword
			return
		}
		n.Type = ast.MemoryOperand
		// An array's element count is ambiguous as a bare operand size;
		// only a scalar (single-element) declaration carries one.
		if s.LengthOf <= 1 {
			if elemSize := a.dataTypeSizeOf(s.DataTypeToken); elemSize > 0 {
				n.Size = &ast.OperandSize{SymbolName: canonicalDataTypeName(s.DataTypeToken), Bytes: elemSize}
			}
		}

	case *symtab.LabelSymbol:
		n.Type = ast.ImmediateOperand
		n.IsRelocatable = true
		v := int64(s.Offset)
		n.ConstantValue = &v
		n.Size = &ast.SizeDword

	case *symtab.ProcSymbol:
		n.Type = ast.ImmediateOperand
		n.IsRelocatable = true
		v := int64(s.Offset)
		n.ConstantValue = &v
		n.Size = &ast.SizeDword

	case *symtab.StructSymbol:
		// Bare struct name used as a type operand, e.g. to the left of PTR.
		n.Type = ast.ImmediateOperand
		v := int64(s.Size)
		n.ConstantValue = &v

	case *symtab.RecordSymbol:
		// A bare record name evaluates to its full mask (§4.5's leaf table).
		n.Type = ast.ImmediateOperand
		v := int64(s.Mask)
		n.ConstantValue = &v

	case *symtab.RecordFieldSymbol:
		// A bare record-field name evaluates to its shift count.
		n.Type = ast.ImmediateOperand
		v := int64(s.Shift)
		n.ConstantValue = &v

	case *symtab.EquVariableSymbol:
		n.Type = ast.ImmediateOperand
		n.IsRelocatable = s.IsRelocatable
		v := s.Value
		n.ConstantValue = &v

	case *symtab.EqualVariableSymbol:
		n.Type = ast.ImmediateOperand
		v := s.Value
		n.ConstantValue = &v

	default:
		n.Type = ast.InvalidOperand
	}
}

func (a *Analyzer) evalNumberLeaf(n *ast.Leaf, ctx ExprContext) {
	bits := 32
	if ctx.InDQDepth1 {
		bits = 64
	}
	v, ok := token.ParseNumber(n.Tok.Lexeme, bits)
	if !ok {
		a.errorf(diag.ConstantTooLarge, n.Tok.Span, "constant %q does not fit in %d bits", n.Tok.Lexeme, bits)
		n.Type = ast.InvalidOperand
		return
	}
	cv := int64(v)
	n.ConstantValue = &cv
	n.Type = ast.ImmediateOperand
	// A bare number has no inherent operand size; where one is needed the
	// instruction rules derive the minimum width the value fits in.
}

func (a *Analyzer) evalStringLeaf(n *ast.Leaf, ctx ExprContext) {
	raw := n.Tok.Lexeme
	content := raw
	if len(raw) >= 2 {
		content = raw[1 : len(raw)-1]
	}
	n.Type = ast.ImmediateOperand

	if ctx.InDBDepth1 {
		// A DB-context string is a byte array; its size is accounted for
		// by the initializer layout walk, not here, and there is no single
		// constant value.
		return
	}

	if len(content) > 4 {
		a.errorf(diag.StringTooLarge, n.Tok.Span, "string literal %q is too long to pack into a 32-bit value", raw)
		n.Type = ast.InvalidOperand
		return
	}
	var packed int64
	for i := 0; i < len(content); i++ {
		packed |= int64(content[i]) << uint(8*i)
	}
	n.ConstantValue = &packed
}

func (a *Analyzer) evalRegisterLeaf(n *ast.Leaf, ctx ExprContext) {
	if !ctx.AllowRegisters {
		a.errorf(diag.CantHaveRegistersInExpression, n.Tok.Span, "registers are not allowed in this expression")
		n.Type = ast.InvalidOperand
		return
	}
	n.Type = ast.RegisterOperand
	n.AddRegister(n.Tok, nil)
	n.Size = registerSize(n.Tok)
}

func registerSize(tok token.Token) *ast.OperandSize {
	switch tok.Upper() {
	case "AL", "BL", "CL", "DL":
		return &ast.SizeByte
	case "AX", "BX", "CX", "DX", "SI", "DI", "BP", "SP":
		return &ast.SizeWord
	default:
		return &ast.SizeDword
	}
}

func (a *Analyzer) evalTypeKeywordLeaf(n *ast.Leaf) {
	var bytes int
	switch n.Tok.Upper() {
	case "BYTE":
		bytes = 1
	case "WORD":
		bytes = 2
	case "DWORD":
		bytes = 4
	case "QWORD":
		bytes = 8
	}
	v := int64(bytes)
	n.ConstantValue = &v
	n.Type = ast.ImmediateOperand
}

// evalDollarLeaf resolves `$`, the relocatable current-location-counter
// operand (§4.5).
func (a *Analyzer) evalDollarLeaf(n *ast.Leaf) {
	v := int64(a.currentOffset)
	n.ConstantValue = &v
	n.IsRelocatable = true
	n.Type = ast.ImmediateOperand
	n.Size = &ast.SizeDword
}
