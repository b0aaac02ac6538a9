package sema

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/symtab"
)

// visitStatement dispatches on stmt's concrete type — the "type dispatch
// becomes a single pattern match per node" design §9 calls for, here
// applied to statements as well as expressions.
func (a *Analyzer) visitStatement(stmt ast.Statement, ctx ExprContext) {
	switch s := stmt.(type) {
	case *ast.Instruction:
		a.visitInstruction(s, ctx)
	case *ast.SegDir:
		a.visitSegDir(s, ctx)
	case *ast.DataDir:
		a.visitDataDir(s, nil, ctx)
	case *ast.StructDir:
		a.visitStructDir(s, ctx)
	case *ast.ProcDir:
		a.visitProcDir(s, ctx)
	case *ast.RecordDir:
		a.visitRecordDir(s, ctx)
	case *ast.EquDir:
		a.visitEquDir(s, ctx)
	case *ast.EqualDir:
		a.visitEqualDir(s, ctx)
	case *ast.EndDir:
		a.visitEndDir(s, ctx)
	}
}

func (a *Analyzer) visitSegDir(s *ast.SegDir, ctx ExprContext) {
	if s.Expr != nil {
		a.evalExpr(s.Expr, ctx.withRegisters(false))
	}
	if a.pass == 1 {
		a.currentOffset = 0
	}
}

func (a *Analyzer) visitEndDir(s *ast.EndDir, ctx ExprContext) {
	if s.Expr == nil {
		return
	}
	a.evalExpr(s.Expr, ExprContext{AllowForwardReferences: ctx.AllowForwardReferences})
	if s.Expr.Annot().UnresolvedSymbols {
		a.deferLine(s)
	}
}

// visitInstruction evaluates every operand, allowing registers and, in
// pass 1, forward references, then applies the operand rule table keyed
// by the mnemonic (§4.5).
func (a *Analyzer) visitInstruction(s *ast.Instruction, ctx ExprContext) {
	if a.pass == 1 && s.Label != nil {
		if sym, ok := a.syms.FindName(s.Label.Lexeme); ok {
			if lab, ok := sym.(*symtab.LabelSymbol); ok {
				lab.Offset = a.currentOffset
				lab.SetVisited(true)
				lab.SetDefined(true)
			}
		}
	}

	if s.Mnemonic == nil {
		return // bare label line, nothing to evaluate
	}

	opCtx := ctx.withRegisters(true)
	unresolved := false
	for _, op := range s.Operands {
		a.evalExpr(op, opCtx)
		if op.Annot().UnresolvedSymbols {
			unresolved = true
		}
	}

	if unresolved {
		a.deferLine(s)
	} else {
		a.checkInstructionOperands(s)
	}

	if a.pass == 1 {
		a.currentOffset++
	}
}

// visitDataDir evaluates a (possibly struct-member) data declaration.
// strucOwner is the owning StructDir when this DataDir is a struct field;
// visitDataDir itself does not read it.
func (a *Analyzer) visitDataDir(s *ast.DataDir, strucOwner *ast.StructDir, ctx ExprContext) {
	dataCtx := ctx.withRegisters(false)
	size := a.visitInitValue(s.Item.InitValues, s.Item.DataTypeToken, dataCtx)

	if s.IDToken == nil {
		return
	}
	sym, ok := a.syms.FindName(s.IDToken.Lexeme)
	if !ok {
		return
	}
	dv, ok := sym.(*symtab.DataVariableSymbol)
	if !ok {
		return
	}

	if a.pass == 1 {
		dv.SetVisited(true)
		dv.SizeOf = size.sizeOf
		typeSize := size.dataTypeSize
		if typeSize != 0 {
			dv.LengthOf = size.sizeOf / typeSize
		}
		dv.Size = size.firstSize
		dv.Length = size.firstLength
		a.currentOffset += size.sizeOf

		if size.unresolved {
			// The initializer references a symbol not yet defined; finish
			// the job once everything else in pass 1 has been declared.
			a.deferLine(s)
			return
		}
	}

	if !size.unresolved {
		dv.SetDefined(true)
	}
}

func (a *Analyzer) visitStructDir(s *ast.StructDir, ctx ExprContext) {
	saved := a.currentOffset
	a.currentOffset = 0
	for _, field := range s.Fields {
		a.panicking = false
		a.visitDataDir(field, s, ctx)
	}
	if a.pass == 1 {
		if sym, ok := a.syms.FindName(s.FirstID.Lexeme); ok {
			if st, ok := sym.(*symtab.StructSymbol); ok {
				st.Size = a.currentOffset
				st.SetVisited(true)
				st.SetDefined(true)
			}
		}
	}
	a.currentOffset = saved
}

func (a *Analyzer) visitProcDir(s *ast.ProcDir, ctx ExprContext) {
	if a.pass == 1 {
		if sym, ok := a.syms.FindName(s.FirstID.Lexeme); ok {
			if proc, ok := sym.(*symtab.ProcSymbol); ok {
				proc.Offset = a.currentOffset
				proc.SetVisited(true)
				proc.SetDefined(true)
			}
		}
	}
	for _, instr := range s.Instructions {
		a.panicking = false
		a.visitInstruction(instr, ctx)
	}
}

func (a *Analyzer) visitRecordDir(s *ast.RecordDir, ctx ExprContext) {
	widthCtx := ExprContext{}
	totalWidth := 0
	fieldWidths := make([]int, len(s.Fields))
	for i, f := range s.Fields {
		a.evalExpr(f.Width, widthCtx)
		w := 0
		if cv := f.Width.Annot().ConstantValue; cv != nil {
			w = int(*cv)
		}
		if w <= 0 {
			a.errorf(diag.RecordFieldWidthMustBePositive, f.Width.Span(), "record field width must be positive")
		}
		fieldWidths[i] = w
		totalWidth += w
		if f.InitialValue != nil {
			a.evalExpr(f.InitialValue, widthCtx)
		}
	}
	if totalWidth > 32 {
		a.errorf(diag.RecordWidthTooBig, s.Span(), "record width %d exceeds 32 bits", totalWidth)
	}

	if a.pass != 1 {
		return
	}
	// Shifts are assigned right-to-left: the last declared field gets
	// shift 0. Masks are 1 << (width − 1), for fields and the whole
	// record alike (§4.5).
	shift := 0
	for i := len(s.Fields) - 1; i >= 0; i-- {
		w := fieldWidths[i]
		mask := uint32(0)
		if w > 0 && w <= 32 {
			mask = uint32(1) << uint(w-1)
		}
		if sym, ok := a.syms.FindName(s.Fields[i].Name.Lexeme); ok {
			if rf, ok := sym.(*symtab.RecordFieldSymbol); ok {
				rf.Width = w
				rf.Shift = shift
				rf.Mask = mask
				if iv := s.Fields[i].InitialValue; iv != nil {
					rf.InitialValue = iv.Annot().ConstantValue
				}
				rf.SetVisited(true)
				rf.SetDefined(true)
			}
		}
		shift += w
	}
	if sym, ok := a.syms.FindName(s.ID.Lexeme); ok {
		if rec, ok := sym.(*symtab.RecordSymbol); ok {
			rec.Width = totalWidth
			if totalWidth > 0 && totalWidth <= 32 {
				rec.Mask = uint32(1) << uint(totalWidth-1)
			}
			rec.SetVisited(true)
			rec.SetDefined(true)
		}
	}
}

func (a *Analyzer) visitEquDir(s *ast.EquDir, ctx ExprContext) {
	a.evalExpr(s.Expr, ExprContext{AllowForwardReferences: ctx.AllowForwardReferences})
	if s.Expr.Annot().UnresolvedSymbols {
		a.deferLine(s)
		return
	}
	// The symbol is populated in whichever pass the right-hand side first
	// resolves — a forward-referencing EQU completes here in pass 2.
	if sym, ok := a.syms.FindName(s.ID.Lexeme); ok {
		if eq, ok := sym.(*symtab.EquVariableSymbol); ok {
			if cv := s.Expr.Annot().ConstantValue; cv != nil {
				eq.Value = *cv
			}
			eq.IsRelocatable = s.Expr.Annot().IsRelocatable
			eq.SetVisited(true)
			eq.SetDefined(true)
		}
	}
}

func (a *Analyzer) visitEqualDir(s *ast.EqualDir, ctx ExprContext) {
	a.evalExpr(s.Expr, ExprContext{AllowForwardReferences: ctx.AllowForwardReferences})
	if s.Expr.Annot().UnresolvedSymbols {
		a.deferLine(s)
		return
	}
	if sym, ok := a.syms.FindName(s.ID.Lexeme); ok {
		if eq, ok := sym.(*symtab.EqualVariableSymbol); ok {
			if cv := s.Expr.Annot().ConstantValue; cv != nil {
				eq.Value = *cv
			}
			eq.SetVisited(true)
			eq.SetDefined(true)
		}
	}
}
