package sema

import (
	"math"

	"masmlint/ast"
	"masmlint/diag"
	"masmlint/symtab"
	"masmlint/token"
)

var twoOperandArith = map[string]bool{
	"ADC": true, "ADD": true, "AND": true, "CMP": true, "MOV": true,
	"OR": true, "SBB": true, "SUB": true, "TEST": true, "XOR": true,
}

var oneOperandLabelJump = map[string]bool{
	"CALL": true, "JMP": true, "LOOP": true, "LOOPE": true, "LOOPNE": true,
	"LOOPNZ": true, "LOOPZ": true,
	"JA": true, "JAE": true, "JB": true, "JBE": true, "JC": true, "JE": true,
	"JG": true, "JGE": true, "JL": true, "JLE": true, "JNA": true, "JNAE": true,
	"JNB": true, "JNBE": true, "JNC": true, "JNE": true, "JNG": true, "JNGE": true,
	"JNL": true, "JNLE": true, "JNO": true, "JNP": true, "JNS": true, "JNZ": true,
	"JO": true, "JP": true, "JPE": true, "JPO": true, "JS": true, "JZ": true,
}

// oneOperandMemOrReg is DEC/DIV/IDIV/IMUL/INC/MUL/NEG/NOT: POP and PUSH
// share the "one sized operand" shape but each carries its own extra size
// rule (semantic_analyzer.cpp's POP/PUSH branches), so they get their own
// checks below instead of folding into this group.
var oneOperandMemOrReg = map[string]bool{
	"DEC": true, "DIV": true, "IDIV": true,
	"IMUL": true, "INC": true, "MUL": true, "NEG": true, "NOT": true,
}

var zeroOperand = map[string]bool{
	"CBW": true, "CDQ": true, "CWD": true, "POPFD": true, "PUSHFD": true,
}

var shiftGroup = map[string]bool{
	"RCL": true, "RCR": true, "ROL": true, "ROR": true, "SHL": true, "SHR": true,
}

// checkInstructionOperands applies the mnemonic-keyed operand rule table.
// It runs only once all operands evaluated cleanly (visitInstruction
// defers lines with unresolved symbols before calling this).
func (a *Analyzer) checkInstructionOperands(s *ast.Instruction) {
	mnemonic := s.Mnemonic.Upper()
	ops := s.Operands

	for _, op := range ops {
		a.rejectUnfinishedMemory(op)
		// No instruction accepts an operand wider than a DWORD; this also
		// catches struct-typed memory operands of awkward sizes.
		if sz := op.Annot().Size; sz != nil {
			switch sz.Bytes {
			case 1, 2, 4:
			default:
				a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be 1, 2, or 4 bytes, got %d", sz.Bytes)
				return
			}
		}
	}

	switch {
	case twoOperandArith[mnemonic]:
		a.checkTwoOperandArith(s, ops)
	case oneOperandLabelJump[mnemonic]:
		a.checkOneOperandLabelJump(s, ops)
	case mnemonic == "POP":
		a.checkPop(s, ops)
	case mnemonic == "PUSH":
		a.checkPush(s, ops)
	case oneOperandMemOrReg[mnemonic]:
		a.checkOneOperandMemOrReg(s, ops)
	case zeroOperand[mnemonic]:
		a.checkArity(s, ops, 0)
	case mnemonic == "LEA":
		a.checkLea(s, ops)
	case mnemonic == "MOVSX" || mnemonic == "MOVZX":
		a.checkMovxx(s, ops)
	case shiftGroup[mnemonic]:
		a.checkShiftGroup(s, ops)
	case mnemonic == "RET":
		a.checkRet(s, ops)
	case mnemonic == "XCHG":
		a.checkXchg(s, ops)
	case mnemonic == "INCHAR":
		a.checkReadInto(s, ops, 1)
	case mnemonic == "ININT":
		a.checkReadInto(s, ops, 4)
	case mnemonic == "OUTI" || mnemonic == "OUTU" || mnemonic == "OUTSTR":
		a.checkWriteFrom(s, ops, 4)
	case mnemonic == "OUTCHAR":
		a.checkWriteFrom(s, ops, 1)
	case mnemonic == "EXIT" || mnemonic == "NEWLINE":
		a.checkArity(s, ops, 0)
	default:
		a.errorf(diag.UnknownMnemonic, s.Mnemonic.Span, "unknown mnemonic %q", s.Mnemonic.Lexeme)
	}
}

func (a *Analyzer) checkArity(s *ast.Instruction, ops []ast.Expr, want int) {
	if len(ops) != want {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected %d operand(s), got %d", want, len(ops))
	}
}

// checkReadInto handles INCHAR/ININT: the destination must be memory or a
// register of exactly wantBytes.
func (a *Analyzer) checkReadInto(s *ast.Instruction, ops []ast.Expr, wantBytes int) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	ann := op.Annot()
	if ann.Type != ast.MemoryOperand && ann.Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be memory or register")
		return
	}
	if ann.Size == nil {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be known")
		return
	}
	if ann.Size.Bytes != wantBytes {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand must be %d byte(s), got %d", wantBytes, ann.Size.Bytes)
	}
}

// checkWriteFrom handles OUTI/OUTU/OUTSTR/OUTCHAR: a constant operand must
// fit in wantBytes; anything else must be sized exactly wantBytes.
func (a *Analyzer) checkWriteFrom(s *ast.Instruction, ops []ast.Expr, wantBytes int) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	ann := op.Annot()
	if ann.ConstantValue != nil {
		if minimumSizeForConstant(*ann.ConstantValue).Bytes > wantBytes {
			a.errorf(diag.ImmediateTooBig, op.Span(), "immediate operand does not fit in %d byte(s)", wantBytes)
		}
		return
	}
	if ann.Size == nil {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be known")
		return
	}
	if ann.Size.Bytes != wantBytes {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand must be %d byte(s), got %d", wantBytes, ann.Size.Bytes)
	}
}

// rejectUnfinishedMemory enforces §3's invariant that UnfinishedMemoryOperand
// must never reach the top of an instruction operand.
func (a *Analyzer) rejectUnfinishedMemory(op ast.Expr) {
	if op.Annot().Type == ast.UnfinishedMemoryOperand {
		a.errorf(diag.UnfinishedMemoryOperand, op.Span(), "register expression must be enclosed in '[...]'")
	}
}

func (a *Analyzer) checkTwoOperandArith(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 2 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 2 operands, got %d", len(ops))
		return
	}
	dst, src := ops[0], ops[1]
	dstA, srcA := dst.Annot(), src.Annot()

	if dstA.Type == ast.MemoryOperand && srcA.Type == ast.MemoryOperand {
		a.errorf(diag.CantHaveTwoMemoryOperands, s.Span(), "both operands are memory")
		return
	}
	if dstA.Type == ast.ImmediateOperand {
		a.errorf(diag.DestOperandCantBeImmediate, dst.Span(), "destination operand cannot be immediate")
		return
	}
	if dstA.Size == nil && srcA.Size == nil {
		a.errorf(diag.InvalidOperandSize, s.Span(), "at least one operand must have a known size")
		return
	}
	// A constant source has no inherent size; it is sized by the minimum
	// width its value fits in.
	srcSize := srcA.Size
	if srcA.ConstantValue != nil {
		srcSize = minimumSizeForConstant(*srcA.ConstantValue)
	}
	if dstA.Size != nil && srcSize != nil {
		if srcA.ConstantValue != nil {
			if srcSize.Bytes > dstA.Size.Bytes {
				a.errorf(diag.ImmediateTooBig, src.Span(), "immediate operand too large for destination size")
			}
		} else if srcSize.Bytes != dstA.Size.Bytes {
			a.errorf(diag.OperandsDifferentSize, s.Span(), "operands have different sizes")
		}
	}
}

// checkOneOperandLabelJump handles CALL/JMP/Jxx/LOOP: the operand must be an
// identifier leaf resolving to a LabelSymbol or ProcSymbol specifically —
// not merely a relocatable immediate, which an EQU'd alias of a label would
// also be (semantic_analyzer.cpp's CALL/JMP branch).
func (a *Analyzer) checkOneOperandLabelJump(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	leaf, ok := op.(*ast.Leaf)
	if !ok || leaf.Tok.Kind != token.Identifier {
		a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be a label or procedure name")
		return
	}
	sym, ok := a.syms.FindName(leaf.Tok.Lexeme)
	if !ok {
		a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be a label or procedure name")
		return
	}
	switch sym.(type) {
	case *symtab.LabelSymbol, *symtab.ProcSymbol:
	default:
		a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be a label or procedure name")
	}
}

// checkOneOperandMemOrReg handles DEC/DIV/IDIV/IMUL/INC/MUL/NEG/NOT: the
// operand must be memory or register, and sized.
func (a *Analyzer) checkOneOperandMemOrReg(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	ann := op.Annot()
	if ann.Type != ast.MemoryOperand && ann.Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be memory or register")
		return
	}
	if ann.Size == nil {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be known")
	}
}

// checkPop: the operand must be memory or register, sized exactly 4 bytes
// (semantic_analyzer.cpp's POP branch).
func (a *Analyzer) checkPop(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	ann := op.Annot()
	if ann.Type != ast.MemoryOperand && ann.Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, op.Span(), "POP operand must be memory or register")
		return
	}
	if ann.Size == nil {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be known")
		return
	}
	if ann.Size.Bytes != 4 {
		a.errorf(diag.InvalidOperandSize, op.Span(), "POP operand must be 4 bytes, got %d", ann.Size.Bytes)
	}
}

// checkPush: an immediate operand is sized by the minimum width its
// constant value fits in and must not exceed 4 bytes; any other operand
// must already be sized exactly 4 bytes (semantic_analyzer.cpp's PUSH
// branch).
func (a *Analyzer) checkPush(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 1 operand, got %d", len(ops))
		return
	}
	op := ops[0]
	ann := op.Annot()

	size := ann.Size
	if ann.ConstantValue != nil {
		size = minimumSizeForConstant(*ann.ConstantValue)
	}
	if size == nil {
		a.errorf(diag.InvalidOperandSize, op.Span(), "operand size must be known")
		return
	}
	if ann.ConstantValue != nil {
		if size.Bytes > 4 {
			a.errorf(diag.ImmediateTooBig, op.Span(), "immediate operand too large to push")
		}
	} else if size.Bytes != 4 {
		a.errorf(diag.InvalidOperandSize, op.Span(), "PUSH operand must be 4 bytes, got %d", size.Bytes)
	}
}

// minimumSizeForConstant is the smallest of BYTE/WORD/DWORD that v fits in,
// read either as unsigned or as a negative signed value of that width
// (semantic_analyzer.cpp's getMinimumSizeForConstant).
func minimumSizeForConstant(v int64) *ast.OperandSize {
	switch {
	case v >= math.MinInt8 && v <= math.MaxUint8:
		return &ast.SizeByte
	case v >= math.MinInt16 && v <= math.MaxUint16:
		return &ast.SizeWord
	case v >= math.MinInt32 && v <= math.MaxUint32:
		return &ast.SizeDword
	default:
		return &ast.SizeQword
	}
}

func (a *Analyzer) checkLea(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 2 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 2 operands, got %d", len(ops))
		return
	}
	dst, src := ops[0], ops[1]
	if dst.Annot().Type != ast.RegisterOperand || dst.Annot().Size == nil || dst.Annot().Size.Bytes != 4 {
		a.errorf(diag.InvalidOperandKind, dst.Span(), "LEA destination must be a 32-bit register")
	}
	if src.Annot().Type != ast.MemoryOperand {
		a.errorf(diag.InvalidOperandKind, src.Span(), "LEA source must be a memory operand")
	}
}

func (a *Analyzer) checkMovxx(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 2 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 2 operands, got %d", len(ops))
		return
	}
	dst, src := ops[0], ops[1]
	if dst.Annot().Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, dst.Span(), "destination must be a register")
		return
	}
	if src.Annot().Type != ast.MemoryOperand && src.Annot().Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, src.Span(), "source must be a memory operand or register")
		return
	}
	if dst.Annot().Size == nil || src.Annot().Size == nil {
		a.errorf(diag.InvalidOperandSize, s.Span(), "both operands must have a known size")
		return
	}
	if dst.Annot().Size.Bytes <= src.Annot().Size.Bytes {
		a.errorf(diag.OperandsDifferentSize, s.Span(), "destination must be strictly larger than source")
	}
}

func (a *Analyzer) checkShiftGroup(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 2 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 2 operands, got %d", len(ops))
		return
	}
	dst, src := ops[0], ops[1]
	if dst.Annot().Type != ast.MemoryOperand && dst.Annot().Type != ast.RegisterOperand {
		a.errorf(diag.InvalidOperandKind, dst.Span(), "destination must be memory or register")
		return
	}
	if dst.Annot().Size == nil {
		a.errorf(diag.InvalidOperandSize, dst.Span(), "destination size must be known")
		return
	}
	isCL := false
	if leaf, ok := src.(*ast.Leaf); ok && isRegisterToken(leaf.Tok) && leaf.Tok.Upper() == "CL" {
		isCL = true
	}
	if isCL {
		return
	}
	if src.Annot().ConstantValue == nil {
		a.errorf(diag.InvalidOperandKind, src.Span(), "shift count must be a constant or CL")
		return
	}
	if minimumSizeForConstant(*src.Annot().ConstantValue).Bytes > 1 {
		a.errorf(diag.InvalidOperandSize, src.Span(), "shift count must fit in 1 byte")
	}
}

func (a *Analyzer) checkRet(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) > 1 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "RET takes 0 or 1 operands")
		return
	}
	if len(ops) == 0 {
		return
	}
	op := ops[0]
	ann := op.Annot()
	if ann.Type != ast.ImmediateOperand {
		a.errorf(diag.InvalidOperandKind, op.Span(), "RET operand must be immediate")
		return
	}
	size := ann.Size
	if ann.ConstantValue != nil {
		size = minimumSizeForConstant(*ann.ConstantValue)
	}
	if size == nil || size.Bytes > 2 {
		a.errorf(diag.ImmediateTooBig, op.Span(), "RET operand must be an immediate of at most 2 bytes")
	}
}

func (a *Analyzer) checkXchg(s *ast.Instruction, ops []ast.Expr) {
	if len(ops) != 2 {
		a.errorf(diag.InvalidNumberOfOperands, s.Span(), "expected 2 operands, got %d", len(ops))
		return
	}
	dst, src := ops[0], ops[1]
	if dst.Annot().Type == ast.MemoryOperand && src.Annot().Type == ast.MemoryOperand {
		a.errorf(diag.CantHaveTwoMemoryOperands, s.Span(), "both operands are memory")
		return
	}
	for _, op := range ops {
		if op.Annot().Type != ast.MemoryOperand && op.Annot().Type != ast.RegisterOperand {
			a.errorf(diag.InvalidOperandKind, op.Span(), "operand must be memory or register")
			return
		}
	}
	if dst.Annot().Size != nil && src.Annot().Size != nil && dst.Annot().Size.Bytes != src.Annot().Size.Bytes {
		a.errorf(diag.OperandsDifferentSize, s.Span(), "operands have different sizes")
	}
}
