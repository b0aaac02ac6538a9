package sema

import "masmlint/ast"

// evalExpr dispatches on e's concrete type and annotates it in place
// (§4.5). Every sub-expression is visited depth-first so a parent node's
// rule can inspect its children's already-populated annotations.
func (a *Analyzer) evalExpr(e ast.Expr, ctx ExprContext) {
	if e == nil {
		return
	}
	// Pass 2 re-enters the same nodes; stale pass-1 annotations (most
	// importantly UnresolvedSymbols) must not survive into the re-run, so
	// every visit starts from a blank record (§9's two-pass driver note).
	*e.Annot() = ast.Annotation{}
	switch n := e.(type) {
	case *ast.Brackets:
		a.evalBrackets(n, ctx)
	case *ast.SquareBrackets:
		a.evalSquareBrackets(n, ctx)
	case *ast.ImplicitPlusOperator:
		a.evalImplicitPlus(n, ctx)
	case *ast.BinaryOperator:
		a.evalBinary(n, ctx)
	case *ast.UnaryOperator:
		a.evalUnary(n, ctx)
	case *ast.Leaf:
		a.evalLeaf(n, ctx)
	}
}

// copyAnnotation copies everything but the Diagnostic field from src into
// dst — used by the transparent operators ("()" and implicit-plus
// fallthrough) that simply forward their operand's annotation.
func copyAnnotation(dst, src *ast.Annotation) {
	dst.ConstantValue = src.ConstantValue
	dst.IsRelocatable = src.IsRelocatable
	dst.Type = src.Type
	dst.Size = src.Size
	dst.Registers = src.Registers
	dst.UnresolvedSymbols = src.UnresolvedSymbols
}

// evalBrackets: `( operand )` is fully transparent (§4.5's `()` row).
func (a *Analyzer) evalBrackets(n *ast.Brackets, ctx ExprContext) {
	a.evalExpr(n.Operand, ctx)
	copyAnnotation(&n.Annotation, n.Operand.Annot())
}
