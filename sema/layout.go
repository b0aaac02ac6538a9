package sema

import (
	"masmlint/ast"
	"masmlint/symtab"
	"masmlint/token"
)

// dataItemSize is the result of walking a DataItem's initializer
// (§4.5's "DataItem" layout computation): sizeOf describes the whole
// initializer, firstSize/firstLength describe only its first field
// (the SIZE/LENGTH vs SIZEOF/LENGTHOF distinction).
type dataItemSize struct {
	sizeOf       int
	dataTypeSize int
	firstSize    int
	firstLength  int
	unresolved   bool
}

// dataTypeSizeOf resolves a DataItem's declared type token to a byte
// width: the four directive widths, or a previously declared struct's
// size.
func (a *Analyzer) dataTypeSizeOf(typeTok token.Token) int {
	switch {
	case typeTok.Is("DB"):
		return 1
	case typeTok.Is("DW"):
		return 2
	case typeTok.Is("DD"):
		return 4
	case typeTok.Is("DQ"):
		return 8
	}
	if sym, ok := a.syms.FindName(typeTok.Lexeme); ok {
		switch s := sym.(type) {
		case *symtab.StructSymbol:
			return s.Size
		case *symtab.RecordSymbol:
			return 4
		}
	}
	return 0
}

// canonicalDataTypeName maps a data-declaration directive token to the
// operand-size name instructions compare against; any other token (a
// struct or record name) passes through unchanged.
func canonicalDataTypeName(typeTok token.Token) string {
	switch {
	case typeTok.Is("DB"):
		return "BYTE"
	case typeTok.Is("DW"):
		return "WORD"
	case typeTok.Is("DD"):
		return "DWORD"
	case typeTok.Is("DQ"):
		return "QWORD"
	default:
		return typeTok.Lexeme
	}
}

// visitInitValue computes the size of a DataItem's initializer tree,
// evaluating every constant expression it contains along the way.
func (a *Analyzer) visitInitValue(iv ast.InitValue, typeTok token.Token, ctx ExprContext) dataItemSize {
	dataTypeSize := a.dataTypeSizeOf(typeTok)
	isDQ := typeTok.Is("DQ")
	isDB := typeTok.Is("DB")

	result := a.sizeOfInitValue(iv, dataTypeSize, isDQ, isDB, ctx, true)
	result.dataTypeSize = dataTypeSize
	// SIZE/LENGTH are tied by §8's round-trip law: `SIZE x == sizeof type of
	// x × length of first initializer`. Deriving firstLength from firstSize
	// this way satisfies that identity by construction.
	if dataTypeSize != 0 {
		result.firstLength = result.firstSize / dataTypeSize
	} else if result.firstSize > 0 {
		result.firstLength = 1
	}
	return result
}

func (a *Analyzer) sizeOfInitValue(iv ast.InitValue, dataTypeSize int, isDQ, isDB bool, ctx ExprContext, isFirstField bool) dataItemSize {
	switch v := iv.(type) {
	case nil:
		return dataItemSize{}

	case *ast.QuestionMarkInitValue:
		return dataItemSize{sizeOf: dataTypeSize, firstSize: dataTypeSize}

	case *ast.ExpressionInitValue:
		leafCtx := ctx
		leafCtx.InDQDepth1 = isDQ
		leafCtx.InDBDepth1 = isDB
		a.evalExpr(v.Value, leafCtx)
		size := dataTypeSize
		if isDB {
			if lit, ok := v.Value.(*ast.Leaf); ok && lit.Tok.Kind == token.StringLiteral {
				size = len(lit.Tok.Lexeme) - 2
				if size < 0 {
					size = 0
				}
			}
		}
		return dataItemSize{sizeOf: size, firstSize: size, unresolved: v.Value.Annot().UnresolvedSymbols}

	case *ast.DupOperator:
		a.evalExpr(v.RepeatCount, ExprContext{})
		count := 0
		if cv := v.RepeatCount.Annot().ConstantValue; cv != nil {
			count = int(*cv)
		}
		inner := a.sizeOfInitList(v.Operands, dataTypeSize, isDQ, isDB, ctx)
		total := inner.sizeOf * count
		return dataItemSize{sizeOf: total, firstSize: total, unresolved: inner.unresolved}

	case *ast.StructOrRecordInitValue:
		inner := a.sizeOfInitList(v.Fields, dataTypeSize, false, false, ctx)
		size := dataTypeSize
		if size == 0 {
			size = inner.sizeOf
		}
		return dataItemSize{sizeOf: size, firstSize: size, unresolved: inner.unresolved}

	case *ast.InitializerList:
		return a.sizeOfInitList(v, dataTypeSize, isDQ, isDB, ctx)

	default:
		return dataItemSize{}
	}
}

func (a *Analyzer) sizeOfInitList(list *ast.InitializerList, dataTypeSize int, isDQ, isDB bool, ctx ExprContext) dataItemSize {
	if list == nil || len(list.Fields) == 0 {
		return dataItemSize{}
	}
	total := 0
	unresolved := false
	var first dataItemSize
	for i, field := range list.Fields {
		sz := a.sizeOfInitValue(field, dataTypeSize, isDQ, isDB, ctx, i == 0)
		total += sz.sizeOf
		if sz.unresolved {
			unresolved = true
		}
		if i == 0 {
			first = sz
		}
	}
	return dataItemSize{sizeOf: total, firstSize: first.firstSize, unresolved: unresolved}
}
