package parser

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/token"
)

// ParseDataItemInitValues parses the right-hand side of a data declaration
// as a top-level comma-separated initializer list (§4.2's data-initializer
// grammar, which uses its own delimiter stack since `< >` only means
// something here, not in general expressions).
func (p *Parser) ParseDataItemInitValues() *ast.InitializerList {
	p.dataDelims = p.dataDelims[:0]
	return p.parseInitValueList(token.EndOfLine)
}

// parseInitValueList parses a comma-separated run of init values, stopping
// at closer (the closing delimiter expected by the enclosing context) or at
// EndOfLine/EndOfFile when closer is EndOfLine (the unparenthesized
// top-level case).
func (p *Parser) parseInitValueList(closer token.Kind) *ast.InitializerList {
	list := &ast.InitializerList{}
	for {
		// `<>` (and `DUP ()`) are legal empty aggregates; the top level,
		// where closer is EndOfLine, still requires at least one value.
		if closer != token.EndOfLine && p.checkKind(closer) {
			break
		}
		list.Fields = append(list.Fields, p.parseInitValue())
		if p.checkKind(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return list
}

// parseInitValue parses one initializer: `?`, a struct/record aggregate
// `< ... >`, a `count DUP ( ... )`, or a plain expression.
func (p *Parser) parseInitValue() ast.InitValue {
	switch {
	case p.checkKind(token.QuestionMark):
		tok := p.advance()
		return &ast.QuestionMarkInitValue{Tok: tok}

	case p.checkKind(token.OpenAngleBracket):
		langle := p.advance()
		p.dataDelims = append(p.dataDelims, delim{open: langle})
		fields := p.parseInitValueList(token.CloseAngleBracket)
		rangle, ok := p.expectDataCloser(token.CloseAngleBracket, langle)
		if !ok {
			rangle = langle
		}
		return &ast.StructOrRecordInitValue{LAngle: langle, RAngle: rangle, Fields: fields}

	default:
		expr := p.ParseExpression()
		if p.checkWord("DUP") {
			op := p.advance()
			lparen, ok := p.consumeKind(token.OpenBracket, diag.ExpectedExpression, "expected '(' after DUP")
			if !ok {
				return &ast.ExpressionInitValue{Value: expr}
			}
			p.dataDelims = append(p.dataDelims, delim{open: lparen})
			operands := p.parseInitValueList(token.CloseBracket)
			rparen, ok := p.expectDataCloser(token.CloseBracket, lparen)
			if !ok {
				rparen = lparen
			}
			return &ast.DupOperator{RepeatCount: expr, Op: op, LParen: lparen, Operands: operands, RParen: rparen}
		}
		return &ast.ExpressionInitValue{Value: expr}
	}
}

// expectDataCloser mirrors expectCloser but operates on the data-initializer
// delimiter stack.
func (p *Parser) expectDataCloser(kind token.Kind, opener token.Token) (token.Token, bool) {
	if len(p.dataDelims) > 0 {
		p.dataDelims = p.dataDelims[:len(p.dataDelims)-1]
	}
	if p.checkKind(kind) {
		return p.advance(), true
	}
	cur := p.peek()
	p.errorf(diag.UnclosedDelimiter, opener.Span, "unclosed delimiter")
	if d := p.sink.GetLastDiagnostic(); d != nil {
		d.AddSecondary(cur.Span, "expected closing delimiter here")
	}
	return cur, false
}
