package parser

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/token"
)

// isPrimaryLeafKind reports the token kinds parsePrimary accepts directly
// as a Leaf, without further structure (§4.2 grammar level 7).
func isPrimaryLeafKind(k token.Kind) bool {
	switch k {
	case token.Identifier, token.Number, token.StringLiteral, token.Register, token.Type, token.Dollar:
		return true
	default:
		return false
	}
}

// ParseExpression is the entry point for one expression (an instruction
// operand, an EQU/EQUAL right-hand side, a record field width, ...). It
// clears the expression delimiter stack before parsing, per §4.2.
func (p *Parser) ParseExpression() ast.Expr {
	p.exprDelims = p.exprDelims[:0]
	return p.parseAdditive()
}

// --- Level 1: additive `+ -` ---

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		word, ok := p.isMatchAnyWord("+", "-")
		if !ok {
			return left
		}
		opTok := p.previous()
		_ = word
		right := p.parseMultiplicative()
		left = &ast.BinaryOperator{Op: opTok, Left: left, Right: right}
	}
}

// --- Level 2: multiplicative `* / MOD SHL SHR` ---

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseLowUnary()
	for {
		if _, ok := p.isMatchAnyWord("*", "/", "MOD", "SHL", "SHR"); ok {
			opTok := p.previous()
			right := p.parseLowUnary()
			left = &ast.BinaryOperator{Op: opTok, Left: left, Right: right}
			continue
		}
		return left
	}
}

// --- Level 3: low-unary `+ - OFFSET TYPE` ---

func (p *Parser) parseLowUnary() ast.Expr {
	if _, ok := p.isMatchAnyWord("+", "-", "OFFSET", "TYPE"); ok {
		opTok := p.previous()
		operand := p.parseLowUnary()
		return &ast.UnaryOperator{Op: opTok, Operand: operand}
	}
	return p.parsePtr()
}

// --- Level 4: `PTR`, right-associative binary ---

func (p *Parser) parsePtr() ast.Expr {
	left := p.parseMemberIndex()
	if p.isMatchWord("PTR") {
		opTok := p.previous()
		right := p.parsePtr()
		return &ast.BinaryOperator{Op: opTok, Left: left, Right: right}
	}
	return left
}

// --- Level 5: member/index `. [] ()` ---

func (p *Parser) parseMemberIndex() ast.Expr {
	left := p.parseHighUnary()
	for {
		switch {
		case p.checkWord("."):
			p.advance()
			opTok := p.previous()
			idTok, ok := p.consumeKind(token.Identifier, diag.ExpectedIdentifier, "expected a field name after '.'")
			if !ok {
				return left
			}
			left = &ast.BinaryOperator{Op: opTok, Left: left, Right: &ast.Leaf{Tok: idTok}}
		case p.checkKind(token.OpenBracket):
			right := p.parseBrackets()
			left = &ast.ImplicitPlusOperator{Left: left, Right: right}
		case p.checkKind(token.OpenSquareBracket):
			right := p.parseSquareBrackets()
			left = &ast.ImplicitPlusOperator{Left: left, Right: right}
		default:
			return left
		}
	}
}

// --- Level 6: high-unary `LENGTH LENGTHOF SIZE SIZEOF WIDTH MASK` ---

func (p *Parser) parseHighUnary() ast.Expr {
	if _, ok := p.isMatchAnyWord("LENGTH", "LENGTHOF", "SIZE", "SIZEOF", "WIDTH", "MASK"); ok {
		opTok := p.previous()
		operand := p.parseHighUnary()
		return &ast.UnaryOperator{Op: opTok, Operand: operand}
	}
	return p.parsePrimary()
}

// --- Level 7: primary ---

func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.checkKind(token.OpenBracket):
		return p.parseBrackets()
	case p.checkKind(token.OpenSquareBracket):
		return p.parseSquareBrackets()
	case len(p.exprDelims) == 0 && (p.checkKind(token.CloseBracket) || p.checkKind(token.CloseSquareBracket)):
		tok := p.advance()
		p.errorf(diag.UnexpectedClosingDelimiter, tok.Span, "unexpected closing delimiter %q", tok.Lexeme)
		return &ast.Leaf{Tok: token.Token{Kind: token.Invalid, Span: tok.Span}}
	case isPrimaryLeafKind(p.peek().Kind):
		tok := p.advance()
		leaf := &ast.Leaf{Tok: tok}
		p.checkTrailingAfterLeaf()
		return leaf
	default:
		p.errorf(diag.ExpectedExpression, p.peek().Span, "expected an expression")
		// Sentinel: an Invalid-token leaf lets evaluation short-circuit
		// without a nil Expr ever reaching sema.
		return &ast.Leaf{Tok: token.Token{Kind: token.Invalid, Span: p.peek().Span}}
	}
}

// checkTrailingAfterLeaf implements §4.2's guard against `(var var)`: once
// a bare primary leaf has been parsed while inside an open delimiter, the
// next token must be a closer, an operator, or a comma.
func (p *Parser) checkTrailingAfterLeaf() {
	if len(p.exprDelims) == 0 || p.isFinished() {
		return
	}
	next := p.peek()
	// SHL and SHR lex as Instruction (the shift mnemonic and the shift
	// operator share a spelling), but here they can only be the operator.
	if next.Is("SHL") || next.Is("SHR") {
		return
	}
	switch next.Kind {
	case token.CloseBracket, token.CloseSquareBracket, token.Operator, token.Comma:
		return
	case token.EndOfLine, token.EndOfFile:
		return
	default:
		p.errorf(diag.ExpectedOperatorOrClosingDelimiter, next.Span,
			"expected an operator or closing delimiter, found %q", next.Lexeme)
	}
}

func (p *Parser) parseBrackets() *ast.Brackets {
	lparen := p.advance() // '('
	p.exprDelims = append(p.exprDelims, delim{open: lparen})
	inner := p.parseAdditive()
	rparen, ok := p.expectCloser(token.CloseBracket, lparen)
	if !ok {
		rparen = lparen
	}
	return &ast.Brackets{LParen: lparen, RParen: rparen, Operand: inner}
}

func (p *Parser) parseSquareBrackets() *ast.SquareBrackets {
	lbrack := p.advance() // '['
	p.exprDelims = append(p.exprDelims, delim{open: lbrack})
	inner := p.parseAdditive()
	rbrack, ok := p.expectCloser(token.CloseSquareBracket, lbrack)
	if !ok {
		rbrack = lbrack
	}
	return &ast.SquareBrackets{LBracket: lbrack, RBracket: rbrack, Operand: inner}
}

// expectCloser pops the expression delimiter stack, diagnosing
// UNCLOSED_DELIMITER (anchored at opener, with a secondary label at the
// current token) if the current token isn't kind. An already empty stack
// is left as it is and raises nothing (expectCloser is only ever called
// right after a push).
func (p *Parser) expectCloser(kind token.Kind, opener token.Token) (token.Token, bool) {
	if len(p.exprDelims) > 0 {
		p.exprDelims = p.exprDelims[:len(p.exprDelims)-1]
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
