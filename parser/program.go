package parser

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/token"
)

// Parse runs the top-level grammar `(Statement? EndOfLine)* EndDir?
// EndOfFile` (§4.2) over the whole token stream.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}

	for {
		for p.checkKind(token.EndOfLine) {
			p.advance()
		}
		if p.isFinished() {
			p.errorf(diag.ExpectedEndDirective, p.peek().Span, "expected an END directive before end of file")
			return prog
		}
		if p.checkWord("END") {
			prog.EndDir = p.parseEndDir()
			p.expectLineEnd()
			return prog
		}

		stmt := p.parseStatementLine()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.expectLineEnd()
	}
}

// expectLineEnd consumes the EndOfLine terminating the current line,
// recovering to the next line boundary on mismatch, and clears the
// per-line panic flag (§4.2, §7).
func (p *Parser) expectLineEnd() {
	if p.isFinished() {
		return
	}
	if p.checkKind(token.EndOfLine) {
		p.advance()
		p.resetPanic()
		return
	}
	p.errorf(diag.ExpectedEndOfLine, p.peek().Span, "expected end of line")
	p.synchronize()
	if p.checkKind(token.EndOfLine) {
		p.advance()
	}
	p.resetPanic()
}

// parseStatementLine dispatches on the first non-blank token of a line
// (§4.2's statement dispatch rule).
func (p *Parser) parseStatementLine() ast.Statement {
	tok := p.peek()

	switch {
	case tok.Kind == token.Directive && (tok.Is(".CODE") || tok.Is(".DATA") || tok.Is(".STACK")):
		return p.parseSegDir()

	// `=` is punctuation (an Operator token), unlike its STRUC/PROC/EQU
	// siblings which lex as Directive, so the lookahead checks by word.
	case tok.Kind == token.Identifier && (p.peekAt(1).Kind == token.Directive || p.peekAt(1).Is("=")):
		switch {
		case p.peekAt(1).Is("STRUC"):
			return p.parseStructDir()
		case p.peekAt(1).Is("PROC"):
			return p.parseProcDir()
		case p.peekAt(1).Is("RECORD"):
			return p.parseRecordDir()
		case p.peekAt(1).Is("EQU"):
			return p.parseEquDir()
		case p.peekAt(1).Is("="):
			return p.parseEqualDir()
		}

	case isBareDeclKeyword(tok):
		p.errorf(diag.ExpectedIdentifierBeforeX, tok.Span, "expected an identifier before %q", tok.Lexeme)
		p.synchronize()
		return nil

	case tok.Kind == token.Directive && (tok.Is("ENDS") || tok.Is("ENDP")):
		p.errorf(diag.BareDirectiveKeyword, tok.Span, "%q without a matching opening directive", tok.Lexeme)
		p.synchronize()
		return nil
	}

	switch p.seg {
	case dataSegment:
		return p.parseDataDirLine()
	case codeSegment:
		return p.parseInstructionLine()
	default:
		start := tok
		p.synchronize()
		end := p.previous()
		p.errorf(diag.MustBeInSegmentBlock, start.Span.Merge(end.Span), "statement must be inside a segment block")
		return nil
	}
}

func isBareDeclKeyword(tok token.Token) bool {
	return tok.Is("STRUC") || tok.Is("PROC") || tok.Is("RECORD") || tok.Is("EQU") || tok.Is("=")
}

func (p *Parser) parseSegDir() *ast.SegDir {
	directive := p.advance()
	var expr ast.Expr
	if directive.Is(".STACK") && !p.checkKind(token.EndOfLine) && !p.isFinished() {
		expr = p.ParseExpression()
	}
	switch {
	case directive.Is(".CODE"):
		p.seg = codeSegment
	case directive.Is(".DATA"):
		p.seg = dataSegment
	case directive.Is(".STACK"):
		p.seg = stackSegment
	}
	return &ast.SegDir{Directive: directive, Expr: expr}
}

func (p *Parser) parseEquDir() *ast.EquDir {
	id := p.advance()
	directive := p.advance() // EQU
	expr := p.ParseExpression()
	return &ast.EquDir{ID: id, Directive: directive, Expr: expr}
}

func (p *Parser) parseEqualDir() *ast.EqualDir {
	id := p.advance()
	directive := p.advance() // =
	expr := p.ParseExpression()
	return &ast.EqualDir{ID: id, Directive: directive, Expr: expr}
}

func (p *Parser) parseEndDir() *ast.EndDir {
	directive := p.advance() // END
	var expr ast.Expr
	if !p.checkKind(token.EndOfLine) && !p.isFinished() {
		expr = p.ParseExpression()
	}
	return &ast.EndDir{Directive: directive, Expr: expr}
}

// parseDataDirLine parses one line inside `.DATA` (or a STRUC body):
// `[idToken] dataTypeToken initValues`.
func (p *Parser) parseDataDirLine() *ast.DataDir {
	var idTok *token.Token
	if p.checkKind(token.Identifier) && p.peekAt(1).Kind != token.EndOfLine {
		t := p.advance()
		idTok = &t
	}
	dataType, ok := p.consumeTypeToken()
	if !ok {
		return &ast.DataDir{IDToken: idTok, Item: ast.DataItem{DataTypeToken: dataType}}
	}
	initValues := p.ParseDataItemInitValues()
	return &ast.DataDir{IDToken: idTok, Item: ast.DataItem{DataTypeToken: dataType, InitValues: initValues}}
}

// consumeTypeToken accepts a DB/DW/DD/DQ directive token or an identifier
// naming a previously declared struct/record type.
func (p *Parser) consumeTypeToken() (token.Token, bool) {
	if p.checkKind(token.Directive) || p.checkKind(token.Identifier) {
		return p.advance(), true
	}
	p.errorf(diag.ExpectedIdentifier, p.peek().Span, "expected a data type")
	return p.peek(), false
}

// parseInstructionLine parses one line inside `.CODE`: an optional label,
// an optional mnemonic, and its operands. A labelled line with no
// mnemonic is valid (§3).
func (p *Parser) parseInstructionLine() *ast.Instruction {
	var label *token.Token
	if p.checkKind(token.Identifier) && p.peekAt(1).Kind == token.Colon {
		t := p.advance()
		label = &t
		p.advance() // ':'
	}

	if p.checkKind(token.EndOfLine) || p.isFinished() {
		return &ast.Instruction{Label: label}
	}

	mnemonicTok, ok := p.consumeKind(token.Instruction, diag.ExpectedIdentifier, "expected an instruction mnemonic")
	if !ok {
		return &ast.Instruction{Label: label}
	}
	mnemonic := mnemonicTok

	var operands []ast.Expr
	for !p.checkKind(token.EndOfLine) && !p.isFinished() {
		operands = append(operands, p.ParseExpression())
		if p.checkKind(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Instruction{Label: label, Mnemonic: &mnemonic, Operands: operands}
}
