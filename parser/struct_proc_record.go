package parser

import (
	"masmlint/ast"
	"masmlint/diag"
	"masmlint/token"
)

// parseStructDir parses `id STRUC \n fields* \n id ENDS` (§4.2).
func (p *Parser) parseStructDir() *ast.StructDir {
	firstID := p.advance()    // identifier
	directive := p.advance()  // STRUC
	p.expectLineEnd()

	var fields []*ast.DataDir
	for {
		for p.checkKind(token.EndOfLine) {
			p.advance()
		}
		if p.isFinished() {
			p.errorf(diag.ExpectedEndDirective, p.peek().Span, "expected ENDS before end of file")
			return &ast.StructDir{FirstID: firstID, Directive: directive, Fields: fields}
		}
		if p.checkKind(token.Identifier) && p.peekAt(1).Is("ENDS") {
			break
		}
		if p.checkWord("ENDS") {
			break
		}
		fields = append(fields, p.parseDataDirLine())
		p.expectLineEnd()
	}

	secondID, endsDir := p.parseClosingIdentifier(firstID, "ENDS")
	return &ast.StructDir{FirstID: firstID, Directive: directive, Fields: fields, SecondID: secondID, EndsDir: endsDir}
}

// parseProcDir parses `id PROC \n instructions* \n id ENDP` (§4.2).
func (p *Parser) parseProcDir() *ast.ProcDir {
	firstID := p.advance()   // identifier
	directive := p.advance() // PROC
	p.expectLineEnd()

	var instructions []*ast.Instruction
	for {
		for p.checkKind(token.EndOfLine) {
			p.advance()
		}
		if p.isFinished() {
			p.errorf(diag.ExpectedEndDirective, p.peek().Span, "expected ENDP before end of file")
			return &ast.ProcDir{FirstID: firstID, Directive: directive, Instructions: instructions}
		}
		if p.checkKind(token.Identifier) && p.peekAt(1).Is("ENDP") {
			break
		}
		if p.checkWord("ENDP") {
			break
		}
		instructions = append(instructions, p.parseInstructionLine())
		p.expectLineEnd()
	}

	secondID, endpDir := p.parseClosingIdentifier(firstID, "ENDP")
	return &ast.ProcDir{FirstID: firstID, Directive: directive, Instructions: instructions, SecondID: secondID, EndpDir: endpDir}
}

// parseClosingIdentifier parses the `id ENDS`/`id ENDP` pair closing a
// STRUC/PROC body, diagnosing a mismatched identifier
// (EXPECTED_DIFFERENT_IDENTIFIER) or a missing one
// (EXPECTED_IDENTIFIER_BEFORE_X, for a bare ENDS/ENDP).
func (p *Parser) parseClosingIdentifier(firstID token.Token, closeWord string) (token.Token, token.Token) {
	if !p.checkKind(token.Identifier) {
		if p.checkWord(closeWord) {
			p.errorf(diag.ExpectedIdentifierBeforeX, p.peek().Span,
				"expected identifier %q before %q", firstID.Lexeme, closeWord)
			return firstID, p.advance()
		}
		p.errorf(diag.ExpectedIdentifier, p.peek().Span, "expected closing identifier %q", firstID.Lexeme)
		return firstID, p.peek()
	}

	secondID := p.advance()
	if secondID.Upper() != firstID.Upper() {
		p.errorf(diag.ExpectedDifferentIdentifier, secondID.Span,
			"expected identifier %q to match %q", secondID.Lexeme, firstID.Lexeme)
	}
	closeTok, ok := p.consumeKind(token.Directive, diag.ExpectedEndDirective, "expected %q", closeWord)
	if ok && !closeTok.Is(closeWord) {
		p.errorf(diag.ExpectedEndDirective, closeTok.Span, "expected %q", closeWord)
	}
	return secondID, closeTok
}

// parseRecordDir parses `id RECORD field, field, ...` (§4.2, fields are
// `name:width[=initialValue]`).
func (p *Parser) parseRecordDir() *ast.RecordDir {
	id := p.advance()        // identifier
	directive := p.advance() // RECORD

	var fields []*ast.RecordField
	for {
		fields = append(fields, p.parseRecordField())
		if p.checkKind(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.RecordDir{ID: id, Directive: directive, Fields: fields}
}

func (p *Parser) parseRecordField() *ast.RecordField {
	name, _ := p.consumeKind(token.Identifier, diag.ExpectedIdentifier, "expected a record field name")
	colon, _ := p.consumeKind(token.Colon, diag.ExpectedExpression, "expected ':' after record field name")
	width := p.ParseExpression()
	field := &ast.RecordField{Name: name, Colon: colon, Width: width}
	if p.checkWord("=") {
		eq := p.advance()
		field.Equals = &eq
		field.InitialValue = p.ParseExpression()
	}
	return field
}
