package parser

import (
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/lexer"
)

// parseTopLevel dispatches on the first token of a top-level item:
// `extrn` → external declaration, `auto` → global auto, an identifier
// followed by `(` → function definition, any other identifier →
// external definition whose exact shape is selected by what follows it.
func (p *Parser) parseTopLevel() ast.TopLevel {
	switch p.curToken.Type {
	case lexer.EXTRN:
		return p.parseExternDecl()
	case lexer.AUTO:
		return p.parseGlobalAuto()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.LPAREN) {
			return p.parseFunctionDef()
		}
		return p.parseExternDef()
	default:
		p.errorf("xx", "unexpected token %s at top level", p.curToken.Type)
		p.nextToken()
		return nil
	}
}

func (p *Parser) parseExternDecl() ast.TopLevel {
	tok := p.curToken
	names := p.parseNameList()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	p.nextToken()
	return &ast.ExternDecl{Token: tok, Names: names}
}

func (p *Parser) parseGlobalAuto() ast.TopLevel {
	tok := p.curToken
	decls := p.parseDeclaratorList()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	p.nextToken()
	return &ast.GlobalAuto{Token: tok, Declarators: decls}
}

func (p *Parser) parseFunctionDef() ast.TopLevel {
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken() // consume '('
	var params []string
	if !p.peekTokenIs(lexer.RPAREN) {
		for {
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			params = append(params, p.curToken.Literal)
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	p.nextToken()
	return &ast.FunctionDef{Token: tok, Name: name, Params: params, Body: body}
}

// parseExternDef parses a file-scope external definition. The shape is
// selected by what immediately follows the name: `[` starts a vector,
// `{` starts a blob, `;` is a bare scalar declaration, and anything else
// starts the historic B scalar/implicit-vector ival list.
func (p *Parser) parseExternDef() ast.TopLevel {
	tok := p.curToken
	name := p.curToken.Literal

	switch p.peekToken.Type {
	case lexer.LBRACK:
		return p.parseExternVector(tok, name)
	case lexer.LBRACE:
		return p.parseExternBlob(tok, name)
	case lexer.SEMICOLON:
		p.nextToken()
		p.nextToken()
		return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternScalar}
	default:
		return p.parseExternIvalList(tok, name)
	}
}

func (p *Parser) parseExternVector(tok lexer.Token, name string) ast.TopLevel {
	p.nextToken() // consume '['
	var bound ast.Expression
	if !p.peekTokenIs(lexer.RBRACK) {
		p.nextToken()
		bound = p.parseExpression(ASSIGN)
		p.requireConstant(bound)
	}
	if !p.expectPeek(lexer.RBRACK) {
		return nil
	}
	var init ast.Initializer
	if !p.peekTokenIs(lexer.SEMICOLON) {
		items := p.parseIvalItems()
		init = &ast.ListInitializer{Token: tok, Items: items}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	p.nextToken()
	return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternVector, Bound: bound, Initializer: init}
}

func (p *Parser) parseExternBlob(tok lexer.Token, name string) ast.TopLevel {
	p.nextToken() // consume '{'
	braceTok := p.curToken
	items := p.parseInitializerListBody(lexer.RBRACE)
	init := &ast.ListInitializer{Token: braceTok, Items: items}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	p.nextToken()
	return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternBlob, Initializer: init}
}

// parseExternIvalList handles the historic B form `name ival, ival, ...;`:
// a single value makes a scalar, more than one makes an implicit vector.
func (p *Parser) parseExternIvalList(tok lexer.Token, name string) ast.TopLevel {
	items := p.parseIvalItems()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	p.nextToken()
	if len(items) == 1 {
		if expr, ok := items[0].(*ast.ExprInitializer); ok {
			return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternScalar, Initializer: expr}
		}
		return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternScalar, Initializer: items[0]}
	}
	return &ast.ExternDef{Token: tok, Name: name, Kind: ast.ExternVector, Initializer: &ast.ListInitializer{Token: tok, Items: items}}
}

// parseIvalItems parses a comma-separated list of initializer entries
// (plain expression or nested `{ ... }` list) terminated by `;`, leaving
// the cursor on the last item parsed (not consuming the terminator).
func (p *Parser) parseIvalItems() []ast.Initializer {
	var items []ast.Initializer
	for {
		if p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			braceTok := p.curToken
			nested := p.parseInitializerListBody(lexer.RBRACE)
			items = append(items, &ast.ListInitializer{Token: braceTok, Items: nested})
		} else {
			p.nextToken()
			expr := p.parseExpression(ASSIGN)
			items = append(items, &ast.ExprInitializer{Value: expr})
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return items
}

// parseInitializerListBody parses the comma-separated body of a `{ ... }`
// initializer list. Entry: curToken is the opening brace. Exit: curToken
// is the matching closing token.
func (p *Parser) parseInitializerListBody(end lexer.TokenType) []ast.Initializer {
	var items []ast.Initializer
	if p.peekTokenIs(end) {
		p.nextToken()
		return items
	}
	items = p.parseIvalItems()
	if !p.expectPeek(end) {
		return items
	}
	return items
}
