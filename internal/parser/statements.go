package parser

import (
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/lexer"
)

// parseStatement dispatches on the current token. A one-token lookahead
// distinguishes a label (`ident:`) from an expression statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{Token: p.curToken}
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.AUTO:
		return p.parseAutoStatement()
	case lexer.EXTRN:
		return p.parseExternStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.GOTO:
		return p.parseGotoStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.CASE, lexer.DEFAULT:
		return p.parseCaseStatement()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabelStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else if p.FatalMode {
			return block
		} else {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.errorAt("$)", block.Token.Pos, "unmatched brace")
	}
	return block
}

func (p *Parser) parseDeclaratorList() []ast.Declarator {
	var decls []ast.Declarator
	for {
		if !p.expectPeek(lexer.IDENT) {
			return decls
		}
		d := ast.Declarator{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.LBRACK) {
			p.nextToken()
			if !p.peekTokenIs(lexer.RBRACK) {
				p.nextToken()
				d.Size = p.parseExpression(ASSIGN)
				p.requireConstant(d.Size)
			}
			if !p.expectPeek(lexer.RBRACK) {
				return decls
			}
		}
		decls = append(decls, d)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	return decls
}

func (p *Parser) parseAutoStatement() ast.Statement {
	tok := p.curToken
	decls := p.parseDeclaratorList()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return &ast.AutoStatement{Token: tok, Declarators: decls}
}

func (p *Parser) parseNameList() []string {
	var names []string
	for {
		if !p.expectPeek(lexer.IDENT) {
			return names
		}
		names = append(names, p.curToken.Literal)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	return names
}

func (p *Parser) parseExternStatement() ast.Statement {
	tok := p.curToken
	names := p.parseNameList()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return &ast.ExternStatement{Token: tok, Names: names}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseFullExpression()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	then := p.parseStatement()
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Then: then}
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseFullExpression()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.curToken
	stmt := &ast.ReturnStatement{Token: tok}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseFullExpression()
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseGotoStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	target := p.curToken.Literal
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return &ast.GotoStatement{Token: tok, Target: target}
}

func (p *Parser) parseLabelStatement() ast.Statement {
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken() // consume ':'
	p.nextToken()
	stmt := p.parseStatement()
	return &ast.LabelStatement{Token: tok, Name: name, Stmt: stmt}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseFullExpression()
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseSwitchStatement tracks nesting depth so a stray case/default
// outside any switch body is caught as an error.
func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	value := p.parseFullExpression()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	p.switchDepth++
	p.pushBlock("switch", tok.Pos)
	body := p.parseStatement()
	p.popBlock()
	p.switchDepth--
	return &ast.SwitchStatement{Token: tok, Value: value, Body: body}
}

// parseCaseStatement parses `case E:`, `case E..E:`, `case REL E:`, or
// `default:`, each immediately followed by the statement it labels.
func (p *Parser) parseCaseStatement() ast.Statement {
	tok := p.curToken
	if p.switchDepth == 0 {
		p.errorAt("sx", tok.Pos, "%s outside of switch", tok.Literal)
	}
	stmt := &ast.CaseStatement{Token: tok}
	if tok.Type == lexer.DEFAULT {
		stmt.IsDefault = true
	} else {
		if rel := p.peekRelOp(); rel != "" {
			p.nextToken()
			stmt.RelOp = rel
		}
		p.nextToken()
		stmt.Lower = p.parseExpression(ASSIGN)
		p.requireConstant(stmt.Lower)
		if p.peekTokenIs(lexer.DOTDOT) {
			p.nextToken()
			p.nextToken()
			stmt.IsRange = true
			stmt.Upper = p.parseExpression(ASSIGN)
			p.requireConstant(stmt.Upper)
		}
	}
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	stmt.Stmt = p.parseStatement()
	return stmt
}

func (p *Parser) peekRelOp() string {
	switch p.peekToken.Type {
	case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		return p.peekToken.Literal
	}
	return ""
}
