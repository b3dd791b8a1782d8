package parser

import (
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/lexer"
)

// Precedence levels, lowest to highest. Shift sits at the additive level,
// matching B's table rather than C's.
const (
	_ int = iota
	LOWEST
	COMMA      // ,
	ASSIGN     // = and every compound/relational-assign form
	TERNARY    // ? :
	LOGICAL_OR // ||
	EQUALITY   // == !=
	RELATIONAL // < <= > >=
	ADDITIVE   // + - << >>
	MULTIPLICATIVE
	BITOR  // |
	BITAND // &
	PREFIX // unary - ! * & ++ --
	POSTFIX
)

var precedences = map[lexer.TokenType]int{
	lexer.COMMA:   COMMA,
	lexer.OROR:    LOGICAL_OR,
	lexer.EQEQ:    EQUALITY,
	lexer.NEQ:     EQUALITY,
	lexer.LT:      RELATIONAL,
	lexer.LE:      RELATIONAL,
	lexer.GT:      RELATIONAL,
	lexer.GE:      RELATIONAL,
	lexer.PLUS:    ADDITIVE,
	lexer.MINUS:   ADDITIVE,
	lexer.SHL:     ADDITIVE,
	lexer.SHR:     ADDITIVE,
	lexer.STAR:    MULTIPLICATIVE,
	lexer.SLASH:   MULTIPLICATIVE,
	lexer.PERCENT: MULTIPLICATIVE,
	lexer.PIPE:    BITOR,
	lexer.AMP:     BITAND,
	lexer.LPAREN:  POSTFIX,
	lexer.LBRACK:  POSTFIX,
	lexer.INC:     POSTFIX,
	lexer.DEC:     POSTFIX,
}

// relOpSymbols maps a relational-assign token's target comparison back to
// its plain operator spelling, for AssignExpression.RelOp.
var relOpSymbols = map[lexer.TokenType]string{
	lexer.LT:   "<",
	lexer.LE:   "<=",
	lexer.GT:   ">",
	lexer.GE:   ">=",
	lexer.EQEQ: "==",
	lexer.NEQ:  "!=",
}

// assignTokens lists every token type that starts an assignment operator,
// all of which share the ASSIGN precedence and right-associate.
var assignTokens = map[lexer.TokenType]bool{
	lexer.ASSIGN:         true,
	lexer.ASSIGN_PLUS:    true,
	lexer.ASSIGN_MINUS:   true,
	lexer.ASSIGN_STAR:    true,
	lexer.ASSIGN_SLASH:   true,
	lexer.ASSIGN_PERCENT: true,
	lexer.ASSIGN_AMP:     true,
	lexer.ASSIGN_PIPE:    true,
	lexer.ASSIGN_SHL:     true,
	lexer.ASSIGN_SHR:     true,
	lexer.ASSIGN_LE:      true,
	lexer.ASSIGN_GE:      true,
	lexer.ASSIGN_EQEQ:    true,
	lexer.ASSIGN_NEQ:     true,
	lexer.ASSIGN_LT:      true,
	lexer.ASSIGN_GT:      true,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	if assignTokens[p.peekToken.Type] {
		return ASSIGN
	}
	if p.peekToken.Type == lexer.QUESTION {
		return TERNARY
	}
	return LOWEST
}

func (p *Parser) registerExpressionParsers() {
	p.prefixParseFns[lexer.INT] = p.parseNumberLiteral
	p.prefixParseFns[lexer.STRING] = p.parseStringLiteral
	p.prefixParseFns[lexer.IDENT] = p.parseIdentifier
	p.prefixParseFns[lexer.LPAREN] = p.parseGroupedExpression
	p.prefixParseFns[lexer.MINUS] = p.parsePrefixExpression
	p.prefixParseFns[lexer.BANG] = p.parsePrefixExpression
	p.prefixParseFns[lexer.STAR] = p.parsePrefixExpression
	p.prefixParseFns[lexer.AMP] = p.parsePrefixExpression
	p.prefixParseFns[lexer.INC] = p.parsePrefixExpression
	p.prefixParseFns[lexer.DEC] = p.parsePrefixExpression

	p.infixParseFns[lexer.LPAREN] = p.parseCallExpression
	p.infixParseFns[lexer.LBRACK] = p.parseIndexExpression
	p.infixParseFns[lexer.INC] = p.parsePostfixExpression
	p.infixParseFns[lexer.DEC] = p.parsePostfixExpression
	p.infixParseFns[lexer.QUESTION] = p.parseTernaryExpression
	p.infixParseFns[lexer.COMMA] = p.parseCommaExpression

	for tt := range precedences {
		switch tt {
		case lexer.LPAREN, lexer.LBRACK, lexer.INC, lexer.DEC, lexer.COMMA:
			continue
		}
		p.infixParseFns[tt] = p.parseBinaryExpression
	}
	for tt := range assignTokens {
		p.infixParseFns[tt] = p.parseAssignExpression
	}
}

// parseExpression parses an expression whose infix operators all bind
// tighter than precedence. Called with LOWEST (as parseFullExpression
// does) it includes the comma operator; callers pass a higher level to
// stop before comma or assignment.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("ex", "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseFullExpression parses a comma-chained expression, the entry point
// used wherever B grammar admits the full expression grammar (e.g. inside
// parentheses, as a statement).
func (p *Parser) parseFullExpression() ast.Expression {
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken, Value: p.curToken.Value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseFullExpression()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	if (tok.Type == lexer.INC || tok.Type == lexer.DEC || tok.Type == lexer.AMP) && !isLvalue(operand) {
		p.errorAt("lv", tok.Pos, "%s requires an lvalue", op)
	}
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isLvalue(left) {
		p.errorAt("lv", tok.Pos, "postfix %s requires an lvalue", tok.Literal)
	}
	return &ast.PostfixExpression{Token: tok, Operator: tok.Literal, Operand: left}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseAssignExpression handles the full `=`-family. The left-hand side
// must be an lvalue (variable, index, or `*E`); relational-assign forms
// additionally record which comparison the emitter lowers to.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isLvalue(left) {
		p.errorAt("lv", tok.Pos, "left side of %s must be an lvalue", tok.Literal)
	}
	relOp := ""
	if tok.Type.IsRelationalAssign() {
		relOp = relOpSymbols[tok.Type.RelationalOp()]
	}
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1) // right-associative
	if value == nil {
		return nil
	}
	return &ast.AssignExpression{Token: tok, Operator: tok.Literal, RelOp: relOp, Target: left, Value: value}
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	then := p.parseExpression(ASSIGN) // conditional arms exclude comma/assign chaining
	if then == nil {
		return nil
	}
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	elseExpr := p.parseExpression(TERNARY - 1) // right-associative
	if elseExpr == nil {
		return nil
	}
	return &ast.TernaryExpression{Token: tok, Condition: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseCommaExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(COMMA - 1) // right-associative chain, folds left-to-right via recursion
	if right == nil {
		return nil
	}
	return &ast.CommaExpression{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.CallExpression{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(ASSIGN))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(ASSIGN))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIndexExpression(base ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseFullExpression()
	if !p.expectPeek(lexer.RBRACK) {
		return nil
	}
	return &ast.IndexExpression{Token: tok, Base: base, Index: index}
}

// isLvalue reports whether expr is a syntactically valid assignment
// target: a bare variable reference, an index expression, or `*E`.
func isLvalue(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier:
		return true
	case *ast.IndexExpression:
		return true
	case *ast.UnaryExpression:
		return e.Operator == "*"
	}
	return false
}
