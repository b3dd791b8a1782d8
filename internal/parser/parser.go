// Package parser implements a recursive-descent/Pratt parser for B.
//
// Key patterns, carried from the same shape a Pratt parser in this corpus
// uses: prefixParseFns/infixParseFns maps keyed by token type, a
// precedences table, a block-context stack of open switch bodies, and a
// synchronize() panic-mode recovery sweep for non-fatal tooling
// runs. The default compile path still stops at the first fatal error.
package parser

import (
	"github.com/bthompson/bcc/internal/arena"
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/errors"
	"github.com/bthompson/bcc/internal/lexer"
)

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// BlockContext names the kind of block currently being parsed. The
// parser pushes one per switch body; error messages do not include it.
type BlockContext struct {
	Kind     string
	StartPos lexer.Position
}

// Parser turns a token stream into a Program AST. It stops at the first
// fatal error in FatalMode (the default, matching the historic
// error-handling policy); in non-fatal mode it accumulates every
// diagnostic and keeps going via synchronize(), for --verbose-errors
// tooling that wants to see more than one problem per run.
type Parser struct {
	l     *lexer.Lexer
	arena *arena.Arena
	file  string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	errs        []*errors.CompilerError
	blockStack  []BlockContext
	switchDepth int

	FatalMode bool
}

// New creates a Parser over l. file is used for diagnostic messages; a
// holds the formatted text of those messages.
func New(l *lexer.Lexer, a *arena.Arena, file string) *Parser {
	p := &Parser{
		l:         l,
		arena:     a,
		file:      file,
		FatalMode: true,
	}
	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerExpressionParsers()

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every diagnostic accumulated so far.
func (p *Parser) Errors() []*errors.CompilerError {
	return p.errs
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances past peekToken if it matches t, otherwise records a
// malformed-expression error and leaves the cursor where it was.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("ex", "expected %s, got %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) source() string {
	return p.l.Source()
}

func (p *Parser) errorf(code, format string, args ...interface{}) {
	msg := p.arena.Format(format, args...)
	p.errs = append(p.errs, errors.New(code, p.curToken.Pos, p.source(), p.file, msg))
}

func (p *Parser) errorAt(code string, pos lexer.Position, format string, args ...interface{}) {
	msg := p.arena.Format(format, args...)
	p.errs = append(p.errs, errors.New(code, pos, p.source(), p.file, msg))
}

func (p *Parser) pushBlock(kind string, pos lexer.Position) {
	p.blockStack = append(p.blockStack, BlockContext{Kind: kind, StartPos: pos})
}

func (p *Parser) popBlock() {
	if len(p.blockStack) > 0 {
		p.blockStack = p.blockStack[:len(p.blockStack)-1]
	}
}

// synchronize advances past tokens until a safe resumption point (a
// statement starter, a block closer, or EOF), used only in non-fatal
// mode so a single run can surface more than one syntax error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.AUTO, lexer.EXTRN, lexer.IF, lexer.WHILE, lexer.SWITCH,
			lexer.RETURN, lexer.GOTO, lexer.RBRACE:
			return
		}
		p.nextToken()
	}
}

// fatalStop reports whether the parser should stop producing further
// top-level items after recording an error: true unless the caller asked
// for non-fatal accumulation.
func (p *Parser) fatalStop() bool {
	return p.FatalMode
}

// ParseProgram parses an entire translation unit.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(lexer.EOF) {
		item := p.parseTopLevel()
		if item != nil {
			program.Items = append(program.Items, item)
		}
		if len(p.errs) > 0 && p.fatalStop() {
			return program
		}
		if item == nil {
			if p.FatalMode {
				break
			}
			p.synchronize()
		}
	}
	return program
}
