// Package ast defines the Abstract Syntax Tree node types for B.
package ast

import (
	"bytes"
	"strings"

	"github.com/bthompson/bcc/internal/lexer"
)

// Node is the base interface for every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a word value.
type Expression interface {
	Node
	exprNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	stmtNode()
}

// Initializer is either a single expression or a nested list of
// initializers, modelling B's vector-of-vector edge initialisers.
type Initializer interface {
	Node
	initNode()
}

// TopLevel is any item that can appear directly in a Program.
type TopLevel interface {
	Node
	topLevelNode()
}

// Program is the ordered sequence of top-level items that make up a
// translation unit.
type Program struct {
	Items []TopLevel
}

func (p *Program) TokenLiteral() string {
	if len(p.Items) > 0 {
		return p.Items[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Items) > 0 {
		return p.Items[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1, Offset: 0}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, item := range p.Items {
		out.WriteString(item.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// NumberLiteral is an integer literal or a packed character constant;
// the lexer has already folded both into Value.
type NumberLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *NumberLiteral) exprNode()            {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Token.Literal }

// StringLiteral holds the decoded byte content of a B string (escapes
// already resolved by the lexer). The EOT terminator is added by the
// emitter's string pool, not stored here.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) exprNode()            {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }

// Identifier is a bare name used as a variable, function, or label
// reference; which of those it denotes is resolved by the semantic pass.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) exprNode()            {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Name }

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Token  lexer.Token // the '(' token
	Callee Expression
	Args   []Expression
}

func (c *CallExpression) exprNode()            {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// IndexExpression is `base[index]`.
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Base  Expression
	Index Expression
}

func (ix *IndexExpression) exprNode()            {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) Pos() lexer.Position  { return ix.Token.Pos }
func (ix *IndexExpression) String() string {
	return ix.Base.String() + "[" + ix.Index.String() + "]"
}

// UnaryExpression is a prefix operator applied to an operand: `- ! * &
// ++ --`.
type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) exprNode()            {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() lexer.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	return "(" + u.Operator + u.Operand.String() + ")"
}

// PostfixExpression is a postfix `++`/`--` applied to an lvalue, binding
// tighter than any prefix operator.
type PostfixExpression struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (p *PostfixExpression) exprNode()            {}
func (p *PostfixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PostfixExpression) Pos() lexer.Position  { return p.Token.Pos }
func (p *PostfixExpression) String() string {
	return "(" + p.Operand.String() + p.Operator + ")"
}

// BinaryExpression is a two-operand arithmetic, bitwise, shift, or
// comparison operator application.
type BinaryExpression struct {
	Token    lexer.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) exprNode()            {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() lexer.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// AssignExpression is `lvalue OP rvalue`, where OP is plain `=`, a
// compound arithmetic/bitwise/shift form, or a relational-assign form.
// RelOp is set only when Operator is a relational-assign: the emitter
// lowers it to `lhs = (lhs RelOp rhs)`.
type AssignExpression struct {
	Token    lexer.Token
	Operator string
	RelOp    string
	Target   Expression
	Value    Expression
}

func (a *AssignExpression) exprNode()            {}
func (a *AssignExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpression) Pos() lexer.Position  { return a.Token.Pos }
func (a *AssignExpression) String() string {
	return "(" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + ")"
}

// TernaryExpression is `cond ? yes : no`.
type TernaryExpression struct {
	Token     lexer.Token // the '?' token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (t *TernaryExpression) exprNode()            {}
func (t *TernaryExpression) TokenLiteral() string { return t.Token.Literal }
func (t *TernaryExpression) Pos() lexer.Position  { return t.Token.Pos }
func (t *TernaryExpression) String() string {
	return "(" + t.Condition.String() + " ? " + t.Then.String() + " : " + t.Else.String() + ")"
}

// CommaExpression is `left, right`.
type CommaExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (c *CommaExpression) exprNode()            {}
func (c *CommaExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CommaExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *CommaExpression) String() string {
	return c.Left.String() + ", " + c.Right.String()
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// EmptyStatement is a bare `;`.
type EmptyStatement struct {
	Token lexer.Token
}

func (e *EmptyStatement) stmtNode()            {}
func (e *EmptyStatement) TokenLiteral() string { return e.Token.Literal }
func (e *EmptyStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *EmptyStatement) String() string       { return ";" }

// BlockStatement is a `{ ... }` sequence of statements.
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Statements []Statement
}

func (b *BlockStatement) stmtNode()            {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// Declarator is one name in an `auto` declaration, with an optional
// vector size expression: `auto v[10];`.
type Declarator struct {
	Name string
	Size Expression // nil for a plain scalar declarator
}

// AutoStatement is `auto d1, d2, ...;`.
type AutoStatement struct {
	Token       lexer.Token // the 'auto' token
	Declarators []Declarator
}

func (a *AutoStatement) stmtNode()            {}
func (a *AutoStatement) TokenLiteral() string { return a.Token.Literal }
func (a *AutoStatement) Pos() lexer.Position  { return a.Token.Pos }
func (a *AutoStatement) String() string {
	names := make([]string, len(a.Declarators))
	for i, d := range a.Declarators {
		if d.Size != nil {
			names[i] = d.Name + "[" + d.Size.String() + "]"
		} else {
			names[i] = d.Name
		}
	}
	return "auto " + strings.Join(names, ", ") + ";"
}

// ExternStatement is `extrn n1, n2, ...;`, a function-local reference
// to names defined elsewhere at file scope.
type ExternStatement struct {
	Token lexer.Token // the 'extrn' token
	Names []string
}

func (e *ExternStatement) stmtNode()            {}
func (e *ExternStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExternStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExternStatement) String() string {
	return "extrn " + strings.Join(e.Names, ", ") + ";"
}

// IfStatement is `if (cond) then [else else]`.
type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      Statement
	Else      Statement // nil if there is no else arm
}

func (i *IfStatement) stmtNode()            {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() lexer.Position  { return i.Token.Pos }
func (i *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + i.Condition.String() + ") " + i.Then.String())
	if i.Else != nil {
		out.WriteString(" else " + i.Else.String())
	}
	return out.String()
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      Statement
}

func (w *WhileStatement) stmtNode()            {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WhileStatement) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

// ReturnStatement is `return;` or `return(expr);`.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStatement) stmtNode()            {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value != nil {
		return "return(" + r.Value.String() + ");"
	}
	return "return;"
}

// ExpressionStatement is an expression used for its side effect.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) stmtNode()            {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string       { return e.Expression.String() + ";" }

// GotoStatement is `goto target;`.
type GotoStatement struct {
	Token  lexer.Token
	Target string
}

func (g *GotoStatement) stmtNode()            {}
func (g *GotoStatement) TokenLiteral() string { return g.Token.Literal }
func (g *GotoStatement) Pos() lexer.Position  { return g.Token.Pos }
func (g *GotoStatement) String() string       { return "goto " + g.Target + ";" }

// LabelStatement is `name: stmt`.
type LabelStatement struct {
	Token lexer.Token // the label's IDENT token
	Name  string
	Stmt  Statement
}

func (l *LabelStatement) stmtNode()            {}
func (l *LabelStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabelStatement) Pos() lexer.Position  { return l.Token.Pos }
func (l *LabelStatement) String() string       { return l.Name + ": " + l.Stmt.String() }

// SwitchStatement is `switch (value) body`. The fall-through lowering
// that turns Body into computed-goto dispatch happens in the emitter,
// not here: the AST just keeps the body as written.
type SwitchStatement struct {
	Token lexer.Token
	Value Expression
	Body  Statement
}

func (s *SwitchStatement) stmtNode()            {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *SwitchStatement) String() string {
	return "switch (" + s.Value.String() + ") " + s.Body.String()
}

// CaseStatement is a `case` or `default` label immediately followed by
// the statement it labels. Lower is nil for `default`. Upper and RelOp
// are set only for the historic bound-case extension: `case lo..hi:` or
// `case <= N:`.
type CaseStatement struct {
	Token     lexer.Token
	IsDefault bool
	Lower     Expression // nil when IsDefault
	Upper     Expression // set for a lo..hi range
	IsRange   bool
	RelOp     string // one of "<" "<=" ">" ">=", or "" for an exact match
	Stmt      Statement
}

func (c *CaseStatement) stmtNode()            {}
func (c *CaseStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CaseStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *CaseStatement) String() string {
	var out bytes.Buffer
	if c.IsDefault {
		out.WriteString("default")
	} else {
		out.WriteString("case ")
		if c.RelOp != "" {
			out.WriteString(c.RelOp + " ")
		}
		out.WriteString(c.Lower.String())
		if c.IsRange {
			out.WriteString(".." + c.Upper.String())
		}
	}
	out.WriteString(": " + c.Stmt.String())
	return out.String()
}

// ---------------------------------------------------------------------
// Initializers
// ---------------------------------------------------------------------

// ExprInitializer is a plain-expression initializer entry.
type ExprInitializer struct {
	Value Expression
}

func (e *ExprInitializer) initNode()            {}
func (e *ExprInitializer) TokenLiteral() string { return e.Value.TokenLiteral() }
func (e *ExprInitializer) Pos() lexer.Position  { return e.Value.Pos() }
func (e *ExprInitializer) String() string       { return e.Value.String() }

// ListInitializer is a nested `{ ... }` initializer list, modelling a B
// vector-of-vectors edge initializer.
type ListInitializer struct {
	Token lexer.Token // the '{' token
	Items []Initializer
}

func (l *ListInitializer) initNode()            {}
func (l *ListInitializer) TokenLiteral() string { return l.Token.Literal }
func (l *ListInitializer) Pos() lexer.Position  { return l.Token.Pos }
func (l *ListInitializer) String() string {
	items := make([]string, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.String()
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// ---------------------------------------------------------------------
// Top-level items
// ---------------------------------------------------------------------

// GlobalAuto is a file-scope `auto` declaration.
type GlobalAuto struct {
	Token       lexer.Token
	Declarators []Declarator
}

func (g *GlobalAuto) topLevelNode()        {}
func (g *GlobalAuto) TokenLiteral() string { return g.Token.Literal }
func (g *GlobalAuto) Pos() lexer.Position  { return g.Token.Pos }
func (g *GlobalAuto) String() string {
	names := make([]string, len(g.Declarators))
	for i, d := range g.Declarators {
		names[i] = d.Name
	}
	return "auto " + strings.Join(names, ", ") + ";"
}

// FunctionDef is `name(params) body`.
type FunctionDef struct {
	Token  lexer.Token // the function name's IDENT token
	Name   string
	Params []string
	Body   *BlockStatement
}

func (f *FunctionDef) topLevelNode()        {}
func (f *FunctionDef) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDef) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionDef) String() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ") " + f.Body.String()
}

// ExternKind distinguishes the three external-definition shapes B
// allows: a plain scalar, a brace-delimited "blob" of packed
// initializers, and a bracketed vector.
type ExternKind int

const (
	ExternScalar ExternKind = iota
	ExternBlob
	ExternVector
)

// ExternDef is a file-scope external definition: scalar, blob, or
// vector, each with an optional bound expression and initializer tree.
// Implicit is set by the semantic pass for compiler-synthesised entries
// (names used but never declared anywhere); such entries get file-local
// linkage in the emitter rather than being exported.
type ExternDef struct {
	Token       lexer.Token
	Name        string
	Kind        ExternKind
	Bound       Expression // vector bound expression, nil if omitted or not a vector
	Initializer Initializer
	Implicit    bool
}

func (e *ExternDef) topLevelNode()        {}
func (e *ExternDef) TokenLiteral() string { return e.Token.Literal }
func (e *ExternDef) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExternDef) String() string {
	switch e.Kind {
	case ExternVector:
		bound := ""
		if e.Bound != nil {
			bound = e.Bound.String()
		}
		return e.Name + "[" + bound + "]" + ";"
	case ExternBlob:
		if e.Initializer != nil {
			return e.Name + " " + e.Initializer.String() + ";"
		}
		return e.Name + " {};"
	default:
		if e.Initializer != nil {
			return e.Name + " " + e.Initializer.String() + ";"
		}
		return e.Name + ";"
	}
}

// ExternDecl is `extrn name;` at file scope: a reference to a name
// defined in another translation unit, without a definition here.
type ExternDecl struct {
	Token lexer.Token
	Names []string
}

func (e *ExternDecl) topLevelNode()        {}
func (e *ExternDecl) TokenLiteral() string { return e.Token.Literal }
func (e *ExternDecl) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExternDecl) String() string {
	return "extrn " + strings.Join(e.Names, ", ") + ";"
}
