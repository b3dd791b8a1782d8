// Package semantic resolves names and classifies lvalues over a parsed B
// program: root-scope installation, per-function scope walking, implicit
// static synthesis, and the switch fall-through warning pass.
package semantic

import (
	"github.com/bthompson/bcc/internal/arena"
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/errors"
	"github.com/bthompson/bcc/internal/lexer"
	"github.com/bthompson/bcc/internal/parser"
)

type pendingGoto struct {
	target string
	pos    lexer.Position
}

// Analyzer drives the two-sub-pass semantic walk described for B: first
// install every top-level name into the root scope, then walk each
// function body resolving references against a per-function scope chain.
type Analyzer struct {
	root  *Scope
	arena *arena.Arena
	file  string

	errs     []*errors.CompilerError
	warnings []string

	implicitStatics     map[string]bool
	implicitStaticOrder []string

	pendingGotos  []pendingGoto
	functionLabel map[string]bool
}

// NewAnalyzer creates an Analyzer. a and file back diagnostic formatting
// the same way the parser's errors do.
func NewAnalyzer(a *arena.Arena, file string) *Analyzer {
	return &Analyzer{
		root:            NewScope(nil),
		arena:           a,
		file:            file,
		implicitStatics: make(map[string]bool),
	}
}

func (a *Analyzer) Errors() []*errors.CompilerError { return a.errs }
func (a *Analyzer) Warnings() []string              { return a.warnings }

func (a *Analyzer) errorAt(pos lexer.Position, code, format string, args ...interface{}) {
	msg := a.arena.Format(format, args...)
	a.errs = append(a.errs, errors.New(code, pos, "", a.file, msg))
}

func (a *Analyzer) warnAt(pos lexer.Position, format string, args ...interface{}) {
	a.warnings = append(a.warnings, a.arena.Format("%s:%d: warning: "+format, append([]interface{}{a.file, pos.Line}, args...)...))
}

// Analyze runs both sub-passes over prog, appending one synthesized
// extern definition per implicit static discovered along the way.
func (a *Analyzer) Analyze(prog *ast.Program) {
	a.installRootScope(prog)
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FunctionDef); ok {
			a.analyzeFunction(fn)
		}
	}
	for _, name := range a.implicitStaticOrder {
		prog.Items = append(prog.Items, &ast.ExternDef{
			Name:     name,
			Kind:     ast.ExternScalar,
			Implicit: true,
		})
	}
}

func (a *Analyzer) installRootScope(prog *ast.Program) {
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FunctionDef:
			a.define(a.root, it.Name, SymFunction, it.Token.Pos, nil)
		case *ast.ExternDef:
			a.define(a.root, it.Name, SymVariable, it.Token.Pos, it.Bound)
			if it.Kind == ast.ExternVector && it.Bound != nil {
				a.checkVectorBound(it)
			}
		case *ast.GlobalAuto:
			for _, d := range it.Declarators {
				a.define(a.root, d.Name, SymVariable, it.Token.Pos, d.Size)
			}
		case *ast.ExternDecl:
			for _, name := range it.Names {
				a.define(a.root, name, SymVariable, it.Token.Pos, nil)
			}
		}
	}
}

func (a *Analyzer) define(scope *Scope, name string, kind SymbolKind, pos lexer.Position, vecSize ast.Expression) {
	sym := &Symbol{Name: name, Kind: kind, Pos: pos, VectorSize: vecSize}
	if !scope.Define(sym) {
		a.errorAt(pos, "rd", "%q already declared in this scope", name)
	}
}

// checkVectorBound re-validates an extern vector's bound expression folds
// to a non-negative constant, per the semantic pass's own requirement
// (the parser already enforced foldability when it parsed the bracket).
func (a *Analyzer) checkVectorBound(def *ast.ExternDef) {
	failed := false
	n, ok := parser.FoldConstant(def.Bound, func(string, ...interface{}) { failed = true })
	if !ok {
		if !failed {
			a.errorAt(def.Bound.Pos(), "xx", "vector bound for %q must be a constant expression", def.Name)
		}
		return
	}
	if n < 0 {
		a.errorAt(def.Bound.Pos(), "xx", "vector bound for %q must be non-negative", def.Name)
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDef) {
	scope := NewScope(a.root)
	for _, param := range fn.Params {
		a.define(scope, param, SymVariable, fn.Token.Pos, nil)
	}

	prevGotos := a.pendingGotos
	prevLabels := a.functionLabel
	a.pendingGotos = nil
	a.functionLabel = make(map[string]bool)
	collectLabels(fn.Body, a.functionLabel)

	a.analyzeStatement(scope, fn.Body)

	for _, g := range a.pendingGotos {
		if !a.functionLabel[g.target] {
			a.errorAt(g.pos, "un", "goto target %q is not a label in this function", g.target)
		}
	}

	a.pendingGotos = prevGotos
	a.functionLabel = prevLabels
}

// collectLabels walks stmt recording every label name it finds, ahead of
// the main walk, so a goto may jump forward to a label declared later.
func collectLabels(stmt ast.Statement, into map[string]bool) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, sub := range s.Statements {
			collectLabels(sub, into)
		}
	case *ast.LabelStatement:
		into[s.Name] = true
		collectLabels(s.Stmt, into)
	case *ast.IfStatement:
		collectLabels(s.Then, into)
		if s.Else != nil {
			collectLabels(s.Else, into)
		}
	case *ast.WhileStatement:
		collectLabels(s.Body, into)
	case *ast.SwitchStatement:
		collectLabels(s.Body, into)
	case *ast.CaseStatement:
		collectLabels(s.Stmt, into)
	}
}

func (a *Analyzer) analyzeStatement(scope *Scope, stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil, *ast.EmptyStatement:
		return

	case *ast.BlockStatement:
		inner := NewScope(scope)
		for _, sub := range s.Statements {
			a.analyzeStatement(inner, sub)
		}

	case *ast.AutoStatement:
		for _, d := range s.Declarators {
			a.define(scope, d.Name, SymVariable, s.Token.Pos, d.Size)
		}

	case *ast.ExternStatement:
		for _, name := range s.Names {
			a.define(scope, name, SymVariable, s.Token.Pos, nil)
		}

	case *ast.IfStatement:
		a.analyzeExpression(scope, s.Condition)
		a.analyzeStatement(scope, s.Then)
		if s.Else != nil {
			a.analyzeStatement(scope, s.Else)
		}

	case *ast.WhileStatement:
		a.analyzeExpression(scope, s.Condition)
		a.analyzeStatement(scope, s.Body)

	case *ast.ReturnStatement:
		if s.Value != nil {
			a.analyzeExpression(scope, s.Value)
		}

	case *ast.ExpressionStatement:
		a.analyzeExpression(scope, s.Expression)

	case *ast.GotoStatement:
		a.pendingGotos = append(a.pendingGotos, pendingGoto{target: s.Target, pos: s.Token.Pos})

	case *ast.LabelStatement:
		a.analyzeStatement(scope, s.Stmt)

	case *ast.SwitchStatement:
		a.analyzeExpression(scope, s.Value)
		a.analyzeStatement(scope, s.Body)

	case *ast.CaseStatement:
		if cs, ok := s.Stmt.(*ast.CaseStatement); ok {
			a.warnAt(cs.Token.Pos, "case/default label immediately follows another with no statement between them")
		}
		a.analyzeStatement(scope, s.Stmt)
	}
}

func (a *Analyzer) analyzeExpression(scope *Scope, expr ast.Expression) {
	switch e := expr.(type) {
	case nil, *ast.NumberLiteral, *ast.StringLiteral:
		return

	case *ast.Identifier:
		a.resolveReference(scope, e.Name, e.Token.Pos)

	case *ast.CallExpression:
		a.analyzeCallee(scope, e.Callee)
		for _, arg := range e.Args {
			a.analyzeExpression(scope, arg)
		}

	case *ast.IndexExpression:
		a.analyzeExpression(scope, e.Base)
		a.analyzeExpression(scope, e.Index)

	case *ast.UnaryExpression:
		a.analyzeExpression(scope, e.Operand)
		if (e.Operator == "&" || e.Operator == "++" || e.Operator == "--") && !isLvalue(e.Operand) {
			a.errorAt(e.Token.Pos, "lv", "%s requires an lvalue", e.Operator)
		}

	case *ast.PostfixExpression:
		a.analyzeExpression(scope, e.Operand)
		if !isLvalue(e.Operand) {
			a.errorAt(e.Token.Pos, "lv", "postfix %s requires an lvalue", e.Operator)
		}

	case *ast.BinaryExpression:
		a.analyzeExpression(scope, e.Left)
		a.analyzeExpression(scope, e.Right)

	case *ast.AssignExpression:
		a.analyzeExpression(scope, e.Target)
		a.analyzeExpression(scope, e.Value)
		if !isLvalue(e.Target) {
			a.errorAt(e.Token.Pos, "lv", "left side of %s must be an lvalue", e.Operator)
		}

	case *ast.TernaryExpression:
		a.analyzeExpression(scope, e.Condition)
		a.analyzeExpression(scope, e.Then)
		a.analyzeExpression(scope, e.Else)

	case *ast.CommaExpression:
		a.analyzeExpression(scope, e.Left)
		a.analyzeExpression(scope, e.Right)
	}
}

// resolveReference resolves a plain variable reference. One that resolves
// nowhere becomes an implicit static rather than an immediate error,
// since B treats an unresolved global name as an implicitly-extern
// scalar rather than a fatal undefined-name condition.
func (a *Analyzer) resolveReference(scope *Scope, name string, pos lexer.Position) {
	if _, ok := scope.Resolve(name); ok {
		return
	}
	if !a.implicitStatics[name] {
		a.implicitStatics[name] = true
		a.implicitStaticOrder = append(a.implicitStaticOrder, name)
	}
}

// analyzeCallee enforces the stricter call-target rule: a bare identifier
// callee must resolve somewhere (as a variable holding a function
// pointer, a recorded function, or an extern name); failing to resolve
// here is a hard error, unlike a plain variable reference.
func (a *Analyzer) analyzeCallee(scope *Scope, callee ast.Expression) {
	ident, ok := callee.(*ast.Identifier)
	if !ok {
		a.analyzeExpression(scope, callee)
		return
	}
	if _, ok := scope.Resolve(ident.Name); !ok {
		a.errorAt(ident.Token.Pos, "un", "%q is not defined", ident.Name)
	}
}

// isLvalue mirrors the parser's own lvalue classification: a bare
// variable, an index expression, or a dereference.
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
