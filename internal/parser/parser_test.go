package parser

import (
	"testing"

	"github.com/bthompson/bcc/internal/arena"
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/lexer"
)

func parse(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	l := lexer.New(input)
	p := New(l, arena.New(), "test.b")
	prog := p.ParseProgram()
	return prog, p
}

func requireNoErrors(t *testing.T, p *Parser) {
	t.Helper()
	for _, e := range p.Errors() {
		t.Errorf("unexpected error: %s", e.Error())
	}
}

func TestFunctionDefAndCallExpression(t *testing.T) {
	prog, p := parse(t, `main() { return(f(1, 2, 3)); }`)
	requireNoErrors(t, p)
	if len(prog.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("item is %T, want *ast.FunctionDef", prog.Items[0])
	}
	if fn.Name != "main" {
		t.Errorf("name = %q, want main", fn.Name)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ReturnStatement", fn.Body.Statements[0])
	}
	call, ok := ret.Value.(*ast.CallExpression)
	if !ok {
		t.Fatalf("return value is %T, want *ast.CallExpression", ret.Value)
	}
	if len(call.Args) != 3 {
		t.Errorf("got %d args, want 3", len(call.Args))
	}
}

// TestPrecedenceShiftAtAdditiveLevel checks B's quirk of shift operators
// binding at the same level as + and -, not at a level of its own.
func TestPrecedenceShiftAtAdditiveLevel(t *testing.T) {
	prog, p := parse(t, `f() { auto x; x = 1 + 2 << 3 - 4; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	assign := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	// left-to-right at equal precedence: ((1 + 2) << 3) - 4
	sub, ok := assign.Value.(*ast.BinaryExpression)
	if !ok || sub.Operator != "-" {
		t.Fatalf("top operator = %v, want -", assign.Value)
	}
	shl, ok := sub.Left.(*ast.BinaryExpression)
	if !ok || shl.Operator != "<<" {
		t.Fatalf("next operator = %v, want <<", sub.Left)
	}
	add, ok := shl.Left.(*ast.BinaryExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("innermost operator = %v, want +", shl.Left)
	}
}

func TestPrecedenceMultiplicativeBindsTighterThanAdditive(t *testing.T) {
	prog, p := parse(t, `f() { auto x; x = 1 + 2 * 3; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	assign := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	add, ok := assign.Value.(*ast.BinaryExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("top operator = %v, want +", assign.Value)
	}
	if _, ok := add.Left.(*ast.NumberLiteral); !ok {
		t.Errorf("left of + is %T, want NumberLiteral", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right of + = %v, want *", add.Right)
	}
}

func TestAssignmentRightAssociative(t *testing.T) {
	prog, p := parse(t, `f() { auto x, y; x = y = 1; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	outer := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if outer.Target.(*ast.Identifier).Name != "x" {
		t.Errorf("outer target = %v, want x", outer.Target)
	}
	inner, ok := outer.Value.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("outer value = %T, want *ast.AssignExpression", outer.Value)
	}
	if inner.Target.(*ast.Identifier).Name != "y" {
		t.Errorf("inner target = %v, want y", inner.Target)
	}
}

func TestTernaryRightAssociativeAndLowerThanAssign(t *testing.T) {
	prog, p := parse(t, `f() { auto x; x = 1 ? 2 : 3 ? 4 : 5; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	assign := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	outer, ok := assign.Value.(*ast.TernaryExpression)
	if !ok {
		t.Fatalf("assign value = %T, want *ast.TernaryExpression", assign.Value)
	}
	if _, ok := outer.Else.(*ast.TernaryExpression); !ok {
		t.Errorf("else arm = %T, want nested ternary", outer.Else)
	}
}

func TestCommaLowestPrecedence(t *testing.T) {
	prog, p := parse(t, `f() { auto x, y; x = 1, y = 2; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	stmt := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression
	comma, ok := stmt.(*ast.CommaExpression)
	if !ok {
		t.Fatalf("top expression = %T, want *ast.CommaExpression", stmt)
	}
	if _, ok := comma.Left.(*ast.AssignExpression); !ok {
		t.Errorf("left of comma = %T, want assignment", comma.Left)
	}
	if _, ok := comma.Right.(*ast.AssignExpression); !ok {
		t.Errorf("right of comma = %T, want assignment", comma.Right)
	}
}

func TestRelationalAssignRecordsRelOp(t *testing.T) {
	prog, p := parse(t, `f() { auto x; x =< 1; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	assign := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if assign.RelOp != "<" {
		t.Errorf("RelOp = %q, want <", assign.RelOp)
	}
}

func TestDereferenceIsValidLvalue(t *testing.T) {
	prog, p := parse(t, `f() { auto x; *x = 1; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	assign := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if _, ok := assign.Target.(*ast.UnaryExpression); !ok {
		t.Errorf("target = %T, want *ast.UnaryExpression", assign.Target)
	}
}

func TestAssignToNonLvalueIsError(t *testing.T) {
	_, p := parse(t, `f() { 1 = 2; }`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected an lvalue error, got none")
	}
	if p.Errors()[0].Code != "lv" {
		t.Errorf("code = %q, want lv", p.Errors()[0].Code)
	}
}

func TestIncrementOfNonLvalueIsError(t *testing.T) {
	_, p := parse(t, `f() { auto x; ++1; }`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected an lvalue error, got none")
	}
	if p.Errors()[0].Code != "lv" {
		t.Errorf("code = %q, want lv", p.Errors()[0].Code)
	}
}

func TestAddressOfNonLvalueIsError(t *testing.T) {
	_, p := parse(t, `f() { auto x; &1; }`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected an lvalue error, got none")
	}
	if p.Errors()[0].Code != "lv" {
		t.Errorf("code = %q, want lv", p.Errors()[0].Code)
	}
}

func TestCaseOutsideSwitchIsError(t *testing.T) {
	_, p := parse(t, `f() { case 1: ; }`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected a case-outside-switch error, got none")
	}
	if p.Errors()[0].Code != "sx" {
		t.Errorf("code = %q, want sx", p.Errors()[0].Code)
	}
}

func TestSwitchWithCasesParses(t *testing.T) {
	prog, p := parse(t, `f() {
		auto x;
		switch (x) {
			case 1: x = 1;
			case 2..4: x = 2;
			case <5: x = 3;
			default: x = 4;
		}
	}`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	sw := fn.Body.Statements[1].(*ast.SwitchStatement)
	block := sw.Body.(*ast.BlockStatement)
	if len(block.Statements) != 4 {
		t.Fatalf("got %d case statements, want 4", len(block.Statements))
	}
	rangeCase := block.Statements[1].(*ast.CaseStatement)
	if !rangeCase.IsRange {
		t.Error("expected case 2..4 to be a range")
	}
	relCase := block.Statements[2].(*ast.CaseStatement)
	if relCase.RelOp != "<" {
		t.Errorf("RelOp = %q, want <", relCase.RelOp)
	}
	def := block.Statements[3].(*ast.CaseStatement)
	if !def.IsDefault {
		t.Error("expected last case to be default")
	}
}

func TestExternScalarDefinition(t *testing.T) {
	prog, p := parse(t, `count 0;`)
	requireNoErrors(t, p)
	def := prog.Items[0].(*ast.ExternDef)
	if def.Kind != ast.ExternScalar {
		t.Errorf("kind = %v, want ExternScalar", def.Kind)
	}
	if def.Initializer == nil {
		t.Error("expected an initializer")
	}
}

func TestExternBareScalarDefinition(t *testing.T) {
	prog, p := parse(t, `count;`)
	requireNoErrors(t, p)
	def := prog.Items[0].(*ast.ExternDef)
	if def.Kind != ast.ExternScalar {
		t.Errorf("kind = %v, want ExternScalar", def.Kind)
	}
	if def.Initializer != nil {
		t.Error("expected no initializer")
	}
}

func TestExternVectorDefinition(t *testing.T) {
	prog, p := parse(t, `table[3] 1, 2, 3;`)
	requireNoErrors(t, p)
	def := prog.Items[0].(*ast.ExternDef)
	if def.Kind != ast.ExternVector {
		t.Errorf("kind = %v, want ExternVector", def.Kind)
	}
	if def.Bound == nil {
		t.Fatal("expected a bound expression")
	}
	n, ok := FoldConstant(def.Bound, func(string, ...interface{}) {})
	if !ok || n != 3 {
		t.Errorf("bound = %v, want constant 3", def.Bound)
	}
	list, ok := def.Initializer.(*ast.ListInitializer)
	if !ok || len(list.Items) != 3 {
		t.Fatalf("initializer = %v, want 3-item list", def.Initializer)
	}
}

func TestExternImplicitVectorFromMultipleIvals(t *testing.T) {
	prog, p := parse(t, `point 1, 2;`)
	requireNoErrors(t, p)
	def := prog.Items[0].(*ast.ExternDef)
	if def.Kind != ast.ExternVector {
		t.Errorf("kind = %v, want ExternVector (implicit)", def.Kind)
	}
}

func TestExternBlobDefinition(t *testing.T) {
	prog, p := parse(t, `pair { 1, 2 };`)
	requireNoErrors(t, p)
	def := prog.Items[0].(*ast.ExternDef)
	if def.Kind != ast.ExternBlob {
		t.Errorf("kind = %v, want ExternBlob", def.Kind)
	}
}

func TestExternDeclAndGlobalAuto(t *testing.T) {
	prog, p := parse(t, `extrn x, y; auto z, w[4];`)
	requireNoErrors(t, p)
	decl := prog.Items[0].(*ast.ExternDecl)
	if len(decl.Names) != 2 {
		t.Fatalf("got %d names, want 2", len(decl.Names))
	}
	ga := prog.Items[1].(*ast.GlobalAuto)
	if len(ga.Declarators) != 2 {
		t.Fatalf("got %d declarators, want 2", len(ga.Declarators))
	}
	if ga.Declarators[1].Size == nil {
		t.Error("expected w to carry a size expression")
	}
}

func TestVectorBoundMustBeConstant(t *testing.T) {
	_, p := parse(t, `extrn n; table[n] 1;`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected a non-constant-bound error, got none")
	}
	if p.Errors()[0].Code != "ex" {
		t.Errorf("code = %q, want ex", p.Errors()[0].Code)
	}
}

func parseExprString(t *testing.T, expr string) ast.Expression {
	t.Helper()
	l := lexer.New(expr)
	p := New(l, arena.New(), "test.b")
	got := p.parseFullExpression()
	requireNoErrors(t, p)
	return got
}

func TestConstantFoldingArithmeticAndBitwise(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 % 3", 1},
		{"1 << 4", 16},
		{"-5 + 2", -3},
		{"!0", 1},
		{"!5", 0},
		{"1 & 3 | 4", 5},
		{"1 == 1", 1},
		{"1 != 1", 0},
		{"2 < 3", 1},
		{"0 || 5", 1},
		{"1, 2, 3", 3},
	}
	for _, tt := range tests {
		expr := parseExprString(t, tt.expr)
		got, ok := FoldConstant(expr, func(string, ...interface{}) {})
		if !ok {
			t.Errorf("%s: folding failed", tt.expr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestConstantFoldingDivisionByZeroIsError(t *testing.T) {
	_, p := parse(t, `extrn n; table[1 / 0] 1;`)
	if len(p.Errors()) == 0 {
		t.Fatal("expected a division-by-zero error, got none")
	}
	if p.Errors()[0].Code != "ex" {
		t.Errorf("code = %q, want ex", p.Errors()[0].Code)
	}
}

func TestUnmatchedBraceIsError(t *testing.T) {
	_, p := parse(t, `f() { auto x;`)
	found := false
	for _, e := range p.Errors() {
		if e.Code == "$)" {
			found = true
		}
	}
	if !found {
		t.Error("expected an unmatched-brace error")
	}
}

func TestIndexAndPostfixBindTighterThanPrefix(t *testing.T) {
	prog, p := parse(t, `f() { auto v; *v[0]++; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	stmt := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression
	deref, ok := stmt.(*ast.UnaryExpression)
	if !ok || deref.Operator != "*" {
		t.Fatalf("top = %T, want dereference", stmt)
	}
	post, ok := deref.Operand.(*ast.PostfixExpression)
	if !ok {
		t.Fatalf("operand = %T, want *ast.PostfixExpression", deref.Operand)
	}
	if _, ok := post.Operand.(*ast.IndexExpression); !ok {
		t.Errorf("postfix operand = %T, want *ast.IndexExpression", post.Operand)
	}
}

func TestGotoAndLabelStatements(t *testing.T) {
	prog, p := parse(t, `f() { goto done; done: return; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	if _, ok := fn.Body.Statements[0].(*ast.GotoStatement); !ok {
		t.Errorf("statement 0 = %T, want *ast.GotoStatement", fn.Body.Statements[0])
	}
	label, ok := fn.Body.Statements[1].(*ast.LabelStatement)
	if !ok {
		t.Fatalf("statement 1 = %T, want *ast.LabelStatement", fn.Body.Statements[1])
	}
	if label.Name != "done" {
		t.Errorf("label name = %q, want done", label.Name)
	}
}

func TestIfElseStatement(t *testing.T) {
	prog, p := parse(t, `f() { auto x; if (x) x = 1; else x = 2; }`)
	requireNoErrors(t, p)
	fn := prog.Items[0].(*ast.FunctionDef)
	ifs := fn.Body.Statements[1].(*ast.IfStatement)
	if ifs.Else == nil {
		t.Error("expected an else branch")
	}
}

func TestFatalModeStopsAtFirstTopLevelError(t *testing.T) {
	l := lexer.New(`) return ;`)
	p := New(l, arena.New(), "test.b")
	p.ParseProgram()
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(p.Errors()), p.Errors())
	}
}

func TestNonFatalModeAccumulatesTopLevelErrors(t *testing.T) {
	l := lexer.New(`) return ;`)
	p := New(l, arena.New(), "test.b")
	p.FatalMode = false
	p.ParseProgram()
	if len(p.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(p.Errors()), p.Errors())
	}
	for _, e := range p.Errors() {
		if e.Code != "xx" {
			t.Errorf("expected code xx, got %q", e.Code)
		}
	}
}
