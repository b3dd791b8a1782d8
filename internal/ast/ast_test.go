package ast

import (
	"strconv"
	"testing"

	"github.com/bthompson/bcc/internal/lexer"
)

func ident(name string) *Identifier {
	return &Identifier{Token: lexer.NewToken(lexer.IDENT, name, lexer.Position{}), Name: name}
}

func num(v int64) *NumberLiteral {
	lit := strconv.FormatInt(v, 10)
	return &NumberLiteral{Token: lexer.NewIntToken(lit, v, lexer.Position{}), Value: v}
}

func TestProgramEmpty(t *testing.T) {
	p := &Program{}
	if p.TokenLiteral() != "" {
		t.Errorf("TokenLiteral() = %q, want empty", p.TokenLiteral())
	}
	if p.String() != "" {
		t.Errorf("String() = %q, want empty", p.String())
	}
}

func TestFunctionDefString(t *testing.T) {
	fn := &FunctionDef{
		Token:  lexer.NewToken(lexer.IDENT, "main", lexer.Position{}),
		Name:   "main",
		Params: nil,
		Body: &BlockStatement{
			Token: lexer.NewToken(lexer.LBRACE, "{", lexer.Position{}),
			Statements: []Statement{
				&ReturnStatement{
					Token: lexer.NewToken(lexer.RETURN, "return", lexer.Position{}),
					Value: num(42),
				},
			},
		},
	}
	want := "main() {\n  return(42);\n}"
	if fn.String() != want {
		t.Errorf("String() =\n%s\nwant\n%s", fn.String(), want)
	}
}

func TestAssignExpressionCarriesRelOp(t *testing.T) {
	assign := &AssignExpression{
		Token:    lexer.NewToken(lexer.ASSIGN_LE, "=<=", lexer.Position{}),
		Operator: "=<=",
		RelOp:    "<=",
		Target:   ident("x"),
		Value:    num(5),
	}
	if assign.RelOp != "<=" {
		t.Errorf("RelOp = %q, want %q", assign.RelOp, "<=")
	}
	want := "(x =<= 5)"
	if assign.String() != want {
		t.Errorf("String() = %q, want %q", assign.String(), want)
	}
}

func TestCaseStatementRangeString(t *testing.T) {
	c := &CaseStatement{
		Token:   lexer.NewToken(lexer.CASE, "case", lexer.Position{}),
		Lower:   num(1),
		Upper:   num(10),
		IsRange: true,
		Stmt:    &EmptyStatement{Token: lexer.NewToken(lexer.SEMICOLON, ";", lexer.Position{})},
	}
	want := "case 1..10: ;"
	if c.String() != want {
		t.Errorf("String() = %q, want %q", c.String(), want)
	}
}

func TestExternDefVectorString(t *testing.T) {
	e := &ExternDef{
		Token: lexer.NewToken(lexer.IDENT, "buf", lexer.Position{}),
		Name:  "buf",
		Kind:  ExternVector,
		Bound: num(99),
	}
	want := "buf[99];"
	if e.String() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}

func TestListInitializerNesting(t *testing.T) {
	li := &ListInitializer{
		Token: lexer.NewToken(lexer.LBRACE, "{", lexer.Position{}),
		Items: []Initializer{
			&ExprInitializer{Value: num(1)},
			&ListInitializer{
				Token: lexer.NewToken(lexer.LBRACE, "{", lexer.Position{}),
				Items: []Initializer{&ExprInitializer{Value: num(2)}},
			},
		},
	}
	want := "{1, {2}}"
	if li.String() != want {
		t.Errorf("String() = %q, want %q", li.String(), want)
	}
}
